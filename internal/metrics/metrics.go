// Package metrics counts upload outcomes and optionally pushes them to a
// Prometheus Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "result_uploader"

// Recorder holds the collectors for one run on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	uploads  *prometheus.CounterVec
	bytes    prometheus.Counter
}

// New registers collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Files attempted, by outcome (ok or failed).",
		}, []string{"outcome"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes of successfully uploaded files.",
		}),
	}
	r.registry.MustRegister(r.uploads, r.bytes)
	return r
}

// Uploaded records a successful upload of size bytes. Safe on a nil Recorder.
func (r *Recorder) Uploaded(size int) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues("ok").Inc()
	r.bytes.Add(float64(size))
}

// Failed records a skipped file. Safe on a nil Recorder.
func (r *Recorder) Failed() {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues("failed").Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push sends the current values to the Pushgateway at url under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
