// Package uploader publishes the files of a results directory to blob
// storage and renders the outcome as markdown.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radif/upload-results/internal/metrics"
	"github.com/radif/upload-results/internal/storage"
)

// DefaultDir is the directory scanned when none is configured.
const DefaultDir = "./results"

// Candidate is a regular file found in the results directory.
type Candidate struct {
	Name string
	Path string
}

// Result is a successfully uploaded file.
type Result struct {
	Filename  string
	URL       string
	Pathname  string
	MediaType string
}

// Report lists successful uploads in directory enumeration order.
type Report struct {
	Dir     string
	Results []Result
}

// outcome is the per-candidate result; only successes reach the Report.
type outcome struct {
	result Result
	err    error
}

// Uploader drives one pass over a results directory.
type Uploader struct {
	open        storage.OpenFunc
	log         *zap.Logger
	metrics     *metrics.Recorder
	concurrency int
	keyPrefix   string
	onProgress  storage.ProgressFunc
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.log = l
		}
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(u *Uploader) { u.metrics = m }
}

// WithConcurrency bounds the number of uploads in flight. Values below 1
// mean sequential.
func WithConcurrency(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

// WithKeyPrefix changes the storage namespace files are uploaded under.
func WithKeyPrefix(prefix string) Option {
	return func(u *Uploader) { u.keyPrefix = prefix }
}

// WithProgress installs a progress observer passed to every Put.
func WithProgress(fn storage.ProgressFunc) Option {
	return func(u *Uploader) {
		if fn != nil {
			u.onProgress = fn
		}
	}
}

// ignoreProgress is the default observer; progress is not displayed.
func ignoreProgress(storage.ProgressEvent) {}

// New returns an Uploader that opens its store through open.
func New(open storage.OpenFunc, opts ...Option) *Uploader {
	u := &Uploader{
		open:        open,
		log:         zap.NewNop(),
		concurrency: 1,
		keyPrefix:   "results",
		onProgress:  ignoreProgress,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// KeyFor returns the storage key for filename before any suffix is added.
func (u *Uploader) KeyFor(filename string) string {
	return path.Join(u.keyPrefix, filename)
}

// Run uploads every regular file at the top level of dir. It never fails:
// a missing or empty directory yields an empty Report, and files that
// cannot be read or stored are left out of it.
func (u *Uploader) Run(ctx context.Context, dir string) Report {
	report := Report{Dir: dir}

	candidates, err := listCandidates(dir)
	if err != nil {
		u.log.Debug("results directory unavailable", zap.String("dir", dir), zap.Error(err))
		return report
	}
	if len(candidates) == 0 {
		return report
	}

	outcomes := u.uploadAll(ctx, candidates)
	for i, o := range outcomes {
		if o.err != nil {
			u.metrics.Failed()
			u.log.Debug("skipping file", zap.String("file", candidates[i].Name), zap.Error(o.err))
			continue
		}
		report.Results = append(report.Results, o.result)
	}
	return report
}

func (u *Uploader) uploadAll(ctx context.Context, candidates []Candidate) []outcome {
	outcomes := make([]outcome, len(candidates))

	store, err := u.open(ctx)
	if err != nil {
		err = fmt.Errorf("open blob store: %w", err)
		for i := range outcomes {
			outcomes[i].err = err
		}
		return outcomes
	}
	defer func() {
		if err := store.Close(); err != nil {
			u.log.Debug("close blob store", zap.Error(err))
		}
	}()

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = u.safeUploadOne(ctx, store, c)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// safeUploadOne turns a panicking store into an ordinary per-file failure.
func (u *Uploader) safeUploadOne(ctx context.Context, store storage.BlobStore, c Candidate) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("upload %s: panic: %v", c.Name, r)}
		}
	}()
	res, err := u.uploadOne(ctx, store, c)
	return outcome{result: res, err: err}
}

func (u *Uploader) uploadOne(ctx context.Context, store storage.BlobStore, c Candidate) (Result, error) {
	body, err := os.ReadFile(c.Path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", c.Name, err)
	}

	mediaType := GuessMediaType(c.Name)
	blob, err := store.Put(ctx, u.KeyFor(c.Name), body, storage.PutOptions{
		Access:          storage.AccessPublic,
		AddRandomSuffix: true,
		ContentType:     mediaType,
		OnProgress:      u.onProgress,
	})
	if err != nil {
		return Result{}, fmt.Errorf("upload %s: %w", c.Name, err)
	}

	u.metrics.Uploaded(len(body))
	u.log.Debug("uploaded file",
		zap.String("file", c.Name),
		zap.String("pathname", blob.Pathname),
		zap.String("size", humanize.Bytes(uint64(len(body)))),
	)
	return Result{
		Filename:  c.Name,
		URL:       blob.URL,
		Pathname:  blob.Pathname,
		MediaType: mediaType,
	}, nil
}

// listCandidates returns the regular files directly inside dir, in the
// order os.ReadDir yields them. Symlinks count when their target is a
// regular file. A missing directory is reported as empty.
func listCandidates(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if !isRegularFile(e, p) {
			continue
		}
		out = append(out, Candidate{Name: e.Name(), Path: p})
	}
	return out, nil
}

// isRegularFile follows a symlink to classify its target; broken links
// are not files.
func isRegularFile(e fs.DirEntry, p string) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
