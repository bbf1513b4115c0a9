package storage

import (
	"errors"
	"io"
)

// progressCounter turns byte counts into ProgressEvents. minio-go feeds its
// Progress reader one Read per chunk sent, with len(p) equal to the chunk
// size; the S3 driver wraps the body so every Read is counted instead.
type progressCounter struct {
	total  int64
	loaded int64
	fn     ProgressFunc
}

// newProgressCounter returns nil when there is nobody to notify.
func newProgressCounter(total int64, fn ProgressFunc) *progressCounter {
	if fn == nil {
		return nil
	}
	return &progressCounter{total: total, fn: fn}
}

// advanceTo reports pos if it moves past what was already reported.
func (p *progressCounter) advanceTo(pos int64) {
	if pos > p.total {
		pos = p.total
	}
	if pos <= p.loaded {
		return
	}
	p.loaded = pos
	p.fn(ProgressEvent{
		Loaded:     p.loaded,
		Total:      p.total,
		Percentage: float64(p.loaded) * 100 / float64(p.total),
	})
}

// Read implements the io.Reader minio-go expects for PutObjectOptions.Progress.
func (p *progressCounter) Read(b []byte) (int, error) {
	p.advanceTo(p.loaded + int64(len(b)))
	return len(b), nil
}

// countingReader reports the furthest offset read from r. It stays
// seekable so the SDK can rewind the body for signing and retries without
// progress ever moving backwards. When the SDK hashes the payload before
// sending, that first pass already reaches Total, so events track bytes
// read from the body rather than bytes on the wire.
type countingReader struct {
	r   io.ReadSeeker
	pos int64
	c   *progressCounter
}

func (cr *countingReader) Read(b []byte) (int, error) {
	n, err := cr.r.Read(b)
	cr.pos += int64(n)
	cr.c.advanceTo(cr.pos)
	return n, err
}

func (cr *countingReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := cr.r.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	cr.pos = pos
	return pos, nil
}
