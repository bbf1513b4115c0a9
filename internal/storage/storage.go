// Package storage defines the interface for blob storage operations.
// Swap implementations by changing the driver selected at startup. MinIO
// works with any S3-compatible provider; the S3 driver talks to AWS through
// the default credential chain.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrUnknownDriver is returned by Open for an unrecognised BLOB_DRIVER.
	ErrUnknownDriver = errors.New("unknown blob driver")
	// ErrEmptyKey is returned by Put when no key is given.
	ErrEmptyKey = errors.New("empty object key")
)

// Access controls who may read a stored blob.
type Access string

const (
	AccessPublic  Access = "public"
	AccessPrivate Access = "private"
)

// ProgressEvent reports how much of a body has been sent. Loaded never
// decreases across events for a single Put.
type ProgressEvent struct {
	Loaded     int64
	Total      int64
	Percentage float64
}

// ProgressFunc observes upload progress. It may be called zero or more times.
type ProgressFunc func(ProgressEvent)

// PutOptions controls how a blob is stored.
type PutOptions struct {
	Access          Access
	AddRandomSuffix bool
	ContentType     string
	OnProgress      ProgressFunc
}

// Blob describes a stored object.
type Blob struct {
	// URL is the browser-accessible address of the object.
	URL string
	// Pathname is the key the object was stored under, including any suffix.
	Pathname string
}

// BlobStore is the interface for storing blobs and releasing the client.
type BlobStore interface {
	// Put stores body under key and returns where it ended up.
	Put(ctx context.Context, key string, body []byte, opts PutOptions) (Blob, error)
	// Close releases idle connections held by the client.
	Close() error
}

// OpenFunc constructs a BlobStore on demand.
type OpenFunc func(ctx context.Context) (BlobStore, error)
