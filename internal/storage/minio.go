package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAPI is the subset of *minio.Client used after setup; allows test fakes.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStore implements BlobStore using a MinIO (or any S3-compatible) backend.
type MinioStore struct {
	client     minioAPI
	transport  *http.Transport
	bucket     string
	publicBase string
}

// MinioOptions carries the connection settings for NewMinioStore.
type MinioOptions struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string
	UseSSL     bool
}

// NewMinioStore creates a MinIO client, ensures the bucket exists with a
// public-read policy, and returns a ready-to-use MinioStore.
func NewMinioStore(ctx context.Context, o MinioOptions) (*MinioStore, error) {
	transport, err := minio.DefaultTransport(o.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure:    o.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, o.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", o.Bucket, err)
		}
	}

	if err := client.SetBucketPolicy(ctx, o.Bucket, publicReadPolicy(o.Bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStore{
		client:     client,
		transport:  transport,
		bucket:     o.Bucket,
		publicBase: o.PublicBase,
	}, nil
}

// Put uploads body under key, or under a suffixed variant of key when
// opts.AddRandomSuffix is set.
func (s *MinioStore) Put(ctx context.Context, key string, body []byte, opts PutOptions) (Blob, error) {
	pathname, err := resolveKey(key, opts)
	if err != nil {
		return Blob{}, err
	}

	putOpts := minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: map[string]string{"x-amz-acl": cannedACL(opts.Access)},
	}
	if pc := newProgressCounter(int64(len(body)), opts.OnProgress); pc != nil {
		putOpts.Progress = pc
	}

	_, err = s.client.PutObject(ctx, s.bucket, pathname, bytes.NewReader(body), int64(len(body)), putOpts)
	if err != nil {
		return Blob{}, fmt.Errorf("put object %q: %w", pathname, err)
	}
	return Blob{URL: s.PublicURL(pathname), Pathname: pathname}, nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/results/results/file-<id>.png"
func (s *MinioStore) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}

// Close drops idle connections held by the client's transport.
func (s *MinioStore) Close() error {
	if s.transport != nil {
		s.transport.CloseIdleConnections()
	}
	return nil
}

func cannedACL(a Access) string {
	if a == AccessPublic {
		return "public-read"
	}
	return "private"
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
