package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the minimal subset of s3 client methods we use; allows test fakes.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements BlobStore on AWS S3 (or an S3 endpoint set through
// AWS_ENDPOINT_URL_S3).
type S3Store struct {
	client     s3API
	transport  *http.Transport
	bucket     string
	publicBase string
}

// NewS3Store creates an S3 client from the default AWS config chain.
// Env support: AWS_REGION, AWS_ENDPOINT_URL_S3, AWS_S3_FORCE_PATH_STYLE.
func NewS3Store(ctx context.Context, bucket, publicBase string) (*S3Store, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithHTTPClient(&http.Client{Transport: transport}))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := os.Getenv("AWS_ENDPOINT_URL_S3"); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
		if strings.EqualFold(os.Getenv("AWS_S3_FORCE_PATH_STYLE"), "true") {
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:     client,
		transport:  transport,
		bucket:     bucket,
		publicBase: publicBase,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, opts PutOptions) (Blob, error) {
	pathname, err := resolveKey(key, opts)
	if err != nil {
		return Blob{}, err
	}

	var r io.Reader = bytes.NewReader(body)
	if pc := newProgressCounter(int64(len(body)), opts.OnProgress); pc != nil {
		r = &countingReader{r: bytes.NewReader(body), c: pc}
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(pathname),
		Body:          r,
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           types.ObjectCannedACL(cannedACL(opts.Access)),
	}
	if opts.ContentType != "" {
		in.ContentType = aws.String(opts.ContentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return Blob{}, fmt.Errorf("put object %q: %w", pathname, err)
	}
	return Blob{URL: joinURL(s.publicBase, pathname), Pathname: pathname}, nil
}

func (s *S3Store) Close() error {
	if s.transport != nil {
		s.transport.CloseIdleConnections()
	}
	return nil
}
