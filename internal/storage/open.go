package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/radif/upload-results/internal/config"
)

// Open returns an OpenFunc for the driver named in cfg.BlobDriver. The
// client is only built when the returned function is called.
func Open(cfg *config.Config) OpenFunc {
	return func(ctx context.Context) (BlobStore, error) {
		switch strings.ToLower(cfg.BlobDriver) {
		case "", "minio":
			s, err := NewMinioStore(ctx, MinioOptions{
				Endpoint:   cfg.StorageEndpoint,
				AccessKey:  cfg.StorageAccessKey,
				SecretKey:  cfg.StorageSecretKey,
				Bucket:     cfg.StorageBucket,
				PublicBase: cfg.StoragePublicBase,
				UseSSL:     cfg.StorageUseSSL,
			})
			if err != nil {
				return nil, err
			}
			return s, nil
		case "s3":
			s, err := NewS3Store(ctx, cfg.StorageBucket, cfg.StoragePublicBase)
			if err != nil {
				return nil, err
			}
			return s, nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.BlobDriver)
		}
	}
}
