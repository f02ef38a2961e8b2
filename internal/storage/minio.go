package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"clientapi/internal/config"
)

// minioProvisioner provisions buckets on an S3-compatible backend (MinIO, Ceph, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioProvisioner struct {
	client *minio.Client
}

// NewMinIO creates a Provisioner backed by minio-go.
func NewMinIO(cfg config.S3Config) (Provisioner, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &minioProvisioner{client: cli}, nil
}

func (m *minioProvisioner) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ok, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, mapMinioError(err)
	}
	return ok, nil
}

func (m *minioProvisioner) CreateBucket(ctx context.Context, bucket, region string) error {
	err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
	return mapMinioError(err)
}

// DisablePublicAccessBlock has no S3-compatible equivalent; MinIO buckets have no such switch.
func (m *minioProvisioner) DisablePublicAccessBlock(context.Context, string) error {
	return ErrNotSupported
}

func (m *minioProvisioner) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	return mapMinioError(m.client.SetBucketPolicy(ctx, bucket, policy))
}

func (m *minioProvisioner) EnableVersioning(ctx context.Context, bucket string) error {
	return mapMinioError(m.client.EnableVersioning(ctx, bucket))
}

func mapMinioError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "":
		return err
	case "BucketAlreadyOwnedByYou":
		return ErrBucketAlreadyOwned
	default:
		return &ProviderError{Code: resp.Code, Message: resp.Message, Err: err}
	}
}
