package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"clientapi/internal/logger"
	"clientapi/internal/model"
)

// Package storage provisions the per-client S3 buckets.
// Backends speak to AWS S3 or any S3-compatible store; the provisioning flow itself is backend-neutral.

var (
	// ErrUnavailable is returned by every call when no object store is configured.
	ErrUnavailable = errors.New("S3 client not available")
	// ErrBucketAlreadyOwned is returned by CreateBucket when the caller already owns the bucket.
	ErrBucketAlreadyOwned = errors.New("bucket already owned by you")
	// ErrNotSupported is returned for operations the backend has no equivalent for.
	ErrNotSupported = errors.New("operation not supported by object store")
)

// usEast1 is the only region where CreateBucket must omit the location constraint.
const usEast1 = "us-east-1"

// ProviderError is an error reported by the object store with a machine-readable code.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provisioner is the set of bucket-level operations needed to set up a client bucket.
type Provisioner interface {
	// BucketExists reports whether the bucket exists and is reachable with the current credentials.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// CreateBucket creates the bucket in region. Returns ErrBucketAlreadyOwned if it is already ours.
	CreateBucket(ctx context.Context, bucket, region string) error
	// DisablePublicAccessBlock turns off every "block public access" switch on the bucket.
	DisablePublicAccessBlock(ctx context.Context, bucket string) error
	// PutBucketPolicy replaces the bucket policy with the given JSON document.
	PutBucketPolicy(ctx context.Context, bucket, policy string) error
	// EnableVersioning turns on object versioning.
	EnableVersioning(ctx context.Context, bucket string) error
}

type policyStatement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// PublicReadPolicy returns a bucket policy granting anonymous s3:GetObject on every object.
func PublicReadPolicy(bucket string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicReadGetObject",
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EnsureBucket creates bucket in region unless it already exists, then makes it
// publicly readable and versioned. The follow-up steps are best effort: a failure
// there is logged and the bucket still counts as created.
//
// EnsureBucket never returns an error; the outcome is described by the result's Status.
func EnsureBucket(ctx context.Context, p Provisioner, bucket, region string) model.BucketResult {
	ctx = logger.WithFields(ctx, zap.String("bucket", bucket), zap.String("region", region))

	exists, err := p.BucketExists(ctx, bucket)
	if err != nil {
		return failed(ctx, bucket, region, err)
	}
	if exists {
		logger.Info(ctx, "bucket already exists")
		return model.BucketResult{
			Status:     model.BucketExists,
			Message:    fmt.Sprintf("Bucket %s already exists", bucket),
			BucketName: bucket,
			Region:     region,
		}
	}

	if err := p.CreateBucket(ctx, bucket, region); err != nil {
		if errors.Is(err, ErrBucketAlreadyOwned) {
			logger.Info(ctx, "bucket already owned by us")
			return model.BucketResult{
				Status:     model.BucketExists,
				Message:    fmt.Sprintf("Bucket %s already owned by you", bucket),
				BucketName: bucket,
				Region:     region,
			}
		}
		return failed(ctx, bucket, region, err)
	}

	bestEffort(ctx, "disable public access block", p.DisablePublicAccessBlock(ctx, bucket))

	policy, err := PublicReadPolicy(bucket)
	if err == nil {
		err = p.PutBucketPolicy(ctx, bucket, policy)
	}
	bestEffort(ctx, "apply public read policy", err)

	bestEffort(ctx, "enable versioning", p.EnableVersioning(ctx, bucket))

	logger.Info(ctx, "bucket created")
	return model.BucketResult{
		Status:     model.BucketCreated,
		Message:    fmt.Sprintf("Bucket %s created successfully", bucket),
		BucketName: bucket,
		Region:     region,
	}
}

func bestEffort(ctx context.Context, step string, err error) {
	switch {
	case err == nil:
		logger.Debug(ctx, "bucket step done", zap.String("step", step))
	case errors.Is(err, ErrNotSupported):
		logger.Debug(ctx, "bucket step skipped", zap.String("step", step))
	default:
		logger.Warn(ctx, "bucket step failed", zap.String("step", step), zap.Error(err))
	}
}

func failed(ctx context.Context, bucket, region string, err error) model.BucketResult {
	if errors.Is(err, ErrUnavailable) {
		logger.Error(ctx, "object store not configured")
		return model.BucketResult{
			Status:     model.BucketError,
			Message:    ErrUnavailable.Error(),
			BucketName: bucket,
		}
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		logger.Error(ctx, "bucket provisioning failed", zap.String("error_code", pe.Code), zap.Error(err))
		msg := pe.Message
		if msg == "" {
			msg = pe.Code
		}
		return model.BucketResult{
			Status:     model.BucketError,
			Message:    "Failed to create bucket: " + msg,
			BucketName: bucket,
			Region:     region,
			ErrorCode:  pe.Code,
		}
	}

	logger.Error(ctx, "unexpected bucket provisioning error", zap.Error(err))
	return model.BucketResult{
		Status:     model.BucketError,
		Message:    "Unexpected error: " + err.Error(),
		BucketName: bucket,
		Region:     region,
	}
}

type unavailable struct{}

// Unavailable returns a Provisioner whose every call fails with ErrUnavailable.
func Unavailable() Provisioner { return unavailable{} }

func (unavailable) BucketExists(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (unavailable) CreateBucket(context.Context, string, string) error {
	return ErrUnavailable
}

func (unavailable) DisablePublicAccessBlock(context.Context, string) error {
	return ErrUnavailable
}

func (unavailable) PutBucketPolicy(context.Context, string, string) error {
	return ErrUnavailable
}

func (unavailable) EnableVersioning(context.Context, string) error {
	return ErrUnavailable
}
