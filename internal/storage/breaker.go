package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"clientapi/internal/logger"
)

// BreakerConfig holds circuit breaker settings for the object store.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings used in production.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "object-store",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// breakerProvisioner short-circuits calls to a failing object store.
type breakerProvisioner struct {
	next Provisioner
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps p so repeated infrastructure failures open the circuit.
// Answers such as "already owned" or "not supported" do not count as failures.
func WithBreaker(p Provisioner, cfg BreakerConfig) Provisioner {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrBucketAlreadyOwned) ||
				errors.Is(err, ErrNotSupported)
		},
	})
	return &breakerProvisioner{next: p, cb: cb}
}

func (b *breakerProvisioner) do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (b *breakerProvisioner) BucketExists(ctx context.Context, bucket string) (bool, error) {
	var exists bool
	err := b.do(func() error {
		var err error
		exists, err = b.next.BucketExists(ctx, bucket)
		return err
	})
	return exists, err
}

func (b *breakerProvisioner) CreateBucket(ctx context.Context, bucket, region string) error {
	return b.do(func() error { return b.next.CreateBucket(ctx, bucket, region) })
}

func (b *breakerProvisioner) DisablePublicAccessBlock(ctx context.Context, bucket string) error {
	return b.do(func() error { return b.next.DisablePublicAccessBlock(ctx, bucket) })
}

func (b *breakerProvisioner) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	return b.do(func() error { return b.next.PutBucketPolicy(ctx, bucket, policy) })
}

func (b *breakerProvisioner) EnableVersioning(ctx context.Context, bucket string) error {
	return b.do(func() error { return b.next.EnableVersioning(ctx, bucket) })
}
