package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvisioner) CreateBucket(ctx context.Context, bucket, region string) error {
	args := m.Called(ctx, bucket, region)
	return args.Error(0)
}

func (m *MockProvisioner) DisablePublicAccessBlock(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockProvisioner) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	args := m.Called(ctx, bucket, policy)
	return args.Error(0)
}

func (m *MockProvisioner) EnableVersioning(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}
