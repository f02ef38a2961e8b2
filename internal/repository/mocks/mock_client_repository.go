package mocks

import (
	"context"
	"time"

	"clientapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, cfg *model.ClientConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, clientID string) (*model.ClientConfig, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientConfig), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]model.ClientConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClientConfig), args.Error(1)
}

func (m *MockClientRepository) UpdateSystemPrompt(ctx context.Context, clientID, prompt string, at time.Time) (*model.ClientConfig, error) {
	args := m.Called(ctx, clientID, prompt, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientConfig), args.Error(1)
}

func (m *MockClientRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
