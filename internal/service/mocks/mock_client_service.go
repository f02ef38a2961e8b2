package mocks

import (
	"context"

	"clientapi/internal/model"
	"clientapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, in service.CreateClientInput) (*service.CreateClientResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreateClientResult), args.Error(1)
}

func (m *MockClientService) List(ctx context.Context) ([]model.ClientConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClientConfig), args.Error(1)
}

func (m *MockClientService) Get(ctx context.Context, clientID string) (*model.ClientConfig, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientConfig), args.Error(1)
}

func (m *MockClientService) UpdateSystemPrompt(ctx context.Context, clientID, prompt string) (*model.ClientConfig, error) {
	args := m.Called(ctx, clientID, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientConfig), args.Error(1)
}
