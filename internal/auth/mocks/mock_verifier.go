package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clientapi/internal/model"
)

// MockVerifier is a testify mock for auth.Verifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, idToken string) (model.UserInfo, error) {
	args := m.Called(ctx, idToken)
	return args.Get(0).(model.UserInfo), args.Error(1)
}
