package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// MockTransitionService is a mock implementation of service.TransitionService.
type MockTransitionService struct {
	mock.Mock
}

func (m *MockTransitionService) Transition(ctx context.Context, input service.TransitionInput) (*domain.Abstract, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockTransitionService) TransitionMany(ctx context.Context, change domain.BulkStatusChange) ([]domain.StatusUpdate, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusUpdate), args.Error(1)
}
