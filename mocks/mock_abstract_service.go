package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// MockAbstractService is a mock implementation of service.AbstractService.
type MockAbstractService struct {
	mock.Mock
}

func (m *MockAbstractService) Submit(ctx context.Context, userID int64, input service.AbstractInput) (*domain.Abstract, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockAbstractService) ListMine(ctx context.Context, userID int64) ([]domain.Abstract, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Abstract), args.Error(1)
}

func (m *MockAbstractService) Get(ctx context.Context, id, actorID int64, role domain.UserRole) (*domain.Abstract, error) {
	args := m.Called(ctx, id, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockAbstractService) Update(ctx context.Context, id, userID int64, input service.AbstractInput) (*domain.Abstract, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockAbstractService) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockAbstractService) ListAll(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AbstractWithOwner), args.Error(1)
}

func (m *MockAbstractService) History(ctx context.Context, id int64) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}
