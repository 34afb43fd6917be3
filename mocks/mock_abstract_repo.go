package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/domain"
)

// MockAbstractRepo is a mock implementation of port.AbstractRepository.
type MockAbstractRepo struct {
	mock.Mock
}

func (m *MockAbstractRepo) Create(ctx context.Context, abstract *domain.Abstract) error {
	args := m.Called(ctx, abstract)
	return args.Error(0)
}

func (m *MockAbstractRepo) GetByID(ctx context.Context, id int64) (*domain.Abstract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockAbstractRepo) GetWithOwner(ctx context.Context, id int64) (*domain.AbstractWithOwner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AbstractWithOwner), args.Error(1)
}

func (m *MockAbstractRepo) ListAll(ctx context.Context) ([]domain.Abstract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Abstract), args.Error(1)
}

func (m *MockAbstractRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Abstract, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Abstract), args.Error(1)
}

func (m *MockAbstractRepo) ListWithOwners(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AbstractWithOwner), args.Error(1)
}

func (m *MockAbstractRepo) ListWithOwnersByIDs(ctx context.Context, ids []int64) ([]domain.AbstractWithOwner, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AbstractWithOwner), args.Error(1)
}

func (m *MockAbstractRepo) Update(ctx context.Context, abstract *domain.Abstract) error {
	args := m.Called(ctx, abstract)
	return args.Error(0)
}

func (m *MockAbstractRepo) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockAbstractRepo) UpdateStatus(ctx context.Context, change domain.StatusChange) (*domain.Abstract, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockAbstractRepo) BulkUpdateStatus(ctx context.Context, change domain.BulkStatusChange) ([]domain.StatusUpdate, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusUpdate), args.Error(1)
}

func (m *MockAbstractRepo) MarkFinalSubmitted(ctx context.Context, sub domain.FinalSubmission) (*domain.Abstract, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockAbstractRepo) ListHistory(ctx context.Context, abstractID int64) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, abstractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}

func (m *MockAbstractRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
