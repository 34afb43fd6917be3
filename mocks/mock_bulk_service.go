package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// MockBulkService is a mock implementation of service.BulkService.
type MockBulkService struct {
	mock.Mock
}

func (m *MockBulkService) BulkTransition(ctx context.Context, input service.BulkUpdateInput) (*service.BulkResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkResult), args.Error(1)
}

func (m *MockBulkService) Snapshot(ctx context.Context, id int64) (*domain.Abstract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockBulkService) Health(ctx context.Context) (*service.BulkHealth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkHealth), args.Error(1)
}
