package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyBulk(ctx context.Context, recipients []service.Recipient, status domain.AbstractStatus, comments *string) *service.DispatchSummary {
	args := m.Called(ctx, recipients, status, comments)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.DispatchSummary)
}

func (m *MockNotificationService) NotifyAbstracts(ctx context.Context, ids []int64, status domain.AbstractStatus, comments *string) (*service.DispatchSummary, error) {
	args := m.Called(ctx, ids, status, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchSummary), args.Error(1)
}

func (m *MockNotificationService) NotifyStatusUpdate(ctx context.Context, abstractID int64, status domain.AbstractStatus, comments *string) (*service.DispatchSummary, error) {
	args := m.Called(ctx, abstractID, status, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchSummary), args.Error(1)
}

func (m *MockNotificationService) SendTest(ctx context.Context, to string) (*service.DispatchSummary, error) {
	args := m.Called(ctx, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchSummary), args.Error(1)
}
