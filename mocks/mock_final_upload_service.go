package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// MockFinalUploadService is a mock implementation of service.FinalUploadService.
type MockFinalUploadService struct {
	mock.Mock
}

func (m *MockFinalUploadService) Upload(ctx context.Context, input service.FinalUploadInput) (*domain.Abstract, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Abstract), args.Error(1)
}

func (m *MockFinalUploadService) Status(ctx context.Context, abstractID, actorID int64, role domain.UserRole) (*service.FinalUploadStatus, error) {
	args := m.Called(ctx, abstractID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FinalUploadStatus), args.Error(1)
}
