package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
	"abstractdesk/mocks"
)

func strPtr(s string) *string { return &s }

func TestTransitionService_Transition_InvalidStatus(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	for _, s := range []domain.AbstractStatus{"archived", domain.StatusFinalSubmitted, ""} {
		_, err := svc.Transition(context.Background(), service.TransitionInput{
			AbstractID: 1, Status: s, ActorRole: domain.RoleAdmin,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	}
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestTransitionService_Transition_AdminAppliesChange(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(c domain.StatusChange) bool {
		return c.AbstractID == 4 &&
			c.Status == domain.StatusApproved &&
			c.Comments != nil && *c.Comments == "great work" &&
			c.ActorID != nil && *c.ActorID == 1 &&
			!c.At.IsZero()
	})).Return(&domain.Abstract{ID: 4, Status: domain.StatusApproved}, nil)

	got, err := svc.Transition(context.Background(), service.TransitionInput{
		AbstractID: 4,
		Status:     domain.StatusApproved,
		Comments:   strPtr("  great work "),
		ActorID:    1,
		ActorRole:  domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	repo.AssertExpectations(t)
}

func TestTransitionService_Transition_PendingClearsComments(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(c domain.StatusChange) bool {
		return c.Comments == nil
	})).Return(&domain.Abstract{ID: 4, Status: domain.StatusPending}, nil)

	_, err := svc.Transition(context.Background(), service.TransitionInput{
		AbstractID: 4, Status: domain.StatusPending, Comments: strPtr("ignored"), ActorRole: domain.RoleAdmin,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTransitionService_Transition_DelegateNotOwner(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	repo.On("GetByID", mock.Anything, int64(4)).Return(&domain.Abstract{ID: 4, UserID: 99}, nil)

	_, err := svc.Transition(context.Background(), service.TransitionInput{
		AbstractID: 4, Status: domain.StatusPending, ActorID: 7, ActorRole: domain.RoleDelegate,
	})
	assert.ErrorIs(t, err, domain.ErrConflictState)
}

func TestTransitionService_Transition_DelegateCannotApprove(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	repo.On("GetByID", mock.Anything, int64(4)).Return(&domain.Abstract{ID: 4, UserID: 7}, nil)

	_, err := svc.Transition(context.Background(), service.TransitionInput{
		AbstractID: 4, Status: domain.StatusApproved, ActorID: 7, ActorRole: domain.RoleDelegate,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransitionService_Transition_NotFound(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil, domain.ErrAbstractNotFound)

	_, err := svc.Transition(context.Background(), service.TransitionInput{
		AbstractID: 404, Status: domain.StatusRejected, ActorRole: domain.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrAbstractNotFound)
}

func TestTransitionService_TransitionMany_WrapsTransactionError(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	repo.On("BulkUpdateStatus", mock.Anything, mock.Anything).
		Return(nil, &domain.TransactionError{Op: domain.TxOpCommit, Err: errors.New("conn reset")})

	_, err := svc.TransitionMany(context.Background(), domain.BulkStatusChange{
		IDs: []int64{1}, Status: domain.StatusApproved, At: time.Now(),
	})
	var txErr *domain.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, domain.TxOpCommit, txErr.Op)
}

func TestTransitionService_TransitionMany_RejectsEmpty(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	svc := service.NewTransitionService(repo)

	_, err := svc.TransitionMany(context.Background(), domain.BulkStatusChange{Status: domain.StatusApproved})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "BulkUpdateStatus", mock.Anything, mock.Anything)
}
