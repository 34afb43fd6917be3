package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
)

// TransitionInput is a single review transition request.
type TransitionInput struct {
	AbstractID int64
	Status     domain.AbstractStatus
	Comments   *string
	ActorID    int64
	ActorRole  domain.UserRole
}

// TransitionService validates and applies status changes. It has no side
// effects beyond the store; callers own notification.
type TransitionService interface {
	Transition(ctx context.Context, input TransitionInput) (*domain.Abstract, error)
	TransitionMany(ctx context.Context, change domain.BulkStatusChange) ([]domain.StatusUpdate, error)
}

type transitionService struct {
	abstractRepo port.AbstractRepository
	now          func() time.Time
}

// NewTransitionService creates a new TransitionService implementation.
func NewTransitionService(abstractRepo port.AbstractRepository) TransitionService {
	return &transitionService{
		abstractRepo: abstractRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *transitionService) Transition(ctx context.Context, input TransitionInput) (*domain.Abstract, error) {
	if !input.Status.IsReviewTarget() {
		return nil, domain.ErrInvalidStatus
	}

	if input.ActorRole != domain.RoleAdmin {
		current, err := s.abstractRepo.GetByID(ctx, input.AbstractID)
		if err != nil {
			return nil, err
		}
		if current.UserID != input.ActorID {
			return nil, domain.ErrConflictState
		}
		// Delegates may only withdraw their abstract back to pending.
		if input.Status != domain.StatusPending {
			return nil, domain.ErrForbidden
		}
	}

	actor := input.ActorID
	updated, err := s.abstractRepo.UpdateStatus(ctx, domain.StatusChange{
		AbstractID: input.AbstractID,
		Status:     input.Status,
		Comments:   reviewComments(input.Status, input.Comments),
		ActorID:    &actor,
		At:         s.now(),
	})
	if err != nil {
		return nil, err
	}

	logging.LoggerFrom(ctx).Info("abstract status changed",
		"abstract_id", updated.ID,
		"status", updated.Status,
		"actor_id", actor,
	)
	return updated, nil
}

func (s *transitionService) TransitionMany(ctx context.Context, change domain.BulkStatusChange) ([]domain.StatusUpdate, error) {
	if !change.Status.IsReviewTarget() {
		return nil, domain.ErrInvalidStatus
	}
	if len(change.IDs) == 0 {
		return nil, domain.NewValidationError("abstractIds", "must contain at least one identifier")
	}
	change.Comments = reviewComments(change.Status, change.Comments)
	if change.At.IsZero() {
		change.At = s.now()
	}

	updated, err := s.abstractRepo.BulkUpdateStatus(ctx, change)
	if err != nil {
		return nil, fmt.Errorf("transitionService.TransitionMany: %w", err)
	}
	return updated, nil
}

// reviewComments normalizes comments: blank text is dropped, and a move back to
// pending clears any previous review comments.
func reviewComments(target domain.AbstractStatus, comments *string) *string {
	if target == domain.StatusPending || comments == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comments)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
