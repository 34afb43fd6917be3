package port

import (
	"context"

	"abstractdesk/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AbstractRepository is the Abstract Store: the single source of truth for
// abstract rows and their review status.
type AbstractRepository interface {
	Create(ctx context.Context, abstract *domain.Abstract) error
	GetByID(ctx context.Context, id int64) (*domain.Abstract, error)
	GetWithOwner(ctx context.Context, id int64) (*domain.AbstractWithOwner, error)
	ListAll(ctx context.Context) ([]domain.Abstract, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Abstract, error)
	ListWithOwners(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error)
	ListWithOwnersByIDs(ctx context.Context, ids []int64) ([]domain.AbstractWithOwner, error)

	// Update rewrites the descriptive payload of a pending abstract owned by abstract.UserID.
	Update(ctx context.Context, abstract *domain.Abstract) error
	// Delete removes a pending abstract owned by userID.
	Delete(ctx context.Context, id, userID int64) error

	// UpdateStatus applies one review transition together with its history row.
	UpdateStatus(ctx context.Context, change domain.StatusChange) (*domain.Abstract, error)
	// BulkUpdateStatus applies change to every matching row in one transaction
	// and returns the rows that were updated. Database failures are returned as
	// *domain.TransactionError with nothing committed.
	BulkUpdateStatus(ctx context.Context, change domain.BulkStatusChange) ([]domain.StatusUpdate, error)
	// MarkFinalSubmitted moves an approved abstract to final_submitted.
	MarkFinalSubmitted(ctx context.Context, sub domain.FinalSubmission) (*domain.Abstract, error)

	ListHistory(ctx context.Context, abstractID int64) ([]domain.StatusHistoryEntry, error)
	Ping(ctx context.Context) error
}
