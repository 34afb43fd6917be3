// Package memory holds map-backed repositories with the same semantics as the
// PostgreSQL store. They back service tests and local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
)

// AbstractRepo is an in-memory port.AbstractRepository. A single RWMutex makes
// every mutation atomic with respect to readers.
type AbstractRepo struct {
	mu        sync.RWMutex
	nextID    int64
	nextHist  int64
	abstracts map[int64]*domain.Abstract
	history   []domain.StatusHistoryEntry
	users     port.UserRepository
}

var _ port.AbstractRepository = (*AbstractRepo)(nil)

// NewAbstractRepo constructs an AbstractRepo. users may be nil, in which case
// owner joins return empty contact fields.
func NewAbstractRepo(users port.UserRepository) *AbstractRepo {
	return &AbstractRepo{
		abstracts: make(map[int64]*domain.Abstract),
		users:     users,
	}
}

func (r *AbstractRepo) Create(_ context.Context, a *domain.Abstract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.nextID++
	a.ID = r.nextID
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	if a.SubmissionDate.IsZero() {
		a.SubmissionDate = now
	}
	a.UpdatedAt = now
	stored := *a
	r.abstracts[a.ID] = &stored
	return nil
}

func (r *AbstractRepo) GetByID(_ context.Context, id int64) (*domain.Abstract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.abstracts[id]
	if !ok {
		return nil, domain.ErrAbstractNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AbstractRepo) GetWithOwner(ctx context.Context, id int64) (*domain.AbstractWithOwner, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	joined := r.join(ctx, *a)
	return &joined, nil
}

func (r *AbstractRepo) ListAll(_ context.Context) ([]domain.Abstract, error) {
	return r.snapshot(func(*domain.Abstract) bool { return true }), nil
}

func (r *AbstractRepo) ListByUser(_ context.Context, userID int64) ([]domain.Abstract, error) {
	return r.snapshot(func(a *domain.Abstract) bool { return a.UserID == userID }), nil
}

func (r *AbstractRepo) ListWithOwners(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error) {
	rows := r.snapshot(func(a *domain.Abstract) bool {
		if filter.Status != "" && a.Status != filter.Status {
			return false
		}
		return filter.Category == "" || a.Category == filter.Category
	})
	out := make([]domain.AbstractWithOwner, 0, len(rows))
	for _, a := range rows {
		out = append(out, r.join(ctx, a))
	}
	return out, nil
}

func (r *AbstractRepo) ListWithOwnersByIDs(ctx context.Context, ids []int64) ([]domain.AbstractWithOwner, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	rows := r.snapshot(func(a *domain.Abstract) bool { return want[a.ID] })
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	out := make([]domain.AbstractWithOwner, 0, len(rows))
	for _, a := range rows {
		out = append(out, r.join(ctx, a))
	}
	return out, nil
}

func (r *AbstractRepo) Update(_ context.Context, a *domain.Abstract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.ownedPending(a.ID, a.UserID)
	if err != nil {
		return err
	}
	current.Title = a.Title
	current.PresenterName = a.PresenterName
	current.InstitutionName = a.InstitutionName
	current.Category = a.Category
	current.Content = a.Content
	current.CoAuthors = a.CoAuthors
	current.UpdatedAt = time.Now().UTC()
	a.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *AbstractRepo) Delete(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.ownedPending(id, userID); err != nil {
		return err
	}
	delete(r.abstracts, id)
	return nil
}

func (r *AbstractRepo) ownedPending(id, userID int64) (*domain.Abstract, error) {
	current, ok := r.abstracts[id]
	if !ok {
		return nil, domain.ErrAbstractNotFound
	}
	if current.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if current.Status != domain.StatusPending {
		return nil, domain.ErrAbstractNotEditable
	}
	return current, nil
}

func (r *AbstractRepo) UpdateStatus(_ context.Context, change domain.StatusChange) (*domain.Abstract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.abstracts[change.AbstractID]
	if !ok {
		return nil, domain.ErrAbstractNotFound
	}
	if current.Status == domain.StatusFinalSubmitted {
		return nil, domain.ErrConflictState
	}
	r.record(current.ID, current.Status, change.Status, change.Comments, change.ActorID, change.At)
	current.Status = change.Status
	current.ReviewerComments = copyString(change.Comments)
	current.UpdatedAt = change.At
	cp := *current
	return &cp, nil
}

func (r *AbstractRepo) BulkUpdateStatus(_ context.Context, change domain.BulkStatusChange) ([]domain.StatusUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := append([]int64(nil), change.IDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	updated := make([]domain.StatusUpdate, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		current, ok := r.abstracts[id]
		if !ok || seen[id] || current.Status == domain.StatusFinalSubmitted {
			continue
		}
		seen[id] = true
		r.record(id, current.Status, change.Status, change.Comments, change.ActorID, change.At)
		updated = append(updated, domain.StatusUpdate{
			ID:            id,
			Title:         current.Title,
			PresenterName: current.PresenterName,
			OldStatus:     current.Status,
			Status:        change.Status,
			UpdatedAt:     change.At,
		})
		current.Status = change.Status
		current.ReviewerComments = copyString(change.Comments)
		current.UpdatedAt = change.At
	}
	return updated, nil
}

func (r *AbstractRepo) MarkFinalSubmitted(_ context.Context, sub domain.FinalSubmission) (*domain.Abstract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.abstracts[sub.AbstractID]
	if !ok {
		return nil, domain.ErrAbstractNotFound
	}
	if current.UserID != sub.UserID {
		return nil, domain.ErrForbidden
	}
	if current.Status != domain.StatusApproved {
		return nil, domain.ErrNotApproved
	}
	actor := sub.UserID
	r.record(current.ID, current.Status, domain.StatusFinalSubmitted, nil, &actor, sub.At)
	key, name, size := sub.FileKey, sub.FileName, sub.FileSize
	current.Status = domain.StatusFinalSubmitted
	current.FinalFileKey = &key
	current.FinalFileName = &name
	current.FinalFileSize = &size
	current.UpdatedAt = sub.At
	cp := *current
	return &cp, nil
}

func (r *AbstractRepo) ListHistory(_ context.Context, abstractID int64) ([]domain.StatusHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.StatusHistoryEntry
	for _, h := range r.history {
		if h.AbstractID == abstractID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *AbstractRepo) Ping(context.Context) error { return nil }

// record appends a history entry; callers hold the write lock.
func (r *AbstractRepo) record(id int64, from, to domain.AbstractStatus, comments *string, actor *int64, at time.Time) {
	r.nextHist++
	var changedBy *int64
	if actor != nil {
		v := *actor
		changedBy = &v
	}
	r.history = append(r.history, domain.StatusHistoryEntry{
		ID:         r.nextHist,
		AbstractID: id,
		OldStatus:  from,
		NewStatus:  to,
		Comments:   copyString(comments),
		ChangedBy:  changedBy,
		ChangedAt:  at,
	})
}

func (r *AbstractRepo) snapshot(keep func(*domain.Abstract) bool) []domain.Abstract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Abstract, 0, len(r.abstracts))
	for _, a := range r.abstracts {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmissionDate.Equal(out[j].SubmissionDate) {
			return out[i].SubmissionDate.After(out[j].SubmissionDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *AbstractRepo) join(ctx context.Context, a domain.Abstract) domain.AbstractWithOwner {
	joined := domain.AbstractWithOwner{Abstract: a}
	if r.users == nil {
		return joined
	}
	if u, err := r.users.GetByID(ctx, a.UserID); err == nil {
		joined.Email = u.Email
		joined.Phone = u.Phone
		joined.OwnerFullName = u.FullName
	}
	return joined
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// UserRepo is an in-memory port.UserRepository.
type UserRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User
}

var _ port.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs a UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[int64]*domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
