package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
)

const abstractWithOwnerSelect = `SELECT a.*,
		COALESCE(u.email, '') AS email,
		COALESCE(u.phone, '') AS phone,
		COALESCE(u.full_name, '') AS owner_full_name
	FROM abstracts a
	LEFT JOIN users u ON u.id = a.user_id`

const insertHistoryQuery = `INSERT INTO abstract_status_history
		(abstract_id, old_status, new_status, comments, changed_by, changed_at)
		VALUES (:abstract_id, :old_status, :new_status, :comments, :changed_by, :changed_at)`

type historyRow struct {
	AbstractID int64                 `db:"abstract_id"`
	OldStatus  domain.AbstractStatus `db:"old_status"`
	NewStatus  domain.AbstractStatus `db:"new_status"`
	Comments   sql.NullString        `db:"comments"`
	ChangedBy  sql.NullInt64         `db:"changed_by"`
	ChangedAt  time.Time             `db:"changed_at"`
}

type lockedRow struct {
	ID     int64                 `db:"id"`
	UserID int64                 `db:"user_id"`
	Status domain.AbstractStatus `db:"status"`
}

type abstractRepo struct {
	db *sqlx.DB
}

// NewAbstractRepo creates a new PostgreSQL-backed AbstractRepository.
func NewAbstractRepo(db *sqlx.DB) port.AbstractRepository {
	return &abstractRepo{db: db}
}

func (r *abstractRepo) Create(ctx context.Context, a *domain.Abstract) error {
	now := time.Now().UTC()
	a.SubmissionDate = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = domain.StatusPending
	}

	query := `INSERT INTO abstracts (user_id, abstract_number, title, presenter_name,
		institution_name, category, abstract_content, co_authors, status,
		registration_id, submission_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := r.db.GetContext(ctx, &a.ID, query,
		a.UserID, a.AbstractNumber, a.Title, a.PresenterName,
		a.InstitutionName, a.Category, a.Content, a.CoAuthors, a.Status,
		a.RegistrationID, a.SubmissionDate, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("abstractRepo.Create: %w", err)
	}
	return nil
}

func (r *abstractRepo) GetByID(ctx context.Context, id int64) (*domain.Abstract, error) {
	var a domain.Abstract
	err := r.db.GetContext(ctx, &a, "SELECT * FROM abstracts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAbstractNotFound
		}
		return nil, fmt.Errorf("abstractRepo.GetByID: %w", err)
	}
	return &a, nil
}

func (r *abstractRepo) GetWithOwner(ctx context.Context, id int64) (*domain.AbstractWithOwner, error) {
	var a domain.AbstractWithOwner
	err := r.db.GetContext(ctx, &a, abstractWithOwnerSelect+" WHERE a.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAbstractNotFound
		}
		return nil, fmt.Errorf("abstractRepo.GetWithOwner: %w", err)
	}
	return &a, nil
}

func (r *abstractRepo) ListAll(ctx context.Context) ([]domain.Abstract, error) {
	var abstracts []domain.Abstract
	if err := r.db.SelectContext(ctx, &abstracts,
		"SELECT * FROM abstracts ORDER BY submission_date DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("abstractRepo.ListAll: %w", err)
	}
	return abstracts, nil
}

func (r *abstractRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Abstract, error) {
	var abstracts []domain.Abstract
	if err := r.db.SelectContext(ctx, &abstracts,
		"SELECT * FROM abstracts WHERE user_id = $1 ORDER BY submission_date DESC, id DESC", userID); err != nil {
		return nil, fmt.Errorf("abstractRepo.ListByUser: %w", err)
	}
	return abstracts, nil
}

func (r *abstractRepo) ListWithOwners(ctx context.Context, filter domain.AbstractFilter) ([]domain.AbstractWithOwner, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("a.category = $%d", len(args)))
	}

	query := abstractWithOwnerSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY a.submission_date DESC, a.id DESC"

	var rows []domain.AbstractWithOwner
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("abstractRepo.ListWithOwners: %w", err)
	}
	return rows, nil
}

func (r *abstractRepo) ListWithOwnersByIDs(ctx context.Context, ids []int64) ([]domain.AbstractWithOwner, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(abstractWithOwnerSelect+" WHERE a.id IN (?) ORDER BY a.id", ids)
	if err != nil {
		return nil, fmt.Errorf("abstractRepo.ListWithOwnersByIDs: %w", err)
	}
	var rows []domain.AbstractWithOwner
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("abstractRepo.ListWithOwnersByIDs: %w", err)
	}
	return rows, nil
}

func (r *abstractRepo) Update(ctx context.Context, a *domain.Abstract) error {
	a.UpdatedAt = time.Now().UTC()

	query := `UPDATE abstracts SET title = $1, presenter_name = $2, institution_name = $3,
		category = $4, abstract_content = $5, co_authors = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9 AND status = $10`

	result, err := r.db.ExecContext(ctx, query,
		a.Title, a.PresenterName, a.InstitutionName, a.Category, a.Content, a.CoAuthors,
		a.UpdatedAt, a.ID, a.UserID, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("abstractRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("abstractRepo.Update rows affected: %w", err)
	}
	if rows == 0 {
		return r.explainOwnedMutation(ctx, a.ID, a.UserID)
	}
	return nil
}

func (r *abstractRepo) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM abstracts WHERE id = $1 AND user_id = $2 AND status = $3",
		id, userID, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("abstractRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("abstractRepo.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return r.explainOwnedMutation(ctx, id, userID)
	}
	return nil
}

// explainOwnedMutation resolves why a conditional owner mutation touched no rows.
func (r *abstractRepo) explainOwnedMutation(ctx context.Context, id, userID int64) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != userID {
		return domain.ErrForbidden
	}
	return domain.ErrAbstractNotEditable
}

func (r *abstractRepo) UpdateStatus(ctx context.Context, change domain.StatusChange) (_ *domain.Abstract, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("abstractRepo.UpdateStatus: %w", &domain.TransactionError{Op: domain.TxOpBegin, Err: err})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current lockedRow
	err = tx.GetContext(ctx, &current,
		"SELECT id, user_id, status FROM abstracts WHERE id = $1 FOR UPDATE", change.AbstractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAbstractNotFound
		}
		return nil, fmt.Errorf("abstractRepo.UpdateStatus: %w", &domain.TransactionError{Op: domain.TxOpLock, Err: err})
	}
	if current.Status == domain.StatusFinalSubmitted {
		return nil, domain.ErrConflictState
	}

	var updated domain.Abstract
	err = tx.GetContext(ctx, &updated,
		`UPDATE abstracts SET status = $1, reviewer_comments = $2, updated_at = $3
		WHERE id = $4 RETURNING *`,
		change.Status, nullString(change.Comments), change.At, change.AbstractID)
	if err != nil {
		return nil, fmt.Errorf("abstractRepo.UpdateStatus: %w", &domain.TransactionError{Op: domain.TxOpUpdate, Err: err})
	}

	if _, err = tx.NamedExecContext(ctx, insertHistoryQuery, historyRow{
		AbstractID: change.AbstractID,
		OldStatus:  current.Status,
		NewStatus:  change.Status,
		Comments:   nullString(change.Comments),
		ChangedBy:  nullInt64(change.ActorID),
		ChangedAt:  change.At,
	}); err != nil {
		return nil, fmt.Errorf("abstractRepo.UpdateStatus: %w", &domain.TransactionError{Op: domain.TxOpHistory, Err: err})
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("abstractRepo.UpdateStatus: %w", &domain.TransactionError{Op: domain.TxOpCommit, Err: err})
	}
	return &updated, nil
}

func (r *abstractRepo) BulkUpdateStatus(ctx context.Context, change domain.BulkStatusChange) (_ []domain.StatusUpdate, err error) {
	if len(change.IDs) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &domain.TransactionError{Op: domain.TxOpBegin, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Rows already final_submitted are terminal and never enter the update.
	lockQuery, args, err := sqlx.In(
		"SELECT id, user_id, status FROM abstracts WHERE id IN (?) AND status <> ? ORDER BY id FOR UPDATE",
		change.IDs, domain.StatusFinalSubmitted)
	if err != nil {
		return nil, &domain.TransactionError{Op: domain.TxOpLock, Err: err}
	}
	var locked []lockedRow
	if err = tx.SelectContext(ctx, &locked, tx.Rebind(lockQuery), args...); err != nil {
		return nil, &domain.TransactionError{Op: domain.TxOpLock, Err: err}
	}
	if len(locked) == 0 {
		if err = tx.Commit(); err != nil {
			return nil, &domain.TransactionError{Op: domain.TxOpCommit, Err: err}
		}
		return []domain.StatusUpdate{}, nil
	}

	oldStatus := make(map[int64]domain.AbstractStatus, len(locked))
	lockedIDs := make([]int64, 0, len(locked))
	for _, row := range locked {
		oldStatus[row.ID] = row.Status
		lockedIDs = append(lockedIDs, row.ID)
	}

	updateQuery, args, err := sqlx.In(
		`UPDATE abstracts SET status = ?, reviewer_comments = ?, updated_at = ?
		WHERE id IN (?)
		RETURNING id, title, presenter_name, status, updated_at`,
		change.Status, nullString(change.Comments), change.At, lockedIDs)
	if err != nil {
		return nil, &domain.TransactionError{Op: domain.TxOpUpdate, Err: err}
	}
	var updated []domain.StatusUpdate
	if err = tx.SelectContext(ctx, &updated, tx.Rebind(updateQuery), args...); err != nil {
		return nil, &domain.TransactionError{Op: domain.TxOpUpdate, Err: err}
	}

	history := make([]historyRow, 0, len(updated))
	for i := range updated {
		updated[i].OldStatus = oldStatus[updated[i].ID]
		history = append(history, historyRow{
			AbstractID: updated[i].ID,
			OldStatus:  updated[i].OldStatus,
			NewStatus:  change.Status,
			Comments:   nullString(change.Comments),
			ChangedBy:  nullInt64(change.ActorID),
			ChangedAt:  change.At,
		})
	}
	if len(history) > 0 {
		if _, err = tx.NamedExecContext(ctx, insertHistoryQuery, history); err != nil {
			return nil, &domain.TransactionError{Op: domain.TxOpHistory, Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, &domain.TransactionError{Op: domain.TxOpCommit, Err: err}
	}
	return updated, nil
}

func (r *abstractRepo) MarkFinalSubmitted(ctx context.Context, sub domain.FinalSubmission) (_ *domain.Abstract, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("abstractRepo.MarkFinalSubmitted: %w", &domain.TransactionError{Op: domain.TxOpBegin, Err: err})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current lockedRow
	err = tx.GetContext(ctx, &current,
		"SELECT id, user_id, status FROM abstracts WHERE id = $1 FOR UPDATE", sub.AbstractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAbstractNotFound
		}
		return nil, fmt.Errorf("abstractRepo.MarkFinalSubmitted: %w", &domain.TransactionError{Op: domain.TxOpLock, Err: err})
	}
	if current.UserID != sub.UserID {
		return nil, domain.ErrForbidden
	}
	if current.Status != domain.StatusApproved {
		return nil, domain.ErrNotApproved
	}

	var updated domain.Abstract
	err = tx.GetContext(ctx, &updated,
		`UPDATE abstracts SET status = $1, final_file_key = $2, final_file_name = $3,
		final_file_size = $4, updated_at = $5
		WHERE id = $6 AND status = $7 RETURNING *`,
		domain.StatusFinalSubmitted, sub.FileKey, sub.FileName, sub.FileSize, sub.At,
		sub.AbstractID, domain.StatusApproved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConflictState
		}
		return nil, fmt.Errorf("abstractRepo.MarkFinalSubmitted: %w", &domain.TransactionError{Op: domain.TxOpUpdate, Err: err})
	}

	if _, err = tx.NamedExecContext(ctx, insertHistoryQuery, historyRow{
		AbstractID: sub.AbstractID,
		OldStatus:  current.Status,
		NewStatus:  domain.StatusFinalSubmitted,
		ChangedBy:  sql.NullInt64{Int64: sub.UserID, Valid: true},
		ChangedAt:  sub.At,
	}); err != nil {
		return nil, fmt.Errorf("abstractRepo.MarkFinalSubmitted: %w", &domain.TransactionError{Op: domain.TxOpHistory, Err: err})
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("abstractRepo.MarkFinalSubmitted: %w", &domain.TransactionError{Op: domain.TxOpCommit, Err: err})
	}
	return &updated, nil
}

func (r *abstractRepo) ListHistory(ctx context.Context, abstractID int64) ([]domain.StatusHistoryEntry, error) {
	var entries []domain.StatusHistoryEntry
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM abstract_status_history WHERE abstract_id = $1
		ORDER BY changed_at ASC, id ASC`, abstractID); err != nil {
		return nil, fmt.Errorf("abstractRepo.ListHistory: %w", err)
	}
	return entries, nil
}

func (r *abstractRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("abstractRepo.Ping: %w", err)
	}
	return nil
}
