package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
	"abstractdesk/internal/repository/postgres"
)

func newMockRepo(t *testing.T) (port.AbstractRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewAbstractRepo(sqlx.NewDb(db, "pgx")), mock
}

var (
	lockQuery    = regexp.QuoteMeta("SELECT id, user_id, status FROM abstracts WHERE id IN")
	bulkUpdate   = regexp.QuoteMeta("UPDATE abstracts SET status = $1, reviewer_comments = $2, updated_at = $3")
	historyQuery = regexp.QuoteMeta("INSERT INTO abstract_status_history")
)

func TestAbstractRepo_BulkUpdateStatus_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	comments := "Looks good"
	actor := int64(9)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(int64(1), int64(2), int64(3), "final_submitted").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(int64(1), int64(5), "pending").
			AddRow(int64(2), int64(6), "rejected"))
	mock.ExpectQuery(bulkUpdate).
		WithArgs("approved", "Looks good", at, int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "presenter_name", "status", "updated_at"}).
			AddRow(int64(1), "Stem cell outcomes", "Dr. A", "approved", at).
			AddRow(int64(2), "Marrow registry", "Dr. B", "approved", at))
	mock.ExpectExec(historyQuery).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	updated, err := repo.BulkUpdateStatus(context.Background(), domain.BulkStatusChange{
		IDs:      []int64{1, 2, 3},
		Status:   domain.StatusApproved,
		Comments: &comments,
		ActorID:  &actor,
		At:       at,
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, domain.StatusPending, updated[0].OldStatus)
	assert.Equal(t, domain.StatusRejected, updated[1].OldStatus)
	assert.Equal(t, domain.StatusApproved, updated[1].Status)
	assert.Equal(t, "Dr. B", updated[1].PresenterName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_BulkUpdateStatus_NothingLocked(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}))
	mock.ExpectCommit()

	updated, err := repo.BulkUpdateStatus(context.Background(), domain.BulkStatusChange{
		IDs:    []int64{42},
		Status: domain.StatusRejected,
		At:     time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_BulkUpdateStatus_BeginFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := repo.BulkUpdateStatus(context.Background(), domain.BulkStatusChange{
		IDs:    []int64{1},
		Status: domain.StatusApproved,
		At:     time.Now(),
	})

	var txErr *domain.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, domain.TxOpBegin, txErr.Op)
	assert.True(t, txErr.Connectivity())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_BulkUpdateStatus_UpdateFailsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(int64(1), int64(5), "pending"))
	mock.ExpectQuery(bulkUpdate).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.BulkUpdateStatus(context.Background(), domain.BulkStatusChange{
		IDs:    []int64{1},
		Status: domain.StatusApproved,
		At:     time.Now(),
	})

	var txErr *domain.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, domain.TxOpUpdate, txErr.Op)
	assert.False(t, txErr.Connectivity())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_BulkUpdateStatus_HistoryFailsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(int64(1), int64(5), "pending"))
	mock.ExpectQuery(bulkUpdate).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "presenter_name", "status", "updated_at"}).
			AddRow(int64(1), "T", "P", "approved", at))
	mock.ExpectExec(historyQuery).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.BulkUpdateStatus(context.Background(), domain.BulkStatusChange{
		IDs:    []int64{1},
		Status: domain.StatusApproved,
		At:     at,
	})

	var txErr *domain.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, domain.TxOpHistory, txErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_UpdateStatus_FinalSubmittedIsTerminal(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, status FROM abstracts WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(int64(7), int64(3), "final_submitted"))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), domain.StatusChange{
		AbstractID: 7,
		Status:     domain.StatusRejected,
		At:         time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrConflictState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, status FROM abstracts WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), domain.StatusChange{
		AbstractID: 404,
		Status:     domain.StatusApproved,
		At:         time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrAbstractNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_MarkFinalSubmitted_RequiresApproval(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, status FROM abstracts WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(int64(3), int64(11), "pending"))
	mock.ExpectRollback()

	_, err := repo.MarkFinalSubmitted(context.Background(), domain.FinalSubmission{
		AbstractID: 3,
		UserID:     11,
		FileKey:    "final/3/paper.pdf",
		FileName:   "paper.pdf",
		FileSize:   1024,
		At:         time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrNotApproved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_MarkFinalSubmitted_WrongOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, status FROM abstracts WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(int64(3), int64(11), "approved"))
	mock.ExpectRollback()

	_, err := repo.MarkFinalSubmitted(context.Background(), domain.FinalSubmission{
		AbstractID: 3,
		UserID:     12,
		At:         time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_Delete_NotPending(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM abstracts WHERE id = $1 AND user_id = $2 AND status = $3")).
		WithArgs(int64(5), int64(2), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM abstracts WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "submission_date", "updated_at"}).
			AddRow(int64(5), int64(2), "approved", now, now))

	err := repo.Delete(context.Background(), 5, 2)
	assert.ErrorIs(t, err, domain.ErrAbstractNotEditable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_Delete_OtherOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM abstracts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM abstracts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "submission_date", "updated_at"}).
			AddRow(int64(5), int64(99), "pending", now, now))

	err := repo.Delete(context.Background(), 5, 2)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM abstracts WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrAbstractNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbstractRepo_ListWithOwners_Filters(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.status = $1 AND a.category = $2")).
		WithArgs("approved", "Poster").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "category", "status", "submission_date", "updated_at", "email", "phone", "owner_full_name"}).
			AddRow(int64(1), int64(2), "T", "Poster", "approved", now, now, "a@b.org", "", "Ann"))

	rows, err := repo.ListWithOwners(context.Background(), domain.AbstractFilter{
		Status:   domain.StatusApproved,
		Category: domain.CategoryPoster,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@b.org", rows[0].Email)
	assert.Equal(t, "Ann", rows[0].OwnerFullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
