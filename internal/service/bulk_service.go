package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
)

// Batch-level error codes reported in BulkResult.Error.
const (
	BulkErrDBUnavailable     = "DB_UNAVAILABLE"
	BulkErrTransactionFailed = "TRANSACTION_FAILED"
	BulkErrNoRowsUpdated     = "NO_ROWS_UPDATED"
)

const itemNotUpdated = "Abstract not found or update failed"

// BulkUpdateInput is a bulk transition request as received from the client.
type BulkUpdateInput struct {
	AbstractIDs []string
	Status      string
	Comments    *string
	ActorID     *int64
}

// BulkItemResult is the outcome for one requested identifier.
type BulkItemResult struct {
	ID            string                 `json:"id"`
	Success       bool                   `json:"success"`
	Title         string                 `json:"title,omitempty"`
	PresenterName string                 `json:"presenter_name,omitempty"`
	OldStatus     *domain.AbstractStatus `json:"oldStatus"`
	NewStatus     *domain.AbstractStatus `json:"newStatus"`
	UpdatedAt     *time.Time             `json:"updatedAt,omitempty"`
	Error         *string                `json:"error"`
}

// BulkError is a batch-level failure.
type BulkError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkResult is the full outcome of a bulk transition. UpdatedCount +
// FailedCount always equals Total.
type BulkResult struct {
	Success        bool                  `json:"success"`
	Message        string                `json:"message"`
	Status         domain.AbstractStatus `json:"status"`
	Comments       *string               `json:"comments"`
	UpdatedCount   int                   `json:"updatedCount"`
	FailedCount    int                   `json:"failedCount"`
	Successful     int                   `json:"successful"`
	Failed         int                   `json:"failed"`
	Total          int                   `json:"total"`
	SuccessRate    float64               `json:"successRate"`
	Results        []BulkItemResult      `json:"results"`
	Error          *BulkError            `json:"error,omitempty"`
	Notifications  *DispatchSummary      `json:"notifications,omitempty"`
	ProcessingTime int64                 `json:"processingTime"`
}

// BulkHealth is the service snapshot returned by the bulk endpoint.
type BulkHealth struct {
	Status            string                  `json:"status"`
	Service           string                  `json:"service"`
	MaxBulkSize       int                     `json:"maxBulkSize"`
	SupportedStatuses []domain.AbstractStatus `json:"supportedStatuses"`
	NotifyMode        string                  `json:"notifyMode"`
	Statistics        *domain.Stats           `json:"statistics"`
	Timestamp         time.Time               `json:"timestamp"`
}

// BulkConfig holds orchestrator settings.
type BulkConfig struct {
	MaxBulkSize int
}

// BulkService orchestrates bulk review transitions.
type BulkService interface {
	BulkTransition(ctx context.Context, input BulkUpdateInput) (*BulkResult, error)
	Snapshot(ctx context.Context, id int64) (*domain.Abstract, error)
	Health(ctx context.Context) (*BulkHealth, error)
}

type bulkService struct {
	engine       TransitionService
	stats        StatsService
	abstractRepo port.AbstractRepository
	notifier     *PostCommitNotifier
	cfg          BulkConfig
	now          func() time.Time
}

// NewBulkService creates a new BulkService implementation. notifier may be nil.
func NewBulkService(
	engine TransitionService,
	stats StatsService,
	abstractRepo port.AbstractRepository,
	notifier *PostCommitNotifier,
	cfg BulkConfig,
) BulkService {
	if cfg.MaxBulkSize < 1 {
		cfg.MaxBulkSize = DefaultMaxBulkSize
	}
	return &bulkService{
		engine:       engine,
		stats:        stats,
		abstractRepo: abstractRepo,
		notifier:     notifier,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DefaultMaxBulkSize caps a batch when no limit is configured.
const DefaultMaxBulkSize = 100

// ParseBulkInput validates a bulk request without touching the store and
// returns the distinct identifiers in first-seen order.
func ParseBulkInput(input BulkUpdateInput, maxBulkSize int) ([]int64, domain.AbstractStatus, error) {
	verr := &domain.ValidationError{}

	if len(input.AbstractIDs) == 0 {
		verr.Add("abstractIds", "must be a non-empty array of abstract identifiers")
	}
	ids := make([]int64, 0, len(input.AbstractIDs))
	for i, raw := range input.AbstractIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			verr.Add(fmt.Sprintf("abstractIds[%d]", i), "must be a positive integer identifier")
			continue
		}
		ids = append(ids, id)
	}

	status := domain.AbstractStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !status.IsReviewTarget() {
		verr.Add("status", "must be one of pending, approved, rejected")
	}

	ids = uniqueIDs(ids)
	if maxBulkSize > 0 && len(ids) > maxBulkSize {
		verr.Add("abstractIds", fmt.Sprintf("must contain at most %d identifiers", maxBulkSize))
	}

	if verr.HasErrors() {
		return nil, "", verr
	}
	return ids, status, nil
}

func (s *bulkService) BulkTransition(ctx context.Context, input BulkUpdateInput) (*BulkResult, error) {
	start := time.Now()
	logger := logging.LoggerFrom(ctx)

	ids, status, err := ParseBulkInput(input, s.cfg.MaxBulkSize)
	if err != nil {
		return nil, err
	}
	comments := reviewComments(status, input.Comments)

	result := &BulkResult{
		Status:   status,
		Comments: comments,
		Total:    len(ids),
		Results:  make([]BulkItemResult, 0, len(ids)),
	}

	updated, err := s.engine.TransitionMany(ctx, domain.BulkStatusChange{
		IDs:      ids,
		Status:   status,
		Comments: comments,
		ActorID:  input.ActorID,
		At:       s.now(),
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		logger.Error("bulk status update rolled back", "count", len(ids), "status", status, "error", err)
		s.fail(result, ids, err)
		result.ProcessingTime = time.Since(start).Milliseconds()
		return result, nil
	}

	byID := make(map[int64]domain.StatusUpdate, len(updated))
	for _, u := range updated {
		byID[u.ID] = u
	}

	updatedIDs := make([]int64, 0, len(updated))
	var changedIDs []int64
	for _, id := range ids {
		item := BulkItemResult{ID: strconv.FormatInt(id, 10)}
		if u, ok := byID[id]; ok {
			oldStatus, newStatus, at := u.OldStatus, u.Status, u.UpdatedAt
			item.Success = true
			item.Title = u.Title
			item.PresenterName = u.PresenterName
			item.OldStatus = &oldStatus
			item.NewStatus = &newStatus
			item.UpdatedAt = &at
			updatedIDs = append(updatedIDs, id)
			if oldStatus != newStatus {
				changedIDs = append(changedIDs, id)
			}
		} else {
			msg := itemNotUpdated
			item.Error = &msg
		}
		result.Results = append(result.Results, item)
	}

	result.UpdatedCount = len(updatedIDs)
	result.FailedCount = result.Total - result.UpdatedCount
	result.Successful = result.UpdatedCount
	result.Failed = result.FailedCount
	result.SuccessRate = percent(result.Successful, result.Total)

	if result.UpdatedCount == 0 {
		result.Message = "No abstracts were updated"
		result.Error = &BulkError{
			Code:    BulkErrNoRowsUpdated,
			Message: "none of the requested abstracts exist or could be updated",
		}
	} else {
		result.Success = true
		result.Message = fmt.Sprintf("Successfully updated %d of %d abstracts to %s",
			result.UpdatedCount, result.Total, status)
		// Rows that already had the target status count as updated but are not re-notified.
		result.Notifications = s.notifier.Notify(ctx, changedIDs, status, comments)
	}

	logger.Info("bulk status update",
		"status", status,
		"updated", result.UpdatedCount,
		"failed", result.FailedCount,
	)
	result.ProcessingTime = time.Since(start).Milliseconds()
	return result, nil
}

// fail marks every item failed after a rolled-back transaction.
func (s *bulkService) fail(result *BulkResult, ids []int64, err error) {
	code, message := BulkErrTransactionFailed, "Bulk update failed; no changes were applied"
	var txErr *domain.TransactionError
	if errors.As(err, &txErr) && txErr.Connectivity() {
		code, message = BulkErrDBUnavailable, "Database unavailable; no changes were applied"
	}

	result.Message = message
	result.Error = &BulkError{Code: code, Message: message}
	for _, id := range ids {
		msg := "transaction rolled back"
		result.Results = append(result.Results, BulkItemResult{ID: strconv.FormatInt(id, 10), Error: &msg})
	}
	result.FailedCount = len(ids)
	result.Failed = len(ids)
}

func (s *bulkService) Snapshot(ctx context.Context, id int64) (*domain.Abstract, error) {
	return s.abstractRepo.GetByID(ctx, id)
}

func (s *bulkService) Health(ctx context.Context) (*BulkHealth, error) {
	stats, err := s.stats.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &BulkHealth{
		Status:      "healthy",
		Service:     "bulk-update",
		MaxBulkSize: s.cfg.MaxBulkSize,
		SupportedStatuses: []domain.AbstractStatus{
			domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
		},
		NotifyMode: s.notifier.Mode(),
		Statistics: stats,
		Timestamp:  s.now(),
	}, nil
}
