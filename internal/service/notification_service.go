package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/email/compose"
	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
)

// Recipient is one presenter to notify about a status change.
type Recipient struct {
	AbstractID   int64
	Email        string
	Name         string
	Title        string
	SubmissionID string
	Category     string
	Institution  string
}

// DispatchResult records one delivery attempt.
type DispatchResult struct {
	AbstractID int64  `json:"abstractId,omitempty"`
	Recipient  string `json:"recipient"`
	Success    bool   `json:"success"`
	MessageID  string `json:"messageId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DispatchSummary aggregates a dispatch run. Sent + Failed == Total.
type DispatchSummary struct {
	Sent        int              `json:"sent"`
	Failed      int              `json:"failed"`
	Total       int              `json:"total"`
	SuccessRate float64          `json:"successRate"`
	Results     []DispatchResult `json:"results"`
}

func (d *DispatchSummary) add(r DispatchResult) {
	d.Results = append(d.Results, r)
	d.Total++
	if r.Success {
		d.Sent++
	} else {
		d.Failed++
	}
	d.SuccessRate = percent(d.Sent, d.Total)
}

// Errors returns the error text of every failed attempt.
func (d *DispatchSummary) Errors() []string {
	out := []string{}
	for _, r := range d.Results {
		if !r.Success {
			out = append(out, fmt.Sprintf("%s: %s", recipientLabel(r), r.Error))
		}
	}
	return out
}

func recipientLabel(r DispatchResult) string {
	if r.Recipient != "" {
		return r.Recipient
	}
	return fmt.Sprintf("abstract %d", r.AbstractID)
}

// percent returns part/total*100 rounded to one decimal place.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// Dispatch failure reasons recorded without a transport attempt.
var (
	errNoRecipient      = errors.New("no recipient email on record")
	errRecipientMissing = errors.New("abstract not found")
)

// NotificationService composes and delivers status-change notifications.
// Dispatch runs to completion once started: caller cancellation is ignored
// and failures are recorded per recipient. NotifyAbstracts and
// NotifyStatusUpdate only mail abstracts whose stored status matches the
// announced one.
type NotificationService interface {
	NotifyBulk(ctx context.Context, recipients []Recipient, status domain.AbstractStatus, comments *string) *DispatchSummary
	NotifyAbstracts(ctx context.Context, ids []int64, status domain.AbstractStatus, comments *string) (*DispatchSummary, error)
	NotifyStatusUpdate(ctx context.Context, abstractID int64, status domain.AbstractStatus, comments *string) (*DispatchSummary, error)
	SendTest(ctx context.Context, to string) (*DispatchSummary, error)
}

// NotificationConfig holds dispatcher settings.
type NotificationConfig struct {
	Delay    time.Duration
	Branding compose.Branding
}

// NotificationOption customizes a NotificationService.
type NotificationOption func(*notificationService)

// WithSleep replaces the inter-message wait.
func WithSleep(fn func(time.Duration)) NotificationOption {
	return func(s *notificationService) { s.sleep = fn }
}

// WithNotificationClock replaces the clock used for review dates.
func WithNotificationClock(fn func() time.Time) NotificationOption {
	return func(s *notificationService) { s.now = fn }
}

type notificationService struct {
	abstractRepo port.AbstractRepository
	sender       port.EmailSender
	cfg          NotificationConfig
	sleep        func(time.Duration)
	now          func() time.Time
}

// NewNotificationService creates a new NotificationService implementation.
func NewNotificationService(
	abstractRepo port.AbstractRepository,
	sender port.EmailSender,
	cfg NotificationConfig,
	opts ...NotificationOption,
) NotificationService {
	s := &notificationService{
		abstractRepo: abstractRepo,
		sender:       sender,
		cfg:          cfg,
		sleep:        time.Sleep,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *notificationService) NotifyBulk(ctx context.Context, recipients []Recipient, status domain.AbstractStatus, comments *string) *DispatchSummary {
	ctx = context.WithoutCancel(ctx)
	logger := logging.LoggerFrom(ctx)
	summary := &DispatchSummary{Results: make([]DispatchResult, 0, len(recipients))}

	text := ""
	if comments != nil {
		text = *comments
	}
	reviewedAt := s.now()

	sends := 0
	for _, r := range recipients {
		if r.Email == "" {
			summary.add(DispatchResult{AbstractID: r.AbstractID, Error: errNoRecipient.Error()})
			continue
		}
		if sends > 0 && s.cfg.Delay > 0 {
			s.sleep(s.cfg.Delay)
		}
		sends++

		msg := compose.StatusUpdate(s.cfg.Branding, compose.StatusData{
			To:           r.Email,
			Name:         r.Name,
			Title:        r.Title,
			SubmissionID: r.SubmissionID,
			Category:     r.Category,
			Institution:  r.Institution,
			Status:       status,
			Comments:     text,
			ReviewedAt:   reviewedAt,
		})
		res, err := s.sender.Send(ctx, msg)
		if err != nil {
			logger.Warn("notification send failed",
				"abstract_id", r.AbstractID, "recipient", r.Email, "error", err)
			summary.add(DispatchResult{AbstractID: r.AbstractID, Recipient: r.Email, Error: err.Error()})
			continue
		}
		result := DispatchResult{AbstractID: r.AbstractID, Recipient: r.Email, Success: true}
		if res != nil {
			result.MessageID = res.MessageID
		}
		summary.add(result)
	}

	logger.Info("notification dispatch finished",
		"status", status,
		"sent", summary.Sent,
		"failed", summary.Failed,
		"total", summary.Total,
	)
	return summary
}

func (s *notificationService) NotifyAbstracts(ctx context.Context, ids []int64, status domain.AbstractStatus, comments *string) (*DispatchSummary, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("abstractIds", "must contain at least one identifier")
	}
	if !status.IsReviewTarget() {
		return nil, domain.ErrInvalidStatus
	}

	ids = uniqueIDs(ids)
	rows, err := s.abstractRepo.ListWithOwnersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("notificationService.NotifyAbstracts: %w", err)
	}
	byID := make(map[int64]domain.AbstractWithOwner, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	recipients := make([]Recipient, 0, len(ids))
	var missing []DispatchResult
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			missing = append(missing, DispatchResult{AbstractID: id, Error: errRecipientMissing.Error()})
			continue
		}
		if row.Status != status {
			missing = append(missing, DispatchResult{AbstractID: id, Recipient: row.Email, Error: statusMismatch(row.Status, status)})
			continue
		}
		recipients = append(recipients, recipientFor(row))
	}

	summary := s.NotifyBulk(ctx, recipients, status, comments)
	for _, m := range missing {
		summary.add(m)
	}
	return summary, nil
}

func (s *notificationService) NotifyStatusUpdate(ctx context.Context, abstractID int64, status domain.AbstractStatus, comments *string) (*DispatchSummary, error) {
	row, err := s.abstractRepo.GetWithOwner(ctx, abstractID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = row.Status
	}
	if row.Status != status {
		summary := &DispatchSummary{}
		summary.add(DispatchResult{AbstractID: row.ID, Recipient: row.Email, Error: statusMismatch(row.Status, status)})
		return summary, nil
	}
	if comments == nil {
		comments = row.ReviewerComments
	}
	return s.NotifyBulk(ctx, []Recipient{recipientFor(*row)}, status, comments), nil
}

func (s *notificationService) SendTest(ctx context.Context, to string) (*DispatchSummary, error) {
	if to == "" {
		return nil, domain.NewValidationError("data.email", "is required")
	}
	ctx = context.WithoutCancel(ctx)
	summary := &DispatchSummary{}
	res, err := s.sender.Send(ctx, compose.Test(s.cfg.Branding, to, s.now()))
	if err != nil {
		summary.add(DispatchResult{Recipient: to, Error: err.Error()})
		return summary, nil
	}
	result := DispatchResult{Recipient: to, Success: true}
	if res != nil {
		result.MessageID = res.MessageID
	}
	summary.add(result)
	return summary, nil
}

// statusMismatch describes an abstract whose stored status differs from the
// one a notification would announce.
func statusMismatch(current, announced domain.AbstractStatus) string {
	return fmt.Sprintf("status is %s, not %s", current, announced)
}

func recipientFor(row domain.AbstractWithOwner) Recipient {
	name := row.PresenterName
	if name == "" {
		name = row.OwnerFullName
	}
	return Recipient{
		AbstractID:   row.ID,
		Email:        row.Email,
		Name:         name,
		Title:        row.Title,
		SubmissionID: row.AbstractNumber,
		Category:     string(row.Category),
		Institution:  row.InstitutionName,
	}
}

// uniqueIDs drops repeated identifiers, keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
