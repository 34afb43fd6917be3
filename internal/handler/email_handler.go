package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// EmailHandler exposes the Notification Dispatcher to the admin UI.
type EmailHandler struct {
	notifications service.NotificationService
	maxBulkSize   int
	now           func() time.Time
}

// NewEmailHandler creates a new EmailHandler. maxBulkSize caps the
// bulk_status_update batch the same way it caps bulk review.
func NewEmailHandler(notifications service.NotificationService, maxBulkSize int) *EmailHandler {
	if maxBulkSize < 1 {
		maxBulkSize = service.DefaultMaxBulkSize
	}
	return &EmailHandler{
		notifications: notifications,
		maxBulkSize:   maxBulkSize,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Send handles POST /api/v1/abstracts/email
// @Summary Send review notification emails
// @Description type is one of status_update, bulk_status_update, test. Recipients are resolved from the store.
// @Tags email
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email request"
// @Success 200 {object} EmailResponse
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts/email [post]
func (h *EmailHandler) Send(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ctx := c.Request.Context()
	var (
		summary *service.DispatchSummary
		err     error
	)
	switch req.Type {
	case domain.EmailTypeBulkStatusUpdate:
		ids, status, perr := service.ParseBulkInput(service.BulkUpdateInput{
			AbstractIDs: req.Data.AbstractIDs,
			Status:      req.Data.Status,
		}, h.maxBulkSize)
		if perr != nil {
			HandleError(c, perr)
			return
		}
		summary, err = h.notifications.NotifyAbstracts(ctx, ids, status, req.Data.Comments)
	case domain.EmailTypeStatusUpdate:
		id, perr := parsePositiveID(req.Data.AbstractID)
		if perr != nil {
			HandleError(c, domain.NewValidationError("data.abstractId", "must be a positive integer identifier"))
			return
		}
		var status domain.AbstractStatus
		if req.Data.Status != "" {
			status = normalizeStatus(req.Data.Status)
			if !status.IsReviewTarget() {
				HandleError(c, domain.NewValidationError("data.status", "must be one of pending, approved, rejected"))
				return
			}
		}
		summary, err = h.notifications.NotifyStatusUpdate(ctx, id, status, req.Data.Comments)
	case domain.EmailTypeTest:
		summary, err = h.notifications.SendTest(ctx, strings.TrimSpace(req.Data.Email))
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_EMAIL_TYPE", "type must be one of status_update, bulk_status_update, test")
		return
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	label := strings.ReplaceAll(string(req.Type), "_", " ")
	resp := EmailResponse{
		Success: summary.Failed == 0 || summary.Sent > 0,
		Type:    req.Type,
		Results: EmailResults{
			EmailsSent:  summary.Sent,
			EmailsTotal: summary.Total,
			SuccessRate: summary.SuccessRate,
			Errors:      summary.Errors(),
			Timestamp:   h.now(),
		},
	}
	switch {
	case summary.Failed == 0:
		resp.Message = fmt.Sprintf("%s email sent successfully", label)
	case summary.Sent > 0:
		resp.Message = fmt.Sprintf("%s email sent to %d of %d recipients", label, summary.Sent, summary.Total)
	default:
		resp.Message = fmt.Sprintf("Failed to send %s email", label)
	}
	c.JSON(http.StatusOK, resp)
}
