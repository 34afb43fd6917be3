package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// ReviewHandler handles the reviewer endpoints: single and bulk status
// transitions, listings and status history.
type ReviewHandler struct {
	abstractService   service.AbstractService
	transitionService service.TransitionService
	bulkService       service.BulkService
	notifier          *service.PostCommitNotifier
}

// NewReviewHandler creates a new ReviewHandler. notifier may be nil.
func NewReviewHandler(
	abstractService service.AbstractService,
	transitionService service.TransitionService,
	bulkService service.BulkService,
	notifier *service.PostCommitNotifier,
) *ReviewHandler {
	return &ReviewHandler{
		abstractService:   abstractService,
		transitionService: transitionService,
		bulkService:       bulkService,
		notifier:          notifier,
	}
}

// StatusChangeResult is returned by a single review transition.
type StatusChangeResult struct {
	Abstract      *domain.Abstract         `json:"abstract"`
	Notifications *service.DispatchSummary `json:"notifications,omitempty"`
}

// BulkSnapshot is the status view returned by the bulk lookup endpoint.
type BulkSnapshot struct {
	ID               int64                 `json:"id"`
	Title            string                `json:"title"`
	PresenterName    string                `json:"presenter_name"`
	Status           domain.AbstractStatus `json:"status"`
	ReviewerComments *string               `json:"reviewer_comments"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ListAll handles GET /api/v1/admin/abstracts
// @Summary List all abstracts with presenter contact details
// @Tags review
// @Produce json
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Success 200 {object} Response{data=[]domain.AbstractWithOwner}
// @Security BearerAuth
// @Router /admin/abstracts [get]
func (h *ReviewHandler) ListAll(c *gin.Context) {
	filter, ok := parseAbstractFilter(c)
	if !ok {
		return
	}

	abstracts, err := h.abstractService.ListAll(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	if abstracts == nil {
		abstracts = []domain.AbstractWithOwner{}
	}
	RespondOK(c, abstracts)
}

// UpdateStatus handles POST /api/v1/admin/abstracts/:id/status
// @Summary Review a single abstract
// @Tags review
// @Accept json
// @Produce json
// @Param id path int true "Abstract ID"
// @Param body body StatusChangeRequest true "Target status"
// @Success 200 {object} Response{data=StatusChangeResult}
// @Failure 400 {object} ErrorResponseBody
// @Failure 404 {object} ErrorResponseBody
// @Failure 409 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /admin/abstracts/{id}/status [post]
func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	abstract, err := h.transitionService.Transition(c.Request.Context(), service.TransitionInput{
		AbstractID: id,
		Status:     normalizeStatus(req.Status),
		Comments:   req.Comments,
		ActorID:    userID,
		ActorRole:  role,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, StatusChangeResult{
		Abstract:      abstract,
		Notifications: h.notifier.Notify(c.Request.Context(), []int64{abstract.ID}, abstract.Status, abstract.ReviewerComments),
	})
}

// Withdraw handles POST /api/v1/abstracts/:id/withdraw
// @Summary Withdraw a reviewed abstract back to pending
// @Description Delegates may only withdraw their own abstracts. Review comments are cleared and no notification is sent.
// @Tags abstracts
// @Produce json
// @Param id path int true "Abstract ID"
// @Success 200 {object} Response{data=domain.Abstract}
// @Failure 403 {object} ErrorResponseBody
// @Failure 404 {object} ErrorResponseBody
// @Failure 409 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts/{id}/withdraw [post]
func (h *ReviewHandler) Withdraw(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	abstract, err := h.transitionService.Transition(c.Request.Context(), service.TransitionInput{
		AbstractID: id,
		Status:     domain.StatusPending,
		ActorID:    userID,
		ActorRole:  role,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, abstract)
}

// History handles GET /api/v1/admin/abstracts/:id/history
// @Summary List status history of an abstract
// @Tags review
// @Produce json
// @Param id path int true "Abstract ID"
// @Success 200 {object} Response{data=[]domain.StatusHistoryEntry}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /admin/abstracts/{id}/history [get]
func (h *ReviewHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.abstractService.History(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.StatusHistoryEntry{}
	}
	RespondOK(c, entries)
}

// BulkUpdate handles POST /api/v1/abstracts/bulk-update
// @Summary Transition many abstracts in one transaction
// @Description Handled failures return 200 with success=false; only malformed input is rejected with 400.
// @Tags review
// @Accept json
// @Produce json
// @Param body body BulkUpdateRequest true "Batch"
// @Success 200 {object} service.BulkResult
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts/bulk-update [post]
func (h *ReviewHandler) BulkUpdate(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.bulkService.BulkTransition(c.Request.Context(), service.BulkUpdateInput{
		AbstractIDs: req.AbstractIDs,
		Status:      req.Status,
		Comments:    req.Comments,
		ActorID:     &userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BulkStatus handles GET /api/v1/abstracts/bulk-update
// @Summary Abstract status snapshot, or service health when no id is given
// @Tags review
// @Produce json
// @Param id query int false "Abstract ID"
// @Success 200 {object} service.BulkHealth
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts/bulk-update [get]
func (h *ReviewHandler) BulkStatus(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		health, err := h.bulkService.Health(c.Request.Context())
		if err != nil {
			HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, health)
		return
	}

	id, err := parsePositiveID(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid abstract ID")
		return
	}
	abstract, err := h.bulkService.Snapshot(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"abstract": BulkSnapshot{
			ID:               abstract.ID,
			Title:            abstract.Title,
			PresenterName:    abstract.PresenterName,
			Status:           abstract.Status,
			ReviewerComments: abstract.ReviewerComments,
			UpdatedAt:        abstract.UpdatedAt,
		},
	})
}

func normalizeStatus(raw string) domain.AbstractStatus {
	return domain.AbstractStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// parseAbstractFilter reads the status and category query filters. "all" and
// empty values disable a filter.
func parseAbstractFilter(c *gin.Context) (domain.AbstractFilter, bool) {
	var filter domain.AbstractFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" && s != "all" {
		status := normalizeStatus(s)
		if !domain.ValidAbstractStatuses[status] {
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "unknown status filter")
			return filter, false
		}
		filter.Status = status
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" && cat != "all" {
		category := domain.Category(cat)
		if !domain.ValidCategories[category] {
			RespondError(c, http.StatusBadRequest, "INVALID_CATEGORY", "unknown category filter")
			return filter, false
		}
		filter.Category = category
	}
	return filter, true
}
