package handler

import (
	"github.com/gin-gonic/gin"

	"abstractdesk/internal/service"
)

// StatsHandler handles statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/admin/stats
// @Summary Get review statistics
// @Description Counts by status and category, recomputed from the store on every call.
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.Stats} "Aggregate statistics"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
