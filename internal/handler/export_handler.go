package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/export"
	"abstractdesk/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams abstract exports to reviewers.
type ExportHandler struct {
	abstractService service.AbstractService
	statsService    service.StatsService
	filenamePrefix  string
	now             func() time.Time
}

// NewExportHandler creates a new ExportHandler. filenamePrefix is usually the
// conference name.
func NewExportHandler(abstractService service.AbstractService, statsService service.StatsService, filenamePrefix string) *ExportHandler {
	return &ExportHandler{
		abstractService: abstractService,
		statsService:    statsService,
		filenamePrefix:  filenamePrefix,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Export handles GET /api/v1/admin/export
// @Summary Export abstracts
// @Tags export
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default) or xlsx"
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /admin/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}
	filter, ok := parseAbstractFilter(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	abstracts, err := h.abstractService.ListAll(ctx, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	now := h.now()
	filename := export.BuildFilename(h.filenamePrefix, filter.Status, format, now)

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		stats, err := h.statsService.GetStats(ctx)
		if err != nil {
			HandleError(c, err)
			return
		}
		if err := export.WriteWorkbook(&buf, abstracts, stats, export.Meta{
			Status:     filter.Status,
			Category:   filter.Category,
			ExportedAt: now,
		}); err != nil {
			HandleError(c, err)
			return
		}
		contentType = xlsxContentType
	} else {
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteAbstracts(abstracts); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
