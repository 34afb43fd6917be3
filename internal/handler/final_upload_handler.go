package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/service"
)

// FinalUploadHandler handles final presentation uploads for approved abstracts.
type FinalUploadHandler struct {
	finalUploadService service.FinalUploadService
	maxBodyBytes       int64
}

// NewFinalUploadHandler creates a new FinalUploadHandler. maxFileSizeMB bounds
// the multipart body read by the server.
func NewFinalUploadHandler(finalUploadService service.FinalUploadService, maxFileSizeMB int64) *FinalUploadHandler {
	return &FinalUploadHandler{
		finalUploadService: finalUploadService,
		maxBodyBytes:       (maxFileSizeMB + 1) << 20,
	}
}

// Upload handles POST /api/v1/abstracts/:id/final-upload
// @Summary Upload the final presentation
// @Description Only the owner of an approved abstract may upload. The abstract moves to final_submitted.
// @Tags abstracts
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Abstract ID"
// @Param file formData file true "PDF, PPT or PPTX"
// @Success 200 {object} Response{data=domain.Abstract}
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 409 {object} ErrorResponseBody "Abstract not approved"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /abstracts/{id}/final-upload [post]
func (h *FinalUploadHandler) Upload(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	abstract, err := h.finalUploadService.Upload(c.Request.Context(), service.FinalUploadInput{
		AbstractID: id,
		UserID:     userID,
		FileName:   header.Filename,
		File:       file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, abstract)
}

// Status handles GET /api/v1/abstracts/:id/final-upload
// @Summary Final upload status
// @Tags abstracts
// @Produce json
// @Param id path int true "Abstract ID"
// @Success 200 {object} Response{data=service.FinalUploadStatus}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts/{id}/final-upload [get]
func (h *FinalUploadHandler) Status(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.finalUploadService.Status(c.Request.Context(), id, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, status)
}
