package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/service"
)

// AbstractHandler handles the delegate submission endpoints.
type AbstractHandler struct {
	abstractService service.AbstractService
}

// NewAbstractHandler creates a new AbstractHandler.
func NewAbstractHandler(abstractService service.AbstractService) *AbstractHandler {
	return &AbstractHandler{abstractService: abstractService}
}

// Submit handles POST /api/v1/abstracts
// @Summary Submit an abstract
// @Description New abstracts always start pending.
// @Tags abstracts
// @Accept json
// @Produce json
// @Param body body service.AbstractInput true "Abstract"
// @Success 201 {object} Response{data=domain.Abstract}
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts [post]
func (h *AbstractHandler) Submit(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.AbstractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	abstract, err := h.abstractService.Submit(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, abstract)
}

// ListMine handles GET /api/v1/abstracts/mine
// @Summary List the caller's abstracts
// @Tags abstracts
// @Produce json
// @Success 200 {object} Response{data=[]domain.Abstract}
// @Security BearerAuth
// @Router /abstracts/mine [get]
func (h *AbstractHandler) ListMine(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	abstracts, err := h.abstractService.ListMine(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if abstracts == nil {
		abstracts = []domain.Abstract{}
	}
	RespondOK(c, abstracts)
}

// GetByID handles GET /api/v1/abstracts/:id
// @Summary Get an abstract
// @Tags abstracts
// @Produce json
// @Param id path int true "Abstract ID"
// @Success 200 {object} Response{data=domain.Abstract}
// @Failure 403 {object} ErrorResponseBody
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /abstracts/{id} [get]
func (h *AbstractHandler) GetByID(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	abstract, err := h.abstractService.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, abstract)
}

// Update handles PUT /api/v1/abstracts/:id
// @Summary Edit a pending abstract
// @Tags abstracts
// @Accept json
// @Produce json
// @Param id path int true "Abstract ID"
// @Param body body service.AbstractInput true "Abstract"
// @Success 200 {object} Response{data=domain.Abstract}
// @Failure 409 {object} ErrorResponseBody "Abstract no longer pending"
// @Security BearerAuth
// @Router /abstracts/{id} [put]
func (h *AbstractHandler) Update(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.AbstractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	abstract, err := h.abstractService.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, abstract)
}

// Delete handles DELETE /api/v1/abstracts/:id
// @Summary Withdraw a pending abstract
// @Tags abstracts
// @Produce json
// @Param id path int true "Abstract ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 409 {object} ErrorResponseBody "Abstract no longer pending"
// @Security BearerAuth
// @Router /abstracts/{id} [delete]
func (h *AbstractHandler) Delete(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.abstractService.Delete(c.Request.Context(), id, userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "abstract deleted"})
}
