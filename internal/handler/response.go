package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/logging"
	"abstractdesk/internal/middleware"
)

// APIResponse is the standard envelope for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var verr *domain.ValidationError
	var txErr *domain.TransactionError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION_ERROR", verr.Error()
	case errors.As(err, &txErr):
		if txErr.Connectivity() {
			return http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "database unavailable; no changes were applied"
		}
		return http.StatusInternalServerError, "TRANSACTION_FAILED", "update failed; no changes were applied"
	case errors.Is(err, domain.ErrAbstractNotFound):
		return http.StatusNotFound, "ABSTRACT_NOT_FOUND", "abstract not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already registered"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", domain.ErrInvalidStatus.Error()
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, "INVALID_CATEGORY", "category must be one of Free Paper, Poster, E-Poster, Award Paper"
	case errors.Is(err, domain.ErrConflictState):
		return http.StatusConflict, "CONFLICT_STATE", domain.ErrConflictState.Error()
	case errors.Is(err, domain.ErrAbstractNotEditable):
		return http.StatusConflict, "ABSTRACT_NOT_EDITABLE", domain.ErrAbstractNotEditable.Error()
	case errors.Is(err, domain.ErrNotApproved):
		return http.StatusConflict, "NOT_APPROVED", domain.ErrNotApproved.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, ppt, pptx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInvalidPDF):
		return http.StatusBadRequest, "INVALID_PDF", domain.ErrInvalidPDF.Error()
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logging.LoggerFrom(c.Request.Context()).Error("internal error", "status", status, "error", err)
	}
	resp := APIResponse{Success: false, Error: &APIError{Code: code, Message: msg}}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error.Fields = verr.Fields
	}
	c.JSON(status, resp)
}

// extractAuthContext extracts the user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID int64, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return 0, "", false
	}
	return userID, middleware.GetRole(c), true
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := parsePositiveID(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid abstract ID")
		return 0, false
	}
	return id, true
}
