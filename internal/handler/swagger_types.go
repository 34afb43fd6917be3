package handler

import (
	"time"

	"abstractdesk/internal/domain"
)

// Swagger type definitions for API documentation.

// --- Request Types ---

// StatusChangeRequest is the body of a single review transition.
type StatusChangeRequest struct {
	Status   string  `json:"status" binding:"required" example:"approved"`
	Comments *string `json:"comments" example:"Well structured abstract"`
}

// BulkUpdateRequest is the body of a bulk review transition.
type BulkUpdateRequest struct {
	AbstractIDs IDList  `json:"abstractIds" swaggertype:"array,string" example:"12,13,14"`
	Status      string  `json:"status" example:"rejected"`
	Comments    *string `json:"comments" example:"needs revision"`
}

// EmailRequest is the body of the email endpoint.
type EmailRequest struct {
	Type domain.EmailType `json:"type" binding:"required" example:"bulk_status_update"`
	Data EmailRequestData `json:"data"`
}

// EmailRequestData carries the type-specific email parameters.
type EmailRequestData struct {
	AbstractID  string  `json:"abstractId" example:"12"`
	AbstractIDs IDList  `json:"abstractIds" swaggertype:"array,string"`
	Status      string  `json:"status" example:"approved"`
	Comments    *string `json:"comments"`
	Email       string  `json:"email" example:"reviewer@example.org"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// EmailResults summarizes one email endpoint call.
type EmailResults struct {
	EmailsSent  int       `json:"emailsSent" example:"2"`
	EmailsTotal int       `json:"emailsTotal" example:"3"`
	SuccessRate float64   `json:"successRate" example:"66.7"`
	Errors      []string  `json:"errors"`
	Timestamp   time.Time `json:"timestamp"`
}

// EmailResponse is returned by the email endpoint.
type EmailResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Type    domain.EmailType `json:"type"`
	Results EmailResults     `json:"results"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
