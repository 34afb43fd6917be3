package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrAbstractNotFound    = errors.New("abstract not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidStatus       = errors.New("invalid status; must be pending, approved, or rejected")
	ErrInvalidCategory     = errors.New("invalid presentation category")
	ErrConflictState       = errors.New("abstract is not in a state that allows this change")
	ErrAbstractNotEditable = errors.New("abstract can only be changed while pending")
	ErrNotApproved         = errors.New("abstract not approved for final upload")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrInvalidPDF          = errors.New("file is not a readable PDF")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrRateLimited         = errors.New("too many requests")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any store access when input is malformed.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError creates a ValidationError with a single field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransactionError wraps a database failure that rolled back a whole batch.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Connectivity reports whether the failure happened before any statement ran,
// i.e. no connection could be obtained or a transaction could not be opened.
func (e *TransactionError) Connectivity() bool {
	return e.Op == TxOpBegin
}

// Transaction phases recorded in TransactionError.Op.
const (
	TxOpBegin   = "begin"
	TxOpLock    = "lock"
	TxOpUpdate  = "update"
	TxOpHistory = "history"
	TxOpCommit  = "commit"
)
