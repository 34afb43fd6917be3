package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("abstractIds", "empty"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped not found", fmt.Errorf("abstractRepo.GetByID: %w", domain.ErrAbstractNotFound), http.StatusNotFound, "ABSTRACT_NOT_FOUND"},
		{"generic not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid status", domain.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"conflict", domain.ErrConflictState, http.StatusConflict, "CONFLICT_STATE"},
		{"not editable", domain.ErrAbstractNotEditable, http.StatusConflict, "ABSTRACT_NOT_EDITABLE"},
		{"not approved", domain.ErrNotApproved, http.StatusConflict, "NOT_APPROVED"},
		{"file too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"db unavailable", &domain.TransactionError{Op: domain.TxOpBegin, Err: errors.New("dial")}, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE"},
		{"tx failed", &domain.TransactionError{Op: domain.TxOpUpdate, Err: errors.New("deadlock")}, http.StatusInternalServerError, "TRANSACTION_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
