package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/handler"
	"abstractdesk/mocks"
)

func TestHealthHandler(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	h := handler.NewHealthHandler(repo)

	c, w := newJSONContext(t, http.MethodGet, "/healthz", nil)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	repo.On("Ping", mock.Anything).Return(errors.New("refused")).Once()
	c, w = newJSONContext(t, http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	repo.On("Ping", mock.Anything).Return(nil).Once()
	c, w = newJSONContext(t, http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
