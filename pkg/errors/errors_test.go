package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTypeHelpers(t *testing.T) {
	wrapped := fmt.Errorf("handler failed: %w", NewNotFoundError("Node not found for update."))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, ErrorTypeNotFound, TypeOf(wrapped))
	assert.Equal(t, "Node not found for update.", MessageOf(wrapped))

	assert.Equal(t, ErrorTypeInternal, TypeOf(fmt.Errorf("boom")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewPersistenceError("Failed to save chart data.", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsPersistence(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{name: "unauthorized", err: NewUnauthorizedError("Missing auth token"), wantStatus: http.StatusUnauthorized, wantType: "UNAUTHORIZED"},
		{name: "rate limit", err: NewRateLimitError(10, "minute"), wantStatus: http.StatusTooManyRequests, wantType: "RATE_LIMIT"},
		{name: "foreign", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantType: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", nil)

			h.Handle(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantType, body.Type)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorHandler_MiddlewareRecovers(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("broken")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
