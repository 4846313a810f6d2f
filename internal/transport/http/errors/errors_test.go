package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/painter-gallery/internal/service"
	"github.com/pribylovaa/painter-gallery/internal/storage"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	wrap := func(err error) error { return fmt.Errorf("service.Op: %w", err) }

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"nil", nil, http.StatusInternalServerError, "internal"},
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "invalid_argument"},
		{"invalid email", wrap(service.ErrInvalidEmail), http.StatusBadRequest, "invalid_argument"},
		{"weak password", wrap(service.ErrWeakPassword), http.StatusBadRequest, "invalid_argument"},
		{"empty password", wrap(service.ErrEmptyPassword), http.StatusBadRequest, "invalid_argument"},
		{"unauthenticated", wrap(service.ErrUnauthenticated), http.StatusUnauthorized, "unauthenticated"},
		{"credentials", wrap(service.ErrInvalidCredentials), http.StatusUnauthorized, "invalid_credentials"},
		{"not found", wrap(service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"email taken", wrap(service.ErrEmailTaken), http.StatusConflict, "already_exists"},
		{"canceled", fmt.Errorf("%w: %w", service.ErrInternal, context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", fmt.Errorf("%w: %w", service.ErrInternal, context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", fmt.Errorf("%w: %w", service.ErrInternal, storage.ErrUnexpected), http.StatusInternalServerError, "internal"},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.code, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_DoesNotLeakDetails(t *testing.T) {
	t.Parallel()

	_, resp := ToHTTP(fmt.Errorf("%w: pq: password authentication failed for user admin", service.ErrInternal))
	require.Equal(t, "internal error", resp.Error.Message)

	_, resp = ToHTTP(fmt.Errorf("service.Refresh: %w", service.ErrUnauthenticated))
	require.Equal(t, "unauthenticated", resp.Error.Message)
}

func TestWriteError_EnvelopeWithRequestID(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, service.ErrUnauthenticated)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "unauthenticated", env.Error.Code)
	require.Equal(t, "rid-1", env.Error.RequestID)
}
