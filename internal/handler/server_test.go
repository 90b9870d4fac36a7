package handler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/handler"
)

func TestHealth(t *testing.T) {
	h := newHTTPHandler(handler.Services{})

	rec := call(t, h, uuid.Nil, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOpenAPI_servedWithoutAuth(t *testing.T) {
	h := newHTTPHandler(handler.Services{})

	rec := call(t, h, uuid.Nil, http.MethodGet, "/openapi.yaml", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}

func TestMetrics_servedWithoutAuth(t *testing.T) {
	h := newHTTPHandler(handler.Services{})

	rec := call(t, h, uuid.Nil, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "travelhub_")
}

func TestUnknownRoute_JSON404(t *testing.T) {
	h := newHTTPHandler(handler.Services{})

	rec := call(t, h, uuid.Nil, http.MethodGet, "/nope", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorBody(t, rec).Code)
}

func TestAPI_requiresBearerToken(t *testing.T) {
	h := newHTTPHandler(handler.Services{})

	for _, path := range []string{"/api/trips", "/api/users/me", "/api/notifications", "/api/friends"} {
		rec := call(t, h, uuid.Nil, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

// TestErrorMapping drives every sentinel through one endpoint and checks the
// status, code and the message extracted from the wrapped error.
func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"bare not found", fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound), http.StatusNotFound, "not_found", "trip not found"},
		{"validation detail", fmt.Errorf("%w: name is required", domain.ErrValidation), http.StatusUnprocessableEntity, "validation_error", "name is required"},
		{"forbidden", fmt.Errorf("service.TripService.Get: %w", domain.ErrForbidden), http.StatusForbidden, "forbidden", "forbidden"},
		{"conflict detail", fmt.Errorf("service.X: %w: already a participant", domain.ErrConflict), http.StatusConflict, "conflict", "already a participant"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "unauthorized"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			trips := &mockTrips{get: func(context.Context, uuid.UUID, uuid.UUID) (domain.Trip, error) {
				return domain.Trip{}, tc.err
			}}
			h := newLoggedHTTPHandler(handler.Services{Trips: trips}, &logs)

			rec := call(t, h, uuid.New(), http.MethodGet, "/api/trips/"+uuid.NewString(), nil)

			require.Equal(t, tc.status, rec.Code)
			body := errorBody(t, rec)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Message)
			if tc.status == http.StatusInternalServerError {
				assert.Contains(t, logs.String(), "connection reset")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestInvalidPathID_422(t *testing.T) {
	h := newHTTPHandler(handler.Services{Trips: &mockTrips{}})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/trips/not-a-uuid", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "tripID is not a valid id", errorBody(t, rec).Message)
}

func TestMalformedBody_422(t *testing.T) {
	h := newHTTPHandler(handler.Services{Trips: &mockTrips{}})

	rec := call(t, h, uuid.New(), http.MethodPost, "/api/trips", "{not json")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorBody(t, rec).Message, "malformed JSON body")
}
