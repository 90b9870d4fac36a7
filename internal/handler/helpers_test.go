package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/handler"
)

// tokenParser accepts "user-<uuid>" tokens so tests pick the caller freely.
type tokenParser struct{}

func (tokenParser) Parse(token string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(token, "user-")
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return uuid.Parse(raw)
}

// newHTTPHandler wires a Server with the given mocks into its router.
// This mirrors how main.go mounts it, minus the global middleware.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, tokenParser{}, nil).Routes()
}

// newLoggedHTTPHandler is newHTTPHandler with a captured JSON log.
func newLoggedHTTPHandler(svc handler.Services, buf *bytes.Buffer) http.Handler {
	log := slog.New(slog.NewJSONHandler(buf, nil))
	return handler.NewServer(svc, tokenParser{}, log).Routes()
}

// call performs one request as user (uuid.Nil means anonymous).
func call(t *testing.T, h http.Handler, user uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != uuid.Nil {
		req.Header.Set("Authorization", "Bearer user-"+user.String())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// errorBody decodes the standard error envelope.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error
}

// domainValidation builds an error the way services do.
func domainValidation(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
