package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/travelhub/backend/internal/domain"
)

// ErrorDetail is the body of every non-2xx response:
// {"error":{"code":"not_found","message":"trip not found"}}.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// errorKinds maps domain sentinels to HTTP status and error code, checked in
// order with errors.Is.
var errorKinds = []struct {
	sentinel error
	status   int
	code     string
}{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
}

// writeError maps err to a status and writes the error body. resource names
// what was looked up ("trip") and is used for bare not-found errors.
// Anything that is not a domain error is logged and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.sentinel) {
			continue
		}
		msg := unwrapMessage(err, k.sentinel)
		if msg == "" {
			msg = k.sentinel.Error()
			if k.sentinel == domain.ErrNotFound && resource != "" {
				msg = resource + " not found"
			}
		}
		writeProblem(w, k.status, k.code, msg)
		return
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		writeProblem(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}

	s.log.ErrorContext(r.Context(), "unhandled error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.Any("error", err),
	)
	writeProblem(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// writeProblem writes an ErrorResponse with the given status.
func writeProblem(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// unwrapMessage extracts the human-readable part that follows the sentinel.
// e.g. "validation error: name is required" → "name is required".
// Returns "" when the sentinel carries no detail.
func unwrapMessage(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return ""
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
