package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travelhub/backend/internal/auth"
	"github.com/travelhub/backend/internal/domain"
)

// Pagination is the paging block of list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Page is the envelope of every paged list: {"data":[...],"pagination":{...}}.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// List is the envelope of unpaged lists.
type List[T any] struct {
	Data []T `json:"data"`
}

// newPage maps items with conv and wraps them with the paging block.
func newPage[D, T any](items []D, conv func(D) T, p domain.PaginationParams, total int64) Page[T] {
	return Page[T]{
		Data:       mapSlice(items, conv),
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: int(total)},
	}
}

func newList[D, T any](items []D, conv func(D) T) List[T] {
	return List[T]{Data: mapSlice(items, conv)}
}

func mapSlice[D, T any](items []D, conv func(D) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = conv(it)
	}
	return out
}

// actor returns the authenticated user. The auth middleware guarantees it
// on every /api route except /api/auth/*.
func actor(r *http.Request) (uuid.UUID, error) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// pathID parses the UUID path parameter name.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", domain.ErrValidation, name)
	}
	return id, nil
}

// decodeJSON reads the request body into v. An empty or malformed body is
// a validation error; an oversized one surfaces as *http.MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrValidation)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrValidation)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}

// paginationParams reads ?page= and ?limit=. Malformed values fall back to
// the defaults, as missing ones do.
func paginationParams(r *http.Request) domain.PaginationParams {
	return domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
}

func queryInt(r *http.Request, key string) *int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}

// queryID parses an optional UUID query parameter.
func queryID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid id", domain.ErrValidation, key)
	}
	return &id, nil
}

// dateOrNil converts an optional API date to the domain's *time.Time.
func dateOrNil(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// apiDate converts an optional domain date to the API's date type.
func apiDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
