package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
)

// TagRequest is the body of POST /posts/{postID}/tags.
type TagRequest struct {
	Name string `json:"name"`
}

// TagResponse is the API view of a tag.
type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ListTags handles GET /api/tags?q=prefix.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	params := paginationParams(r)
	tags, total, err := s.svc.Tags.List(r.Context(), r.URL.Query().Get("q"), params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newPage(tags, tagToResponse, params, total))
}

func tagToResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, CreatedAt: t.CreatedAt}
}
