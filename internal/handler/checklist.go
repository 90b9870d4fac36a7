package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
)

// ChecklistItemRequest is the body of POST /checklist.
type ChecklistItemRequest struct {
	Title string `json:"title"`
}

// ChecklistDoneRequest is the body of PATCH /checklist/{itemID}.
type ChecklistDoneRequest struct {
	Done bool `json:"done"`
}

// ChecklistItemResponse is the API view of a checklist item.
type ChecklistItemResponse struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// ListChecklist handles GET /api/trips/{tripID}/checklist.
func (s *Server) ListChecklist(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	items, err := s.svc.Checklist.List(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(items, checklistItemToResponse))
}

// CreateChecklistItem handles POST /api/trips/{tripID}/checklist.
func (s *Server) CreateChecklistItem(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body ChecklistItemRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	item, err := s.svc.Checklist.Create(r.Context(), me, tripID, body.Title)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, checklistItemToResponse(item))
}

// SetChecklistItemDone handles PATCH /api/trips/{tripID}/checklist/{itemID}.
func (s *Server) SetChecklistItemDone(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body ChecklistDoneRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	item, err := s.svc.Checklist.SetDone(r.Context(), me, tripID, itemID, body.Done)
	if err != nil {
		s.writeError(w, r, err, "checklist item")
		return
	}
	writeJSON(w, http.StatusOK, checklistItemToResponse(item))
}

// DeleteChecklistItem handles DELETE /api/trips/{tripID}/checklist/{itemID}.
func (s *Server) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Checklist.Delete(r.Context(), me, tripID, itemID); err != nil {
		s.writeError(w, r, err, "checklist item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func checklistItemToResponse(i domain.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{ID: i.ID, TripID: i.TripID, Title: i.Title, Done: i.Done, CreatedAt: i.CreatedAt}
}
