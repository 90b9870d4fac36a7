package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travelhub/backend/internal/domain"
)

// TripRequest is the body of POST /api/trips and PUT /api/trips/{tripID}.
type TripRequest struct {
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	StartDate   *openapi_types.Date `json:"start_date,omitempty"`
	EndDate     *openapi_types.Date `json:"end_date,omitempty"`
	Currency    *string             `json:"currency,omitempty"`
}

// TripResponse is the API view of a trip.
type TripResponse struct {
	ID          uuid.UUID           `json:"id"`
	OwnerID     uuid.UUID           `json:"owner_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	Currency    string              `json:"currency"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ParticipantRequest is the body of POST /api/trips/{tripID}/participants.
type ParticipantRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// ParticipantResponse is one member of a trip.
type ParticipantResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	UserName    string    `json:"user_name"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CoordinateResponse is a WGS84 point.
type CoordinateResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	created, err := s.svc.Trips.Create(r.Context(), me, requestToTrip(uuid.Nil, body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /api/trips: the trips the caller participates in.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	params := paginationParams(r)
	trips, total, err := s.svc.Trips.List(r.Context(), me, params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newPage(trips, tripToResponse, params, total))
}

// GetTrip handles GET /api/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	trip, err := s.svc.Trips.Get(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /api/trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	updated, err := s.svc.Trips.Update(r.Context(), me, requestToTrip(tripID, body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /api/trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	if err := s.svc.Trips.Delete(r.Context(), me, tripID); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMapCenter handles GET /api/trips/{tripID}/map-center[?day=].
func (s *Server) GetMapCenter(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	dayID, err := queryID(r, "day")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	c, err := s.svc.Trips.MapCenter(r.Context(), me, tripID, dayID)
	if err != nil {
		s.writeError(w, r, err, "located activity")
		return
	}
	writeJSON(w, http.StatusOK, CoordinateResponse{Latitude: c.Latitude, Longitude: c.Longitude})
}

// ListParticipants handles GET /api/trips/{tripID}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	members, err := s.svc.Trips.ListParticipants(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(members, participantToResponse))
}

// AddParticipant handles POST /api/trips/{tripID}/participants.
func (s *Server) AddParticipant(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body ParticipantRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Trips.AddParticipant(r.Context(), me, tripID, body.UserID); err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveParticipant handles DELETE /api/trips/{tripID}/participants/{userID}.
// A participant may remove themselves to leave the trip.
func (s *Server) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Trips.RemoveParticipant(r.Context(), me, tripID, userID); err != nil {
		s.writeError(w, r, err, "participant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tripRequest resolves the caller and the {tripID} path parameter shared by
// every trip-scoped route, writing the error response itself when either is
// missing.
func (s *Server) tripRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.writeError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return me, tripID, true
}

// requestToTrip converts a request body into a domain.Trip, keeping the path ID.
func requestToTrip(id uuid.UUID, body TripRequest) domain.Trip {
	return domain.Trip{
		ID:          id,
		Name:        body.Name,
		Description: deref(body.Description),
		StartDate:   dateOrNil(body.StartDate),
		EndDate:     dateOrNil(body.EndDate),
		Currency:    deref(body.Currency),
	}
}

func tripToResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		StartDate:   apiDate(t.StartDate),
		EndDate:     apiDate(t.EndDate),
		Currency:    t.Currency,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func participantToResponse(p domain.TripParticipant) ParticipantResponse {
	return ParticipantResponse{
		UserID:      p.UserID,
		Role:        string(p.Role),
		UserName:    p.UserName,
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt,
	}
}
