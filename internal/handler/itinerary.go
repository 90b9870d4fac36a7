package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
)

// DayRequest is the body of POST /days and PUT /days/{dayID}.
type DayRequest struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

// DayResponse is the API view of an itinerary day.
type DayResponse struct {
	ID        uuid.UUID           `json:"id"`
	TripID    uuid.UUID           `json:"trip_id"`
	Number    int                 `json:"number"`
	Date      *openapi_types.Date `json:"date"`
	Title     string              `json:"title"`
	Notes     string              `json:"notes"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ActivityRequest is the body of POST /activities and PUT /activities/{id}.
// DayID is only read on create; use the move endpoint to reschedule.
type ActivityRequest struct {
	Kind        string              `json:"kind"`
	DayID       *uuid.UUID          `json:"day_id,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	StartsAt    *time.Time          `json:"starts_at,omitempty"`
	EndsAt      *time.Time          `json:"ends_at,omitempty"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
	Address     string              `json:"address"`
	Cost        *decimal.Decimal    `json:"cost,omitempty"`
	Currency    string              `json:"currency"`
	CheckIn     *openapi_types.Date `json:"check_in,omitempty"`
	CheckOut    *openapi_types.Date `json:"check_out,omitempty"`
}

// ActivityResponse is the API view of an activity, spot or accommodation.
type ActivityResponse struct {
	ID          uuid.UUID           `json:"id"`
	TripID      uuid.UUID           `json:"trip_id"`
	DayID       *uuid.UUID          `json:"day_id"`
	Kind        string              `json:"kind"`
	Order       int                 `json:"order"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	StartsAt    *time.Time          `json:"starts_at"`
	EndsAt      *time.Time          `json:"ends_at"`
	Latitude    *float64            `json:"latitude"`
	Longitude   *float64            `json:"longitude"`
	Address     string              `json:"address"`
	Cost        *decimal.Decimal    `json:"cost"`
	Currency    string              `json:"currency"`
	CheckIn     *openapi_types.Date `json:"check_in,omitempty"`
	CheckOut    *openapi_types.Date `json:"check_out,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// MoveRequest is the body of POST /activities/{activityID}/move.
// A null day_id moves the activity to the unscheduled list.
type MoveRequest struct {
	DayID    *uuid.UUID `json:"day_id"`
	Position int        `json:"position"`
}

// TransportRequest is the body of POST /transports.
type TransportRequest struct {
	FromActivityID uuid.UUID        `json:"from_activity_id"`
	ToActivityID   uuid.UUID        `json:"to_activity_id"`
	Mode           string           `json:"mode"`
	DepartsAt      *time.Time       `json:"departs_at,omitempty"`
	ArrivesAt      *time.Time       `json:"arrives_at,omitempty"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	Currency       string           `json:"currency"`
	Notes          string           `json:"notes"`
}

// TransportResponse is the API view of a transport leg.
type TransportResponse struct {
	ID             uuid.UUID        `json:"id"`
	TripID         uuid.UUID        `json:"trip_id"`
	FromActivityID uuid.UUID        `json:"from_activity_id"`
	ToActivityID   uuid.UUID        `json:"to_activity_id"`
	Mode           string           `json:"mode"`
	DepartsAt      *time.Time       `json:"departs_at"`
	ArrivesAt      *time.Time       `json:"arrives_at"`
	Cost           *decimal.Decimal `json:"cost"`
	Currency       string           `json:"currency"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ---- Days --------------------------------------------------------------------

// ListDays handles GET /api/trips/{tripID}/days.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	days, err := s.svc.Itinerary.ListDays(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(days, dayToResponse))
}

// AddDay handles POST /api/trips/{tripID}/days. The day is appended.
func (s *Server) AddDay(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body DayRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	day, err := s.svc.Itinerary.AddDay(r.Context(), me, tripID, body.Title, body.Notes)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, dayToResponse(day))
}

// UpdateDay handles PUT /api/trips/{tripID}/days/{dayID}.
func (s *Server) UpdateDay(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	dayID, err := pathID(r, "dayID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body DayRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	day, err := s.svc.Itinerary.UpdateDay(r.Context(), me, domain.Day{ID: dayID, TripID: tripID, Title: body.Title, Notes: body.Notes})
	if err != nil {
		s.writeError(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(day))
}

// DeleteDay handles DELETE /api/trips/{tripID}/days/{dayID}.
func (s *Server) DeleteDay(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	dayID, err := pathID(r, "dayID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Itinerary.DeleteDay(r.Context(), me, tripID, dayID); err != nil {
		s.writeError(w, r, err, "day")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Activities --------------------------------------------------------------

// ListActivities handles GET /api/trips/{tripID}/activities.
// ?day={dayID} narrows to one day in order, ?day=unscheduled to the
// unscheduled list.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}

	var (
		items []domain.Activity
		err   error
	)
	switch day := r.URL.Query().Get("day"); day {
	case "":
		items, err = s.svc.Itinerary.ListActivities(r.Context(), me, tripID)
	case "unscheduled":
		items, err = s.svc.Itinerary.ListDayActivities(r.Context(), me, tripID, nil)
	default:
		var dayID *uuid.UUID
		if dayID, err = queryID(r, "day"); err == nil {
			items, err = s.svc.Itinerary.ListDayActivities(r.Context(), me, tripID, dayID)
		}
	}
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(items, activityToResponse))
}

// GetActivity handles GET /api/trips/{tripID}/activities/{activityID}.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	activityID, err := pathID(r, "activityID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	a, err := s.svc.Itinerary.GetActivity(r.Context(), me, tripID, activityID)
	if err != nil {
		s.writeError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(a))
}

// CreateActivity handles POST /api/trips/{tripID}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body ActivityRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	created, err := s.svc.Itinerary.CreateActivity(r.Context(), me, requestToActivity(uuid.Nil, tripID, body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, activityToResponse(created))
}

// UpdateActivity handles PUT /api/trips/{tripID}/activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	activityID, err := pathID(r, "activityID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body ActivityRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	updated, err := s.svc.Itinerary.UpdateActivity(r.Context(), me, requestToActivity(activityID, tripID, body))
	if err != nil {
		s.writeError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(updated))
}

// DeleteActivity handles DELETE /api/trips/{tripID}/activities/{activityID}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	activityID, err := pathID(r, "activityID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Itinerary.DeleteActivity(r.Context(), me, tripID, activityID); err != nil {
		s.writeError(w, r, err, "activity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveActivity handles POST /api/trips/{tripID}/activities/{activityID}/move.
func (s *Server) MoveActivity(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	activityID, err := pathID(r, "activityID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body MoveRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	moved, err := s.svc.Itinerary.MoveActivity(r.Context(), me, tripID, activityID, body.DayID, body.Position)
	if err != nil {
		s.writeError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(moved))
}

// ---- Transports --------------------------------------------------------------

// ListTransports handles GET /api/trips/{tripID}/transports.
func (s *Server) ListTransports(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	legs, err := s.svc.Itinerary.ListTransports(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(legs, transportToResponse))
}

// CreateTransport handles POST /api/trips/{tripID}/transports.
func (s *Server) CreateTransport(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body TransportRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	created, err := s.svc.Itinerary.CreateTransport(r.Context(), me, domain.Transport{
		TripID:         tripID,
		FromActivityID: body.FromActivityID,
		ToActivityID:   body.ToActivityID,
		Mode:           domain.TransportMode(body.Mode),
		DepartsAt:      body.DepartsAt,
		ArrivesAt:      body.ArrivesAt,
		Cost:           body.Cost,
		Currency:       body.Currency,
		Notes:          body.Notes,
	})
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, transportToResponse(created))
}

// DeleteTransport handles DELETE /api/trips/{tripID}/transports/{transportID}.
func (s *Server) DeleteTransport(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	transportID, err := pathID(r, "transportID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Itinerary.DeleteTransport(r.Context(), me, tripID, transportID); err != nil {
		s.writeError(w, r, err, "transport")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func requestToActivity(id, tripID uuid.UUID, body ActivityRequest) domain.Activity {
	return domain.Activity{
		ID:          id,
		TripID:      tripID,
		DayID:       body.DayID,
		Kind:        domain.ActivityKind(body.Kind),
		Name:        body.Name,
		Description: body.Description,
		StartsAt:    body.StartsAt,
		EndsAt:      body.EndsAt,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		Address:     body.Address,
		Cost:        body.Cost,
		Currency:    body.Currency,
		CheckIn:     dateOrNil(body.CheckIn),
		CheckOut:    dateOrNil(body.CheckOut),
	}
}

func dayToResponse(d domain.Day) DayResponse {
	return DayResponse{
		ID:        d.ID,
		TripID:    d.TripID,
		Number:    d.Number,
		Date:      apiDate(d.Date),
		Title:     d.Title,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func activityToResponse(a domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		TripID:      a.TripID,
		DayID:       a.DayID,
		Kind:        string(a.Kind),
		Order:       a.Order,
		Name:        a.Name,
		Description: a.Description,
		StartsAt:    a.StartsAt,
		EndsAt:      a.EndsAt,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		Address:     a.Address,
		Cost:        a.Cost,
		Currency:    a.Currency,
		CheckIn:     apiDate(a.CheckIn),
		CheckOut:    apiDate(a.CheckOut),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func transportToResponse(t domain.Transport) TransportResponse {
	return TransportResponse{
		ID:             t.ID,
		TripID:         t.TripID,
		FromActivityID: t.FromActivityID,
		ToActivityID:   t.ToActivityID,
		Mode:           string(t.Mode),
		DepartsAt:      t.DepartsAt,
		ArrivesAt:      t.ArrivesAt,
		Cost:           t.Cost,
		Currency:       t.Currency,
		Notes:          t.Notes,
		CreatedAt:      t.CreatedAt,
	}
}
