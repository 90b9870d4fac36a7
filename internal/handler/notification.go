package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
)

// NotificationResponse is the API view of a notification.
type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	EntityType string     `json:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id"`
	IsRead     bool       `json:"is_read"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ListNotifications handles GET /api/notifications, newest first.
// ?unread=true narrows to unread ones; ?page= and ?limit= page the result.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	params := paginationParams(r)
	items, total, err := s.svc.Notifications.List(r.Context(), me, unread, params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newPage(items, notificationToResponse, params, total))
}

// UnreadNotificationCount handles GET /api/notifications/unread-count.
func (s *Server) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	n, err := s.svc.Notifications.UnreadCount(r.Context(), me)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// MarkNotificationRead handles POST /api/notifications/{notificationID}/read.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	id, err := pathID(r, "notificationID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	n, err := s.svc.Notifications.MarkRead(r.Context(), me, id)
	if err != nil {
		s.writeError(w, r, err, "notification")
		return
	}
	writeJSON(w, http.StatusOK, notificationToResponse(n))
}

// MarkAllNotificationsRead handles POST /api/notifications/read and returns
// how many notifications changed.
func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	n, err := s.svc.Notifications.MarkAllRead(r.Context(), me)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

func notificationToResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Kind:       string(n.Kind),
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}
