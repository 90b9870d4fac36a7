package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
)

// FriendRequestBody is the body of POST /api/friends/requests.
type FriendRequestBody struct {
	UserID uuid.UUID `json:"user_id"`
}

// FriendRequestResponse is the API view of a friend request.
type FriendRequestResponse struct {
	ID         uuid.UUID  `json:"id"`
	FromUserID uuid.UUID  `json:"from_user_id"`
	ToUserID   uuid.UUID  `json:"to_user_id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

// SendFriendRequest handles POST /api/friends/requests.
func (s *Server) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body FriendRequestBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	req, err := s.svc.Friends.SendRequest(r.Context(), me, body.UserID)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusCreated, friendRequestToResponse(req))
}

// AcceptFriendRequest handles POST /api/friends/requests/{requestID}/accept.
func (s *Server) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.resolveFriendRequest(w, r, s.svc.Friends.Accept)
}

// DeclineFriendRequest handles POST /api/friends/requests/{requestID}/decline.
func (s *Server) DeclineFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.resolveFriendRequest(w, r, s.svc.Friends.Decline)
}

// CancelFriendRequest handles POST /api/friends/requests/{requestID}/cancel.
func (s *Server) CancelFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.resolveFriendRequest(w, r, s.svc.Friends.Cancel)
}

func (s *Server) resolveFriendRequest(w http.ResponseWriter, r *http.Request,
	transition func(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error),
) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	req, err := transition(r.Context(), me, requestID)
	if err != nil {
		s.writeError(w, r, err, "friend request")
		return
	}
	writeJSON(w, http.StatusOK, friendRequestToResponse(req))
}

// ListIncomingRequests handles GET /api/friends/requests/incoming.
func (s *Server) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	s.listFriendRequests(w, r, s.svc.Friends.ListIncoming)
}

// ListOutgoingRequests handles GET /api/friends/requests/outgoing.
func (s *Server) ListOutgoingRequests(w http.ResponseWriter, r *http.Request) {
	s.listFriendRequests(w, r, s.svc.Friends.ListOutgoing)
}

func (s *Server) listFriendRequests(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error),
) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	reqs, err := list(r.Context(), me)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newList(reqs, friendRequestToResponse))
}

// ListFriends handles GET /api/friends.
func (s *Server) ListFriends(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	friends, err := s.svc.Friends.ListFriends(r.Context(), me)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newList(friends, publicUser))
}

// Unfriend handles DELETE /api/friends/{userID}.
func (s *Server) Unfriend(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	friendID, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Friends.Unfriend(r.Context(), me, friendID); err != nil {
		s.writeError(w, r, err, "friend")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func friendRequestToResponse(f domain.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:         f.ID,
		FromUserID: f.FromUserID,
		ToUserID:   f.ToUserID,
		Status:     string(f.Status),
		CreatedAt:  f.CreatedAt,
		ResolvedAt: f.ResolvedAt,
	}
}
