package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travelhub/backend/internal/domain"
)

// RegisterRequest is the body of POST /api/auth/register. The email format
// is checked while decoding.
type RegisterRequest struct {
	Email       openapi_types.Email `json:"email"`
	UserName    string              `json:"user_name"`
	DisplayName string              `json:"display_name"`
	Password    string              `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of a user. The password hash never leaves
// the service layer.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email,omitempty"`
	UserName    string    `json:"user_name"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Register handles POST /api/auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	user, err := s.svc.Users.Register(r.Context(), string(body.Email), body.UserName, body.DisplayName, body.Password)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(user))
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	session, err := s.svc.Users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		User:      userToResponse(session.User),
	})
}

// GetMe handles GET /api/users/me.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	user, err := s.svc.Users.Get(r.Context(), me)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// SearchUsers handles GET /api/users?q=prefix.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
// Emails are not included in search results.
func (s *Server) SearchUsers(w http.ResponseWriter, r *http.Request) {
	params := paginationParams(r)
	users, total, err := s.svc.Users.Search(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newPage(users, publicUser, params, total))
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		UserName:    u.UserName,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func publicUser(u domain.User) UserResponse {
	resp := userToResponse(u)
	resp.Email = ""
	return resp
}
