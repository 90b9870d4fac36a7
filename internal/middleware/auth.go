package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/auth"
)

// TokenParser validates an access token and returns the user it was issued
// to. Satisfied by *auth.Tokens.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// NewAuth rejects requests without a valid "Authorization: Bearer <token>"
// header with 401 and stores the authenticated user ID in the request
// context for auth.UserID.
func NewAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="travelhub"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			userID, err := tokens.Parse(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="travelhub", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
