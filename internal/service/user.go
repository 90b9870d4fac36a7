package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/auth"
	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// TokenIssuer signs access tokens. Satisfied by *auth.Tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// UserService implements registration, login and user lookup.
type UserService struct {
	users  repo.UserRepo
	tokens TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(users repo.UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register validates input, hashes the password and creates the account.
// Returns domain.ErrConflict when the email or user name is taken.
func (s *UserService) Register(ctx context.Context, email, userName, displayName, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	userName, err := required("user_name", userName)
	if err != nil {
		return domain.User{}, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return domain.User{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordBytes)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = userName
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		UserName:     userName,
		DisplayName:  displayName,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return u, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password yield the same domain.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	invalid := fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, invalid
	}
	if err != nil {
		return Session{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return Session{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	if !ok {
		return Session{}, invalid
	}

	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Get: %w", err)
	}
	return u, nil
}

// Search returns a page of users whose name starts with prefix.
func (s *UserService) Search(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error) {
	users, total, err := s.users.Search(ctx, strings.TrimSpace(prefix), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.UserService.Search: %w", err)
	}
	return nonNil(users), total, nil
}
