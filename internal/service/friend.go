package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/metrics"
	"github.com/travelhub/backend/internal/repo"
)

// FriendService implements the friend request lifecycle:
//
//	pending -> accepted | declined | cancelled
//
// Only the recipient accepts or declines, only the sender cancels, and a
// resolved request never changes again.
type FriendService struct {
	users    repo.UserRepo
	friends  repo.FriendRepo
	notifier Notifier
}

// NewFriendService constructs a FriendService.
func NewFriendService(users repo.UserRepo, friends repo.FriendRepo, notifier Notifier) *FriendService {
	return &FriendService{users: users, friends: friends, notifier: notifier}
}

// SendRequest opens a request from actor to the given user.
// Returns domain.ErrConflict when the two are already friends or a request is
// pending in either direction.
func (s *FriendService) SendRequest(ctx context.Context, actor, to uuid.UUID) (domain.FriendRequest, error) {
	if actor == to {
		return domain.FriendRequest{}, fmt.Errorf("%w: cannot send a friend request to yourself", domain.ErrValidation)
	}
	sender, err := s.users.GetByID(ctx, actor)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.SendRequest: %w", err)
	}
	if _, err := s.users.GetByID(ctx, to); err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.SendRequest: %w", err)
	}

	friends, err := s.friends.AreFriends(ctx, actor, to)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.SendRequest: %w", err)
	}
	if friends {
		return domain.FriendRequest{}, fmt.Errorf("%w: already friends", domain.ErrConflict)
	}
	pending, err := s.friends.HasPending(ctx, actor, to)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.SendRequest: %w", err)
	}
	if pending {
		return domain.FriendRequest{}, fmt.Errorf("%w: a friend request is already pending", domain.ErrConflict)
	}

	req, err := s.friends.CreateRequest(ctx, actor, to)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.SendRequest: %w", err)
	}
	metrics.FriendRequest("sent")
	s.notifier.Notify(ctx, domain.Notification{
		UserID:     to,
		Kind:       domain.NotifyFriendRequest,
		Message:    fmt.Sprintf("%s sent you a friend request", sender.DisplayName),
		EntityType: "friend_request",
		EntityID:   &req.ID,
	})
	return req, nil
}

// Accept resolves a request addressed to actor and creates the friendship.
func (s *FriendService) Accept(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error) {
	if _, err := s.pending(ctx, actor, requestID, true); err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.Accept: %w", err)
	}
	req, err := s.friends.Accept(ctx, requestID)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.Accept: %w", err)
	}
	metrics.FriendRequest("accepted")

	message := "Your friend request was accepted"
	if u, err := s.users.GetByID(ctx, actor); err == nil {
		message = fmt.Sprintf("%s accepted your friend request", u.DisplayName)
	}
	s.notifier.Notify(ctx, domain.Notification{
		UserID:     req.FromUserID,
		Kind:       domain.NotifyFriendAccepted,
		Message:    message,
		EntityType: "user",
		EntityID:   &actor,
	})
	return req, nil
}

// Decline resolves a request addressed to actor without a friendship.
func (s *FriendService) Decline(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error) {
	if _, err := s.pending(ctx, actor, requestID, true); err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.Decline: %w", err)
	}
	req, err := s.friends.Resolve(ctx, requestID, domain.FriendRequestDeclined)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.Decline: %w", err)
	}
	metrics.FriendRequest("declined")
	return req, nil
}

// Cancel withdraws a request actor sent.
func (s *FriendService) Cancel(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error) {
	if _, err := s.pending(ctx, actor, requestID, false); err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.Cancel: %w", err)
	}
	req, err := s.friends.Resolve(ctx, requestID, domain.FriendRequestCancelled)
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("service.FriendService.Cancel: %w", err)
	}
	metrics.FriendRequest("cancelled")
	return req, nil
}

// ListIncoming returns pending requests addressed to actor.
func (s *FriendService) ListIncoming(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error) {
	out, err := s.friends.ListPending(ctx, actor, true)
	if err != nil {
		return nil, fmt.Errorf("service.FriendService.ListIncoming: %w", err)
	}
	return nonNil(out), nil
}

// ListOutgoing returns pending requests actor sent.
func (s *FriendService) ListOutgoing(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error) {
	out, err := s.friends.ListPending(ctx, actor, false)
	if err != nil {
		return nil, fmt.Errorf("service.FriendService.ListOutgoing: %w", err)
	}
	return nonNil(out), nil
}

// ListFriends returns actor's friends.
func (s *FriendService) ListFriends(ctx context.Context, actor uuid.UUID) ([]domain.User, error) {
	out, err := s.friends.ListFriends(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("service.FriendService.ListFriends: %w", err)
	}
	return nonNil(out), nil
}

// Unfriend removes the friendship in both directions.
func (s *FriendService) Unfriend(ctx context.Context, actor, friend uuid.UUID) error {
	if err := s.friends.Unfriend(ctx, actor, friend); err != nil {
		return fmt.Errorf("service.FriendService.Unfriend: %w", err)
	}
	return nil
}

// pending loads a request actor takes part in and checks that it is still
// open and that actor is on the expected side of it. Requests between other
// users are reported as not found.
func (s *FriendService) pending(ctx context.Context, actor, requestID uuid.UUID, asRecipient bool) (domain.FriendRequest, error) {
	req, err := s.friends.GetRequest(ctx, requestID)
	if err != nil {
		return domain.FriendRequest{}, err
	}
	if req.FromUserID != actor && req.ToUserID != actor {
		return domain.FriendRequest{}, fmt.Errorf("friend request: %w", domain.ErrNotFound)
	}
	if asRecipient && req.ToUserID != actor {
		return domain.FriendRequest{}, fmt.Errorf("%w: only the recipient can answer a friend request", domain.ErrForbidden)
	}
	if !asRecipient && req.FromUserID != actor {
		return domain.FriendRequest{}, fmt.Errorf("%w: only the sender can cancel a friend request", domain.ErrForbidden)
	}
	if req.Status.IsTerminal() {
		return domain.FriendRequest{}, fmt.Errorf("%w: friend request is already %s", domain.ErrConflict, req.Status)
	}
	return req, nil
}
