package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// ChecklistService manages a trip's checklist.
type ChecklistService struct {
	trips repo.TripRepo
	items repo.ChecklistRepo
}

// NewChecklistService constructs a ChecklistService.
func NewChecklistService(trips repo.TripRepo, items repo.ChecklistRepo) *ChecklistService {
	return &ChecklistService{trips: trips, items: items}
}

// List returns the trip's items in creation order.
func (s *ChecklistService) List(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ChecklistService.List: %w", err)
	}
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ChecklistService.List: %w", err)
	}
	return nonNil(items), nil
}

// Create adds an item. Titles compare case-insensitively with whitespace
// collapsed; a duplicate yields domain.ErrConflict.
func (s *ChecklistService) Create(ctx context.Context, actor, tripID uuid.UUID, title string) (domain.ChecklistItem, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, actor); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Create: %w", err)
	}
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return domain.ChecklistItem{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	item, err := s.items.Create(ctx, domain.ChecklistItem{TripID: tripID, Title: title})
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.Create: %w", err)
	}
	return item, nil
}

// SetDone toggles an item.
func (s *ChecklistService) SetDone(ctx context.Context, actor, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, actor); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.SetDone: %w", err)
	}
	item, err := s.items.SetDone(ctx, tripID, itemID, done)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.SetDone: %w", err)
	}
	return item, nil
}

// Delete removes an item.
func (s *ChecklistService) Delete(ctx context.Context, actor, tripID, itemID uuid.UUID) error {
	if _, err := tripAccess(ctx, s.trips, tripID, actor); err != nil {
		return fmt.Errorf("service.ChecklistService.Delete: %w", err)
	}
	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.ChecklistService.Delete: %w", err)
	}
	return nil
}
