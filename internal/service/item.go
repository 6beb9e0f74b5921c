package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/repo"
)

// ItemService implements CRUD for the items embedded in a trip.
type ItemService struct {
	trips repo.TripRepo
}

// NewItemService constructs an ItemService backed by the provided TripRepo.
func NewItemService(trips repo.TripRepo) *ItemService {
	return &ItemService{trips: trips}
}

// List returns the items of a trip.
func (s *ItemService) List(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.List: %w", err)
	}
	return trip.Items, nil
}

// Add appends a new item to the trip and returns it.
// Quantity defaults to 1 when nil; an explicit quantity below 1 is rejected.
// A category the trip does not know yet is added to the trip's categories in
// the same update.
func (s *ItemService) Add(ctx context.Context, tripID uuid.UUID, in domain.ItemInput) (domain.Item, error) {
	if err := validateItemInput(in); err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Add: %w", err)
	}

	var created domain.Item
	_, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		item, err := newItem(t, in)
		if err != nil {
			return err
		}
		t.Items = append(t.Items, item)
		created = item
		return nil
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Add: %w", err)
	}
	return created, nil
}

// Edit merges the non-nil patch fields into an existing item.
// Returns domain.ErrNotFound if the trip or the item does not exist.
func (s *ItemService) Edit(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Item{}, fmt.Errorf("service.ItemService.Edit: %w: name must not be empty", domain.ErrValidation)
	}
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return domain.Item{}, fmt.Errorf("service.ItemService.Edit: %w: quantity must be at least 1", domain.ErrValidation)
	}

	var updated domain.Item
	_, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		i := t.ItemByID(itemID)
		if i < 0 {
			return fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
		}
		item := t.Items[i]
		if patch.Name != nil {
			item.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Category != nil {
			item.Category = resolveCategory(t, *patch.Category)
		}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
		}
		t.Items[i] = item
		updated = item
		return nil
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Edit: %w", err)
	}
	return updated, nil
}

// Delete removes an item from its trip.
func (s *ItemService) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	_, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		i := t.ItemByID(itemID)
		if i < 0 {
			return fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
		}
		t.Items = append(t.Items[:i], t.Items[i+1:]...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.ItemService.Delete: %w", err)
	}
	return nil
}

// newItem validates in and builds an item with a fresh ID, resolving its
// category against (and possibly extending) the trip's categories.
func newItem(t *domain.Trip, in domain.ItemInput) (domain.Item, error) {
	if err := validateItemInput(in); err != nil {
		return domain.Item{}, err
	}
	quantity := domain.DefaultQuantity
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	return domain.Item{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(in.Name),
		Category: resolveCategory(t, in.Category),
		Quantity: quantity,
	}, nil
}

func validateItemInput(in domain.ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: item name is required", domain.ErrValidation)
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	return nil
}

// resolveCategory maps a requested category to the value stored on an item:
// blank or Uncategorized gives Uncategorized, a known category gives its
// stored casing, anything else is registered on the trip first.
func resolveCategory(t *domain.Trip, category string) string {
	category = strings.TrimSpace(category)
	if category == "" || domain.IsUncategorized(category) {
		return domain.Uncategorized
	}
	if i := domain.IndexOfName(t.Categories, category); i >= 0 {
		return t.Categories[i]
	}
	t.Categories = append(t.Categories, category)
	return category
}
