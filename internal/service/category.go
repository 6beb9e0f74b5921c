package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/repo"
)

// CategoryService maintains a trip's category list and keeps the embedded
// items consistent with it. Names are compared ignoring case; the casing
// supplied on add or rename is what gets stored. Items follow the same rule,
// so an item whose category differs from the list entry only in case is
// treated as referencing that entry.
type CategoryService struct {
	trips repo.TripRepo
}

// NewCategoryService constructs a CategoryService backed by the provided TripRepo.
func NewCategoryService(trips repo.TripRepo) *CategoryService {
	return &CategoryService{trips: trips}
}

// List returns the trip's categories in stored order.
func (s *CategoryService) List(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.List: %w", err)
	}
	return trip.Categories, nil
}

// Add appends a category and returns the updated list.
// Returns domain.ErrValidation for a blank name and domain.ErrConflict if the
// name matches an existing category or Uncategorized.
func (s *CategoryService) Add(ctx context.Context, tripID uuid.UUID, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("service.CategoryService.Add: %w: category is required", domain.ErrValidation)
	}

	trip, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		if err := checkAvailable(t, name, -1); err != nil {
			return err
		}
		t.Categories = append(t.Categories, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.Add: %w", err)
	}
	return trip.Categories, nil
}

// Rename replaces original with newName in place and moves every item that
// referenced original over to newName, in one update.
func (s *CategoryService) Rename(ctx context.Context, tripID uuid.UUID, original, newName string) ([]string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("service.CategoryService.Rename: %w: newCategory is required", domain.ErrValidation)
	}

	trip, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		i := domain.IndexOfName(t.Categories, original)
		if i < 0 {
			return fmt.Errorf("%w: category %q", domain.ErrNotFound, original)
		}
		if err := checkAvailable(t, newName, i); err != nil {
			return err
		}
		old := t.Categories[i]
		t.Categories[i] = newName
		moveItems(t, old, newName)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.Rename: %w", err)
	}
	return trip.Categories, nil
}

// Delete removes a category. Items that referenced it become Uncategorized;
// no item is ever deleted.
func (s *CategoryService) Delete(ctx context.Context, tripID uuid.UUID, name string) ([]string, error) {
	trip, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		i := domain.IndexOfName(t.Categories, name)
		if i < 0 {
			return fmt.Errorf("%w: category %q", domain.ErrNotFound, name)
		}
		old := t.Categories[i]
		t.Categories = append(t.Categories[:i], t.Categories[i+1:]...)
		moveItems(t, old, domain.Uncategorized)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.Delete: %w", err)
	}
	return trip.Categories, nil
}

// ReassignItems moves every item in oldCategory to newCategory without
// touching the category list. newCategory must already be a category of the
// trip, or Uncategorized. Returns the trip's items and how many moved.
func (s *CategoryService) ReassignItems(ctx context.Context, tripID uuid.UUID, oldCategory, newCategory string) ([]domain.Item, int, error) {
	if strings.TrimSpace(oldCategory) == "" || strings.TrimSpace(newCategory) == "" {
		return nil, 0, fmt.Errorf("service.CategoryService.ReassignItems: %w: oldCategory and newCategory are required", domain.ErrValidation)
	}

	var moved int
	trip, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		target := domain.Uncategorized
		if !domain.IsUncategorized(newCategory) {
			i := domain.IndexOfName(t.Categories, newCategory)
			if i < 0 {
				return fmt.Errorf("%w: category %q does not exist", domain.ErrValidation, strings.TrimSpace(newCategory))
			}
			target = t.Categories[i]
		}
		moved = moveItems(t, oldCategory, target)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("service.CategoryService.ReassignItems: %w", err)
	}
	return trip.Items, moved, nil
}

// checkAvailable reports a conflict if name is reserved or collides with a
// category other than the one at index self.
func checkAvailable(t *domain.Trip, name string, self int) error {
	if domain.IsUncategorized(name) {
		return fmt.Errorf("%w: category %q is reserved", domain.ErrConflict, domain.Uncategorized)
	}
	if j := domain.IndexOfName(t.Categories, name); j >= 0 && j != self {
		return fmt.Errorf("%w: category %q already exists", domain.ErrConflict, t.Categories[j])
	}
	return nil
}

// moveItems sets the category of every item matching from to to and returns
// the number of items changed.
func moveItems(t *domain.Trip, from, to string) int {
	n := 0
	for i := range t.Items {
		if domain.SameName(t.Items[i].Category, from) {
			t.Items[i].Category = to
			n++
		}
	}
	return n
}
