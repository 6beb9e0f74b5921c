// Package service contains the business logic for the packing-list API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// Every change to a trip runs inside repo.TripRepo.Mutate, so validation that
// depends on the stored trip happens before anything is written.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip with the default categories and tags.
// Returns domain.ErrValidation if a required field is missing, the dates are
// not ordered, or an initial item is invalid.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	trip := domain.Trip{
		Name:        strings.TrimSpace(in.Name),
		Destination: strings.TrimSpace(in.Destination),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Items:       make([]domain.Item, 0, len(in.Items)),
		Categories:  domain.DefaultCategories(),
		Tags:        normalizeTags(append(domain.DefaultTags(), in.Tags...)),
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	for _, itemIn := range in.Items {
		item, err := newItem(&trip, itemIn)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		trip.Items = append(trip.Items, item)
	}

	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of trips and the total trip count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update merges the non-nil patch fields into the stored trip and re-validates
// the result, including date ordering.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	result, err := s.repo.Mutate(ctx, id, func(t *domain.Trip) error {
		if patch.Name != nil {
			t.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Destination != nil {
			t.Destination = strings.TrimSpace(*patch.Destination)
		}
		if patch.StartDate != nil {
			t.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			t.EndDate = *patch.EndDate
		}
		if patch.Tags != nil {
			t.Tags = normalizeTags(*patch.Tags)
		}
		return validateTrip(*t)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip and everything embedded in it.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddTag appends a tag to the trip and returns the updated tag list.
// Returns domain.ErrConflict if the tag already exists ignoring case.
func (s *TripService) AddTag(ctx context.Context, id uuid.UUID, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("service.TripService.AddTag: %w: tag is required", domain.ErrValidation)
	}

	result, err := s.repo.Mutate(ctx, id, func(t *domain.Trip) error {
		if domain.IndexOfName(t.Tags, tag) >= 0 {
			return fmt.Errorf("%w: tag %q already exists", domain.ErrConflict, tag)
		}
		t.Tags = append(t.Tags, tag)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.AddTag: %w", err)
	}
	return result.Tags, nil
}

// RemoveTag removes a tag (matched ignoring case) and returns the updated list.
func (s *TripService) RemoveTag(ctx context.Context, id uuid.UUID, tag string) ([]string, error) {
	result, err := s.repo.Mutate(ctx, id, func(t *domain.Trip) error {
		i := domain.IndexOfName(t.Tags, tag)
		if i < 0 {
			return fmt.Errorf("%w: tag %q", domain.ErrNotFound, tag)
		}
		t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.RemoveTag: %w", err)
	}
	return result.Tags, nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Name and destination must be non-empty.
//   - Both dates must be set and the start date must be before the end date.
func validateTrip(t domain.Trip) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", domain.ErrValidation)
	}
	if !t.StartDate.Before(t.EndDate) {
		return fmt.Errorf("%w: startDate must be before endDate", domain.ErrValidation)
	}
	return nil
}

// normalizeTags trims tags and drops blanks and case-insensitive duplicates,
// keeping the first spelling seen.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || domain.IndexOfName(out, tag) >= 0 {
			continue
		}
		out = append(out, tag)
	}
	return out
}
