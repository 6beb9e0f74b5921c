package service_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/repo"
	"github.com/pkordes/packing-list/backend/internal/service"
)

// memTripRepo is an in-memory repo.TripRepo. It copies trips on the way in
// and out so tests observe exactly what a real store would persist, and a
// failed Mutate leaves the stored trip untouched.
type memTripRepo struct {
	mu    sync.Mutex
	trips map[uuid.UUID]domain.Trip
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{trips: map[uuid.UUID]domain.Trip{}}
}

var _ repo.TripRepo = (*memTripRepo)(nil)

func (m *memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	trip.ID = uuid.New()
	trip.CreatedAt = now
	trip.UpdatedAt = now
	m.trips[trip.ID] = cloneTrip(trip)
	return cloneTrip(trip), nil
}

func (m *memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (m *memTripRepo) List(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		all = append(all, cloneTrip(t))
	}
	slices.SortFunc(all, func(a, b domain.Trip) int { return b.StartDate.Compare(a.StartDate) })
	total := int64(len(all))
	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end], total, nil
}

func (m *memTripRepo) Mutate(_ context.Context, id uuid.UUID, fn repo.MutateFunc) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	working := cloneTrip(t)
	if err := fn(&working); err != nil {
		return domain.Trip{}, fmt.Errorf("mem.Mutate: %w", err)
	}
	working.ID = id
	working.UpdatedAt = time.Now().UTC()
	m.trips[id] = cloneTrip(working)
	return working, nil
}

func (m *memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

// stored returns the persisted copy of a trip, bypassing the service.
func (m *memTripRepo) stored(id uuid.UUID) domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTrip(m.trips[id])
}

func cloneTrip(t domain.Trip) domain.Trip {
	t.Items = slices.Clone(t.Items)
	t.Categories = slices.Clone(t.Categories)
	t.Tags = slices.Clone(t.Tags)
	if t.Weather != nil {
		w := *t.Weather
		w.Daily = slices.Clone(w.Daily)
		t.Weather = &w
	}
	return t
}

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	mutate  func(ctx context.Context, id uuid.UUID, fn repo.MutateFunc) (domain.Trip, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, p)
}
func (m *mockTripRepo) Mutate(ctx context.Context, id uuid.UUID, fn repo.MutateFunc) (domain.Trip, error) {
	return m.mutate(ctx, id, fn)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parisInput is the trip used throughout the category scenarios.
func parisInput() domain.TripInput {
	return domain.TripInput{
		Name:        "Paris Trip",
		Destination: "Paris",
		StartDate:   date(2025, time.June, 1),
		EndDate:     date(2025, time.June, 8),
		Items: []domain.ItemInput{
			{Name: "Socks", Category: "Clothes", Quantity: ptr(5)},
			{Name: "Shirt", Category: "Clothes", Quantity: ptr(3)},
			{Name: "Charger", Category: "Electronics"},
		},
	}
}

// seedParis creates the Paris trip through the service and returns the repo
// and the created trip.
func seedParis(ctx context.Context) (*memTripRepo, domain.Trip, error) {
	r := newMemTripRepo()
	trip, err := service.NewTripService(r).Create(ctx, parisInput())
	return r, trip, err
}

func categoriesOf(items []domain.Item) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.Name] = it.Category
	}
	return out
}
