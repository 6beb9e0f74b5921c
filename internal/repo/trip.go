// Package repo contains all storage access for the packing-list API.
// TripRepo has a Postgres implementation (this file) and a MongoDB one
// (mongo.go). No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test;
// Begin on a pgx.Tx opens a savepoint, so Mutate still works inside it.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MutateFunc edits a trip in place. Returning an error aborts the mutation
// and nothing is written.
type MutateFunc func(trip *domain.Trip) error

// TripRepo defines the persistence operations for trip documents.
// The service layer depends on this interface, not on a concrete store.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with id,
	// created_at and updated_at populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns one page of trips ordered by start date descending,
	// and the total number of trips.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Mutate loads the trip, applies fn and writes the result back as one
	// atomic update. Returns domain.ErrNotFound if the trip does not exist,
	// or fn's error unchanged (wrapped) if fn fails.
	Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (domain.Trip, error)

	// Delete removes a trip. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo stores each trip as one row; the embedded collections live in
// JSONB columns so a trip is read and written as a single document.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, destination, start_date, end_date, items, categories, tags, weather, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, destination, start_date, end_date, items, categories, tags, weather)
		VALUES (@name, @destination, @start_date, @end_date, @items, @categories, @tags, @weather)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of trips, most recent start date first.
func (r *pgTripRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		ORDER BY start_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, total, nil
}

// Mutate runs a locked read-modify-write inside one transaction.
// SELECT ... FOR UPDATE blocks concurrent mutations of the same trip until
// this one commits, so cascades never interleave.
func (r *pgTripRepo) Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (domain.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Mutate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`
	trip, err := scanTrip(tx.QueryRow(ctx, sel, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Mutate: %w", err)
	}

	if err := fn(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Mutate: %w", err)
	}
	trip.ID = id

	const upd = `
		UPDATE trips
		SET name        = @name,
		    destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    items       = @items,
		    categories  = @categories,
		    tags        = @tags,
		    weather     = @weather,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = id
	result, err := scanTrip(tx.QueryRow(ctx, upd, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Mutate: update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Mutate: commit: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// tripArgs maps the writable trip fields to named query arguments.
// Slices are normalized to non-nil so the JSONB columns hold [] rather than null.
func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        t.Name,
		"destination": t.Destination,
		"start_date":  pgtype.Date{Time: t.StartDate, Valid: true},
		"end_date":    pgtype.Date{Time: t.EndDate, Valid: true},
		"items":       nonNilItems(t.Items),
		"categories":  nonNilStrings(t.Categories),
		"tags":        nonNilStrings(t.Tags),
		"weather":     t.Weather, // nil becomes NULL
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// pgx decodes the JSONB columns straight into the Go slices via encoding/json.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &t.Destination, &startDate, &endDate,
		&t.Items, &t.Categories, &t.Tags, &t.Weather, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.Items = nonNilItems(t.Items)
	t.Categories = nonNilStrings(t.Categories)
	t.Tags = nonNilStrings(t.Tags)
	return t, nil
}

func nonNilItems(items []domain.Item) []domain.Item {
	if items == nil {
		return []domain.Item{}
	}
	return items
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
