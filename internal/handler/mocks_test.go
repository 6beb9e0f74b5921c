package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create    func(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
	addTag    func(ctx context.Context, id uuid.UUID, tag string) ([]string, error)
	removeTag func(ctx context.Context, id uuid.UUID, tag string) ([]string, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, patch)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) AddTag(ctx context.Context, id uuid.UUID, tag string) ([]string, error) {
	return m.addTag(ctx, id, tag)
}
func (m *mockTripServicer) RemoveTag(ctx context.Context, id uuid.UUID, tag string) ([]string, error) {
	return m.removeTag(ctx, id, tag)
}

// mockItemServicer is a test double for handler.ItemServicer.
type mockItemServicer struct {
	list   func(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error)
	add    func(ctx context.Context, tripID uuid.UUID, in domain.ItemInput) (domain.Item, error)
	edit   func(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	delete func(ctx context.Context, tripID, itemID uuid.UUID) error
}

func (m *mockItemServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	return m.list(ctx, tripID)
}
func (m *mockItemServicer) Add(ctx context.Context, tripID uuid.UUID, in domain.ItemInput) (domain.Item, error) {
	return m.add(ctx, tripID, in)
}
func (m *mockItemServicer) Edit(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	return m.edit(ctx, tripID, itemID, patch)
}
func (m *mockItemServicer) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}

// mockCategoryServicer is a test double for handler.CategoryServicer.
type mockCategoryServicer struct {
	list     func(ctx context.Context, tripID uuid.UUID) ([]string, error)
	add      func(ctx context.Context, tripID uuid.UUID, name string) ([]string, error)
	rename   func(ctx context.Context, tripID uuid.UUID, original, newName string) ([]string, error)
	delete   func(ctx context.Context, tripID uuid.UUID, name string) ([]string, error)
	reassign func(ctx context.Context, tripID uuid.UUID, oldCategory, newCategory string) ([]domain.Item, int, error)
}

func (m *mockCategoryServicer) List(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	return m.list(ctx, tripID)
}
func (m *mockCategoryServicer) Add(ctx context.Context, tripID uuid.UUID, name string) ([]string, error) {
	return m.add(ctx, tripID, name)
}
func (m *mockCategoryServicer) Rename(ctx context.Context, tripID uuid.UUID, original, newName string) ([]string, error) {
	return m.rename(ctx, tripID, original, newName)
}
func (m *mockCategoryServicer) Delete(ctx context.Context, tripID uuid.UUID, name string) ([]string, error) {
	return m.delete(ctx, tripID, name)
}
func (m *mockCategoryServicer) ReassignItems(ctx context.Context, tripID uuid.UUID, oldCategory, newCategory string) ([]domain.Item, int, error) {
	return m.reassign(ctx, tripID, oldCategory, newCategory)
}

type mockWeatherServicer struct {
	refresh func(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
}

func (m *mockWeatherServicer) Refresh(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	return m.refresh(ctx, tripID)
}

type mockExporter struct {
	export func(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExporter) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, tripID)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.ItemServicer     = (*mockItemServicer)(nil)
	_ handler.CategoryServicer = (*mockCategoryServicer)(nil)
	_ handler.WeatherServicer  = (*mockWeatherServicer)(nil)
	_ handler.Exporter         = (*mockExporter)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi router,
// the same way main.go mounts it in production.
func newHTTPHandler(svcs handler.Services) http.Handler {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return handler.NewServer(svcs, log).Routes()
}

// do sends a request through h and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeJSON decodes the recorder body into a value of type T.
func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

// errorMessage returns the message field of an error response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[struct {
		Message string `json:"message"`
	}](t, rec).Message
}

func ptr[T any](v T) *T { return &v }

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Name:        "Paris Trip",
		Destination: "Paris",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Items: []domain.Item{
			{ID: uuid.New(), Name: "Boots", Category: "Hiking", Quantity: 1},
		},
		Categories: []string{"Clothes", "Toiletries", "Electronics", "Miscellaneous", "Hiking"},
		Tags:       []string{"travel"},
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}
