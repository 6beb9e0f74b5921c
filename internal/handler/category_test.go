package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/handler"
)

func categoriesHandler(svc *mockCategoryServicer) http.Handler {
	return newHTTPHandler(handler.Services{Categories: svc})
}

func categoriesPath(tripID uuid.UUID) string {
	return "/trips/" + tripID.String() + "/categories"
}

func TestListCategories_200(t *testing.T) {
	svc := &mockCategoryServicer{
		list: func(context.Context, uuid.UUID) ([]string, error) {
			return []string{"Clothes", "Hiking"}, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodGet, categoriesPath(uuid.New()), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["Clothes","Hiking"]}`, rec.Body.String())
}

func TestListCategories_404(t *testing.T) {
	svc := &mockCategoryServicer{
		list: func(context.Context, uuid.UUID) ([]string, error) { return nil, domain.ErrNotFound },
	}

	rec := do(t, categoriesHandler(svc), http.MethodGet, categoriesPath(uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCategory_200(t *testing.T) {
	svc := &mockCategoryServicer{
		add: func(_ context.Context, _ uuid.UUID, name string) ([]string, error) {
			return []string{"Clothes", name}, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPut, categoriesPath(uuid.New()), map[string]any{"category": "Hiking"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["Clothes","Hiking"]}`, rec.Body.String())
}

func TestAddCategory_400_Missing(t *testing.T) {
	rec := do(t, categoriesHandler(&mockCategoryServicer{}), http.MethodPut, categoriesPath(uuid.New()), map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category is required", errorMessage(t, rec))
}

func TestAddCategory_400_Conflict(t *testing.T) {
	svc := &mockCategoryServicer{
		add: func(context.Context, uuid.UUID, string) ([]string, error) {
			return nil, fmt.Errorf("service.CategoryService.Add: mem: %w: category %q already exists", domain.ErrConflict, "Hiking")
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPut, categoriesPath(uuid.New()), map[string]any{"category": "hiking"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `category "Hiking" already exists`, errorMessage(t, rec))
}

func TestRenameCategory_200(t *testing.T) {
	var gotOriginal, gotNew string
	svc := &mockCategoryServicer{
		rename: func(_ context.Context, _ uuid.UUID, original, newName string) ([]string, error) {
			gotOriginal, gotNew = original, newName
			return []string{"Outdoor Gear"}, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPut, categoriesPath(uuid.New())+"/Hiking%20Gear",
		map[string]any{"newCategory": "Outdoor Gear"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hiking Gear", gotOriginal, "path name is unescaped")
	assert.Equal(t, "Outdoor Gear", gotNew)
	assert.JSONEq(t, `{"categories":["Outdoor Gear"]}`, rec.Body.String())
}

func TestRenameCategory_EscapedSlash(t *testing.T) {
	var gotOriginal string
	svc := &mockCategoryServicer{
		rename: func(_ context.Context, _ uuid.UUID, original, _ string) ([]string, error) {
			gotOriginal = original
			return []string{}, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPut, categoriesPath(uuid.New())+"/Bath%2FBody",
		map[string]any{"newCategory": "Bath"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bath/Body", gotOriginal)
}

func TestRenameCategory_EscapedPercent(t *testing.T) {
	var gotOriginal string
	svc := &mockCategoryServicer{
		rename: func(_ context.Context, _ uuid.UUID, original, _ string) ([]string, error) {
			gotOriginal = original
			return []string{"Cotton"}, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPut, categoriesPath(uuid.New())+"/100%25%20Cotton",
		map[string]any{"newCategory": "Cotton"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100% Cotton", gotOriginal)
}

func TestDeleteCategory_EscapedPercentAndSlash(t *testing.T) {
	var got []string
	svc := &mockCategoryServicer{
		delete: func(_ context.Context, _ uuid.UUID, name string) ([]string, error) {
			got = append(got, name)
			return []string{}, nil
		},
	}
	h := categoriesHandler(svc)
	id := uuid.New()

	for _, target := range []string{"/100%25%20Cotton", "/50%25%2F50", "/Sale%2B"} {
		rec := do(t, h, http.MethodDelete, categoriesPath(id)+target, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)
	}
	assert.Equal(t, []string{"100% Cotton", "50%/50", "Sale+"}, got)
}

func TestRenameCategory_404(t *testing.T) {
	svc := &mockCategoryServicer{
		rename: func(_ context.Context, _ uuid.UUID, original, _ string) ([]string, error) {
			return nil, fmt.Errorf("service.CategoryService.Rename: %w: category %q", domain.ErrNotFound, original)
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPut, categoriesPath(uuid.New())+"/Hiking",
		map[string]any{"newCategory": "Outdoors"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `category "Hiking" not found`, errorMessage(t, rec))
}

func TestRenameCategory_400_MissingNewName(t *testing.T) {
	rec := do(t, categoriesHandler(&mockCategoryServicer{}), http.MethodPut, categoriesPath(uuid.New())+"/Hiking", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "newCategory is required", errorMessage(t, rec))
}

func TestDeleteCategory_200(t *testing.T) {
	svc := &mockCategoryServicer{
		delete: func(_ context.Context, _ uuid.UUID, name string) ([]string, error) {
			assert.Equal(t, "Hiking", name)
			return []string{"Clothes"}, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodDelete, categoriesPath(uuid.New())+"/Hiking", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["Clothes"]}`, rec.Body.String())
}

func TestDeleteCategory_500(t *testing.T) {
	svc := &mockCategoryServicer{
		delete: func(context.Context, uuid.UUID, string) ([]string, error) {
			return nil, errors.New("replace: connection reset")
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodDelete, categoriesPath(uuid.New())+"/Hiking", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
}

func TestDeleteCategory_503_Busy(t *testing.T) {
	svc := &mockCategoryServicer{
		delete: func(context.Context, uuid.UUID, string) ([]string, error) {
			return nil, fmt.Errorf("service.CategoryService.Delete: repo.MongoTripRepo.Mutate: %w: trip is being modified concurrently, retry", domain.ErrBusy)
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodDelete, categoriesPath(uuid.New())+"/Hiking", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "trip is being modified concurrently, retry", errorMessage(t, rec))
}

func TestReassignCategory_200(t *testing.T) {
	items := []domain.Item{{ID: uuid.New(), Name: "Boots", Category: "Outdoors", Quantity: 1}}
	svc := &mockCategoryServicer{
		reassign: func(_ context.Context, _ uuid.UUID, oldCategory, newCategory string) ([]domain.Item, int, error) {
			assert.Equal(t, "Hiking", oldCategory)
			assert.Equal(t, "Outdoors", newCategory)
			return items, 1, nil
		},
	}

	rec := do(t, categoriesHandler(svc), http.MethodPatch, categoriesPath(uuid.New()),
		map[string]any{"oldCategory": "Hiking", "newCategory": "Outdoors"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[struct {
		Items   []domain.Item `json:"items"`
		Updated int           `json:"updated"`
	}](t, rec)
	assert.Equal(t, items, resp.Items)
	assert.Equal(t, 1, resp.Updated)
}

func TestReassignCategory_400_MissingFields(t *testing.T) {
	rec := do(t, categoriesHandler(&mockCategoryServicer{}), http.MethodPatch, categoriesPath(uuid.New()),
		map[string]any{"oldCategory": "Hiking"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "newCategory is required", errorMessage(t, rec))
}
