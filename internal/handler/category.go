package handler

import (
	"net/http"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

type addCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

type renameCategoryRequest struct {
	NewCategory string `json:"newCategory" validate:"required"`
}

type reassignCategoryRequest struct {
	OldCategory string `json:"oldCategory" validate:"required"`
	NewCategory string `json:"newCategory" validate:"required"`
}

// categoriesResponse wraps the category list the same way for every
// category endpoint, so clients can replace their list from any response.
type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type reassignResponse struct {
	Items   []domain.Item `json:"items"`
	Updated int           `json:"updated"`
}

// ListCategories handles GET /trips/{id}/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	cats, err := s.categories.List(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: nonNil(cats)})
}

// AddCategory handles PUT /trips/{id}/categories.
func (s *Server) AddCategory(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body addCategoryRequest
	if !decode(w, r, &body) {
		return
	}

	cats, err := s.categories.Add(r.Context(), tripID, body.Category)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: nonNil(cats)})
}

// RenameCategory handles PUT /trips/{id}/categories/{name}.
// Items in the renamed category move with it.
func (s *Server) RenameCategory(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	original, ok := pathString(w, r, "name")
	if !ok {
		return
	}
	var body renameCategoryRequest
	if !decode(w, r, &body) {
		return
	}

	cats, err := s.categories.Rename(r.Context(), tripID, original, body.NewCategory)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: nonNil(cats)})
}

// DeleteCategory handles DELETE /trips/{id}/categories/{name}.
// Items in the deleted category become Uncategorized.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	name, ok := pathString(w, r, "name")
	if !ok {
		return
	}

	cats, err := s.categories.Delete(r.Context(), tripID, name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: nonNil(cats)})
}

// ReassignCategory handles PATCH /trips/{id}/categories, moving every item in
// oldCategory to newCategory without touching the category list.
func (s *Server) ReassignCategory(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body reassignCategoryRequest
	if !decode(w, r, &body) {
		return
	}

	items, n, err := s.categories.ReassignItems(r.Context(), tripID, body.OldCategory, body.NewCategory)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, reassignResponse{Items: items, Updated: n})
}
