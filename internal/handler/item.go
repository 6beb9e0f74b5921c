package handler

import (
	"net/http"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// addItemRequest is the body of PUT /trips/{id}/items and an entry of
// createTripRequest.Items. Quantity is optional and defaults to 1.
type addItemRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Quantity *int   `json:"quantity" validate:"omitempty,gte=1"`
}

func (req addItemRequest) toInput() domain.ItemInput {
	return domain.ItemInput{Name: req.Name, Category: req.Category, Quantity: req.Quantity}
}

// editItemRequest is the body of PUT /trips/{id}/items/{itemId}.
// Omitted fields are left unchanged.
type editItemRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Quantity *int    `json:"quantity" validate:"omitempty,gte=1"`
}

// ListItems handles GET /trips/{id}/items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	items, err := s.items.List(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// AddItem handles PUT /trips/{id}/items.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body addItemRequest
	if !decode(w, r, &body) {
		return
	}

	item, err := s.items.Add(r.Context(), tripID, body.toInput())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// EditItem handles PUT /trips/{id}/items/{itemId}.
func (s *Server) EditItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}
	var body editItemRequest
	if !decode(w, r, &body) {
		return
	}

	patch := domain.ItemPatch{Name: body.Name, Category: body.Category, Quantity: body.Quantity}
	item, err := s.items.Edit(r.Context(), tripID, itemID, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /trips/{id}/items/{itemId}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	if err := s.items.Delete(r.Context(), tripID, itemID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
