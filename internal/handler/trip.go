package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// createTripRequest is the body of POST /trips.
type createTripRequest struct {
	Name        string              `json:"name" validate:"required"`
	Destination string              `json:"destination" validate:"required"`
	StartDate   *openapi_types.Date `json:"startDate" validate:"required"`
	EndDate     *openapi_types.Date `json:"endDate" validate:"required"`
	Items       []addItemRequest    `json:"items" validate:"omitempty,dive"`
	Tags        []string            `json:"tags"`
}

// updateTripRequest is the body of PUT /trips/{id}. Omitted fields are left unchanged.
type updateTripRequest struct {
	Name        *string             `json:"name"`
	Destination *string             `json:"destination"`
	StartDate   *openapi_types.Date `json:"startDate"`
	EndDate     *openapi_types.Date `json:"endDate"`
	Tags        *[]string           `json:"tags"`
}

// tripResponse is the JSON representation of a trip.
type tripResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Days        int                `json:"days"`
	Items       []domain.Item      `json:"items"`
	Categories  []string           `json:"categories"`
	Tags        []string           `json:"tags"`
	Weather     *domain.Weather    `json:"weather,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if !decode(w, r, &body) {
		return
	}

	in := domain.TripInput{
		Name:        body.Name,
		Destination: body.Destination,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Items:       make([]domain.ItemInput, len(body.Items)),
		Tags:        body.Tags,
	}
	for i, it := range body.Items {
		in.Items[i] = it.toInput()
	}

	created, err := s.trips.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= (defaults page=1, limit=20, max 100); the total
// number of trips is returned in the X-Total-Count header.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	trips, total, err := s.trips.List(r.Context(), domain.NewPaginationParams(page, limit))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]tripResponse, len(trips))
	for i, t := range trips {
		resp[i] = tripToResponse(t)
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, resp)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body updateTripRequest
	if !decode(w, r, &body) {
		return
	}

	patch := domain.TripPatch{
		Name:        body.Name,
		Destination: body.Destination,
		Tags:        body.Tags,
	}
	if body.StartDate != nil {
		patch.StartDate = &body.StartDate.Time
	}
	if body.EndDate != nil {
		patch.EndDate = &body.EndDate.Time
	}

	updated, err := s.trips.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) tripResponse {
	items := t.Items
	if items == nil {
		items = []domain.Item{}
	}
	return tripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Days:        t.Days(),
		Items:       items,
		Categories:  nonNil(t.Categories),
		Tags:        nonNil(t.Tags),
		Weather:     t.Weather,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// queryInt parses an optional integer query parameter.
// Returns nil when absent; writes a 400 and returns false when malformed.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid " + name + ": must be an integer"})
		return nil, false
	}
	return &n, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
