// Package handler implements the HTTP handlers for the packing-list API.
// All handlers are methods on Server. Methods are split into resource files
// (trip.go, item.go, category.go, ...) but share the Server struct so they can
// reach its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddTag(ctx context.Context, id uuid.UUID, tag string) ([]string, error)
	RemoveTag(ctx context.Context, id uuid.UUID, tag string) ([]string, error)
}

// ItemServicer defines the item operations the handlers depend on.
type ItemServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error)
	Add(ctx context.Context, tripID uuid.UUID, in domain.ItemInput) (domain.Item, error)
	Edit(ctx context.Context, tripID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

// CategoryServicer defines the category operations the handlers depend on.
type CategoryServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]string, error)
	Add(ctx context.Context, tripID uuid.UUID, name string) ([]string, error)
	Rename(ctx context.Context, tripID uuid.UUID, original, newName string) ([]string, error)
	Delete(ctx context.Context, tripID uuid.UUID, name string) ([]string, error)
	ReassignItems(ctx context.Context, tripID uuid.UUID, oldCategory, newCategory string) ([]domain.Item, int, error)
}

// WeatherServicer refreshes a trip's weather snapshot.
type WeatherServicer interface {
	Refresh(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
}

// Exporter flattens a trip's packing list.
type Exporter interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Services bundles the handler dependencies. Nil members are allowed in tests
// that do not exercise the corresponding routes.
type Services struct {
	Trips      TripServicer
	Items      ItemServicer
	Categories CategoryServicer
	Weather    WeatherServicer
	Export     Exporter
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips      TripServicer
	items      ItemServicer
	categories CategoryServicer
	weather    WeatherServicer
	export     Exporter
	log        *slog.Logger
}

// NewServer constructs the Server. A nil logger falls back to slog.Default().
func NewServer(svcs Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:      svcs.Trips,
		items:      svcs.Items,
		categories: svcs.Categories,
		weather:    svcs.Weather,
		export:     svcs.Export,
		log:        log,
	}
}

// Routes returns a chi router with every API endpoint registered.
// main.go mounts it behind the middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/items", s.ListItems)
			r.Put("/items", s.AddItem)
			r.Put("/items/{itemId}", s.EditItem)
			r.Delete("/items/{itemId}", s.DeleteItem)

			r.Get("/categories", s.ListCategories)
			r.Put("/categories", s.AddCategory)
			r.Patch("/categories", s.ReassignCategory)
			r.Put("/categories/{name}", s.RenameCategory)
			r.Delete("/categories/{name}", s.DeleteCategory)

			r.Put("/tags", s.AddTag)
			r.Delete("/tags/{tag}", s.RemoveTag)

			r.Post("/weather", s.RefreshWeather)
			r.Get("/export", s.ExportTrip)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
	})

	return r
}
