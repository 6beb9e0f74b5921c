package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/repo"
)

// Forecaster fetches a forecast for a destination over a date range.
// *weather.Client satisfies it.
type Forecaster interface {
	Forecast(ctx context.Context, destination string, start, end time.Time) (domain.Weather, error)
}

// WeatherService refreshes the weather snapshot stored on a trip.
type WeatherService struct {
	trips    repo.TripRepo
	forecast Forecaster
}

// NewWeatherService constructs a WeatherService.
func NewWeatherService(trips repo.TripRepo, f Forecaster) *WeatherService {
	return &WeatherService{trips: trips, forecast: f}
}

// Refresh fetches a forecast for the trip's destination and dates and stores
// it on the trip. The forecast is fetched before the update so the trip is
// never locked across a network call; if the destination or dates changed in
// the meantime the snapshot is discarded and the caller gets a validation error.
func (s *WeatherService) Refresh(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.WeatherService.Refresh: %w", err)
	}

	w, err := s.forecast.Forecast(ctx, trip.Destination, trip.StartDate, trip.EndDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.WeatherService.Refresh: %w", err)
	}

	result, err := s.trips.Mutate(ctx, tripID, func(t *domain.Trip) error {
		if t.Destination != trip.Destination || !t.StartDate.Equal(trip.StartDate) || !t.EndDate.Equal(trip.EndDate) {
			return fmt.Errorf("%w: trip changed while fetching weather, retry", domain.ErrValidation)
		}
		t.Weather = &w
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.WeatherService.Refresh: %w", err)
	}
	return result, nil
}
