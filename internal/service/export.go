package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/packing-list/backend/internal/domain"
	"github.com/pkordes/packing-list/backend/internal/repo"
)

// ExportService flattens a trip's packing list into rows.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided TripRepo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per item of the trip, in item order.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(trip.Items))
	for _, it := range trip.Items {
		rows = append(rows, domain.ExportRow{
			TripID:      trip.ID.String(),
			TripName:    trip.Name,
			Destination: trip.Destination,
			StartDate:   trip.StartDate.Format("2006-01-02"),
			EndDate:     trip.EndDate.Format("2006-01-02"),
			ItemName:    it.Name,
			Category:    it.Category,
			Quantity:    it.Quantity,
		})
	}
	return rows, nil
}
