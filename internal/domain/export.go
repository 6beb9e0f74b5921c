package domain

// ExportRow is a single row in a packing-list export.
// It is a flat, denormalized view: one row per item, with trip fields repeated
// for every item. A trip with no items yields no rows.
type ExportRow struct {
	// Trip fields, repeated for every item on the trip.
	TripID      string
	TripName    string
	Destination string
	StartDate   string // "2006-01-02"
	EndDate     string // "2006-01-02"

	ItemName string
	Category string
	Quantity int
}
