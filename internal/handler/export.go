package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "destination", "start_date", "end_date",
	"item_name", "category", "quantity",
}

// exportRow is the JSON shape of one export row.
type exportRow struct {
	TripID      string `json:"tripId"`
	TripName    string `json:"tripName"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	ItemName    string `json:"itemName"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
}

// ExportTrip handles GET /trips/{id}/export.
// It returns the trip's packing list as a flat table, one row per item.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid format: must be json or csv"})
		return
	}

	rows, err := s.export.Export(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}

	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write([]string{
			row.TripID,
			row.TripName,
			row.Destination,
			row.StartDate,
			row.EndDate,
			row.ItemName,
			row.Category,
			strconv.Itoa(row.Quantity),
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
