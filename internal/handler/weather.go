package handler

import "net/http"

// RefreshWeather handles POST /trips/{id}/weather.
// It fetches a fresh forecast for the trip's destination and dates and
// returns the updated trip.
func (s *Server) RefreshWeather(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	trip, err := s.weather.Refresh(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}
