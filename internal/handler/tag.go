package handler

import "net/http"

type addTagRequest struct {
	Tag string `json:"tag" validate:"required"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// AddTag handles PUT /trips/{id}/tags.
func (s *Server) AddTag(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body addTagRequest
	if !decode(w, r, &body) {
		return
	}

	tags, err := s.trips.AddTag(r.Context(), tripID, body.Tag)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: nonNil(tags)})
}

// RemoveTag handles DELETE /trips/{id}/tags/{tag}.
func (s *Server) RemoveTag(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tag, ok := pathString(w, r, "tag")
	if !ok {
		return
	}

	tags, err := s.trips.RemoveTag(r.Context(), tripID, tag)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: nonNil(tags)})
}
