package api

import "net/http"

// handleListReadings returns the entire readings table, unfiltered.
// GET /datalecturas.
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	readings, err := s.readings.ListReadings(r.Context())
	if err != nil {
		WriteStoreError(w, r, s.logger, err)

		return
	}

	WriteJSON(w, r, s.logger, http.StatusOK, readings)
}
