package api

import "net/http"

// handleListUsers returns the entire users table, unfiltered. The hashed
// credential column never leaves the storage layer.
// GET /datausuarios.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		WriteStoreError(w, r, s.logger, err)

		return
	}

	WriteJSON(w, r, s.logger, http.StatusOK, users)
}
