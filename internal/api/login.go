package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/terralog-io/terralog/internal/api/middleware"
	"github.com/terralog-io/terralog/internal/telemetry"
)

type (
	// LoginRequest is the body for POST /login.
	LoginRequest struct {
		RUT      string `json:"rut"`
		Password string `json:"password"`
	}

	// LoginResponse is the success body for POST /login. The stored
	// credential hash is never part of this structure.
	LoginResponse struct {
		Message string            `json:"message"`
		User    telemetry.Profile `json:"user"`
	}
)

// handleLogin handles credential verification.
// POST /login - body: {rut, password}.
//
// Responses:
//   - 200 OK: match, minimal profile returned
//   - 400 Bad Request: missing rut or password
//   - 401 Unauthorized: wrong password
//   - 404 Not Found: unknown rut
//   - 500 Internal Server Error: store failure
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	correlationID := middleware.GetCorrelationID(r.Context())

	if !hasJSONContentType(r.Header.Get("Content-Type")) {
		WriteError(w, r, s.logger, http.StatusBadRequest, "Content-Type must be application/json")

		return
	}

	var req LoginRequest

	decoder := json.NewDecoder(io.LimitReader(r.Body, s.config.MaxRequestSize))
	if err := decoder.Decode(&req); err != nil {
		WriteError(w, r, s.logger, http.StatusBadRequest, "invalid JSON: "+err.Error())

		return
	}

	if req.RUT == "" || req.Password == "" {
		WriteError(w, r, s.logger, http.StatusBadRequest, "rut and password are required")

		return
	}

	profile, err := s.users.Authenticate(r.Context(), req.RUT, req.Password)
	if err != nil {
		WriteStoreError(w, r, s.logger, err)

		return
	}

	s.logger.Info("User authenticated",
		slog.String("correlation_id", correlationID),
		slog.String("rut", profile.RUT),
	)

	WriteJSON(w, r, s.logger, http.StatusOK, LoginResponse{
		Message: "login successful",
		User:    *profile,
	})
}
