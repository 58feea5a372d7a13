package api

import (
	"net/http"
	"strings"
	"time"
)

const serviceVersion = "v1.0.0"

type (
	// LivenessStatus is the static payload returned by GET /.
	LivenessStatus struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	}

	// HealthStatus represents the health check response structure.
	HealthStatus struct {
		Status      string `json:"status"`
		ServiceName string `json:"serviceName"`
		Version     string `json:"version"`
		Uptime      string `json:"uptime,omitempty"`
	}
)

// setupRoutes sets up all HTTP routes for the API server.
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Liveness and health
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Data endpoints (paths fixed by the upstream device/frontend contract)
	mux.HandleFunc("GET /datausuarios", s.handleListUsers)
	mux.HandleFunc("GET /datalecturas", s.handleListReadings)
	mux.HandleFunc("POST /postdata", s.handleIngestReadings)
	mux.HandleFunc("POST /login", s.handleLogin)

	// Catch-all handler for 404 responses
	mux.HandleFunc("/", s.handleNotFound)
}

// handleRoot returns the static liveness payload.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, s.logger, http.StatusOK, LivenessStatus{
		Message: "terralog sensor service",
		Status:  "ok",
	})
}

// handleHealth returns detailed health status information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var uptime string

	if !s.startTime.IsZero() {
		uptime = time.Since(s.startTime).Round(time.Second).String()
	}

	WriteJSON(w, r, s.logger, http.StatusOK, HealthStatus{
		Status:      "healthy",
		ServiceName: "terralog",
		Version:     serviceVersion,
		Uptime:      uptime,
	})
}

// handleNotFound returns a JSON 404 for unknown endpoints.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, s.logger, http.StatusNotFound, "resource not found")
}

// hasJSONContentType checks if Content-Type header starts with "application/json".
// This allows charset parameters (e.g., "application/json; charset=utf-8").
func hasJSONContentType(contentType string) bool {
	return strings.HasPrefix(strings.TrimSpace(contentType), "application/json")
}
