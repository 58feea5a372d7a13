package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/terralog-io/terralog/internal/api/middleware"
	"github.com/terralog-io/terralog/internal/telemetry"
)

// ErrorResponse is the JSON body for every failed request: `{"error": ...}`.
// The correlation ID travels in the X-Correlation-ID header, not the body,
// so the wire contract stays a single field.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForKind maps the store error taxonomy to HTTP status codes.
func statusForKind(kind telemetry.Kind) int {
	switch kind {
	case telemetry.KindMalformedRequest:
		return http.StatusBadRequest
	case telemetry.KindNotFound:
		return http.StatusNotFound
	case telemetry.KindInvalidCredentials:
		return http.StatusUnauthorized
	case telemetry.KindConnectionUnavailable, telemetry.KindTransactionFailure, telemetry.KindUnknown:
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}

// messageForKind returns the client-facing error message for a kind.
// Deliberately generic for the 401/404 pair: the status code is the only
// distinguishing signal, limiting user-enumeration leakage.
func messageForKind(kind telemetry.Kind) string {
	switch kind {
	case telemetry.KindMalformedRequest:
		return "missing or malformed request data"
	case telemetry.KindNotFound:
		return "authentication failed"
	case telemetry.KindInvalidCredentials:
		return "authentication failed"
	case telemetry.KindConnectionUnavailable, telemetry.KindTransactionFailure, telemetry.KindUnknown:
		return "internal server error"
	}

	return "internal server error"
}

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string) {
	correlationID := middleware.GetCorrelationID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Error("Failed to encode error response",
			slog.String("correlation_id", correlationID),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("encode_error", err),
		)
	}
}

// WriteStoreError logs a store failure and converts it into the wire error
// shape via the kind taxonomy. Raw store errors never reach the client.
func WriteStoreError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	correlationID := middleware.GetCorrelationID(r.Context())
	kind := telemetry.KindOf(err)

	logger.Error("Store operation failed",
		slog.String("correlation_id", correlationID),
		slog.String("path", r.URL.Path),
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	)

	WriteError(w, r, logger, statusForKind(kind), messageForKind(kind))
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal response",
			slog.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)

		WriteError(w, r, logger, http.StatusInternalServerError, "internal server error")

		return
	}

	// Only write headers after successful marshaling
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(data); err != nil {
		// Headers already sent, log only
		logger.Error("Failed to write response",
			slog.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}
