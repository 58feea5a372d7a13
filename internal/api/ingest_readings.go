package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/terralog-io/terralog/internal/api/middleware"
	"github.com/terralog-io/terralog/internal/events"
	"github.com/terralog-io/terralog/internal/storage"
	"github.com/terralog-io/terralog/internal/telemetry"
)

// IngestResponse is the success body for POST /postdata.
type IngestResponse struct {
	Message string `json:"message"`
}

// handleIngestReadings handles sensor reading ingestion.
// POST /postdata - body is a JSON array of reading records.
//
// Responses:
//   - 200 OK: whole batch committed
//   - 400 Bad Request: empty/absent array or malformed record (no store writes)
//   - 500 Internal Server Error: partition ensure or batch insert failed
//     (whole batch rolled back)
func (s *Server) handleIngestReadings(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	correlationID := middleware.GetCorrelationID(r.Context())

	batch, ok := s.parseIngestRequest(w, r)
	if !ok {
		return
	}

	// Rewrite device-reported sensor IDs to canonical IDs before anything
	// touches the store.
	if s.resolver != nil {
		for i := range batch {
			batch[i].SensorID = s.resolver.Resolve(batch[i].SensorID)
		}
	}

	if err := s.validator.ValidateBatch(batch); err != nil {
		WriteError(w, r, s.logger, http.StatusBadRequest, err.Error())

		return
	}

	receipt, err := s.readings.Ingest(r.Context(), batch)
	if err != nil {
		WriteStoreError(w, r, s.logger, err)

		return
	}

	// Post-commit notification; a publish failure is logged, never surfaced.
	// The partition key comes from the receipt so the event always names the
	// month the store actually ingested under, even across a month rollover.
	if s.publisher != nil {
		event := events.BatchIngested{
			Partition:  storage.PartitionName(receipt.Month),
			Rows:       receipt.Rows,
			IngestedAt: time.Now().UTC(),
		}

		if err := s.publisher.PublishBatchIngested(r.Context(), event); err != nil {
			s.logger.Error("Failed to publish batch event",
				slog.String("correlation_id", correlationID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("Reading batch ingested",
		slog.String("correlation_id", correlationID),
		slog.Int("rows", receipt.Rows),
		slog.Duration("duration", time.Since(startTime)),
	)

	WriteJSON(w, r, s.logger, http.StatusOK, IngestResponse{
		Message: fmt.Sprintf("%d readings stored", receipt.Rows),
	})
}

// parseIngestRequest decodes and pre-validates the request body. Returns
// (nil, false) after writing a client error when the body is unusable.
func (s *Server) parseIngestRequest(w http.ResponseWriter, r *http.Request) ([]telemetry.ReadingInput, bool) {
	if !hasJSONContentType(r.Header.Get("Content-Type")) {
		WriteError(w, r, s.logger, http.StatusBadRequest, "Content-Type must be application/json")

		return nil, false
	}

	// Fail fast for known oversized requests; unknown sizes (-1) pass
	// through to the limited reader below.
	if r.ContentLength > 0 && r.ContentLength > s.config.MaxRequestSize {
		WriteError(w, r, s.logger, http.StatusBadRequest,
			fmt.Sprintf("request body exceeds maximum size of %d bytes", s.config.MaxRequestSize))

		return nil, false
	}

	if r.ContentLength == 0 {
		WriteError(w, r, s.logger, http.StatusBadRequest, "request body cannot be empty")

		return nil, false
	}

	var batch []telemetry.ReadingInput

	decoder := json.NewDecoder(io.LimitReader(r.Body, s.config.MaxRequestSize))
	if err := decoder.Decode(&batch); err != nil {
		WriteError(w, r, s.logger, http.StatusBadRequest, "invalid JSON: "+err.Error())

		return nil, false
	}

	if len(batch) == 0 {
		WriteError(w, r, s.logger, http.StatusBadRequest, "reading batch cannot be empty")

		return nil, false
	}

	return batch, true
}
