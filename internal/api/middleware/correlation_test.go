package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCorrelationIDGeneratesWhenAbsent(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	var fromContext string

	handler := CorrelationID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	header := rec.Header().Get("X-Correlation-ID")
	if header == "" {
		t.Fatal("X-Correlation-ID header is missing")
	}

	if fromContext != header {
		t.Errorf("context correlation ID %q differs from header %q", fromContext, header)
	}
}

func TestCorrelationIDEchoesExisting(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	const supplied = "client-supplied-id"

	var fromContext string

	handler := CorrelationID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", supplied)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Correlation-ID"); got != supplied {
		t.Errorf("header = %q, want %q", got, supplied)
	}

	if fromContext != supplied {
		t.Errorf("context correlation ID = %q, want %q", fromContext, supplied)
	}
}

func TestGetCorrelationIDWithoutMiddleware(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	if got := GetCorrelationID(context.Background()); got != "unknown" {
		t.Errorf("GetCorrelationID() = %q, want %q", got, "unknown")
	}
}
