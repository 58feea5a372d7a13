package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"

	"github.com/terralog-io/terralog/internal/telemetry"
)

func TestClassify(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		name string
		err  error
		want telemetry.Kind
	}{
		{
			name: "bad connection",
			err:  driver.ErrBadConn,
			want: telemetry.KindConnectionUnavailable,
		},
		{
			name: "wrapped bad connection",
			err:  fmt.Errorf("begin tx: %w", driver.ErrBadConn),
			want: telemetry.KindConnectionUnavailable,
		},
		{
			name: "canceled context",
			err:  context.Canceled,
			want: telemetry.KindConnectionUnavailable,
		},
		{
			name: "wrapped deadline exceeded",
			err:  fmt.Errorf("query: %w", context.DeadlineExceeded),
			want: telemetry.KindConnectionUnavailable,
		},
		{
			name: "network error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			want: telemetry.KindConnectionUnavailable,
		},
		{
			name: "pq connection exception class",
			err:  &pq.Error{Code: "08006", Message: "connection failure"},
			want: telemetry.KindConnectionUnavailable,
		},
		{
			name: "pq constraint violation",
			err:  &pq.Error{Code: "23503", Message: "foreign key violation"},
			want: telemetry.KindTransactionFailure,
		},
		{
			name: "generic error",
			err:  errors.New("something broke"),
			want: telemetry.KindTransactionFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("storage.Test", tt.err)

			if kind := telemetry.KindOf(got); kind != tt.want {
				t.Errorf("classify() kind = %v, want %v", kind, tt.want)
			}
		})
	}
}

func TestClassifyPassesThroughKindedErrors(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	original := telemetry.E(telemetry.KindNotFound, "storage.Authenticate", ErrUnknownUser)

	got := classify("storage.Test", original)
	if !errors.Is(got, original) {
		t.Errorf("classify() = %v, want the original error unchanged", got)
	}
}

func TestClassifyNil(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	if got := classify("storage.Test", nil); got != nil {
		t.Errorf("classify(nil) = %v, want nil", got)
	}
}
