package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"

	"github.com/terralog-io/terralog/internal/telemetry"
)

// pq error class 08 covers all connection exceptions (SQLSTATE 08xxx).
const connectionExceptionClass = "08"

// classify converts a driver-level error into the service error taxonomy.
// Raw pq/sql errors never cross the storage boundary; handlers only ever see
// telemetry.Error values.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	// Already classified by a lower-level call.
	var kerr *telemetry.Error
	if errors.As(err, &kerr) {
		return err
	}

	// An abandoned or timed-out request is not a failed transaction; it
	// rolled back because the caller went away. Checked before the net.Error
	// branch, which context.DeadlineExceeded also satisfies.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return telemetry.E(telemetry.KindConnectionUnavailable, op, err)
	}

	if errors.Is(err, driver.ErrBadConn) {
		return telemetry.E(telemetry.KindConnectionUnavailable, op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return telemetry.E(telemetry.KindConnectionUnavailable, op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == connectionExceptionClass {
		return telemetry.E(telemetry.KindConnectionUnavailable, op, err)
	}

	return telemetry.E(telemetry.KindTransactionFailure, op, err)
}
