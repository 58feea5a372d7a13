package telemetry

import "context"

type (
	// BatchReceipt reports what a committed ingest did: how many rows went
	// in and which calendar month the store resolved and partitioned under.
	BatchReceipt struct {
		Rows  int
		Month Month
	}

	// ReadingStore is the persistence interface for sensor readings.
	// Implementations must make Ingest all-or-nothing: either every record
	// in the batch commits, or none do.
	ReadingStore interface {
		// Ingest inserts the batch in one transaction, assigning timestamps
		// server-side. The monthly partition for the current server month is
		// guaranteed to exist before the first insert; the receipt carries
		// that month so callers never re-derive it from their own clock.
		Ingest(ctx context.Context, batch []ReadingInput) (BatchReceipt, error)

		// ListReadings returns the entire readings table, unfiltered.
		ListReadings(ctx context.Context) ([]Reading, error)
	}

	// UserStore is the read-only persistence interface for users.
	UserStore interface {
		// Authenticate looks up the user by RUT and delegates the password
		// comparison to the store's one-way hashing primitive. The hashed
		// credential never crosses this interface.
		Authenticate(ctx context.Context, rut, password string) (*Profile, error)

		// ListUsers returns the entire users table, unfiltered.
		ListUsers(ctx context.Context) ([]User, error)
	}
)
