package telemetry

import (
	"errors"
	"fmt"
)

// Kind classifies a failed store operation. Every error crossing the storage
// boundary carries exactly one kind; raw driver errors never reach handlers.
type Kind int

const (
	// KindUnknown is the zero value for errors that carry no kind.
	KindUnknown Kind = iota
	// KindConnectionUnavailable means the store is unreachable (HTTP 500, no retry).
	KindConnectionUnavailable
	// KindMalformedRequest means required input is missing or empty (HTTP 400).
	KindMalformedRequest
	// KindNotFound means no matching row exists (HTTP 404).
	KindNotFound
	// KindInvalidCredentials means the credential hash comparison failed (HTTP 401).
	KindInvalidCredentials
	// KindTransactionFailure means a partition migration or batch insert
	// failed and the whole unit was rolled back (HTTP 500).
	KindTransactionFailure
)

// String returns a stable name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindConnectionUnavailable:
		return "connection_unavailable"
	case KindMalformedRequest:
		return "malformed_request"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindTransactionFailure:
		return "transaction_failure"
	case KindUnknown:
		return "unknown"
	}

	return "unknown"
}

// Error is a kinded operation error. Op names the failing operation
// ("storage.EnsurePartition") and Err preserves the underlying cause for
// logging; only Kind is ever surfaced to callers.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// E constructs a kinded Error.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain, or KindUnknown if none.
func KindOf(err error) Kind {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}

	return KindUnknown
}
