// Package telemetry provides domain models and validation for sensor reading
// ingestion and user credential verification.
package telemetry

import "time"

type (
	// Reading represents a persisted sensor reading. The identity and the
	// timestamp are assigned by the store at insert time; rows are never
	// mutated or deleted by this service.
	Reading struct {
		ID          int64     `json:"id"`
		SensorID    int64     `json:"id_sensor"`   //nolint:tagliatelle // upstream wire format
		Timestamp   time.Time `json:"fecha"`
		PH          *float64  `json:"ph"`
		Humidity    *float64  `json:"humedad"`
		Temperature *float64  `json:"temperatura"`
		OwnerRUT    string    `json:"usuario_rut"` //nolint:tagliatelle // upstream wire format
	}

	// ReadingInput is a single record of an ingestion batch. Numeric fields
	// are optional: a nil pointer is stored as NULL, not rejected.
	ReadingInput struct {
		SensorID    int64    `json:"id_sensor"`   //nolint:tagliatelle // upstream wire format
		PH          *float64 `json:"ph"`
		Humidity    *float64 `json:"humedad"`
		Temperature *float64 `json:"temperatura"`
		OwnerRUT    string   `json:"usuario_rut"` //nolint:tagliatelle // upstream wire format
	}

	// User represents a stored user row. The hashed credential never leaves
	// the storage layer and is deliberately absent from this struct.
	User struct {
		RUT      string `json:"rut"`
		Username string `json:"usuario"`
		Email    string `json:"email"`
	}

	// Profile is the minimal user projection returned on successful
	// authentication.
	Profile struct {
		RUT      string `json:"rut"`
		Username string `json:"usuario"`
		Email    string `json:"email"`
	}

	// Month identifies a calendar month for partition management.
	Month struct {
		Year  int
		Month time.Month
	}
)

// CurrentMonth resolves the calendar month at the given instant in UTC.
// Ingestion always partitions by server clock, never by client-supplied time.
func CurrentMonth(now time.Time) Month {
	utc := now.UTC()

	return Month{Year: utc.Year(), Month: utc.Month()}
}

// Bounds returns the half-open interval [start, end) covered by the month:
// the first instant of the month and the first instant of the following
// month. AddDate handles the December to January year rollover.
func (m Month) Bounds() (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)

	return start, start.AddDate(0, 1, 0)
}
