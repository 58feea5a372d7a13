package telemetry

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for batch validation failures.
var (
	ErrEmptyBatch         = errors.New("reading batch cannot be empty")
	ErrMissingSensorID    = errors.New("id_sensor is required")
	ErrMissingOwner       = errors.New("usuario_rut is required")
	ErrValueNotFinite     = errors.New("numeric value must be finite")
	ErrPHOutOfRange       = errors.New("ph must be between 0 and 14")
	ErrHumidityOutOfRange = errors.New("humedad must be between 0 and 100")
)

const (
	phMin       = 0.0
	phMax       = 14.0
	humidityMin = 0.0
	humidityMax = 100.0
)

// Validator performs upfront validation of ingestion batches so that a
// malformed batch is rejected before any transaction is opened. The store's
// column constraints remain the backstop for anything this misses.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBatch checks that the batch is non-empty and every record is
// well-formed. The first failing record aborts validation; its index is
// included in the returned error.
func (v *Validator) ValidateBatch(batch []ReadingInput) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}

	for i := range batch {
		if err := v.validateReading(&batch[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return nil
}

func (v *Validator) validateReading(r *ReadingInput) error {
	if r.SensorID <= 0 {
		return ErrMissingSensorID
	}

	if r.OwnerRUT == "" {
		return ErrMissingOwner
	}

	// Optional numeric fields: nil means absent and is stored as NULL.
	if r.PH != nil {
		if !isFinite(*r.PH) {
			return fmt.Errorf("ph: %w", ErrValueNotFinite)
		}

		if *r.PH < phMin || *r.PH > phMax {
			return ErrPHOutOfRange
		}
	}

	if r.Humidity != nil {
		if !isFinite(*r.Humidity) {
			return fmt.Errorf("humedad: %w", ErrValueNotFinite)
		}

		if *r.Humidity < humidityMin || *r.Humidity > humidityMax {
			return ErrHumidityOutOfRange
		}
	}

	if r.Temperature != nil && !isFinite(*r.Temperature) {
		return fmt.Errorf("temperatura: %w", ErrValueNotFinite)
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
