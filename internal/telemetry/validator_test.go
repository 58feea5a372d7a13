package telemetry

import (
	"errors"
	"math"
	"testing"
)

func f(v float64) *float64 {
	return &v
}

func TestValidateBatch(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		name    string
		batch   []ReadingInput
		wantErr error
	}{
		{
			name:    "empty batch",
			batch:   []ReadingInput{},
			wantErr: ErrEmptyBatch,
		},
		{
			name:    "nil batch",
			batch:   nil,
			wantErr: ErrEmptyBatch,
		},
		{
			name: "valid full record",
			batch: []ReadingInput{
				{SensorID: 1, PH: f(6.5), Humidity: f(40), Temperature: f(22), OwnerRUT: "1-9"},
			},
		},
		{
			name: "valid record with absent numeric fields",
			batch: []ReadingInput{
				{SensorID: 2, OwnerRUT: "1-9"},
			},
		},
		{
			name: "missing sensor id",
			batch: []ReadingInput{
				{OwnerRUT: "1-9"},
			},
			wantErr: ErrMissingSensorID,
		},
		{
			name: "missing owner",
			batch: []ReadingInput{
				{SensorID: 1},
			},
			wantErr: ErrMissingOwner,
		},
		{
			name: "ph out of range",
			batch: []ReadingInput{
				{SensorID: 1, PH: f(15.2), OwnerRUT: "1-9"},
			},
			wantErr: ErrPHOutOfRange,
		},
		{
			name: "negative ph",
			batch: []ReadingInput{
				{SensorID: 1, PH: f(-0.1), OwnerRUT: "1-9"},
			},
			wantErr: ErrPHOutOfRange,
		},
		{
			name: "humidity out of range",
			batch: []ReadingInput{
				{SensorID: 1, Humidity: f(101), OwnerRUT: "1-9"},
			},
			wantErr: ErrHumidityOutOfRange,
		},
		{
			name: "NaN temperature",
			batch: []ReadingInput{
				{SensorID: 1, Temperature: f(math.NaN()), OwnerRUT: "1-9"},
			},
			wantErr: ErrValueNotFinite,
		},
		{
			name: "infinite humidity",
			batch: []ReadingInput{
				{SensorID: 1, Humidity: f(math.Inf(1)), OwnerRUT: "1-9"},
			},
			wantErr: ErrValueNotFinite,
		},
		{
			name: "second record malformed",
			batch: []ReadingInput{
				{SensorID: 1, OwnerRUT: "1-9"},
				{SensorID: 0, OwnerRUT: "1-9"},
			},
			wantErr: ErrMissingSensorID,
		},
	}

	validator := NewValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBatch(tt.batch)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateBatch() unexpected error = %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBatchReportsRecordIndex(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	batch := []ReadingInput{
		{SensorID: 1, OwnerRUT: "1-9"},
		{SensorID: 2, OwnerRUT: "1-9"},
		{SensorID: 3, OwnerRUT: ""},
	}

	err := NewValidator().ValidateBatch(batch)
	if err == nil {
		t.Fatal("ValidateBatch() expected error, got nil")
	}

	if got := err.Error(); got != "record 2: usuario_rut is required" {
		t.Errorf("ValidateBatch() error = %q, want record index 2 in message", got)
	}
}
