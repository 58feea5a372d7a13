package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/terralog-io/terralog/internal/telemetry"
)

// Compile-time interface assertion.
var _ telemetry.ReadingStore = (*ReadingStore)(nil)

// ReadingStore implements telemetry.ReadingStore with a PostgreSQL backend.
// Batch inserts are all-or-nothing: a failure on any record rolls back the
// entire batch.
type ReadingStore struct {
	conn       *Connection
	partitions *PartitionManager
	logger     *slog.Logger

	// now is the server clock used to resolve the ingestion month.
	// Overridable in tests.
	now func() time.Time
}

// NewReadingStore creates a PostgreSQL-backed reading store. The partition
// manager is required: every ingest ensures the current month's partition
// before writing.
func NewReadingStore(conn *Connection, partitions *PartitionManager, logger *slog.Logger) (*ReadingStore, error) {
	if conn == nil {
		return nil, ErrNoDatabaseConnection
	}

	return &ReadingStore{
		conn:       conn,
		partitions: partitions,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Ingest inserts the batch in one transaction with server-assigned
// timestamps and returns a receipt with the committed row count and the
// resolved month.
//
// The current calendar month is resolved from the server clock at call time
// and its partition is ensured first; if that fails, the whole batch fails
// before any insert is attempted. Rows are inserted in input order.
func (s *ReadingStore) Ingest(ctx context.Context, batch []telemetry.ReadingInput) (telemetry.BatchReceipt, error) {
	const op = "storage.Ingest"

	if len(batch) == 0 {
		return telemetry.BatchReceipt{}, telemetry.E(telemetry.KindMalformedRequest, op, telemetry.ErrEmptyBatch)
	}

	month := telemetry.CurrentMonth(s.now())
	if err := s.partitions.EnsurePartition(ctx, month); err != nil {
		return telemetry.BatchReceipt{}, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return telemetry.BatchReceipt{}, classify(op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	const insert = `
		INSERT INTO lecturas (id_sensor, fecha, ph, humedad, temperatura, usuario_rut)
		VALUES ($1, now(), $2, $3, $4, $5)
	`

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return telemetry.BatchReceipt{}, classify(op, err)
	}

	defer func() {
		_ = stmt.Close()
	}()

	for i := range batch {
		r := &batch[i]

		if _, err := stmt.ExecContext(ctx, r.SensorID, r.PH, r.Humidity, r.Temperature, r.OwnerRUT); err != nil {
			return telemetry.BatchReceipt{}, classify(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return telemetry.BatchReceipt{}, classify(op, err)
	}

	s.logger.Info("Reading batch committed",
		slog.Int("rows", len(batch)),
		slog.String("partition", PartitionName(month)),
	)

	return telemetry.BatchReceipt{Rows: len(batch), Month: month}, nil
}

// ListReadings returns the entire readings table, unfiltered, in insertion
// order.
func (s *ReadingStore) ListReadings(ctx context.Context) ([]telemetry.Reading, error) {
	const op = "storage.ListReadings"

	const query = `
		SELECT id, id_sensor, fecha, ph, humedad, temperatura, usuario_rut
		FROM lecturas
		ORDER BY id
	`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(op, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	readings := []telemetry.Reading{}

	for rows.Next() {
		var r telemetry.Reading

		var ph, hum, tmp sql.NullFloat64

		if err := rows.Scan(&r.ID, &r.SensorID, &r.Timestamp, &ph, &hum, &tmp, &r.OwnerRUT); err != nil {
			return nil, classify(op, err)
		}

		r.PH = nullableFloat(ph)
		r.Humidity = nullableFloat(hum)
		r.Temperature = nullableFloat(tmp)

		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	return readings, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	f := v.Float64

	return &f
}
