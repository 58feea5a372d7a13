package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/terralog-io/terralog/internal/telemetry"
)

const (
	// readingsTable is the logical partitioned table keyed by timestamp.
	readingsTable = "lecturas"
	// defaultPartitionTable is the catch-all partition holding rows whose
	// monthly partition does not exist yet.
	defaultPartitionTable = "lecturas_default"
	// stagingTable is a session-local temp table used during migration.
	// Temp tables live in a per-session schema, so concurrent migrations of
	// different months never collide on the name.
	stagingTable = "lecturas_staging"

	partitionBoundLayout = "2006-01-02 15:04:05+00"
)

// PartitionManager ensures a dedicated partition exists for a calendar month
// before any write targets it. On first use of a month it atomically moves
// already-stored rows for that month out of the default partition into the
// new one.
type PartitionManager struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPartitionManager creates a PartitionManager on the given connection.
func NewPartitionManager(conn *Connection, logger *slog.Logger) (*PartitionManager, error) {
	if conn == nil {
		return nil, ErrNoDatabaseConnection
	}

	return &PartitionManager{conn: conn, logger: logger}, nil
}

// PartitionName derives the partition name deterministically from a month.
func PartitionName(m telemetry.Month) string {
	return fmt.Sprintf("part_%04d_%02d", m.Year, int(m.Month))
}

// EnsurePartition guarantees the monthly partition exists, creating it and
// migrating default-partition rows on first use. The whole unit runs in one
// transaction: staging copy, delete from default, partition DDL and reinsert
// all commit together or not at all.
//
// Concurrent callers for the same month are serialized behind a
// transaction-scoped advisory lock keyed by the partition name, so exactly
// one caller performs the migration while the others wait and then observe
// the partition as already present.
func (p *PartitionManager) EnsurePartition(ctx context.Context, month telemetry.Month) error {
	const op = "storage.EnsurePartition"

	name := PartitionName(month)
	start, end := month.Bounds()

	tx, err := p.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(op, err)
	}

	// Rollback is a no-op after a successful commit.
	defer func() {
		_ = tx.Rollback()
	}()

	// The lock is released automatically at commit or rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return classify(op, err)
	}

	exists, err := partitionExists(ctx, tx, name)
	if err != nil {
		return classify(op, err)
	}

	if exists {
		if err := tx.Commit(); err != nil {
			return classify(op, err)
		}

		return nil
	}

	moved, err := p.migrateAndCreate(ctx, tx, name, start, end)
	if err != nil {
		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(op, err)
	}

	p.logger.Info("Monthly partition created",
		slog.String("partition", name),
		slog.Time("period_start", start),
		slog.Time("period_end", end),
		slog.Int64("rows_migrated", moved),
	)

	return nil
}

// partitionExists checks the catalog for a relation with the expected name
// in the current schema. Runs inside the caller's transaction so the check
// is consistent with the DDL that may follow it.
func partitionExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM pg_class c
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE c.relname = $1 AND n.nspname = current_schema()
		)
	`

	var exists bool
	if err := tx.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// migrateAndCreate moves the month's rows out of the default partition and
// creates the dedicated partition. Postgres refuses to create a partition
// whose range overlaps rows still sitting in the default partition, which is
// why the rows are staged and deleted first, inside the same transaction.
func (p *PartitionManager) migrateAndCreate(
	ctx context.Context,
	tx *sql.Tx,
	name string,
	start, end time.Time,
) (int64, error) {
	staging := pq.QuoteIdentifier(stagingTable)

	createStaging := fmt.Sprintf(
		`CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP`,
		staging, pq.QuoteIdentifier(defaultPartitionTable),
	)
	if _, err := tx.ExecContext(ctx, createStaging); err != nil {
		return 0, err
	}

	copyRows := fmt.Sprintf(
		`INSERT INTO %s SELECT * FROM %s WHERE fecha >= $1 AND fecha < $2`,
		staging, pq.QuoteIdentifier(defaultPartitionTable),
	)

	res, err := tx.ExecContext(ctx, copyRows, start, end)
	if err != nil {
		return 0, err
	}

	moved, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	deleteRows := fmt.Sprintf(
		`DELETE FROM %s WHERE fecha >= $1 AND fecha < $2`,
		pq.QuoteIdentifier(defaultPartitionTable),
	)
	if _, err := tx.ExecContext(ctx, deleteRows, start, end); err != nil {
		return 0, err
	}

	// Bounds are controlled values formatted as UTC literals; DDL cannot
	// take bind parameters.
	createPartition := fmt.Sprintf(
		`CREATE TABLE %s PARTITION OF %s FOR VALUES FROM ('%s') TO ('%s')`,
		pq.QuoteIdentifier(name),
		pq.QuoteIdentifier(readingsTable),
		start.UTC().Format(partitionBoundLayout),
		end.UTC().Format(partitionBoundLayout),
	)
	if _, err := tx.ExecContext(ctx, createPartition); err != nil {
		return 0, err
	}

	// Reinsert through the parent table; range routing places the rows in
	// the partition created above.
	reinsert := fmt.Sprintf(
		`INSERT INTO %s SELECT * FROM %s`,
		pq.QuoteIdentifier(readingsTable), staging,
	)
	if _, err := tx.ExecContext(ctx, reinsert); err != nil {
		return 0, err
	}

	return moved, nil
}
