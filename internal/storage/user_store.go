package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/terralog-io/terralog/internal/telemetry"
)

// Compile-time interface assertion.
var _ telemetry.UserStore = (*UserStore)(nil)

// Sentinel errors for credential verification.
var (
	ErrMissingCredentials = errors.New("rut and password are required")
	ErrUnknownUser        = errors.New("no user with the given rut")
	ErrPasswordMismatch   = errors.New("password does not match stored credential")
)

// UserStore implements telemetry.UserStore with a PostgreSQL backend.
//
// Password comparison is delegated to pgcrypto's crypt() inside the store:
// the plaintext is sent as a bind parameter, the stored hash never leaves
// the database, and no secret comparison happens in process memory.
type UserStore struct {
	conn   *Connection
	logger *slog.Logger
}

// NewUserStore creates a PostgreSQL-backed user store.
func NewUserStore(conn *Connection, logger *slog.Logger) (*UserStore, error) {
	if conn == nil {
		return nil, ErrNoDatabaseConnection
	}

	return &UserStore{conn: conn, logger: logger}, nil
}

// Authenticate looks up exactly one user by RUT and verifies the password
// against the stored hash with crypt(). On match it returns the minimal
// profile; the hashed credential is never part of the result set.
func (s *UserStore) Authenticate(ctx context.Context, rut, password string) (*telemetry.Profile, error) {
	const op = "storage.Authenticate"

	if rut == "" || password == "" {
		return nil, telemetry.E(telemetry.KindMalformedRequest, op, ErrMissingCredentials)
	}

	const query = `
		SELECT rut, usuario, email, clave = crypt($2, clave)
		FROM datausuarios
		WHERE rut = $1
	`

	var (
		profile telemetry.Profile
		match   bool
	)

	err := s.conn.QueryRowContext(ctx, query, rut, password).
		Scan(&profile.RUT, &profile.Username, &profile.Email, &match)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, telemetry.E(telemetry.KindNotFound, op, ErrUnknownUser)
	}

	if err != nil {
		return nil, classify(op, err)
	}

	if !match {
		s.logger.Warn("Credential verification failed", slog.String("rut", rut))

		return nil, telemetry.E(telemetry.KindInvalidCredentials, op, ErrPasswordMismatch)
	}

	return &profile, nil
}

// ListUsers returns the entire users table, unfiltered. The hashed
// credential column is never selected.
func (s *UserStore) ListUsers(ctx context.Context) ([]telemetry.User, error) {
	const op = "storage.ListUsers"

	const query = `SELECT rut, usuario, email FROM datausuarios ORDER BY rut`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(op, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	users := []telemetry.User{}

	for rows.Next() {
		var u telemetry.User

		if err := rows.Scan(&u.RUT, &u.Username, &u.Email); err != nil {
			return nil, classify(op, err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	return users, nil
}
