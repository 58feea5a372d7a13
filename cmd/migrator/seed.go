package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances hashing latency against brute-force resistance.
// pgcrypto's crypt() verifies the resulting $2a$ hashes, so seeded users
// authenticate through the same store-side comparison as everyone else.
const bcryptCost = 10

var errSeedUsage = errors.New("seed-user requires rut, username, email and password arguments")

// seedUser inserts or updates a user with a bcrypt-hashed credential.
// This is an operator tool: the HTTP service itself has no user creation
// path.
func seedUser(cfg *Config, args []string) error {
	const argCount = 4

	if len(args) != argCount {
		return errSeedUsage
	}

	rut, username, email, password := args[0], args[1], args[2], args[3]

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	defer func() {
		_ = db.Close()
	}()

	const query = `
		INSERT INTO datausuarios (rut, usuario, email, clave)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (rut) DO UPDATE SET usuario = $2, email = $3, clave = $4
	`

	if _, err := db.ExecContext(context.Background(), query, rut, username, email, string(hash)); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	log.Printf("Seeded user %s (%s)", rut, username)

	return nil
}
