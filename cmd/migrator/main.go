// Package main provides the terralog database migration tool.
//
// Commands:
//
//	migrator up                                     apply all pending migrations
//	migrator down                                   roll back the last migration
//	migrator status                                 show current migration status
//	migrator drop                                   drop all tables (destructive)
//	migrator seed-user <rut> <user> <email> <pass>  provision a user with a hashed credential
package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Println("Usage: migrator <up|down|status|drop|seed-user>")
		os.Exit(1)
	}

	command := os.Args[1]

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if command == "seed-user" {
		if err := seedUser(cfg, os.Args[2:]); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}

		return
	}

	runner, err := NewRunner(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize migration runner: %v", err)
	}

	defer func() {
		_ = runner.Close()
	}()

	switch command {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down()
	case "status":
		err = runner.Status()
	case "drop":
		err = runner.Drop()
	default:
		log.Printf("Unknown command: %s", command)
		log.Println("Usage: migrator <up|down|status|drop|seed-user>")
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration command %q failed: %v", command, err)
	}
}
