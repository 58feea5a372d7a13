// Package migrations embeds the SQL migration files so the migrator binary
// ships with its schema and needs no external file dependencies.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
)

//go:embed *.sql
var files embed.FS

// filenameRegex enforces the strict naming standard:
// 001_migration_name.up.sql / 001_migration_name.down.sql.
var filenameRegex = regexp.MustCompile(`^(\d{3})_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// FS returns the embedded migration filesystem.
func FS() fs.FS {
	return files
}

// Validate checks that every embedded file matches the naming standard and
// that each up migration has a matching down migration. Run at migrator
// startup before any state-changing operation.
func Validate() error {
	names, err := List()
	if err != nil {
		return err
	}

	directions := make(map[string]map[string]bool) // "001_name" -> {"up","down"}

	for _, name := range names {
		m := filenameRegex.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("migration filename %q does not match NNN_name.(up|down).sql", name)
		}

		key := m[1] + "_" + m[2]
		if directions[key] == nil {
			directions[key] = make(map[string]bool)
		}

		directions[key][m[3]] = true
	}

	for key, dirs := range directions {
		if !dirs["up"] || !dirs["down"] {
			return fmt.Errorf("migration %q is missing its up or down counterpart", key)
		}
	}

	return nil
}

// List returns the embedded migration filenames in lexical order.
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}
