package messageboard

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// MigrationFiles contains all SQL migration files embedded in the binary.
// Users can access these files programmatically to apply migrations using
// their preferred migration tool, or call ApplyMigrations for the simple
// in-order execution the standalone server uses.
//
//go:embed migrations/*.sql
var MigrationFiles embed.FS

// ApplyMigrations executes every embedded migration file in lexical order.
// Statements use IF NOT EXISTS guards, so reapplying is safe.
func ApplyMigrations(db *sql.DB) error {
	entries, err := fs.ReadDir(MigrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := MigrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}
