package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle shared by the run and result stores.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the SQLite database at path. The
// schema is managed separately via MigrateUp.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &DB{db}, nil
}
