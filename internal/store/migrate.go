package store

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateUp applies all pending migrations. Already being at the latest
// version is not an error.
func (db *DB) MigrateUp(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}
	// The migrate instance is not closed here: closing it would close
	// the underlying connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the current schema version and dirty state.
// A database with no applied migrations reports 0, false, nil.
func (db *DB) MigrateVersion(migrationsDir string) (version uint, dirty bool, err error) {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err = m.Version()
	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// LatestMigrationVersion scans migrationsDir for the newest available
// schema version.
func LatestMigrationVersion(migrationsDir string) (uint, error) {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("resolve migrations dir: %w", err)
	}
	entries, err := filepath.Glob(filepath.Join(absPath, "*.up.sql"))
	if err != nil {
		return 0, fmt.Errorf("scan migrations dir: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("no migration files found in %s", absPath)
	}

	var maxVersion uint
	for _, entry := range entries {
		var version uint
		// Migration files follow the 000001_name.up.sql convention.
		if _, err := fmt.Sscanf(filepath.Base(entry), "%d_", &version); err == nil && version > maxVersion {
			maxVersion = version
		}
	}
	if maxVersion == 0 {
		return 0, fmt.Errorf("could not determine latest migration version in %s", absPath)
	}
	return maxVersion, nil
}

// CheckSchema verifies the database is migrated to the latest available
// version and not dirty, returning a descriptive error otherwise. Run
// paths call this before writing so a stale database fails fast instead
// of mid-insert.
func (db *DB) CheckSchema(migrationsDir string) error {
	current, dirty, err := db.MigrateVersion(migrationsDir)
	if err != nil {
		return fmt.Errorf("get current schema version: %w", err)
	}
	latest, err := LatestMigrationVersion(migrationsDir)
	if err != nil {
		return err
	}

	switch {
	case dirty:
		return fmt.Errorf("database schema is dirty at version %d; run 'k3pi-report migrate status' to diagnose", current)
	case current > latest:
		return fmt.Errorf("database schema version %d is ahead of latest migration %d", current, latest)
	case current < latest:
		return fmt.Errorf("database schema is out of date (version %d, need %d); run 'k3pi-report migrate up'", current, latest)
	}
	return nil
}

func (db *DB) newMigrate(migrationsDir string) (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations dir: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", absPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	return m, nil
}

// migrateLogger adapts the standard logger to the migrate.Logger
// interface.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
