package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS students (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL,
					position INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS grades (
					student_id INTEGER NOT NULL,
					position INTEGER NOT NULL,
					value REAL NOT NULL CHECK (value >= 0 AND value <= 100),
					PRIMARY KEY (student_id, position),
					FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add subject grades, category grades and category weights",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS subject_grades (
					student_id INTEGER NOT NULL,
					subject TEXT NOT NULL,
					subject_position INTEGER NOT NULL,
					position INTEGER NOT NULL,
					value REAL NOT NULL CHECK (value >= 0 AND value <= 100),
					PRIMARY KEY (student_id, subject, position),
					FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
				)`,
				`CREATE TABLE IF NOT EXISTS category_grades (
					student_id INTEGER NOT NULL,
					category TEXT NOT NULL,
					category_position INTEGER NOT NULL,
					position INTEGER NOT NULL,
					value REAL NOT NULL CHECK (value >= 0 AND value <= 100),
					PRIMARY KEY (student_id, category, position),
					FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX IF NOT EXISTS idx_category_grades_category ON category_grades(category)`,
				`CREATE TABLE IF NOT EXISTS category_weights (
					category TEXT PRIMARY KEY,
					weight REAL NOT NULL CHECK (weight >= 0 AND weight <= 1),
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if version != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, version)
	}

	return nil
}

// SchemaVersion reports the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}
