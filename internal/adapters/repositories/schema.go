package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite run store schema.
func InitSchema(db *sql.DB) error {
	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS field_runs (
		run_id INTEGER PRIMARY KEY AUTOINCREMENT,
		current_amps REAL NOT NULL,
		segments INTEGER NOT NULL,
		targets INTEGER NOT NULL,
		strict INTEGER NOT NULL,
		wire_hash TEXT NOT NULL,
		created_at_ms INTEGER NOT NULL,
		locations BLOB NOT NULL,
		vectors BLOB NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_field_runs_wire_hash
	ON field_runs(wire_hash);
	`

	return execSchema(db, "init schema", createRunsQuery, createIndexQuery)
}

// Initialize the Postgres run store schema.
func InitPostgresSchema(db *sql.DB) error {
	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS field_runs (
		run_id BIGSERIAL PRIMARY KEY,
		current_amps DOUBLE PRECISION NOT NULL,
		segments INTEGER NOT NULL,
		targets INTEGER NOT NULL,
		strict BOOLEAN NOT NULL,
		wire_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		locations BYTEA NOT NULL,
		vectors BYTEA NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_field_runs_wire_hash
	ON field_runs(wire_hash);
	`

	return execSchema(db, "init postgres schema", createRunsQuery, createIndexQuery)
}

func execSchema(db *sql.DB, op string, statements ...string) error {
	if db == nil {
		return fmt.Errorf("%s: DB is nil", op)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}

// InitSchemaFor picks the schema matching a database/sql driver name.
func InitSchemaFor(db *sql.DB, driver string) error {
	switch driver {
	case "sqlite":
		return InitSchema(db)
	case "pgx":
		return InitPostgresSchema(db)
	}
	return errors.New("init schema: unsupported driver " + driver)
}
