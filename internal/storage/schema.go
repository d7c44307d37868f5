package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createAliasesTable(tx); err != nil {
			return err
		}
		if err := createTermsTable(tx); err != nil {
			return err
		}
		if err := createNodesTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})

		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Database schema is up to date", map[string]interface{}{
			"version": version,
		})
		return nil
	}

	if version == 0 {
		// Database file exists but was never initialized.
		return db.initializeSchema()
	}

	db.logger.Info("Running database migrations", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Run migrations sequentially as the schema evolves.
	return nil
}

// getSchemaVersion gets the current schema version
func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	return err
}

// createAliasesTable creates the alias records table. The UNIQUE index on
// (alias, langcode) is the atomic check-then-write guard for the uniqueness
// invariant: two concurrent cascades computing the same candidate cannot
// both commit it.
func createAliasesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS aliases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			alias TEXT NOT NULL,
			langcode TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE (alias, langcode),
			UNIQUE (source, langcode)
		);
		CREATE INDEX IF NOT EXISTS idx_aliases_source ON aliases(source, langcode);
	`)
	return err
}

func createTermsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS terms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			vocabulary TEXT NOT NULL,
			label TEXT NOT NULL,
			parent_id INTEGER NOT NULL DEFAULT 0,
			langcode TEXT NOT NULL DEFAULT 'en'
		);
		CREATE INDEX IF NOT EXISTS idx_terms_vocabulary ON terms(vocabulary);
		CREATE INDEX IF NOT EXISTS idx_terms_parent ON terms(parent_id);
	`)
	return err
}

func createNodesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bundle TEXT NOT NULL,
			title TEXT NOT NULL,
			term_id INTEGER NOT NULL DEFAULT 0,
			langcode TEXT NOT NULL DEFAULT 'en'
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_bundle_term ON nodes(bundle, term_id);
	`)
	return err
}
