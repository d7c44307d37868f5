package storage

import (
	"database/sql"
	"fmt"
	"time"

	"sectionpaths/internal/entity"
)

// AliasRepository provides CRUD operations for the aliases table. It is
// the only component that touches persistent alias records.
type AliasRepository struct {
	db *DB
}

// NewAliasRepository creates a new alias repository
func NewAliasRepository(db *DB) *AliasRepository {
	return &AliasRepository{db: db}
}

// FindBySource returns the alias record for an internal source path and
// language, or nil when none exists.
func (r *AliasRepository) FindBySource(source, langcode string) (*entity.Alias, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, source, alias, langcode, created_at
		FROM aliases
		WHERE source = ? AND langcode = ?
	`, source, langcode))
}

// FindByAlias returns the record owning an alias string in a language, or
// nil when the alias is free. Used by the conflict resolver.
func (r *AliasRepository) FindByAlias(alias, langcode string) (*entity.Alias, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, source, alias, langcode, created_at
		FROM aliases
		WHERE alias = ? AND langcode = ?
	`, alias, langcode))
}

// Create inserts a new alias record. The UNIQUE(alias, langcode) index
// rejects a concurrent write of the same alias, so a lost check-then-act
// race surfaces here as an error instead of a duplicate.
func (r *AliasRepository) Create(source, alias, langcode string) error {
	_, err := r.db.Exec(`
		INSERT INTO aliases (source, alias, langcode, created_at)
		VALUES (?, ?, ?, ?)
	`, source, alias, langcode, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to create alias %q for %s: %w", alias, source, err)
	}
	return nil
}

// DeleteBySource removes the alias for a source path and language.
// Returns true if a record was removed.
func (r *AliasRepository) DeleteBySource(source, langcode string) (bool, error) {
	result, err := r.db.Exec(`
		DELETE FROM aliases WHERE source = ? AND langcode = ?
	`, source, langcode)
	if err != nil {
		return false, fmt.Errorf("failed to delete alias for %s: %w", source, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CountByLangcode returns the number of alias records in a language.
func (r *AliasRepository) CountByLangcode(langcode string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM aliases WHERE langcode = ?
	`, langcode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count aliases: %w", err)
	}
	return count, nil
}

func (r *AliasRepository) scanOne(row *sql.Row) (*entity.Alias, error) {
	var rec entity.Alias
	var createdAt string

	err := row.Scan(&rec.ID, &rec.Source, &rec.Alias, &rec.Langcode, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan alias record: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}

	return &rec, nil
}
