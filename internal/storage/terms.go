package storage

import (
	"database/sql"
	"fmt"

	"sectionpaths/internal/entity"
)

// TermRepository provides CRUD and hierarchy queries for taxonomy terms.
type TermRepository struct {
	db *DB
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *DB) *TermRepository {
	return &TermRepository{db: db}
}

// Create inserts a term and fills in its generated id.
func (r *TermRepository) Create(term *entity.Term) error {
	result, err := r.db.Exec(`
		INSERT INTO terms (vocabulary, label, parent_id, langcode)
		VALUES (?, ?, ?, ?)
	`, term.Vocabulary, term.Label, term.ParentID, term.Langcode)
	if err != nil {
		return fmt.Errorf("failed to create term %q: %w", term.Label, err)
	}

	term.ID, err = result.LastInsertId()
	return err
}

// Get retrieves a term by id, or nil when it does not exist.
func (r *TermRepository) Get(id int64) (*entity.Term, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, vocabulary, label, parent_id, langcode
		FROM terms WHERE id = ?
	`, id))
}

// Update rewrites a term's label and parent.
func (r *TermRepository) Update(term *entity.Term) error {
	result, err := r.db.Exec(`
		UPDATE terms SET vocabulary = ?, label = ?, parent_id = ?, langcode = ?
		WHERE id = ?
	`, term.Vocabulary, term.Label, term.ParentID, term.Langcode, term.ID)
	if err != nil {
		return fmt.Errorf("failed to update term %d: %w", term.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("term not found: %d", term.ID)
	}
	return nil
}

// Delete removes a term row.
func (r *TermRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM terms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete term %d: %w", id, err)
	}
	return nil
}

// Roots returns the terms of a vocabulary that have no parent, ordered
// by id for deterministic batch slicing.
func (r *TermRepository) Roots(vocabulary string) ([]*entity.Term, error) {
	return r.scanMany(r.db.Query(`
		SELECT id, vocabulary, label, parent_id, langcode
		FROM terms
		WHERE vocabulary = ? AND parent_id = 0
		ORDER BY id
	`, vocabulary))
}

// Children returns the direct children of a term, ordered by id.
func (r *TermRepository) Children(parentID int64) ([]*entity.Term, error) {
	return r.scanMany(r.db.Query(`
		SELECT id, vocabulary, label, parent_id, langcode
		FROM terms
		WHERE parent_id = ?
		ORDER BY id
	`, parentID))
}

// ByVocabulary returns every term in a vocabulary, ordered by id.
func (r *TermRepository) ByVocabulary(vocabulary string) ([]*entity.Term, error) {
	return r.scanMany(r.db.Query(`
		SELECT id, vocabulary, label, parent_id, langcode
		FROM terms
		WHERE vocabulary = ?
		ORDER BY id
	`, vocabulary))
}

func (r *TermRepository) scanOne(row *sql.Row) (*entity.Term, error) {
	var term entity.Term
	err := row.Scan(&term.ID, &term.Vocabulary, &term.Label, &term.ParentID, &term.Langcode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan term: %w", err)
	}
	return &term, nil
}

func (r *TermRepository) scanMany(rows *sql.Rows, qerr error) ([]*entity.Term, error) {
	if qerr != nil {
		return nil, fmt.Errorf("failed to query terms: %w", qerr)
	}
	defer func() { _ = rows.Close() }()

	var terms []*entity.Term
	for rows.Next() {
		var term entity.Term
		if err := rows.Scan(&term.ID, &term.Vocabulary, &term.Label, &term.ParentID, &term.Langcode); err != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", err)
		}
		terms = append(terms, &term)
	}

	return terms, rows.Err()
}
