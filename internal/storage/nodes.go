package storage

import (
	"database/sql"
	"fmt"

	"sectionpaths/internal/entity"
)

// NodeRepository provides CRUD and reference queries for content nodes.
type NodeRepository struct {
	db *DB
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(db *DB) *NodeRepository {
	return &NodeRepository{db: db}
}

// Create inserts a node and fills in its generated id.
func (r *NodeRepository) Create(node *entity.Node) error {
	result, err := r.db.Exec(`
		INSERT INTO nodes (bundle, title, term_id, langcode)
		VALUES (?, ?, ?, ?)
	`, node.Bundle, node.Title, node.TermID, node.Langcode)
	if err != nil {
		return fmt.Errorf("failed to create node %q: %w", node.Title, err)
	}

	node.ID, err = result.LastInsertId()
	return err
}

// Get retrieves a node by id, or nil when it does not exist.
func (r *NodeRepository) Get(id int64) (*entity.Node, error) {
	var node entity.Node
	err := r.db.QueryRow(`
		SELECT id, bundle, title, term_id, langcode
		FROM nodes WHERE id = ?
	`, id).Scan(&node.ID, &node.Bundle, &node.Title, &node.TermID, &node.Langcode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	return &node, nil
}

// Update rewrites a node's title and term reference.
func (r *NodeRepository) Update(node *entity.Node) error {
	result, err := r.db.Exec(`
		UPDATE nodes SET bundle = ?, title = ?, term_id = ?, langcode = ?
		WHERE id = ?
	`, node.Bundle, node.Title, node.TermID, node.Langcode, node.ID)
	if err != nil {
		return fmt.Errorf("failed to update node %d: %w", node.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("node not found: %d", node.ID)
	}
	return nil
}

// Delete removes a node row.
func (r *NodeRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node %d: %w", id, err)
	}
	return nil
}

// ByTermAndBundle returns the nodes of a bundle whose reference field
// points at the given term, ordered by id.
func (r *NodeRepository) ByTermAndBundle(termID int64, bundle string) ([]*entity.Node, error) {
	rows, err := r.db.Query(`
		SELECT id, bundle, title, term_id, langcode
		FROM nodes
		WHERE term_id = ? AND bundle = ?
		ORDER BY id
	`, termID, bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var nodes []*entity.Node
	for rows.Next() {
		var node entity.Node
		if err := rows.Scan(&node.ID, &node.Bundle, &node.Title, &node.TermID, &node.Langcode); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		nodes = append(nodes, &node)
	}

	return nodes, rows.Err()
}
