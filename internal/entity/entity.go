// Package entity defines the taxonomy term and node records the alias
// engine operates on, together with their typed source paths.
package entity

import (
	"fmt"
	"time"
)

// Term is a single entry in a taxonomy vocabulary. Terms form a forest:
// each term has at most one parent, and a zero ParentID marks a root.
type Term struct {
	ID         int64
	Label      string
	Vocabulary string
	ParentID   int64
	Langcode   string
}

// SourcePath returns the canonical internal identifier for the term,
// e.g. "term/45". Alias records are keyed by this value.
func (t *Term) SourcePath() string {
	return fmt.Sprintf("term/%d", t.ID)
}

// IsRoot reports whether the term has no parent.
func (t *Term) IsRoot() bool {
	return t.ParentID == 0
}

// Alias is one (source, alias, langcode) mapping record. For a given
// language the alias string identifies exactly one source path.
type Alias struct {
	ID        int64
	Source    string
	Alias     string
	Langcode  string
	CreatedAt time.Time
}

// Node is a content item that may reference at most one taxonomy term
// through its bundle's configured reference field. A zero TermID means
// the reference is empty.
type Node struct {
	ID       int64
	Title    string
	Bundle   string
	TermID   int64
	Langcode string
}

// SourcePath returns the canonical internal identifier for the node,
// e.g. "node/123".
func (n *Node) SourcePath() string {
	return fmt.Sprintf("node/%d", n.ID)
}
