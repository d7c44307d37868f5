// Package detect decides whether a term or node mutation requires alias
// recomputation. Both guards are pure functions of the entity, its
// pre-update snapshot and the bundle configuration.
package detect

import (
	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
)

// TermNeedsAliasUpdate reports whether a term mutation is relevant to the
// alias engine. Inserts and deletes of terms in a managed vocabulary are
// always relevant; an update is relevant only when the label or the
// parent reference changed. A missing snapshot fails open: the change is
// treated as relevant rather than silently skipped.
func TermNeedsAliasUpdate(cfg *config.Settings, term, original *entity.Term, isUpdate bool) bool {
	if term == nil || !cfg.ManagesVocabulary(term.Vocabulary) {
		return false
	}

	if isUpdate && original != nil {
		if original.Label == term.Label && original.ParentID == term.ParentID {
			return false
		}
	}

	return true
}

// NodeNeedsAliasUpdate reports whether a node mutation is relevant. The
// node's bundle must be configured; an update is relevant only when the
// title or the term reference changed. A missing snapshot fails open.
func NodeNeedsAliasUpdate(cfg *config.Settings, node, original *entity.Node, isUpdate bool) bool {
	if node == nil {
		return false
	}
	if _, ok := cfg.BundleFor(node.Bundle); !ok {
		return false
	}

	if isUpdate {
		if original == nil {
			return true
		}
		return node.TermID != original.TermID || node.Title != original.Title
	}

	return true
}
