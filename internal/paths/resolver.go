// Package paths computes canonical alias paths for terms and nodes from
// their position in the taxonomy.
package paths

import (
	"fmt"
	"strings"

	"sectionpaths/internal/entity"
	"sectionpaths/internal/errors"
	"sectionpaths/internal/slug"
)

// TermLoader is the hierarchy-store contract the resolver needs: load a
// term by id.
type TermLoader interface {
	Get(id int64) (*entity.Term, error)
}

// Resolver derives alias strings by walking parent references.
type Resolver struct {
	terms         TermLoader
	maxSlugLength int
}

// NewResolver creates a resolver. maxSlugLength bounds each slug segment;
// zero or less means slug.DefaultMaxLength.
func NewResolver(terms TermLoader, maxSlugLength int) *Resolver {
	return &Resolver{terms: terms, maxSlugLength: maxSlugLength}
}

// FullHierarchy returns the labels from the term's topmost ancestor down
// to the term itself. The walk is iterative with a visited set: a parent
// chain that revisits a term means the forest invariant is broken, which
// is a hard error, never an endless loop.
func (r *Resolver) FullHierarchy(term *entity.Term) ([]string, error) {
	var labels []string
	visited := make(map[int64]bool)

	current := term
	for current != nil {
		if visited[current.ID] {
			return nil, errors.Newf(errors.CyclicHierarchy,
				"term %d appears twice in its own parent chain", current.ID)
		}
		visited[current.ID] = true
		labels = append(labels, current.Label)

		if current.IsRoot() {
			break
		}
		parent, err := r.terms.Get(current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("loading parent %d of term %d: %w", current.ParentID, current.ID, err)
		}
		// A dangling parent reference terminates the walk at the last
		// loadable ancestor.
		current = parent
	}

	// Reverse to root-first order.
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels, nil
}

// TermAliasPath returns the canonical alias for a term, e.g.
// "/grand-parent/child".
func (r *Resolver) TermAliasPath(term *entity.Term) (string, error) {
	labels, err := r.FullHierarchy(term)
	if err != nil {
		return "", err
	}

	slugs := make([]string, len(labels))
	for i, label := range labels {
		slugs[i] = slug.Slugify(label, r.maxSlugLength)
	}
	return "/" + strings.Join(slugs, "/"), nil
}

// NodeAliasPath returns the canonical alias for a node, prefixed by the
// alias path of its term when one is given: "/grand-parent/child/title"
// or a bare "/title" for nodes without a term reference.
func (r *Resolver) NodeAliasPath(term *entity.Term, node *entity.Node) (string, error) {
	prefix := ""
	if term != nil {
		p, err := r.TermAliasPath(term)
		if err != nil {
			return "", err
		}
		prefix = p
	}
	return prefix + "/" + slug.Slugify(node.Title, r.maxSlugLength), nil
}
