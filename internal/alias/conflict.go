package alias

import "fmt"

// ConflictResolver derives a unique alias from a desired base alias.
type ConflictResolver struct {
	store Store
}

// NewConflictResolver creates a resolver over the given store.
func NewConflictResolver(store Store) *ConflictResolver {
	return &ConflictResolver{store: store}
}

// EnsureUnique returns an alias guaranteed not to collide with any other
// source's alias in the language: the base itself when free, otherwise
// base-2, base-3, ... until a free candidate is found.
//
// The loop is idempotent: when the candidate's existing record already
// points at source, the candidate is returned unchanged, so recomputing
// an unchanged entity never churns its alias with a new suffix.
func (c *ConflictResolver) EnsureUnique(base, langcode, source string) (string, error) {
	candidate := base
	suffix := 2

	for {
		existing, err := c.store.FindByAlias(candidate, langcode)
		if err != nil {
			return "", fmt.Errorf("looking up alias %q: %w", candidate, err)
		}
		if existing == nil {
			return candidate, nil
		}
		if existing.Source == source {
			// Self-ownership: the alias already belongs to this source.
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, suffix)
		suffix++
	}
}
