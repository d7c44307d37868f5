// Package alias owns alias persistence actions, uniqueness resolution and
// the operation records emitted for every alias change.
package alias

import "sectionpaths/internal/entity"

// Store is the gateway contract to persistent alias records. The sqlite
// AliasRepository implements it; tests use in-memory fakes.
type Store interface {
	// FindBySource returns the record for a source path, or nil.
	FindBySource(source, langcode string) (*entity.Alias, error)
	// FindByAlias returns the record owning an alias string, or nil.
	FindByAlias(alias, langcode string) (*entity.Alias, error)
	// Create inserts a record. The write must be atomic per
	// (alias, langcode): concurrent duplicates are rejected with an error.
	Create(source, alias, langcode string) error
	// DeleteBySource removes the record for a source path, reporting
	// whether one existed.
	DeleteBySource(source, langcode string) (bool, error)
}
