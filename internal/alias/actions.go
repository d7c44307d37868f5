package alias

import (
	"sectionpaths/internal/errors"
	"sectionpaths/internal/logging"
)

// Actions wraps the alias store with the three operations the processor
// needs: read the prior alias, delete it, save a new one.
type Actions struct {
	store  Store
	logger *logging.Logger
}

// NewActions creates the action helper.
func NewActions(store Store, logger *logging.Logger) *Actions {
	return &Actions{store: store, logger: logger}
}

// OldAlias returns the current alias string for a source path, or ""
// when the source has no alias in that language.
func (a *Actions) OldAlias(source, langcode string) (string, error) {
	rec, err := a.store.FindBySource(source, langcode)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.Alias, nil
}

// DeleteOldAlias removes the alias for a source path, reporting whether
// one existed.
func (a *Actions) DeleteOldAlias(source, langcode string) (bool, error) {
	return a.store.DeleteBySource(source, langcode)
}

// SaveNewAlias persists a new alias record. A rejected write is reported
// as a coded error; callers treat it as "no alias produced" and carry on
// with the surrounding cascade.
func (a *Actions) SaveNewAlias(source, aliasPath, langcode string) error {
	if err := a.store.Create(source, aliasPath, langcode); err != nil {
		a.logger.Warn("alias write rejected by store", map[string]interface{}{
			"source":   source,
			"alias":    aliasPath,
			"langcode": langcode,
			"error":    err.Error(),
		})
		return errors.New(errors.AliasSaveFailed, "saving alias "+aliasPath, err)
	}
	return nil
}
