package processor

import (
	"sort"

	"sectionpaths/internal/alias"
	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
	"sectionpaths/internal/logging"
	"sectionpaths/internal/paths"
)

// Action selects how related content reacts to a term change.
type Action string

const (
	// ActionUpdate recomputes node aliases under the term's new path.
	ActionUpdate Action = "update"
	// ActionDelete removes node aliases, optionally regenerating a bare
	// title alias when configured.
	ActionDelete Action = "delete"
)

// NodeLocator finds the content attached to a term within a bundle.
type NodeLocator interface {
	ByTermAndBundle(termID int64, bundle string) ([]*entity.Node, error)
}

// RenderInvalidator lets a host system drop cached renderings of content
// whose alias changed. Optional; a nil invalidator is a no-op.
type RenderInvalidator interface {
	InvalidateNode(node *entity.Node)
}

// RelatedNodes propagates a term's alias change to the content that
// references it.
type RelatedNodes struct {
	cfg         *config.Settings
	nodes       NodeLocator
	resolver    *paths.Resolver
	actions     *alias.Actions
	conflicts   *alias.ConflictResolver
	oplog       *alias.OperationLogger
	invalidator RenderInvalidator
	logger      *logging.Logger
}

// NewRelatedNodes creates a propagator over the given collaborators.
func NewRelatedNodes(cfg *config.Settings, nodes NodeLocator, resolver *paths.Resolver, actions *alias.Actions, conflicts *alias.ConflictResolver, oplog *alias.OperationLogger, logger *logging.Logger) *RelatedNodes {
	return &RelatedNodes{
		cfg:       cfg,
		nodes:     nodes,
		resolver:  resolver,
		actions:   actions,
		conflicts: conflicts,
		oplog:     oplog,
		logger:    logger,
	}
}

// SetInvalidator wires an optional render cache invalidator.
func (r *RelatedNodes) SetInvalidator(inv RenderInvalidator) {
	r.invalidator = inv
}

// Apply locates the content referencing term across every configured
// bundle and processes each batch. Bundles are visited in a stable order.
func (r *RelatedNodes) Apply(action Action, term *entity.Term) error {
	bundles := make([]string, 0, len(r.cfg.Bundles))
	for name := range r.cfg.Bundles {
		bundles = append(bundles, name)
	}
	sort.Strings(bundles)

	for _, bundle := range bundles {
		nodes, err := r.nodes.ByTermAndBundle(term.ID, bundle)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			continue
		}
		r.Process(action, nodes, term)
	}
	return nil
}

// Process rewrites the aliases of a batch of nodes after their section
// term changed. On update the new alias is built under the term's current
// path. On delete the term prefix is dropped; a replacement bare-title
// alias is generated only when configured, otherwise the removal is
// recorded without a successor. A failure on one node is logged and does
// not stop the rest of the batch.
func (r *RelatedNodes) Process(action Action, nodes []*entity.Node, term *entity.Term) {
	isUpdate := action == ActionUpdate
	replaceOnDelete := r.cfg.GenerateNodeAliasIfTermEmpty
	if !isUpdate {
		term = nil
	}

	for _, node := range nodes {
		source := node.SourcePath()

		oldAlias, err := r.actions.OldAlias(source, node.Langcode)
		if err != nil {
			r.logger.Warn("failed to read existing alias", map[string]interface{}{
				"source": source,
				"error":  err.Error(),
			})
			continue
		}
		removed, err := r.actions.DeleteOldAlias(source, node.Langcode)
		if err != nil {
			r.logger.Warn("failed to delete alias", map[string]interface{}{
				"source": source,
				"error":  err.Error(),
			})
			continue
		}

		switch {
		case isUpdate || replaceOnDelete:
			newAlias, err := r.resolver.NodeAliasPath(term, node)
			if err != nil {
				r.logger.Warn("failed to build node alias", map[string]interface{}{
					"node_id": node.ID,
					"error":   err.Error(),
				})
				continue
			}
			newAlias, err = r.conflicts.EnsureUnique(newAlias, node.Langcode, source)
			if err != nil {
				continue
			}
			if err := r.actions.SaveNewAlias(source, newAlias, node.Langcode); err != nil {
				continue
			}
			op := alias.OpUpdate
			if !isUpdate {
				op = alias.OpInsert
			}
			r.oplog.Log(alias.Record{
				Operation:   op,
				EntityType:  "node",
				EntityID:    node.ID,
				EntityLabel: node.Title,
				NewAlias:    newAlias,
				OldAlias:    oldAlias,
			})
		case removed:
			r.oplog.Log(alias.Record{
				Operation:   alias.OpDeleteWithoutNewAlias,
				EntityType:  "node",
				EntityID:    node.ID,
				EntityLabel: node.Title,
				OldAlias:    oldAlias,
			})
		}

		if r.invalidator != nil {
			r.invalidator.InvalidateNode(node)
		}
	}
}
