// Package processor orchestrates alias synchronization for terms and
// nodes: compute the canonical path, resolve conflicts, persist, and
// propagate changes down the hierarchy and out to related content.
package processor

import (
	"sectionpaths/internal/alias"
	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
	"sectionpaths/internal/logging"
	"sectionpaths/internal/paths"
)

// TermSource is the hierarchy-store contract the processor needs.
type TermSource interface {
	Get(id int64) (*entity.Term, error)
	Children(parentID int64) ([]*entity.Term, error)
}

// NodeUpdateQueuer defers related-content propagation to a background
// job instead of running it inline. The batch engine implements this.
type NodeUpdateQueuer interface {
	QueueTermsForNodeUpdate(action Action, pending []PendingDeletion) (jobID string, err error)
}

// Processor coordinates the alias lifecycle of terms and their content.
type Processor struct {
	cfg         *config.Settings
	terms       TermSource
	resolver    *paths.Resolver
	actions     *alias.Actions
	conflicts   *alias.ConflictResolver
	related     *RelatedNodes
	oplog       *alias.OperationLogger
	queuer      NodeUpdateQueuer
	invalidator RenderInvalidator
	logger      *logging.Logger
}

// NewProcessor creates a processor over the given collaborators.
func NewProcessor(cfg *config.Settings, terms TermSource, resolver *paths.Resolver, actions *alias.Actions, conflicts *alias.ConflictResolver, related *RelatedNodes, oplog *alias.OperationLogger, logger *logging.Logger) *Processor {
	return &Processor{
		cfg:       cfg,
		terms:     terms,
		resolver:  resolver,
		actions:   actions,
		conflicts: conflicts,
		related:   related,
		oplog:     oplog,
		logger:    logger,
	}
}

// SetQueuer wires the optional batch engine. Without one, deletion
// propagation always runs inline.
func (p *Processor) SetQueuer(q NodeUpdateQueuer) {
	p.queuer = q
}

// SetInvalidator wires an optional render cache invalidator for node
// alias changes made directly by the processor.
func (p *Processor) SetInvalidator(inv RenderInvalidator) {
	p.invalidator = inv
	p.related.SetInvalidator(inv)
}

// SetTermAlias recomputes and persists the alias of a term. On update it
// also cascades through every descendant and rewrites the aliases of the
// content attached to each, strictly top-down so each child reads its
// parent's already-persisted alias. An unmanaged vocabulary is a no-op.
func (p *Processor) SetTermAlias(term *entity.Term, isUpdate bool) error {
	if term == nil || !p.cfg.ManagesVocabulary(term.Vocabulary) {
		return nil
	}

	if err := p.applyTermAlias(term, isUpdate); err != nil {
		return err
	}
	if !isUpdate {
		return nil
	}

	// Breadth-first over descendants, parents before children. The
	// visited set guards against a corrupted parent graph feeding a term
	// back into its own subtree.
	visited := map[int64]bool{term.ID: true}
	queue, err := p.terms.Children(term.ID)
	if err != nil {
		return err
	}
	for len(queue) > 0 {
		child := queue[0]
		queue = queue[1:]
		if visited[child.ID] {
			continue
		}
		visited[child.ID] = true

		if err := p.applyTermAlias(child, true); err != nil {
			return err
		}
		grandchildren, err := p.terms.Children(child.ID)
		if err != nil {
			return err
		}
		queue = append(queue, grandchildren...)
	}
	return nil
}

// applyTermAlias recomputes one term's alias. A rejected write is logged
// and the cascade carries on; only hierarchy errors abort.
func (p *Processor) applyTermAlias(term *entity.Term, isUpdate bool) error {
	source := term.SourcePath()

	oldAlias := ""
	if isUpdate {
		prev, err := p.actions.OldAlias(source, term.Langcode)
		if err != nil {
			return err
		}
		oldAlias = prev
		if oldAlias != "" {
			if _, err := p.actions.DeleteOldAlias(source, term.Langcode); err != nil {
				return err
			}
		}
	}

	candidate, err := p.resolver.TermAliasPath(term)
	if err != nil {
		return err
	}
	final, err := p.conflicts.EnsureUnique(candidate, term.Langcode, source)
	if err != nil {
		return err
	}
	if err := p.actions.SaveNewAlias(source, final, term.Langcode); err != nil {
		// Reported by the action layer; no success record, but the rest
		// of the subtree still gets processed.
		return nil
	}

	op := alias.OpInsert
	if isUpdate {
		op = alias.OpUpdate
	}
	p.oplog.Log(alias.Record{
		Operation:   op,
		EntityType:  "taxonomy term",
		EntityID:    term.ID,
		EntityLabel: term.Label,
		NewAlias:    final,
		OldAlias:    oldAlias,
	})

	if isUpdate {
		return p.related.Apply(ActionUpdate, term)
	}
	return nil
}

// DeleteTermAlias finishes the deletion of a term whose snapshot was
// captured at predelete time. Each call moves the term from the context's
// input group to output; only the call that drains input runs the
// cascade, once, over every queued snapshot. suppressBatch forces inline
// propagation even when batching is configured.
func (p *Processor) DeleteTermAlias(rc *RequestContext, term *entity.Term, suppressBatch bool) error {
	if rc == nil || term == nil {
		return nil
	}
	rc.Transition(GroupInput, GroupOutput, term.ID)
	if !rc.IsLastInGroup(GroupInput) {
		return nil
	}

	useBatch := p.cfg.UseBatchForTermOperations && !suppressBatch && p.queuer != nil

	var deferred []PendingDeletion
	for _, pending := range rc.Entries(GroupOutput) {
		p.oplog.Log(alias.Record{
			Operation:   alias.OpDelete,
			EntityType:  "taxonomy term",
			EntityID:    pending.Term.ID,
			EntityLabel: pending.Term.Label,
			OldAlias:    pending.OldAlias,
		})
		// The term is gone; its own alias record goes with it. A store
		// failure on one term must not strand the rest of the queue.
		if _, err := p.actions.DeleteOldAlias(pending.Term.SourcePath(), pending.Term.Langcode); err != nil {
			p.logger.Warn("failed to delete term alias", map[string]interface{}{
				"term_id": pending.Term.ID,
				"error":   err.Error(),
			})
			continue
		}

		if useBatch {
			deferred = append(deferred, pending)
		} else if err := p.related.Apply(ActionDelete, pending.Term); err != nil {
			p.logger.Warn("failed to propagate term deletion", map[string]interface{}{
				"term_id": pending.Term.ID,
				"error":   err.Error(),
			})
		}
	}

	if useBatch && len(deferred) > 0 {
		jobID, err := p.queuer.QueueTermsForNodeUpdate(ActionDelete, deferred)
		if err != nil {
			return err
		}
		p.logger.Info("queued node alias updates", map[string]interface{}{
			"job_id": jobID,
			"terms":  len(deferred),
		})
	}

	rc.ClearGroup(GroupOutput)
	return nil
}

// SetNodeAlias recomputes and persists the alias of a single content
// item. A node without a section term gets a bare title alias only when
// configured; otherwise its alias is removed and nothing replaces it.
// An unconfigured bundle is a no-op.
func (p *Processor) SetNodeAlias(node *entity.Node, isUpdate bool) error {
	if node == nil {
		return nil
	}
	if _, ok := p.cfg.BundleFor(node.Bundle); !ok {
		return nil
	}

	source := node.SourcePath()

	oldAlias := ""
	if isUpdate {
		prev, err := p.actions.OldAlias(source, node.Langcode)
		if err != nil {
			return err
		}
		oldAlias = prev
		if _, err := p.actions.DeleteOldAlias(source, node.Langcode); err != nil {
			return err
		}
	}

	var term *entity.Term
	if node.TermID != 0 {
		loaded, err := p.terms.Get(node.TermID)
		if err != nil {
			return err
		}
		// A dangling reference is handled like an empty one.
		term = loaded
	}
	if term == nil && !p.cfg.GenerateNodeAliasIfTermEmpty {
		if isUpdate && oldAlias != "" {
			p.oplog.Log(alias.Record{
				Operation:   alias.OpDeleteWithoutNewAlias,
				EntityType:  "node",
				EntityID:    node.ID,
				EntityLabel: node.Title,
				OldAlias:    oldAlias,
			})
		}
		return nil
	}

	candidate, err := p.resolver.NodeAliasPath(term, node)
	if err != nil {
		return err
	}
	final, err := p.conflicts.EnsureUnique(candidate, node.Langcode, source)
	if err != nil {
		return err
	}
	if err := p.actions.SaveNewAlias(source, final, node.Langcode); err != nil {
		return nil
	}

	op := alias.OpInsert
	if isUpdate {
		op = alias.OpUpdate
	}
	p.oplog.Log(alias.Record{
		Operation:   op,
		EntityType:  "node",
		EntityID:    node.ID,
		EntityLabel: node.Title,
		NewAlias:    final,
		OldAlias:    oldAlias,
	})

	if p.invalidator != nil {
		p.invalidator.InvalidateNode(node)
	}
	return nil
}
