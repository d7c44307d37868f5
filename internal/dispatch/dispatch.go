// Package dispatch receives entity lifecycle events and routes them to
// the alias processor, owning the request-scoped context that groups the
// deletion events of one cascade.
package dispatch

import (
	"sync"

	"sectionpaths/internal/alias"
	"sectionpaths/internal/config"
	"sectionpaths/internal/detect"
	"sectionpaths/internal/entity"
	"sectionpaths/internal/logging"
	"sectionpaths/internal/processor"
)

// Dispatcher translates entity events into alias operations. It is safe
// for concurrent use; deletion cascades are serialized so one cascade's
// context never sees another's snapshots.
type Dispatcher struct {
	cfg     *config.Settings
	proc    *processor.Processor
	actions *alias.Actions
	oplog   *alias.OperationLogger
	logger  *logging.Logger

	mu sync.Mutex
	rc *processor.RequestContext
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg *config.Settings, proc *processor.Processor, actions *alias.Actions, oplog *alias.OperationLogger, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		proc:    proc,
		actions: actions,
		oplog:   oplog,
		logger:  logger,
	}
}

// TermInserted handles a newly created term.
func (d *Dispatcher) TermInserted(term *entity.Term) error {
	if !detect.TermNeedsAliasUpdate(d.cfg, term, nil, false) {
		return nil
	}
	return d.proc.SetTermAlias(term, false)
}

// TermUpdated handles a term change, given the state before and after
// the save. Nothing happens when neither label nor parent changed.
func (d *Dispatcher) TermUpdated(before, after *entity.Term) error {
	if !detect.TermNeedsAliasUpdate(d.cfg, after, before, true) {
		return nil
	}
	return d.proc.SetTermAlias(after, true)
}

// TermPredelete snapshots a term about to be removed. Must be called
// before the store forgets the term; the matching TermDeleted consumes
// the snapshot.
func (d *Dispatcher) TermPredelete(term *entity.Term) error {
	if term == nil || !d.cfg.ManagesVocabulary(term.Vocabulary) {
		return nil
	}

	oldAlias, err := d.actions.OldAlias(term.SourcePath(), term.Langcode)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rc == nil {
		d.rc = processor.NewRequestContext()
	}
	d.rc.Set(processor.GroupInput, term.ID, processor.PendingDeletion{
		Term:     term,
		OldAlias: oldAlias,
	})
	return nil
}

// TermDeleted completes a term removal. The cascade runs once the last
// snapshotted term of the group reports in; suppressBatch forces inline
// propagation regardless of configuration.
func (d *Dispatcher) TermDeleted(term *entity.Term, suppressBatch bool) error {
	if term == nil || !d.cfg.ManagesVocabulary(term.Vocabulary) {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rc == nil {
		// Deletion without a predelete snapshot; nothing to do.
		d.logger.Warn("term deleted without predelete snapshot", map[string]interface{}{
			"term_id": term.ID,
		})
		return nil
	}

	if err := d.proc.DeleteTermAlias(d.rc, term, suppressBatch); err != nil {
		return err
	}
	if d.rc.IsLastInGroup(processor.GroupInput) {
		// Cascade finished; the next deletion starts a fresh context.
		d.rc = nil
	}
	return nil
}

// NodeInserted handles newly created content.
func (d *Dispatcher) NodeInserted(node *entity.Node) error {
	if !detect.NodeNeedsAliasUpdate(d.cfg, node, nil, false) {
		return nil
	}
	return d.proc.SetNodeAlias(node, false)
}

// NodeUpdated handles a content change, given the state before and
// after the save.
func (d *Dispatcher) NodeUpdated(before, after *entity.Node) error {
	if !detect.NodeNeedsAliasUpdate(d.cfg, after, before, true) {
		return nil
	}
	return d.proc.SetNodeAlias(after, true)
}

// NodeDeleted removes the alias of deleted content.
func (d *Dispatcher) NodeDeleted(node *entity.Node) error {
	if node == nil {
		return nil
	}
	if _, ok := d.cfg.BundleFor(node.Bundle); !ok {
		return nil
	}

	oldAlias, err := d.actions.OldAlias(node.SourcePath(), node.Langcode)
	if err != nil {
		return err
	}
	removed, err := d.actions.DeleteOldAlias(node.SourcePath(), node.Langcode)
	if err != nil {
		return err
	}
	if removed {
		d.oplog.Log(alias.Record{
			Operation:   alias.OpDelete,
			EntityType:  "node",
			EntityID:    node.ID,
			EntityLabel: node.Title,
			OldAlias:    oldAlias,
		})
	}
	return nil
}
