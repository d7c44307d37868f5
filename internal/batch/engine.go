package batch

import (
	"context"
	"sort"

	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
	"sectionpaths/internal/errors"
	"sectionpaths/internal/logging"
	"sectionpaths/internal/processor"
)

// TermLister is the hierarchy-store contract the engine needs: load
// terms and enumerate the roots of a vocabulary.
type TermLister interface {
	Get(id int64) (*entity.Term, error)
	Roots(vocabulary string) ([]*entity.Term, error)
}

// Engine runs the chunked alias jobs: full regeneration and deferred
// node updates. It also serves as the processor's queue for deletion
// propagation, closing the loop between inline and background work.
type Engine struct {
	cfg     *config.Settings
	terms   TermLister
	proc    *processor.Processor
	related *processor.RelatedNodes
	runner  *Runner
	logger  *logging.Logger
}

// NewEngine creates the engine and registers its handlers on the runner.
func NewEngine(cfg *config.Settings, terms TermLister, proc *processor.Processor, related *processor.RelatedNodes, runner *Runner, logger *logging.Logger) *Engine {
	e := &Engine{
		cfg:     cfg,
		terms:   terms,
		proc:    proc,
		related: related,
		runner:  runner,
		logger:  logger,
	}
	runner.RegisterHandler(JobTypeRebuild, e.rebuildHandler)
	runner.RegisterHandler(JobTypeNodeUpdate, e.nodeUpdateHandler)
	return e
}

// Runner exposes the underlying job runner.
func (e *Engine) Runner() *Runner {
	return e.runner
}

// QueueRebuild submits a regeneration job covering the given
// vocabularies, or all configured ones when empty.
func (e *Engine) QueueRebuild(vocabularies []string) (*Job, error) {
	job, err := NewJob(JobTypeRebuild, RebuildScope{Vocabularies: vocabularies})
	if err != nil {
		return nil, err
	}
	if err := e.runner.Submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// QueueTermsForNodeUpdate submits a job propagating a term operation to
// related content. It implements the processor's queue contract.
func (e *Engine) QueueTermsForNodeUpdate(action processor.Action, pending []processor.PendingDeletion) (string, error) {
	snaps := make([]TermSnapshot, 0, len(pending))
	for _, p := range pending {
		snaps = append(snaps, TermSnapshot{
			ID:         p.Term.ID,
			Label:      p.Term.Label,
			Vocabulary: p.Term.Vocabulary,
			ParentID:   p.Term.ParentID,
			Langcode:   p.Term.Langcode,
			OldAlias:   p.OldAlias,
		})
	}

	job, err := NewJob(JobTypeNodeUpdate, NodeUpdateScope{
		Action: string(action),
		Terms:  snaps,
	})
	if err != nil {
		return "", err
	}
	if err := e.runner.Submit(job); err != nil {
		return "", err
	}
	return job.ID, nil
}

// Resume puts an interrupted job back on the queue so its handler
// continues from the last checkpoint.
func (e *Engine) Resume(jobID string) (*Job, error) {
	job, err := e.runner.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.Newf(errors.JobNotFound, "job %s not found", jobID)
	}
	if !job.CanResume() {
		return nil, errors.Newf(errors.JobNotResumable,
			"job %s is %s and cannot be resumed", jobID, job.Status)
	}
	if err := e.runner.Requeue(job); err != nil {
		return nil, err
	}
	return job, nil
}

// RebuildSync regenerates aliases inline without going through the job
// queue. The CLI uses it when batching is not requested.
func (e *Engine) RebuildSync(ctx context.Context, scope RebuildScope) (*RebuildResult, error) {
	state, err := e.collectRebuildState(scope)
	if err != nil {
		return nil, err
	}
	return e.runRebuild(ctx, state, func(interface{}, int) error { return nil })
}

// rebuildHandler regenerates the aliases of every term tree in scope.
// Only root terms are collected; the processor cascade covers each
// subtree and its related content.
func (e *Engine) rebuildHandler(ctx context.Context, job *Job, checkpoint Checkpoint) (interface{}, error) {
	var scope RebuildScope
	if err := job.DecodeScope(&scope); err != nil {
		return nil, err
	}

	var state RebuildState
	resumed, err := job.DecodeState(&state)
	if err != nil {
		return nil, err
	}
	if !resumed {
		collected, err := e.collectRebuildState(scope)
		if err != nil {
			return nil, err
		}
		state = *collected
	} else {
		e.logger.Info("Resuming alias rebuild", map[string]interface{}{
			"jobId":     job.ID,
			"remaining": len(state.Pending),
			"total":     state.Total,
		})
	}

	return e.runRebuild(ctx, &state, checkpoint)
}

func (e *Engine) collectRebuildState(scope RebuildScope) (*RebuildState, error) {
	vocabularies := scope.Vocabularies
	if len(vocabularies) == 0 {
		seen := make(map[string]bool)
		for _, vocab := range e.cfg.ConfiguredVocabularies() {
			if !seen[vocab] {
				seen[vocab] = true
				vocabularies = append(vocabularies, vocab)
			}
		}
	}
	sort.Strings(vocabularies)

	var state RebuildState
	for _, vocab := range vocabularies {
		roots, err := e.terms.Roots(vocab)
		if err != nil {
			return nil, err
		}
		for _, root := range roots {
			state.Pending = append(state.Pending, root.ID)
		}
	}
	state.Total = len(state.Pending)
	return &state, nil
}

func (e *Engine) runRebuild(ctx context.Context, state *RebuildState, checkpoint Checkpoint) (*RebuildResult, error) {
	if state.Total == 0 {
		// Nothing to do still counts as a finished run.
		return &RebuildResult{Processed: 0, Total: 0}, nil
	}

	chunk := chunkSize(state.Total)
	for len(state.Pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := chunk
		if n > len(state.Pending) {
			n = len(state.Pending)
		}
		for _, id := range state.Pending[:n] {
			term, err := e.terms.Get(id)
			if err != nil {
				return nil, err
			}
			if term == nil {
				// Deleted since collection; skip.
				continue
			}
			if err := e.proc.SetTermAlias(term, true); err != nil {
				return nil, err
			}
		}
		state.Pending = state.Pending[n:]
		state.Done += n

		if err := checkpoint(state, progressPercent(state.Done, state.Total)); err != nil {
			return nil, err
		}
	}

	return &RebuildResult{Processed: state.Done, Total: state.Total}, nil
}

// nodeUpdateHandler propagates a deferred term operation to the content
// that referenced each term.
func (e *Engine) nodeUpdateHandler(ctx context.Context, job *Job, checkpoint Checkpoint) (interface{}, error) {
	var scope NodeUpdateScope
	if err := job.DecodeScope(&scope); err != nil {
		return nil, err
	}

	var state NodeUpdateState
	resumed, err := job.DecodeState(&state)
	if err != nil {
		return nil, err
	}
	if !resumed {
		state = NodeUpdateState{Pending: scope.Terms, Total: len(scope.Terms)}
	}

	if state.Total == 0 {
		return &NodeUpdateResult{Processed: 0, Total: 0}, nil
	}

	action := processor.Action(scope.Action)
	chunk := chunkSize(state.Total)
	for len(state.Pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := chunk
		if n > len(state.Pending) {
			n = len(state.Pending)
		}
		for _, snap := range state.Pending[:n] {
			if err := e.related.Apply(action, snap.Term()); err != nil {
				return nil, err
			}
		}
		state.Pending = state.Pending[n:]
		state.Done += n

		if err := checkpoint(state, progressPercent(state.Done, state.Total)); err != nil {
			return nil, err
		}
	}

	return &NodeUpdateResult{Processed: state.Done, Total: state.Total}, nil
}
