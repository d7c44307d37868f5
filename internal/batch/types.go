package batch

import "sectionpaths/internal/entity"

// RebuildScope selects the vocabularies a regeneration covers. Empty
// means every configured vocabulary.
type RebuildScope struct {
	Vocabularies []string `json:"vocabularies,omitempty"`
}

// RebuildState is the checkpoint of a regeneration: the root terms not
// yet processed. Each root carries its whole subtree, so resuming from
// the pending list never redoes a finished subtree.
type RebuildState struct {
	Pending []int64 `json:"pending"`
	Done    int     `json:"done"`
	Total   int     `json:"total"`
}

// RebuildResult summarizes a finished regeneration.
type RebuildResult struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// TermSnapshot is the serializable form of a term captured before its
// deletion, carried in a job's scope because the store no longer has it.
type TermSnapshot struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	Vocabulary string `json:"vocabulary"`
	ParentID   int64  `json:"parentId,omitempty"`
	Langcode   string `json:"langcode"`
	OldAlias   string `json:"oldAlias,omitempty"`
}

// Term rebuilds the entity from the snapshot.
func (s TermSnapshot) Term() *entity.Term {
	return &entity.Term{
		ID:         s.ID,
		Label:      s.Label,
		Vocabulary: s.Vocabulary,
		ParentID:   s.ParentID,
		Langcode:   s.Langcode,
	}
}

// NodeUpdateScope carries the deferred related-content propagation of a
// term operation.
type NodeUpdateScope struct {
	Action string         `json:"action"`
	Terms  []TermSnapshot `json:"terms"`
}

// NodeUpdateState is the checkpoint of a node update job: snapshots not
// yet propagated.
type NodeUpdateState struct {
	Pending []TermSnapshot `json:"pending"`
	Done    int            `json:"done"`
	Total   int            `json:"total"`
}

// NodeUpdateResult summarizes a finished node update job.
type NodeUpdateResult struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// chunkSize returns how many items one checkpointed step covers: a tenth
// of the total, at least 1 and at most 20.
func chunkSize(total int) int {
	if total <= 0 {
		return 1
	}
	c := (total + 9) / 10
	if c > 20 {
		c = 20
	}
	if c < 1 {
		c = 1
	}
	return c
}

func progressPercent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
