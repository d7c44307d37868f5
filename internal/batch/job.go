// Package batch provides background job processing for long-running alias
// operations: full regenerations and deferred node alias updates.
package batch

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// JobType identifies the kind of work a job performs.
type JobType string

const (
	// JobTypeRebuild regenerates aliases for entire vocabularies.
	JobTypeRebuild JobType = "rebuild_aliases"
	// JobTypeNodeUpdate propagates deferred term changes to related content.
	JobTypeNodeUpdate JobType = "node_alias_update"
)

// Job represents a background task with its state and metadata. State
// holds the handler's checkpoint, written after every processed chunk so
// an interrupted job resumes where it stopped instead of starting over.
type Job struct {
	ID          string     `json:"id"`
	Type        JobType    `json:"type"`
	Scope       string     `json:"scope,omitempty"` // JSON-encoded parameters
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	State       string     `json:"state,omitempty"` // JSON-encoded checkpoint
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
	Result      string     `json:"result,omitempty"` // JSON-encoded result
}

// NewJob creates a new job with the given type and scope.
func NewJob(jobType JobType, scope interface{}) (*Job, error) {
	var scopeJSON string
	if scope != nil {
		data, err := json.Marshal(scope)
		if err != nil {
			return nil, err
		}
		scopeJSON = string(data)
	}

	return &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Scope:     scopeJSON,
		Status:    JobQueued,
		Progress:  0,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DecodeScope unmarshals the job's scope parameters into v.
func (j *Job) DecodeScope(v interface{}) error {
	if j.Scope == "" {
		return nil
	}
	return json.Unmarshal([]byte(j.Scope), v)
}

// DecodeState unmarshals the job's checkpoint into v. It reports whether
// a checkpoint was present.
func (j *Job) DecodeState(v interface{}) (bool, error) {
	if j.State == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(j.State), v); err != nil {
		return false, err
	}
	return true, nil
}

// SetState serializes a checkpoint into the job.
func (j *Job) SetState(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	j.State = string(data)
	return nil
}

// IsTerminal returns true if the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed || j.Status == JobCancelled
}

// CanCancel returns true if the job can be cancelled.
func (j *Job) CanCancel() bool {
	return j.Status == JobQueued || j.Status == JobRunning
}

// CanResume returns true if the job stopped short of completion and kept
// a checkpoint to continue from.
func (j *Job) CanResume() bool {
	return j.Status == JobFailed || j.Status == JobCancelled
}

// MarkStarted transitions the job to running state.
func (j *Job) MarkStarted() {
	now := time.Now().UTC()
	j.Status = JobRunning
	j.StartedAt = &now
}

// MarkCompleted transitions the job to completed state with result.
func (j *Job) MarkCompleted(result interface{}) error {
	now := time.Now().UTC()
	j.Status = JobCompleted
	j.Progress = 100
	j.CompletedAt = &now

	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		j.Result = string(data)
	}
	return nil
}

// MarkFailed transitions the job to failed state with error.
func (j *Job) MarkFailed(err error) {
	now := time.Now().UTC()
	j.Status = JobFailed
	j.CompletedAt = &now
	if err != nil {
		j.Error = err.Error()
	}
}

// MarkCancelled transitions the job to cancelled state.
func (j *Job) MarkCancelled() {
	now := time.Now().UTC()
	j.Status = JobCancelled
	j.CompletedAt = &now
}

// MarkRequeued puts a resumable job back in the queue, keeping its
// checkpoint so the handler continues instead of restarting.
func (j *Job) MarkRequeued() {
	j.Status = JobQueued
	j.StartedAt = nil
	j.CompletedAt = nil
	j.Error = ""
}

// SetProgress updates the job's progress (0-100).
func (j *Job) SetProgress(progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	j.Progress = progress
}

// Duration returns how long the job took (or has been running).
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil {
		return 0
	}
	endTime := time.Now().UTC()
	if j.CompletedAt != nil {
		endTime = *j.CompletedAt
	}
	return endTime.Sub(*j.StartedAt)
}

// JobSummary is a lightweight view of a job for listing.
type JobSummary struct {
	ID          string     `json:"id"`
	Type        JobType    `json:"type"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// ToSummary creates a summary view of the job.
func (j *Job) ToSummary() JobSummary {
	return JobSummary{
		ID:          j.ID,
		Type:        j.Type,
		Status:      j.Status,
		Progress:    j.Progress,
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
		Error:       j.Error,
	}
}

// ListJobsOptions contains options for listing jobs.
type ListJobsOptions struct {
	Status []JobStatus
	Type   []JobType
	Limit  int
	Offset int
}

// ListJobsResponse contains the result of listing jobs.
type ListJobsResponse struct {
	Jobs       []JobSummary `json:"jobs"`
	TotalCount int          `json:"totalCount"`
}
