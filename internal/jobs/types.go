// Package jobs defines the asynchronous persistence work the API hands off
// after a ledger mutation. The mutation itself is synchronous and pure; the
// save of the updated snapshot runs as a job so submissions stay testable
// without a scheduler.
package jobs

import (
	"context"
	"time"
)

// JobType identifies the kind of work a job carries.
type JobType string

const (
	JobTypePersistSnapshot JobType = "persist_snapshot"
)

// JobStatus is a job's lifecycle state.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// PersistSnapshotJob asks for the given serialized snapshot to be written to
// the store. Payload is the opaque JSON blob; carrying the serialized form
// rather than the live snapshot keeps the job immune to later mutations of
// the shared state.
type PersistSnapshotJob struct {
	JobID   string `json:"job_id"`
	Slot    string `json:"slot"`
	Payload string `json:"-"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is the generic view shared by all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *PersistSnapshotJob) GetID() string        { return j.JobID }
func (j *PersistSnapshotJob) GetType() JobType     { return JobTypePersistSnapshot }
func (j *PersistSnapshotJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues persistence jobs.
type Publisher interface {
	PublishPersistSnapshot(ctx context.Context, job *PersistSnapshotJob) error
	Close() error
}

// Consumer drains the queue, calling the handler for each job.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so the API can report on pending saves.
type JobStore interface {
	SaveJob(ctx context.Context, job *PersistSnapshotJob) error
	GetJob(ctx context.Context, jobID string) (*PersistSnapshotJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*PersistSnapshotJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	Slot   string
	Status JobStatus
	Limit  int
	Offset int
}
