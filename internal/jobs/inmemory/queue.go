// Package inmemory provides channel-backed implementations of the jobs
// interfaces, sized for a single-process deployment.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sevencollector/fintracker/internal/jobs"
)

const (
	defaultQueueSize  = 64
	defaultWorkers    = 5
	defaultMaxRetries = 3
	retryBackoff      = 2 * time.Second
)

// Queue is a buffered channel queue acting as both Publisher and Consumer.
type Queue struct {
	ch      chan *jobs.PersistSnapshotJob
	store   jobs.JobStore
	workers int

	mu      sync.Mutex
	closed  bool
	started bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewQueue builds a queue that records job state in store. A nil store is
// allowed; job tracking is then skipped.
func NewQueue(store jobs.JobStore) *Queue {
	return &Queue{
		ch:      make(chan *jobs.PersistSnapshotJob, defaultQueueSize),
		store:   store,
		workers: defaultWorkers,
	}
}

func (q *Queue) PublishPersistSnapshot(ctx context.Context, job *jobs.PersistSnapshotJob) error {
	if job == nil {
		return fmt.Errorf("publish: nil job")
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("publish: queue closed")
	}
	q.mu.Unlock()

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = defaultMaxRetries
	}
	job.Status = jobs.JobStatusPending

	q.recordJob(ctx, job)

	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish: %w", ctx.Err())
	}
}

// Start spins up the worker pool. It returns immediately; workers run until
// Stop is called or ctx is canceled.
func (q *Queue) Start(ctx context.Context, handler jobs.JobHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return fmt.Errorf("start: queue already started")
	}
	q.started = true

	workerCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(workerCtx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.JobHandler) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.ch:
			if !ok {
				return
			}
			q.process(ctx, handler, job)
		}
	}
}

func (q *Queue) process(ctx context.Context, handler jobs.JobHandler, job *jobs.PersistSnapshotJob) {
	now := time.Now().UTC()
	job.Status = jobs.JobStatusRunning
	job.StartedAt = &now
	q.recordJob(ctx, job)

	err := handler(ctx, job)
	done := time.Now().UTC()
	if err == nil {
		job.Status = jobs.JobStatusCompleted
		job.CompletedAt = &done
		job.Error = ""
		q.recordJob(ctx, job)
		return
	}

	job.Error = err.Error()
	if job.RetryCount < job.MaxRetries {
		job.RetryCount++
		job.Status = jobs.JobStatusRetrying
		q.recordJob(ctx, job)

		delay := time.Duration(job.RetryCount) * retryBackoff
		log.Warn().
			Str("job_id", job.JobID).
			Int("retry", job.RetryCount).
			Dur("delay", delay).
			Err(err).
			Msg("persist job failed, retrying")

		time.AfterFunc(delay, func() {
			q.mu.Lock()
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			select {
			case q.ch <- job:
			default:
				job.Status = jobs.JobStatusFailed
				job.Error = "retry dropped: queue full"
				q.recordJob(context.Background(), job)
			}
		})
		return
	}

	job.Status = jobs.JobStatusFailed
	job.CompletedAt = &done
	q.recordJob(ctx, job)
	log.Error().
		Str("job_id", job.JobID).
		Int("retries", job.RetryCount).
		Err(err).
		Msg("persist job failed permanently")
}

func (q *Queue) recordJob(ctx context.Context, job *jobs.PersistSnapshotJob) {
	if q.store == nil {
		return
	}
	if err := q.store.SaveJob(ctx, job); err != nil {
		log.Warn().Str("job_id", job.JobID).Err(err).Msg("failed to record job state")
	}
}

// Stop cancels the workers and waits for in-flight jobs, honoring ctx's
// deadline.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop: %w", ctx.Err())
	}
}

// Close marks the queue closed for publishing.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
