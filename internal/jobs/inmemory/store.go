package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sevencollector/fintracker/internal/jobs"
)

// JobStore keeps job records in memory, guarded by a mutex. All reads and
// writes exchange copies so callers can't mutate stored state.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.PersistSnapshotJob
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*jobs.PersistSnapshotJob),
	}
}

func (s *JobStore) SaveJob(ctx context.Context, job *jobs.PersistSnapshotJob) error {
	if job == nil {
		return fmt.Errorf("save job: nil job")
	}
	if job.JobID == "" {
		return fmt.Errorf("save job: empty job id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.JobID] = &cp
	return nil
}

func (s *JobStore) GetJob(ctx context.Context, jobID string) (*jobs.PersistSnapshotJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("get job: job %s not found", jobID)
	}

	cp := *job
	return &cp, nil
}

func (s *JobStore) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.PersistSnapshotJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*jobs.PersistSnapshotJob
	for _, job := range s.jobs {
		if filter.Slot != "" && job.Slot != filter.Slot {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		cp := *job
		matched = append(matched, &cp)
	}

	// Newest first keeps the API's job listing stable for humans.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}
