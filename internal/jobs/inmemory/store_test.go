package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/sevencollector/fintracker/internal/jobs"
)

func TestJobStore_SaveAndGet(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()

	job := &jobs.PersistSnapshotJob{
		JobID:     "job-1",
		Slot:      "mainData",
		Status:    jobs.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Slot != "mainData" || got.Status != jobs.JobStatusPending {
		t.Errorf("unexpected job: %+v", got)
	}

	// The stored copy must not alias the caller's struct.
	got.Status = jobs.JobStatusFailed
	again, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if again.Status != jobs.JobStatusPending {
		t.Errorf("store leaked a mutable reference: status = %s", again.Status)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore()
	if _, err := store.GetJob(context.Background(), "nope"); err == nil {
		t.Error("expected error for missing job")
	}
}

func TestJobStore_ListJobs(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()

	base := time.Now().UTC()
	seed := []*jobs.PersistSnapshotJob{
		{JobID: "a", Slot: "mainData", Status: jobs.JobStatusCompleted, CreatedAt: base},
		{JobID: "b", Slot: "mainData", Status: jobs.JobStatusPending, CreatedAt: base.Add(time.Second)},
		{JobID: "c", Slot: "other", Status: jobs.JobStatusPending, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s): %v", j.JobID, err)
		}
	}

	got, err := store.ListJobs(ctx, jobs.JobFilter{Slot: "mainData"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 jobs for slot, got %d", len(got))
	}
	if got[0].JobID != "b" {
		t.Errorf("want newest first, got %s", got[0].JobID)
	}

	got, err = store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending, Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(got) != 1 || got[0].JobID != "c" {
		t.Errorf("want [c], got %+v", got)
	}
}
