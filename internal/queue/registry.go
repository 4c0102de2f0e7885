package queue

import (
	"sync"
	"sync/atomic"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// Registry maps job ids to their latest published state. Inserts come
// from producers, updates only from the worker; readers get a consistent
// snapshot without taking a lock, so status queries never block the
// worker and never observe a torn job.
type Registry struct {
	jobs sync.Map // job id -> *atomic.Pointer[model.Job]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register inserts a job's initial state. It must be called before the
// job is enqueued so a status query immediately after submission finds it.
func (r *Registry) Register(job *model.Job) {
	p := &atomic.Pointer[model.Job]{}
	p.Store(job.Clone())
	r.jobs.Store(job.ID, p)
}

// Remove forgets a job. Producers call this to roll back a registration
// whose enqueue failed, so the job never shows up in stats or lookups.
func (r *Registry) Remove(jobID string) {
	r.jobs.Delete(jobID)
}

// Publish replaces the visible state of an already registered job.
// Only the worker calls this.
func (r *Registry) Publish(job *model.Job) {
	if v, ok := r.jobs.Load(job.ID); ok {
		v.(*atomic.Pointer[model.Job]).Store(job.Clone())
	}
}

// Get returns the latest snapshot of a job. The returned job must be
// treated as read-only; it is shared with other readers.
func (r *Registry) Get(jobID string) (*model.Job, bool) {
	v, ok := r.jobs.Load(jobID)
	if !ok {
		return nil, false
	}
	return v.(*atomic.Pointer[model.Job]).Load(), true
}

// Stats counts jobs per status.
func (r *Registry) Stats() model.JobStats {
	var stats model.JobStats
	r.jobs.Range(func(_, v any) bool {
		switch v.(*atomic.Pointer[model.Job]).Load().Status {
		case model.JobStatusPending:
			stats.Pending++
		case model.JobStatusProcessing:
			stats.Processing++
		case model.JobStatusCompleted:
			stats.Completed++
		case model.JobStatusFailed:
			stats.Failed++
		}
		return true
	})
	return stats
}
