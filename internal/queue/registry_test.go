package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/poliza-api/internal/domain/model"
	"github.com/contaflow/poliza-api/internal/testutil"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	job := testutil.Job("j1", model.OutputModeJSON)
	r.Register(job)

	got, ok := r.Get("j1")
	require.True(t, ok)
	assert.Equal(t, model.JobStatusPending, got.Status)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Register_SnapshotsInput(t *testing.T) {
	r := NewRegistry()
	job := testutil.Job("j1", model.OutputModeJSON)
	r.Register(job)

	// Later mutations by the worker are invisible until published.
	job.Status = model.JobStatusProcessing
	got, ok := r.Get("j1")
	require.True(t, ok)
	assert.Equal(t, model.JobStatusPending, got.Status)
}

func TestRegistry_Remove_ForgetsJob(t *testing.T) {
	r := NewRegistry()
	job := testutil.Job("j1", model.OutputModeJSON)
	r.Register(job)

	r.Remove("j1")
	_, ok := r.Get("j1")
	assert.False(t, ok)
	assert.Zero(t, r.Stats().Pending)

	// Removing an unknown id is a no-op.
	r.Remove("missing")
}

func TestRegistry_Publish_ReplacesSnapshot(t *testing.T) {
	r := NewRegistry()
	job := testutil.Job("j1", model.OutputModeJSON)
	r.Register(job)

	job.Status = model.JobStatusCompleted
	job.RetryCount = 2
	r.Publish(job)

	got, ok := r.Get("j1")
	require.True(t, ok)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, 2, got.RetryCount)
}

func TestRegistry_Publish_UnknownJobIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Publish(testutil.Job("ghost", model.OutputModeJSON))
	_, ok := r.Get("ghost")
	assert.False(t, ok)
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry()

	pending := testutil.Job("p1", model.OutputModeJSON)
	r.Register(pending)

	done := testutil.Job("c1", model.OutputModeJSON)
	r.Register(done)
	done.Status = model.JobStatusCompleted
	r.Publish(done)

	failed := testutil.Job("f1", model.OutputModeJSON)
	r.Register(failed)
	failed.Status = model.JobStatusFailed
	r.Publish(failed)

	stats := r.Stats()
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 0, stats.Processing)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
}

func TestRegistry_ConcurrentReadsDuringPublish(t *testing.T) {
	r := NewRegistry()
	job := testutil.Job("j1", model.OutputModeJSON)
	r.Register(job)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			job.RetryCount = i
			r.Publish(job)
		}
		close(stop)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got, ok := r.Get("j1")
				if !ok {
					t.Error("job disappeared")
					return
				}
				// A snapshot is internally consistent.
				if got.ID != "j1" {
					t.Errorf("torn read: %q", got.ID)
					return
				}
			}
		}()
	}
	wg.Wait()
}
