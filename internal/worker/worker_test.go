package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/poliza-api/internal/backend"
	"github.com/contaflow/poliza-api/internal/domain/model"
	"github.com/contaflow/poliza-api/internal/export"
	"github.com/contaflow/poliza-api/internal/queue"
	"github.com/contaflow/poliza-api/internal/testutil"
)

type workerHarness struct {
	queue    *queue.Queue
	registry *queue.Registry
	worker   *Worker
	cancel   context.CancelFunc
	done     chan struct{}
}

func startWorker(t *testing.T, be backend.Backend, maxRetries int, mode model.OutputMode) *workerHarness {
	t.Helper()

	q := queue.New(8, testutil.SilentLogger())
	registry := queue.NewRegistry()
	w, err := New(Options{
		Backend:     be,
		Queue:       q,
		Registry:    registry,
		Logger:      testutil.SilentLogger(),
		DataPath:    "/data/empresa",
		DefaultMode: mode,
		MaxRetries:  maxRetries,
		BaseDelay:   time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	h := &workerHarness{queue: q, registry: registry, worker: w, cancel: cancel, done: done}
	t.Cleanup(h.stop)
	return h
}

func (h *workerHarness) stop() {
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
	}
}

func (h *workerHarness) submit(t *testing.T, job *model.Job) {
	t.Helper()
	h.registry.Register(job)
	require.NoError(t, h.queue.Enqueue(context.Background(), job.ID))
}

func (h *workerHarness) waitTerminal(t *testing.T, jobID string) *model.Job {
	t.Helper()
	var final *model.Job
	require.Eventually(t, func() bool {
		job, ok := h.registry.Get(jobID)
		if !ok || !job.Status.Terminal() {
			return false
		}
		final = job
		return true
	}, 5*time.Second, 2*time.Millisecond)
	return final
}

func TestWorker_ProcessJob_CompletesFirstAttempt(t *testing.T) {
	be := backend.NewMockBackend()
	h := startWorker(t, be, 3, model.OutputModeReal)

	job := testutil.Job("j1", model.OutputModeReal)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	assert.Equal(t, model.JobStatusCompleted, final.Status)
	assert.Zero(t, final.RetryCount)
	assert.Nil(t, final.LastError)
	require.NotNil(t, final.EntryID)
	assert.Equal(t, "mock-entry-1", *final.EntryID)
	require.NotNil(t, final.CompletedAt)

	// One debit per line item plus the tax movement.
	assert.Len(t, be.Movements("mock-entry-1"), 3)
}

func TestWorker_ProcessJob_InitFailuresExhaustRetries(t *testing.T) {
	be := backend.NewMockBackend()
	be.FailInitialize(3)
	h := startWorker(t, be, 3, model.OutputModeReal)

	job := testutil.Job("j1", model.OutputModeReal)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	assert.Equal(t, model.JobStatusFailed, final.Status)
	assert.Equal(t, 3, final.RetryCount)
	require.NotNil(t, final.LastError)
	assert.Contains(t, *final.LastError, "initialize")
	assert.Equal(t, 3, be.InitializeCalls())
}

func TestWorker_ProcessJob_FailureCarriesBackendMessage(t *testing.T) {
	be := backend.NewMockBackend()
	be.FailWith(backend.OpCreateEntry, backend.CodeUnavailable, "ledger rejected the entry")
	h := startWorker(t, be, 1, model.OutputModeReal)

	job := testutil.Job("j1", model.OutputModeReal)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	assert.Equal(t, model.JobStatusFailed, final.Status)
	require.NotNil(t, final.LastError)
	// The terminal record carries the backend's own message, not a
	// code-prefixed rendering of it.
	assert.Equal(t, "ledger rejected the entry", *final.LastError)
}

func TestWorker_ProcessJob_RecoversWithinRetryBudget(t *testing.T) {
	be := backend.NewMockBackend()
	be.FailInitialize(3)
	h := startWorker(t, be, 4, model.OutputModeReal)

	job := testutil.Job("j1", model.OutputModeReal)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	assert.Equal(t, model.JobStatusCompleted, final.Status)
	assert.Equal(t, 3, final.RetryCount)
	assert.Nil(t, final.LastError)
	require.NotNil(t, final.EntryID)
}

func TestWorker_ProcessesInSubmissionOrder(t *testing.T) {
	be := backend.NewMockBackend()
	h := startWorker(t, be, 3, model.OutputModeReal)

	first := testutil.Job("j1", model.OutputModeReal)
	second := testutil.Job("j2", model.OutputModeReal)
	h.submit(t, first)
	h.submit(t, second)

	f1 := h.waitTerminal(t, "j1")
	f2 := h.waitTerminal(t, "j2")
	require.NotNil(t, f1.EntryID)
	require.NotNil(t, f2.EntryID)
	// Sequential entry ids prove FIFO handling.
	assert.Equal(t, "mock-entry-1", *f1.EntryID)
	assert.Equal(t, "mock-entry-2", *f2.EntryID)
}

func TestWorker_Run_ShutsBackendDownExactlyOnce(t *testing.T) {
	be := backend.NewMockBackend()
	h := startWorker(t, be, 3, model.OutputModeReal)

	job := testutil.Job("j1", model.OutputModeReal)
	h.submit(t, job)
	h.waitTerminal(t, "j1")

	h.stop()
	assert.Equal(t, 1, be.ShutdownCalls())
	assert.False(t, be.IsReady())
}

func TestWorker_ExportMode_AttachesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	writer, err := export.NewWriter(export.WriterOptions{Dir: dir, Logger: testutil.SilentLogger()})
	require.NoError(t, err)
	be := backend.NewExportBackend(writer)

	h := startWorker(t, be, 3, model.OutputModeBoth)

	job := testutil.Job("j1", model.OutputModeBoth)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	require.Equal(t, model.JobStatusCompleted, final.Status)
	require.Len(t, final.Artifacts, 2)
	assert.Equal(t, model.FormatJSON, final.Artifacts[0].Format)
	assert.Equal(t, model.FormatCSV, final.Artifacts[1].Format)
	assert.Empty(t, final.Warnings)
	assert.Zero(t, be.PendingEntries())
}

// partialFinalizeBackend sneaks an unrenderable format into every
// finalize call, so each job sees one format fail while the rest succeed.
type partialFinalizeBackend struct {
	*backend.ExportBackend
}

func (b *partialFinalizeBackend) Finalize(ctx context.Context, entryID string, formats []model.ExportFormat) backend.Result[backend.FinalizeOutcome] {
	return b.ExportBackend.Finalize(ctx, entryID, append(formats, model.ExportFormat("pdf")))
}

func TestWorker_ExportMode_PartialFormatFailureCompletesWithWarning(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	writer, err := export.NewWriter(export.WriterOptions{Dir: dir, Logger: testutil.SilentLogger()})
	require.NoError(t, err)
	be := &partialFinalizeBackend{ExportBackend: backend.NewExportBackend(writer)}

	h := startWorker(t, be, 3, model.OutputModeJSON)

	job := testutil.Job("j1", model.OutputModeJSON)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	require.Equal(t, model.JobStatusCompleted, final.Status)
	require.Len(t, final.Artifacts, 1)
	assert.Equal(t, model.FormatJSON, final.Artifacts[0].Format)
	require.Len(t, final.Warnings, 1)
	assert.Contains(t, final.Warnings[0], "pdf")

	// The surviving format was written out for real.
	_, statErr := os.Stat(final.Artifacts[0].Path)
	assert.NoError(t, statErr)
}

func TestWorker_ExportMode_WithoutFinalizerFails(t *testing.T) {
	// MockBackend does not implement Finalize, so export jobs cannot run on it.
	be := backend.NewMockBackend()
	h := startWorker(t, be, 1, model.OutputModeJSON)

	job := testutil.Job("j1", model.OutputModeJSON)
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	assert.Equal(t, model.JobStatusFailed, final.Status)
	require.NotNil(t, final.LastError)
	assert.Contains(t, *final.LastError, "cannot export")
}

func TestWorker_AppliesDefaultModeToUnsetJobs(t *testing.T) {
	be := backend.NewMockBackend()
	h := startWorker(t, be, 3, model.OutputModeReal)

	job := testutil.Job("j1", "")
	h.submit(t, job)

	final := h.waitTerminal(t, "j1")
	assert.Equal(t, model.JobStatusCompleted, final.Status)
	assert.Equal(t, model.OutputModeReal, final.OutputMode)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{Backend: backend.NewMockBackend()})
	assert.Error(t, err)
}
