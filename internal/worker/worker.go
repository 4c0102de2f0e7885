// Package worker runs the single consumer that drains the job queue and
// drives the accounting backend. The backend call surface is not
// reentrant, so exactly one worker goroutine touches it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaflow/poliza-api/internal/backend"
	"github.com/contaflow/poliza-api/internal/domain/model"
	apperrors "github.com/contaflow/poliza-api/internal/errors"
	"github.com/contaflow/poliza-api/internal/observability/metrics"
	"github.com/contaflow/poliza-api/internal/observability/statsd"
	"github.com/contaflow/poliza-api/internal/queue"
)

// Options configures the worker.
type Options struct {
	Backend  backend.Backend
	Queue    *queue.Queue
	Registry *queue.Registry
	Logger   *slog.Logger

	// DataPath is handed to Backend.Initialize on first use and after a
	// lost connection.
	DataPath string

	// DefaultMode is applied to jobs that carry no output mode of their own.
	DefaultMode model.OutputMode

	// Retry policy settings
	MaxRetries  int           // total attempts per job; defaults to 3
	BaseDelay   time.Duration // backoff base; doubles per failed attempt
	SettleDelay time.Duration // pause after a successful job before the next one

	// Optional dependency injections (useful for tests/decoupling)
	Metrics statsd.Sink
}

// Worker consumes job ids in FIFO order and executes them sequentially.
type Worker struct {
	backend   backend.Backend
	finalizer backend.Finalizer
	queue     *queue.Queue
	registry  *queue.Registry
	logger    *slog.Logger

	dataPath    string
	defaultMode model.OutputMode
	maxRetries  int
	baseDelay   time.Duration
	settleDelay time.Duration
	metrics     statsd.Sink
}

// New validates options and constructs a worker.
func New(opts Options) (*Worker, error) {
	if opts.Backend == nil {
		return nil, errors.New("worker: backend is required")
	}
	if opts.Queue == nil {
		return nil, errors.New("worker: queue is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("worker: registry is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = 3
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	defaultMode := opts.DefaultMode
	if !defaultMode.Valid() {
		defaultMode = model.OutputModeJSON
	}

	finalizer, _ := opts.Backend.(backend.Finalizer)

	return &Worker{
		backend:     opts.Backend,
		finalizer:   finalizer,
		queue:       opts.Queue,
		registry:    opts.Registry,
		logger:      logger.With("component", "worker"),
		dataPath:    opts.DataPath,
		defaultMode: defaultMode,
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
		settleDelay: opts.SettleDelay,
		metrics:     opts.Metrics,
	}, nil
}

// MustNew constructs a worker or panics. Intended for wiring code where
// options are static.
func MustNew(opts Options) *Worker {
	w, err := New(opts)
	if err != nil {
		panic(err)
	}
	return w
}

// Run drains the queue until the context is cancelled, then shuts the
// backend down. Shutdown happens exactly once regardless of how the loop
// exits.
func (w *Worker) Run(ctx context.Context) {
	defer w.backend.Shutdown()

	w.logger.InfoContext(ctx, "worker started",
		"max_retries", w.maxRetries, "base_delay", w.baseDelay.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "worker stopping", "queued", w.queue.Len())
			return
		case jobID := <-w.queue.Chan():
			w.handle(ctx, jobID)
			metrics.EmitQueueDepth(w.metrics, w.queue.Len())
		}
	}
}

func (w *Worker) handle(ctx context.Context, jobID string) {
	snapshot, ok := w.registry.Get(jobID)
	if !ok {
		w.logger.WarnContext(ctx, "dequeued unknown job", "job_id", jobID)
		return
	}

	job := snapshot.Clone()
	job.Status = model.JobStatusProcessing
	w.registry.Publish(job)

	started := time.Now()
	mode := job.OutputMode
	if !mode.Valid() {
		mode = w.defaultMode
		job.OutputMode = mode
	}

	metrics.EmitJobLifecycle(w.metrics, metrics.JobMetric{
		OutputMode: string(mode),
		Transition: "processing",
		Result:     metrics.ResultSuccess,
	})

	err := w.processWithRetry(ctx, job)
	now := time.Now()
	job.CompletedAt = &now

	if err != nil {
		appErr := classifyFailure(err)
		msg := appErr.Message
		job.Status = model.JobStatusFailed
		job.LastError = &msg
		w.registry.Publish(job)
		w.logger.ErrorContext(ctx, "job failed",
			"job_id", job.ID, "retry_count", job.RetryCount,
			"error_code", string(appErr.Code), "error", msg)
		metrics.EmitJobLifecycle(w.metrics, metrics.JobMetric{
			OutputMode: string(mode),
			Transition: "failed",
			Result:     metrics.ResultError,
			Attempt:    job.RetryCount,
			Duration:   now.Sub(started),
			Err:        err,
		})
		return
	}

	job.Status = model.JobStatusCompleted
	job.LastError = nil
	w.registry.Publish(job)
	w.logger.InfoContext(ctx, "job completed",
		"job_id", job.ID, "retry_count", job.RetryCount, "duration_ms", now.Sub(started).Milliseconds())
	metrics.EmitJobLifecycle(w.metrics, metrics.JobMetric{
		OutputMode: string(mode),
		Transition: "completed",
		Result:     metrics.ResultSuccess,
		Attempt:    job.RetryCount,
		Duration:   now.Sub(started),
	})

	if w.settleDelay > 0 {
		w.sleep(ctx, w.settleDelay)
	}
}

// processWithRetry runs the job up to maxRetries attempts. RetryCount on
// the job records how many attempts have failed so far, and the backoff
// before attempt n+1 is baseDelay doubled per failed attempt.
func (w *Worker) processWithRetry(ctx context.Context, job *model.Job) error {
	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		lastErr = w.processOnce(ctx, job)
		if lastErr == nil {
			return nil
		}

		job.RetryCount = attempt
		msg := lastErr.Error()
		job.LastError = &msg
		w.registry.Publish(job)

		if attempt == w.maxRetries {
			break
		}

		delay := w.baseDelay << (attempt - 1)
		w.logger.WarnContext(ctx, "job attempt failed, retrying",
			"job_id", job.ID, "attempt", attempt, "backoff", delay.String(), "error", msg)
		metrics.EmitJobLifecycle(w.metrics, metrics.JobMetric{
			OutputMode: string(job.OutputMode),
			Transition: "retry",
			Result:     metrics.ResultRetry,
			Attempt:    attempt,
			Err:        lastErr,
		})

		if err := w.sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}
	return lastErr
}

// processOnce performs a single end-to-end attempt: lazy initialization,
// entry creation, one movement per call, and for export modes the final
// render to files.
func (w *Worker) processOnce(ctx context.Context, job *model.Job) error {
	if !w.backend.IsReady() {
		if res := w.backend.Initialize(ctx, w.dataPath); !res.OK() {
			return res.Err()
		}
	}

	entry := model.EntryFromInvoice(job.Invoice, job.Invoice.TaxAccountCode)

	created := w.backend.CreateEntry(ctx, entry)
	if !created.OK() {
		return created.Err()
	}
	entryID := created.Value()

	for i := range entry.Movements {
		if res := w.backend.AddMovement(ctx, entryID, &entry.Movements[i]); !res.OK() {
			return res.Err()
		}
	}

	if job.OutputMode.IsExport() {
		if w.finalizer == nil {
			return &backend.Failure{
				Code:    backend.CodeInvalidInput,
				Message: fmt.Sprintf("backend cannot export output mode %q", job.OutputMode),
			}
		}
		finalized := w.finalizer.Finalize(ctx, entryID, job.OutputMode.ExportFormats())
		if !finalized.OK() {
			return finalized.Err()
		}
		outcome := finalized.Value()
		job.Artifacts = outcome.Artifacts
		job.Warnings = outcome.Warnings
	}

	job.EntryID = &entryID
	return nil
}

// classifyFailure lifts a job's terminal error into the application
// error taxonomy. Backend failures map code by code; anything else, such
// as a cancelled retry sleep, counts as internal.
func classifyFailure(err error) *apperrors.AppError {
	var failure *backend.Failure
	if errors.As(err, &failure) {
		return apperrors.FromBackend(failure)
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, err.Error())
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
