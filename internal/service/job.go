// Package service provides the business logic between the HTTP surface
// and the queue: submission validation, status lookups, and health.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contaflow/poliza-api/internal/backend"
	"github.com/contaflow/poliza-api/internal/domain/model"
	apperrors "github.com/contaflow/poliza-api/internal/errors"
	"github.com/contaflow/poliza-api/internal/queue"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Queue    *queue.Queue     // Required: bounded job queue
	Registry *queue.Registry  // Required: job status registry
	Backend  backend.Backend  // Required: used for health reporting
	Logger   *slog.Logger     // Optional: structured logger
	Clock    func() time.Time // Optional: override for tests

	// DefaultMode is assigned to jobs whose request does not pick one.
	DefaultMode model.OutputMode
	// AvailableModes restricts which output modes a request may pick.
	// Empty means only DefaultMode is accepted.
	AvailableModes []model.OutputMode
	// TaxAccountCode is the fallback account for the tax movement.
	TaxAccountCode string
}

// JobService validates invoice submissions, registers jobs, and answers
// status and health queries. Submission blocks while the queue is full;
// status reads never block.
type JobService struct {
	queue    *queue.Queue
	registry *queue.Registry
	backend  backend.Backend
	logger   *slog.Logger
	clock    func() time.Time

	defaultMode    model.OutputMode
	available      []model.OutputMode
	taxAccountCode string
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Queue == nil {
		return nil, errors.New("Queue is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("Registry is required")
	}
	if opts.Backend == nil {
		return nil, errors.New("Backend is required")
	}
	if !opts.DefaultMode.Valid() {
		return nil, fmt.Errorf("invalid default output mode %q", opts.DefaultMode)
	}

	available := opts.AvailableModes
	if len(available) == 0 {
		available = []model.OutputMode{opts.DefaultMode}
	}
	for _, m := range available {
		if !m.Valid() {
			return nil, fmt.Errorf("invalid available output mode %q", m)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &JobService{
		queue:          opts.Queue,
		registry:       opts.Registry,
		backend:        opts.Backend,
		logger:         logger.With("component", "job_service"),
		clock:          clock,
		defaultMode:    opts.DefaultMode,
		available:      available,
		taxAccountCode: opts.TaxAccountCode,
	}, nil
}

// MustNewJobService constructs a new JobService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// Submit validates the request, registers a pending job, and enqueues it.
// Validation failures are rejected here and never reach the queue. When
// the queue is at capacity the call blocks until space frees up or the
// caller's context expires.
func (s *JobService) Submit(ctx context.Context, req *model.SubmitInvoiceRequest) (*model.SubmitInvoiceResponse, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid invoice")
	}

	mode := req.OutputMode
	if mode == "" {
		mode = s.defaultMode
	}
	if !s.modeAvailable(mode) {
		return nil, apperrors.ValidationField("output_mode",
			fmt.Sprintf("output mode %q is not available", mode))
	}

	invoice := req.Invoice
	if invoice.TaxAccountCode == "" {
		invoice.TaxAccountCode = s.taxAccountCode
	}

	job := &model.Job{
		ID:         uuid.NewString(),
		Status:     model.JobStatusPending,
		OutputMode: mode,
		Invoice:    &invoice,
		CreatedAt:  s.clock().UTC(),
	}

	s.registry.Register(job)

	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		// Roll the registration back so the rejected job never lingers
		// in stats or status lookups.
		s.registry.Remove(job.ID)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "enqueue job")
	}

	s.logger.InfoContext(ctx, "invoice accepted",
		"job_id", job.ID, "folio", invoice.Folio, "output_mode", mode)

	return &model.SubmitInvoiceResponse{
		JobID:     job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
	}, nil
}

// Status returns the latest snapshot of a job.
func (s *JobService) Status(jobID string) (*model.JobStatusResponse, error) {
	job, ok := s.registry.Get(jobID)
	if !ok {
		return nil, apperrors.Wrap(model.ErrJobNotFound, apperrors.ErrCodeNotFound,
			fmt.Sprintf("job %q not found", jobID))
	}
	return job.StatusResponse(), nil
}

// Stats counts jobs per status.
func (s *JobService) Stats() model.JobStats {
	return s.registry.Stats()
}

// Health reports backend readiness and queue depth. The service is "ok"
// while it can accept submissions even when the backend has not yet been
// lazily initialized.
func (s *JobService) Health() model.HealthResponse {
	return model.HealthResponse{
		Status:               "ok",
		BackendReady:         s.backend.IsReady(),
		PendingJobs:          s.queue.Len(),
		AvailableOutputModes: append([]model.OutputMode(nil), s.available...),
	}
}

func (s *JobService) modeAvailable(mode model.OutputMode) bool {
	for _, m := range s.available {
		if m == mode {
			return true
		}
	}
	return false
}
