package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/contaflow/poliza-api/config"
	"github.com/contaflow/poliza-api/internal/backend"
	"github.com/contaflow/poliza-api/internal/domain/model"
	"github.com/contaflow/poliza-api/internal/export"
	"github.com/contaflow/poliza-api/internal/observability/statsd"
	"github.com/contaflow/poliza-api/internal/queue"
	"github.com/contaflow/poliza-api/internal/service"
	"github.com/contaflow/poliza-api/internal/worker"
)

// exportModes are the output modes served by the export backend.
var exportModes = []model.OutputMode{
	model.OutputModeJSON,
	model.OutputModeCSV,
	model.OutputModeXLSX,
	model.OutputModeBoth,
}

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs     *service.JobService
	Backend  backend.Backend
	Queue    *queue.Queue
	Registry *queue.Registry
	Worker   *worker.Worker
	Metrics  *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger

	// CallSurface connects the real accounting SDK. Required when the
	// configured output mode is real; ignored for export modes.
	CallSurface backend.CallSurface
}

// NewServices builds the backend, queue, worker, and job service from
// configuration.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sink, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create metrics sink: %w", err)
	}

	be, available, err := buildBackend(cfg, deps.CallSurface, logger)
	if err != nil {
		return nil, err
	}

	q := queue.New(cfg.Worker.QueueCapacity, logger)
	registry := queue.NewRegistry()

	w, err := worker.New(worker.Options{
		Backend:     be,
		Queue:       q,
		Registry:    registry,
		Logger:      logger,
		DataPath:    cfg.Backend.DataPath,
		DefaultMode: cfg.Backend.OutputMode,
		MaxRetries:  cfg.Worker.MaxRetries,
		BaseDelay:   cfg.Worker.BaseDelay,
		SettleDelay: cfg.Worker.SettleDelay,
		Metrics:     sink,
	})
	if err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Queue:          q,
		Registry:       registry,
		Backend:        be,
		Logger:         logger,
		DefaultMode:    cfg.Backend.OutputMode,
		AvailableModes: available,
		TaxAccountCode: cfg.Backend.TaxAccountCode,
	})
	if err != nil {
		return nil, fmt.Errorf("create job service: %w", err)
	}

	return &ServiceContainer{
		Jobs:     jobs,
		Backend:  be,
		Queue:    q,
		Registry: registry,
		Worker:   w,
		Metrics:  sink,
	}, nil
}

// buildBackend selects the backend implementation for the configured
// output mode and reports which modes submissions may request.
func buildBackend(
	cfg *config.AppConfig,
	surface backend.CallSurface,
	logger *slog.Logger,
) (backend.Backend, []model.OutputMode, error) {
	if cfg.Backend.OutputMode == model.OutputModeReal {
		if surface == nil {
			return nil, nil, errors.New("real output mode requires an accounting SDK call surface")
		}
		if cfg.Backend.DataPath == "" {
			return nil, nil, errors.New("real output mode requires BACKEND_DATA_PATH")
		}
		return backend.NewRealBackend(surface), []model.OutputMode{model.OutputModeReal}, nil
	}

	writer, err := export.NewWriter(export.WriterOptions{
		Dir:    cfg.Export.Dir,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create export writer: %w", err)
	}
	return backend.NewExportBackend(writer), exportModes, nil
}

// RunConfig groups dependencies for the run loop.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the worker and the HTTP server, then blocks
// until SIGINT or SIGTERM. Shutdown stops accepting HTTP traffic first,
// then cancels the worker, which shuts the backend down exactly once.
func RunWithShutdown(cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("run config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cfg.Services.Worker.Run(workerCtx)
	}()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Timeout: cfg.Config.HTTP.ShutdownTimeout,
		Logger:  logger,
	}); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}

	cancelWorker()
	wg.Wait()

	if err := cfg.Services.Metrics.Close(); err != nil {
		logger.Error("close metrics sink failed", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
