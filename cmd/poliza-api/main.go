package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/contaflow/poliza-api/config"
	"github.com/contaflow/poliza-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(&bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting poliza service",
		"output_mode", cfg.Backend.OutputMode,
		"queue_capacity", cfg.Worker.QueueCapacity,
		"max_retries", cfg.Worker.MaxRetries,
		"http_addr", cfg.HTTP.Addr)
}
