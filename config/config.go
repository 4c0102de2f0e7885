package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: Accounting backend and output mode configuration
//   - worker.go: Job queue and worker configuration
//   - http.go: HTTP server configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, relaxed guards).
	// Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Accounting backend configuration
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// Export writer configuration
	Export ExportConfig `envPrefix:"EXPORT_"`

	// Job queue and worker configuration
	Worker WorkerConfig `envPrefix:"WORKER_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.Export.Sanitize()
	c.Worker.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// APP_ENV is checked as a fallback so deployments that only set an
// environment name still get development behavior locally.
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	if strings.EqualFold(os.Getenv("APP_ENV"), "development") {
		c.IsDev = true
	}
}
