package config

import (
	"strings"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// BackendConfig controls the accounting backend and the default output mode.
type BackendConfig struct {
	// DataPath is the company data directory handed to the SDK on
	// Initialize. Required for real mode; export modes use it only as a
	// validity check.
	DataPath string `env:"DATA_PATH"`

	// OutputMode is the process-wide default destination for processed
	// invoices: real, json, csv, xlsx, or both (json+csv).
	OutputMode model.OutputMode `env:"OUTPUT_MODE" envDefault:"json"`

	// TaxAccountCode receives the tax movement when the invoice does not
	// name an account.
	TaxAccountCode string `env:"TAX_ACCOUNT_CODE" envDefault:"119-01"`
}

// Sanitize applies guardrails to backend configuration values.
func (c *BackendConfig) Sanitize() {
	c.DataPath = strings.TrimSpace(c.DataPath)
	c.TaxAccountCode = strings.TrimSpace(c.TaxAccountCode)
	if !c.OutputMode.Valid() {
		c.OutputMode = model.OutputModeJSON
	}
}

// ExportConfig controls the file-export writer.
type ExportConfig struct {
	// Dir is the directory export artifacts are written to.
	Dir string `env:"DIR" envDefault:"exports"`
}

// Sanitize applies guardrails to export configuration values.
func (c *ExportConfig) Sanitize() {
	c.Dir = strings.TrimSpace(c.Dir)
	if c.Dir == "" {
		c.Dir = "exports"
	}
}
