// Package testutil provides shared helpers and fixture builders for tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// SilentLogger returns a logger that discards all output, keeping test
// logs readable.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Invoice returns a valid invoice fixture. Amounts satisfy
// total == subtotal + tax at 2-decimal precision.
func Invoice() model.Invoice {
	return model.Invoice{
		Folio:      "A-1001",
		IssuerRFC:  "XAXX010101000",
		IssuerName: "Proveedora del Centro SA de CV",
		Date:       time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		Subtotal:   1000.00,
		Tax:        160.00,
		Total:      1160.00,
		LineItems: []model.LineItem{
			{Description: "Papeleria", Amount: 600.00, AccountCode: "601-01"},
			{Description: "Consumibles", Amount: 400.00, AccountCode: "601-02"},
		},
		TaxAccountCode: "119-01",
	}
}

// InvoiceWith applies a mutation to the standard invoice fixture.
func InvoiceWith(mutate func(*model.Invoice)) model.Invoice {
	inv := Invoice()
	if mutate != nil {
		mutate(&inv)
	}
	return inv
}

// Job returns a pending job fixture wrapping the standard invoice.
func Job(id string, mode model.OutputMode) *model.Job {
	inv := Invoice()
	return &model.Job{
		ID:         id,
		Status:     model.JobStatusPending,
		OutputMode: mode,
		Invoice:    &inv,
		CreatedAt:  time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC),
	}
}

// ExportDir creates a temporary directory for export artifacts.
func ExportDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
