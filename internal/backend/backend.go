// Package backend abstracts the accounting system behind a single
// contract with three interchangeable implementations: the real SDK
// bridge, a file-export fallback, and an in-memory mock for tests.
//
// All implementations share the same result semantics: expected failures
// (uninitialized backend, invalid input, unknown entry) come back as a
// failed Result, never as a Go error. The selected implementation is
// constructor-injected once at startup and owned exclusively by the
// worker afterwards; only IsReady is safe for concurrent readers.
package backend

import (
	"context"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// Backend is the capability contract shared by all variants.
type Backend interface {
	// Initialize prepares the backend against the given data path.
	// Idempotent; a second call on a ready backend is a no-op success.
	Initialize(ctx context.Context, dataPath string) Result[bool]

	// Shutdown releases backend state. Idempotent and always safe to
	// call, even if Initialize never ran or failed.
	Shutdown()

	// CreateEntry opens a new ledger entry from the header fields of
	// entry and returns its id. Movements on entry are ignored; they are
	// added one at a time via AddMovement.
	CreateEntry(ctx context.Context, entry *model.LedgerEntry) Result[string]

	// AddMovement appends one movement to a previously created entry.
	AddMovement(ctx context.Context, entryID string, movement *model.Movement) Result[bool]

	// IsReady reports whether Initialize has succeeded. Safe for
	// concurrent readers (the health endpoint polls it).
	IsReady() bool

	// LastError returns the message of the most recent failure, or "".
	LastError() string
}

// Finalizer is implemented by backends that buffer entries in memory and
// materialize them on demand. The worker calls Finalize after the last
// movement is added.
type Finalizer interface {
	// Finalize renders the entry to the given formats. One format
	// failing does not block the others; per-format failures come back
	// as warnings, and only all formats failing fails the result.
	Finalize(ctx context.Context, entryID string, formats []model.ExportFormat) Result[FinalizeOutcome]
}

// FinalizeOutcome carries the artifacts produced by Finalize plus
// non-fatal per-format warnings.
type FinalizeOutcome struct {
	Artifacts []model.ExportArtifact
	Warnings  []string
}
