package backend

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/contaflow/poliza-api/internal/domain/model"
	"github.com/contaflow/poliza-api/internal/export"
)

// ExportBackend never talks to the accounting system. It accumulates
// entries and movements in memory keyed by a generated id; Finalize
// renders them to files via the export writer and forgets the entry.
type ExportBackend struct {
	writer *export.Writer

	ready atomic.Bool

	mu      sync.Mutex
	lastErr string
	pending map[string]*model.LedgerEntry
}

var (
	_ Backend   = (*ExportBackend)(nil)
	_ Finalizer = (*ExportBackend)(nil)
)

// NewExportBackend constructs an export backend over the given writer.
func NewExportBackend(writer *export.Writer) *ExportBackend {
	return &ExportBackend{
		writer:  writer,
		pending: make(map[string]*model.LedgerEntry),
	}
}

// Initialize ensures the export directory exists. The data path argument
// is accepted for contract parity but the writer's directory is what the
// backend writes to. Idempotent.
func (b *ExportBackend) Initialize(_ context.Context, dataPath string) Result[bool] {
	if b.ready.Load() {
		return Ok(true)
	}
	if strings.TrimSpace(dataPath) == "" {
		return noteFailure(b, Fail[bool](CodeNotInitializable, "data path is empty"))
	}
	if err := os.MkdirAll(b.writer.Dir(), 0o755); err != nil {
		return noteFailure(b, Failf[bool](CodeNotInitializable, "create export dir %s: %v", b.writer.Dir(), err))
	}
	b.ready.Store(true)
	return Ok(true)
}

// Shutdown discards any unfinalized entries. Idempotent.
func (b *ExportBackend) Shutdown() {
	b.ready.Store(false)
	b.mu.Lock()
	b.pending = make(map[string]*model.LedgerEntry)
	b.mu.Unlock()
}

// CreateEntry buffers a new entry header and returns its generated id.
func (b *ExportBackend) CreateEntry(_ context.Context, entry *model.LedgerEntry) Result[string] {
	if !b.ready.Load() {
		return noteFailure(b, Fail[string](CodeNotInitialized, "backend is not initialized"))
	}
	if err := entry.Validate(); err != nil {
		return noteFailure(b, Failf[string](CodeInvalidInput, "entry: %v", err))
	}

	header := &model.LedgerEntry{
		Date:    entry.Date,
		Type:    entry.Type,
		Number:  entry.Number,
		Concept: entry.Concept,
	}
	id := uuid.NewString()
	b.mu.Lock()
	b.pending[id] = header
	b.mu.Unlock()
	return Ok(id)
}

// AddMovement appends one movement to a buffered entry.
func (b *ExportBackend) AddMovement(_ context.Context, entryID string, movement *model.Movement) Result[bool] {
	if !b.ready.Load() {
		return noteFailure(b, Fail[bool](CodeNotInitialized, "backend is not initialized"))
	}
	if err := movement.Validate(); err != nil {
		return noteFailure(b, Failf[bool](CodeInvalidInput, "movement: %v", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.pending[entryID]
	if !ok {
		return noteFailureLocked(b, Failf[bool](CodeEntryNotFound, "unknown entry id %q", entryID))
	}
	entry.Movements = append(entry.Movements, *movement)
	return Ok(true)
}

// Finalize renders the buffered entry to the given formats and drops it
// from memory on success. Per-format failures become warnings; the
// result fails only when every format fails.
func (b *ExportBackend) Finalize(_ context.Context, entryID string, formats []model.ExportFormat) Result[FinalizeOutcome] {
	if !b.ready.Load() {
		return noteFailure(b, Fail[FinalizeOutcome](CodeNotInitialized, "backend is not initialized"))
	}
	if len(formats) == 0 {
		return noteFailure(b, Fail[FinalizeOutcome](CodeInvalidInput, "no export formats configured"))
	}

	b.mu.Lock()
	entry, ok := b.pending[entryID]
	b.mu.Unlock()
	if !ok {
		return noteFailure(b, Failf[FinalizeOutcome](CodeEntryNotFound, "unknown entry id %q", entryID))
	}

	artifacts, errs := b.writer.WriteAll(entry, formats)
	if len(artifacts) == 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, err.Error())
		}
		return noteFailure(b, Failf[FinalizeOutcome](CodeIOError,
			"all export formats failed: %s", strings.Join(msgs, "; ")))
	}

	outcome := FinalizeOutcome{Artifacts: artifacts}
	for _, err := range errs {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("export format failed: %v", err))
	}

	b.mu.Lock()
	delete(b.pending, entryID)
	b.mu.Unlock()
	return Ok(outcome)
}

// IsReady reports whether the export directory has been prepared.
func (b *ExportBackend) IsReady() bool {
	return b.ready.Load()
}

// LastError returns the most recent failure message.
func (b *ExportBackend) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// PendingEntries reports how many entries are buffered but not finalized.
func (b *ExportBackend) PendingEntries() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *ExportBackend) record(message string) {
	b.mu.Lock()
	b.lastErr = message
	b.mu.Unlock()
}

// noteFailureLocked records a failure while b.mu is already held.
func noteFailureLocked[T any](b *ExportBackend, r Result[T]) Result[T] {
	b.lastErr = r.Failure().Message
	return r
}
