package backend

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// CallSurface is the legacy accounting SDK's call surface. The SDK is
// single-threaded and non-reentrant: callers must never invoke it
// concurrently. RealBackend is the only holder of a CallSurface, and the
// worker is the only holder of a mutating RealBackend reference, so
// serialization is enforced by construction.
type CallSurface interface {
	// Open attaches the SDK to a company data directory.
	Open(dataPath string) error

	// Close detaches the SDK. Safe to call when not open.
	Close() error

	// CreateEntry opens a ledger entry and returns the number the SDK
	// assigned to it.
	CreateEntry(date time.Time, entryType, concept string) (int, error)

	// AddMovement appends one accounting line to an open entry.
	AddMovement(entryNumber int, accountCode string, debit, credit float64, concept, reference string) error
}

// RealBackend delegates every operation to the SDK call surface, mapping
// its faults into typed results and isolating callers from its threading
// constraints.
type RealBackend struct {
	surface CallSurface

	ready atomic.Bool

	mu      sync.Mutex
	lastErr string
	entries map[string]int // entry id -> SDK entry number
}

var _ Backend = (*RealBackend)(nil)

// NewRealBackend wraps the given SDK call surface.
func NewRealBackend(surface CallSurface) *RealBackend {
	return &RealBackend{
		surface: surface,
		entries: make(map[string]int),
	}
}

// Initialize opens the SDK against dataPath. Idempotent.
func (b *RealBackend) Initialize(_ context.Context, dataPath string) Result[bool] {
	if b.ready.Load() {
		return Ok(true)
	}
	if dataPath == "" {
		return noteFailure(b, Fail[bool](CodeNotInitializable, "data path is empty"))
	}
	if err := b.surface.Open(dataPath); err != nil {
		return noteFailure(b, Failf[bool](CodeNotInitializable, "open %s: %v", dataPath, err))
	}
	b.ready.Store(true)
	return Ok(true)
}

// Shutdown closes the SDK. Idempotent and safe before Initialize.
func (b *RealBackend) Shutdown() {
	if !b.ready.Swap(false) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.surface.Close(); err != nil {
		b.lastErr = err.Error()
	}
	b.entries = make(map[string]int)
}

// CreateEntry opens a ledger entry in the SDK and returns its id.
func (b *RealBackend) CreateEntry(_ context.Context, entry *model.LedgerEntry) Result[string] {
	if !b.ready.Load() {
		return noteFailure(b, Fail[string](CodeNotInitialized, "backend is not initialized"))
	}
	if err := entry.Validate(); err != nil {
		return noteFailure(b, Failf[string](CodeInvalidInput, "entry: %v", err))
	}
	number, err := b.surface.CreateEntry(entry.Date, entry.Type, entry.Concept)
	if err != nil {
		return noteFailure(b, Failf[string](CodeUnavailable, "create entry: %v", err))
	}

	id := strconv.Itoa(number)
	b.mu.Lock()
	b.entries[id] = number
	b.mu.Unlock()
	return Ok(id)
}

// AddMovement appends one movement to an open entry.
func (b *RealBackend) AddMovement(_ context.Context, entryID string, movement *model.Movement) Result[bool] {
	if !b.ready.Load() {
		return noteFailure(b, Fail[bool](CodeNotInitialized, "backend is not initialized"))
	}
	if err := movement.Validate(); err != nil {
		return noteFailure(b, Failf[bool](CodeInvalidInput, "movement: %v", err))
	}

	b.mu.Lock()
	number, ok := b.entries[entryID]
	b.mu.Unlock()
	if !ok {
		return noteFailure(b, Failf[bool](CodeEntryNotFound, "unknown entry id %q", entryID))
	}

	err := b.surface.AddMovement(number, movement.AccountCode,
		movement.Debit, movement.Credit, movement.Concept, movement.Reference)
	if err != nil {
		return noteFailure(b, Failf[bool](CodeUnavailable, "add movement: %v", err))
	}
	return Ok(true)
}

// IsReady reports whether the SDK is open.
func (b *RealBackend) IsReady() bool {
	return b.ready.Load()
}

// LastError returns the most recent failure message.
func (b *RealBackend) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *RealBackend) record(message string) {
	b.mu.Lock()
	b.lastErr = message
	b.mu.Unlock()
}
