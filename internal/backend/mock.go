package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// Op identifies a backend operation for failure injection.
type Op string

const (
	// OpInitialize targets Initialize.
	OpInitialize Op = "initialize"
	// OpCreateEntry targets CreateEntry.
	OpCreateEntry Op = "create_entry"
	// OpAddMovement targets AddMovement.
	OpAddMovement Op = "add_movement"
)

// MockBackend is a deterministic in-memory simulation of the accounting
// backend with injectable failure modes, for exercising the worker's
// retry and status-reporting logic without an SDK or file I/O.
type MockBackend struct {
	ready atomic.Bool

	mu            sync.Mutex
	lastErr       string
	entries       map[string][]model.Movement
	entrySeq      int
	initCalls     int
	failInitLeft  int
	scripted      map[Op]*Failure
	shutdownCalls int
}

var _ Backend = (*MockBackend)(nil)

// NewMockBackend constructs a mock backend with no failures scripted.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		entries:  make(map[string][]model.Movement),
		scripted: make(map[Op]*Failure),
	}
}

// FailInitialize makes the next n Initialize calls fail before the
// backend starts succeeding again.
func (b *MockBackend) FailInitialize(n int) {
	b.mu.Lock()
	b.failInitLeft = n
	b.mu.Unlock()
}

// FailWith scripts every call to op to fail with the given code and message.
func (b *MockBackend) FailWith(op Op, code Code, message string) {
	b.mu.Lock()
	b.scripted[op] = &Failure{Code: code, Message: message}
	b.mu.Unlock()
}

// ClearFailures removes all scripted failures.
func (b *MockBackend) ClearFailures() {
	b.mu.Lock()
	b.failInitLeft = 0
	b.scripted = make(map[Op]*Failure)
	b.mu.Unlock()
}

// InitializeCalls reports how many times Initialize was invoked.
func (b *MockBackend) InitializeCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initCalls
}

// ShutdownCalls reports how many times Shutdown was invoked.
func (b *MockBackend) ShutdownCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdownCalls
}

// Initialize succeeds unless a failure is scripted. Idempotent.
func (b *MockBackend) Initialize(_ context.Context, dataPath string) Result[bool] {
	b.mu.Lock()
	b.initCalls++
	if b.failInitLeft > 0 {
		b.failInitLeft--
		b.lastErr = "scripted initialize failure"
		b.mu.Unlock()
		return Fail[bool](CodeNotInitializable, "scripted initialize failure")
	}
	if f := b.scripted[OpInitialize]; f != nil {
		b.lastErr = f.Message
		b.mu.Unlock()
		return Result[bool]{failure: f}
	}
	b.mu.Unlock()

	if b.ready.Load() {
		return Ok(true)
	}
	if dataPath == "" {
		return noteFailure(b, Fail[bool](CodeNotInitializable, "data path is empty"))
	}
	b.ready.Store(true)
	return Ok(true)
}

// Shutdown clears all simulated state. Idempotent.
func (b *MockBackend) Shutdown() {
	b.ready.Store(false)
	b.mu.Lock()
	b.shutdownCalls++
	b.entries = make(map[string][]model.Movement)
	b.mu.Unlock()
}

// CreateEntry returns a deterministic sequential entry id.
func (b *MockBackend) CreateEntry(_ context.Context, entry *model.LedgerEntry) Result[string] {
	if f := b.take(OpCreateEntry); f != nil {
		return Result[string]{failure: f}
	}
	if !b.ready.Load() {
		return noteFailure(b, Fail[string](CodeNotInitialized, "backend is not initialized"))
	}
	if err := entry.Validate(); err != nil {
		return noteFailure(b, Failf[string](CodeInvalidInput, "entry: %v", err))
	}

	b.mu.Lock()
	b.entrySeq++
	id := fmt.Sprintf("mock-entry-%d", b.entrySeq)
	b.entries[id] = nil
	b.mu.Unlock()
	return Ok(id)
}

// AddMovement records a movement against a simulated entry.
func (b *MockBackend) AddMovement(_ context.Context, entryID string, movement *model.Movement) Result[bool] {
	if f := b.take(OpAddMovement); f != nil {
		return Result[bool]{failure: f}
	}
	if !b.ready.Load() {
		return noteFailure(b, Fail[bool](CodeNotInitialized, "backend is not initialized"))
	}
	if err := movement.Validate(); err != nil {
		return noteFailure(b, Failf[bool](CodeInvalidInput, "movement: %v", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[entryID]; !ok {
		b.lastErr = fmt.Sprintf("unknown entry id %q", entryID)
		return Failf[bool](CodeEntryNotFound, "unknown entry id %q", entryID)
	}
	b.entries[entryID] = append(b.entries[entryID], *movement)
	return Ok(true)
}

// Movements returns the movements recorded for an entry, in insertion order.
func (b *MockBackend) Movements(entryID string) []model.Movement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Movement(nil), b.entries[entryID]...)
}

// IsReady reports whether Initialize has succeeded.
func (b *MockBackend) IsReady() bool {
	return b.ready.Load()
}

// LastError returns the most recent failure message.
func (b *MockBackend) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *MockBackend) record(message string) {
	b.mu.Lock()
	b.lastErr = message
	b.mu.Unlock()
}

func (b *MockBackend) take(op Op) *Failure {
	b.mu.Lock()
	defer b.mu.Unlock()
	f := b.scripted[op]
	if f != nil {
		b.lastErr = f.Message
	}
	return f
}
