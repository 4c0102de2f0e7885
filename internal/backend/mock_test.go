package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

func TestMockBackend_FailInitialize_RecoversAfterN(t *testing.T) {
	b := NewMockBackend()
	b.FailInitialize(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res := b.Initialize(ctx, "/data/empresa")
		require.False(t, res.OK())
		assert.Equal(t, CodeNotInitializable, res.Failure().Code)
		assert.False(t, b.IsReady())
	}

	require.True(t, b.Initialize(ctx, "/data/empresa").OK())
	assert.True(t, b.IsReady())
	assert.Equal(t, 3, b.InitializeCalls())
}

func TestMockBackend_ScriptedFailure(t *testing.T) {
	b := NewMockBackend()
	ctx := context.Background()
	require.True(t, b.Initialize(ctx, "/data/empresa").OK())

	b.FailWith(OpCreateEntry, CodeUnavailable, "simulated outage")
	res := b.CreateEntry(ctx, testEntry())
	require.False(t, res.OK())
	assert.Equal(t, CodeUnavailable, res.Failure().Code)
	assert.Equal(t, "simulated outage", b.LastError())

	b.ClearFailures()
	assert.True(t, b.CreateEntry(ctx, testEntry()).OK())
}

func TestMockBackend_EntryLifecycle(t *testing.T) {
	b := NewMockBackend()
	ctx := context.Background()
	require.True(t, b.Initialize(ctx, "/data/empresa").OK())

	first := b.CreateEntry(ctx, testEntry())
	second := b.CreateEntry(ctx, testEntry())
	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.Equal(t, "mock-entry-1", first.Value())
	assert.Equal(t, "mock-entry-2", second.Value())

	mv := &model.Movement{AccountCode: "601-01", Debit: 600}
	require.True(t, b.AddMovement(ctx, first.Value(), mv).OK())
	require.Len(t, b.Movements(first.Value()), 1)
	assert.Empty(t, b.Movements(second.Value()))

	missing := b.AddMovement(ctx, "mock-entry-99", mv)
	require.False(t, missing.OK())
	assert.Equal(t, CodeEntryNotFound, missing.Failure().Code)
}

func TestMockBackend_ShutdownCountsAndResets(t *testing.T) {
	b := NewMockBackend()
	ctx := context.Background()
	require.True(t, b.Initialize(ctx, "/data/empresa").OK())

	created := b.CreateEntry(ctx, testEntry())
	require.True(t, created.OK())

	b.Shutdown()
	b.Shutdown()
	assert.Equal(t, 2, b.ShutdownCalls())
	assert.False(t, b.IsReady())
	assert.Empty(t, b.Movements(created.Value()))
}
