package lspclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/config"
)

func newTestHandle(autoStart bool) *LspHandle {
	cfg := config.LanguageServerConfig{Command: "", AutoStart: autoStart} // empty Command makes spawnLocked fail instantly, no subprocess
	return newLspHandle(context.Background(), "testlang", cfg, &processRegistry{}, newEnvLoader())
}

func TestTrySpawnDisabledWhenAutoStartOff(t *testing.T) {
	h := newTestHandle(false)
	res, err := h.TrySpawn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Disabled, res)
}

func TestTrySpawnFailsThenBacksOff(t *testing.T) {
	h := newTestHandle(true)
	res, err := h.TrySpawn(context.Background())
	require.Error(t, err)
	assert.Equal(t, SpawnFailed, res)
	assert.Equal(t, 1, h.respawnAttempts)

	// Immediately retrying is still inside the back-off window.
	res, err = h.TrySpawn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SpawnFailed, res)
	assert.Equal(t, 1, h.respawnAttempts, "a retry inside the back-off window must not count as a new attempt")
}

func TestTrySpawnDisablesAfterMaxRespawnAttempts(t *testing.T) {
	h := newTestHandle(true)
	for i := 0; i < maxRespawnAttempts; i++ {
		h.mu.Lock()
		h.backoff = time.Time{} // clear back-off so the next TrySpawn actually attempts
		h.mu.Unlock()
		res, err := h.TrySpawn(context.Background())
		require.Error(t, err)
		assert.Equal(t, SpawnFailed, res)
	}

	h.mu.Lock()
	h.backoff = time.Time{}
	h.mu.Unlock()
	res, err := h.TrySpawn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Disabled, res)
	assert.True(t, h.autoStartOff)
}

func TestEnableClearsDisabledState(t *testing.T) {
	h := newTestHandle(true)
	h.mu.Lock()
	h.autoStartOff = true
	h.respawnAttempts = maxRespawnAttempts
	h.backoff = time.Now().Add(time.Hour)
	h.mu.Unlock()

	h.Enable()

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.False(t, h.autoStartOff)
	assert.Equal(t, 0, h.respawnAttempts)
	assert.True(t, h.backoff.IsZero())
}

func TestRunningReflectsHandleState(t *testing.T) {
	h := newTestHandle(true)
	assert.False(t, h.Running())
}

func TestCallWithNoClientReturnsIOError(t *testing.T) {
	h := newTestHandle(true)
	err := h.call(context.Background(), "hover", "textDocument/hover", struct{}{}, nil)
	require.Error(t, err)
}

func TestCancelBumpsGenerationEvenWithoutPendingCall(t *testing.T) {
	h := newTestHandle(true)
	h.Cancel("completion") // must not panic with no in-flight request of this kind
	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, uint64(1), h.generation["completion"])
}
