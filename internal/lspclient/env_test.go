package lspclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvLoaderSkipsWhenNoEnvrc(t *testing.T) {
	l := newEnvLoader()
	env := l.loadProjectEnv(context.Background(), t.TempDir())
	assert.Nil(t, env)
}

func TestEnvLoaderCachesResultPerDirectory(t *testing.T) {
	l := newEnvLoader()
	dir := t.TempDir()

	first := l.loadProjectEnv(context.Background(), dir)
	assert.Nil(t, first)

	l.mu.Lock()
	_, cached := l.loaded[dir]
	l.mu.Unlock()
	assert.True(t, cached, "a resolved directory (even with a nil result) should be cached")
}
