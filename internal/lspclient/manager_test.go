package lspclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/config"
)

func TestEnsureStartedDisabledForUnconfiguredLanguage(t *testing.T) {
	m := NewLspManager(context.Background(), config.New())
	res, err := m.EnsureStarted(context.Background(), "cobol")
	require.NoError(t, err)
	assert.Equal(t, Disabled, res)
}

func TestEnsureStartedDisabledWhenAutoStartOff(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Set(config.LayerUser, "languages.go.lsp", map[string]any{
		"command":    "gopls",
		"auto_start": false,
	}))
	m := NewLspManager(context.Background(), cfg)
	res, err := m.EnsureStarted(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, Disabled, res)
}

func TestRequestsFailCleanlyWithNoRunningServer(t *testing.T) {
	m := NewLspManager(context.Background(), config.New())
	buf := &Buffer{ID: 1, URI: "file:///test.go", LanguageID: "go", State: newState("package main\n")}

	_, err := m.Hover(context.Background(), buf, 0)
	assert.Error(t, err)

	_, err = m.Definition(context.Background(), buf, 0)
	assert.Error(t, err)

	_, err = m.Completion(context.Background(), buf, 0, "")
	assert.Error(t, err)
}

func TestNotificationsAreNoOpsWithNoRunningServer(t *testing.T) {
	m := NewLspManager(context.Background(), config.New())
	buf := &Buffer{ID: 1, URI: "file:///test.go", LanguageID: "go", State: newState("package main\n")}

	assert.NoError(t, m.DidChange(context.Background(), buf, "package main\n\n"))
	assert.NoError(t, m.DidSave(context.Background(), buf, "package main\n\n"))
	assert.NoError(t, m.DidClose(context.Background(), buf))
}

func TestPathToURI(t *testing.T) {
	got := pathToURI("/home/user/project")
	assert.Equal(t, "file:///home/user/project", got)
}

func TestCancelAndEnableOnUnconfiguredLanguageDoNotPanic(t *testing.T) {
	m := NewLspManager(context.Background(), config.New())
	m.Cancel("cobol", "hover")
	m.Enable("cobol")
}
