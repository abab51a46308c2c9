package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageServerAutoStartDefaultsTrue(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(LayerUser, "languages.go.lsp", map[string]any{
		"command": "gopls",
	}))

	lsc, ok := c.LanguageServer("go")
	require.True(t, ok)
	assert.Equal(t, "gopls", lsc.Command)
	assert.True(t, lsc.AutoStart)
}

func TestLanguageServerAutoStartExplicitlyDisabled(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(LayerUser, "languages.rust.lsp", map[string]any{
		"command":    "rust-analyzer",
		"auto_start": false,
	}))

	lsc, ok := c.LanguageServer("rust")
	require.True(t, ok)
	assert.False(t, lsc.AutoStart)
}

func TestLanguageServerUnconfiguredLanguageNotFound(t *testing.T) {
	c := New()
	_, ok := c.LanguageServer("cobol")
	assert.False(t, ok)
}
