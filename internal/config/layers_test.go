package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSystemDefaults(t *testing.T) {
	c := New()

	got, layer, ok := c.Get("editor.quick_suggestions")
	require.True(t, ok)
	assert.Equal(t, LayerSystem, layer)
	assert.Equal(t, true, got)

	assert.Equal(t, int64(10<<20), c.GetInt("editor.large_file_threshold_bytes", 0))
}

func TestConfigLayerPrecedence(t *testing.T) {
	c := New()

	require.NoError(t, c.Set(LayerUser, "editor.tab_width", int64(2)))
	assert.Equal(t, int64(2), c.GetInt("editor.tab_width", -1))

	require.NoError(t, c.Set(LayerProject, "editor.tab_width", int64(8)))
	assert.Equal(t, int64(8), c.GetInt("editor.tab_width", -1))

	require.NoError(t, c.Set(LayerSession, "editor.tab_width", int64(3)))
	assert.Equal(t, int64(3), c.GetInt("editor.tab_width", -1))

	err := c.Set(LayerSystem, "editor.tab_width", int64(1))
	assert.Error(t, err)
}

func TestConfigLoadAndPersistUserLayer(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "config.toml")

	c := New()
	c.SetLayerPath(LayerUser, userFile)
	require.NoError(t, c.Set(LayerUser, "editor.tab_width", int64(2)))
	require.NoError(t, c.Persist(LayerUser))

	data, err := os.ReadFile(userFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tab_width")

	reloaded := New()
	raw, err := os.ReadFile(userFile)
	require.NoError(t, err)
	require.NoError(t, decodeInto(raw, reloaded))
	assert.Equal(t, int64(2), reloaded.GetInt("editor.tab_width", -1))
}

func TestFindProjectConfigWalksUpToGitBoundary(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".fresh.toml"), []byte("[editor]\n"), 0o644))

	sub := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	path, ok := FindProjectConfig(sub)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, ".fresh.toml"), path)
}

func TestFindProjectConfigStopsAtGitWithNoFreshFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	sub := filepath.Join(root, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	_, ok := FindProjectConfig(sub)
	assert.False(t, ok)
}

func TestConfigDump(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(LayerUser, "editor.tab_width", int64(2)))

	var found bool
	for _, rs := range c.Dump() {
		if rs.Path == "editor.tab_width" {
			found = true
			assert.Equal(t, LayerUser, rs.Layer)
			assert.Equal(t, int64(2), rs.Value)
		}
	}
	assert.True(t, found)
}

// decodeInto re-decodes a persisted user-layer file into c's user layer,
// used by tests that round-trip Persist/Load without going through the
// full Load (which also probes for a project file).
func decodeInto(data []byte, c *Config) error {
	t := tree{}
	if _, err := toml.Decode(string(data), &t); err != nil {
		return err
	}
	c.layers[LayerUser] = t
	return nil
}
