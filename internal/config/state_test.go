package config

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLoadMissingFileReturnsEmpty(t *testing.T) {
	s, err := LoadState(filepath.Join(t.TempDir(), "state.toml"))
	require.NoError(t, err)
	assert.Empty(t, s.RecentFiles)
}

func TestStateTouchRecentFileDedupesAndOrders(t *testing.T) {
	s := &State{}
	now := time.Unix(1700000000, 0)

	s.TouchRecentFile("/a.go", now)
	s.TouchRecentFile("/b.go", now.Add(time.Second))
	s.TouchRecentFile("/a.go", now.Add(2*time.Second))

	require.Len(t, s.RecentFiles, 2)
	assert.Equal(t, "/a.go", s.RecentFiles[0].Path)
	assert.Equal(t, "/b.go", s.RecentFiles[1].Path)
}

func TestStateRecentFilesTrimsToLimit(t *testing.T) {
	s := &State{}
	now := time.Unix(1700000000, 0)
	for i := 0; i < maxRecentFiles+10; i++ {
		s.TouchRecentFile(filepath.Join("/", "f", strconv.Itoa(i)), now)
	}
	assert.LessOrEqual(t, len(s.RecentFiles), maxRecentFiles)
}

func TestStateSearchHistoryDedup(t *testing.T) {
	s := &State{}
	s.PushSearchHistory("foo")
	s.PushSearchHistory("bar")
	s.PushSearchHistory("foo")

	require.Len(t, s.SearchHistory, 2)
	assert.Equal(t, "foo", s.SearchHistory[0])
	assert.Equal(t, "bar", s.SearchHistory[1])
}

func TestStateSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	s := &State{}
	s.TouchRecentFile("/main.go", time.Unix(1700000000, 0))
	s.PushSearchHistory("TODO")

	require.NoError(t, s.Save(path))

	reloaded, err := LoadState(path)
	require.NoError(t, err)
	require.Len(t, reloaded.RecentFiles, 1)
	assert.Equal(t, "/main.go", reloaded.RecentFiles[0].Path)
	assert.Equal(t, []string{"TODO"}, reloaded.SearchHistory)
}
