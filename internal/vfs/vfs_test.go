package vfs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockReadWriteRoundTrip(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	require.NoError(t, m.WriteFile(ctx, "/project/main.go", []byte("package main")))

	data, err := m.ReadFile(ctx, "/project/main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data))

	assert.True(t, m.Exists(ctx, "/project/main.go"))
	assert.False(t, m.Exists(ctx, "/project/missing.go"))
}

func TestMockReadFileMissingReturnsIOError(t *testing.T) {
	m := NewMock()
	_, err := m.ReadFile(context.Background(), "/nope")
	assert.Error(t, err)
}

func TestMockReadDirListsFilesAndSubdirs(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	m.AddFile("/project/main.go", []byte("x"))
	m.AddFile("/project/sub/helper.go", []byte("y"))
	m.AddDir("/project/empty")

	entries, err := m.ReadDir(ctx, "/project")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = e.IsDir
	}
	assert.Contains(t, names, "main.go")
	assert.False(t, names["main.go"])
	assert.Contains(t, names, "sub")
	assert.True(t, names["sub"])
	assert.Contains(t, names, "empty")
}

func TestMockMetadataReportsSize(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	m.AddFile("/f.txt", []byte("hello"))

	md, err := m.Metadata(ctx, "/f.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), md.Size)
	assert.False(t, md.IsDir)
}

func TestSlowHonorsContextCancellation(t *testing.T) {
	slow := Slow{Inner: NewMock(), Delay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := slow.ReadFile(ctx, "/anything")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSlowExistsReturnsFalseOnCancel(t *testing.T) {
	slow := Slow{Inner: NewMock(), Delay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.False(t, slow.Exists(ctx, "/network/share/file"))
}

func TestSlowDelegatesAfterDelay(t *testing.T) {
	m := NewMock()
	m.AddFile("/f.txt", []byte("data"))
	slow := Slow{Inner: m, Delay: time.Millisecond}

	data, err := slow.ReadFile(context.Background(), "/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
