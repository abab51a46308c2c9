package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/piecetree"
	"github.com/freshedit/fresh/internal/vfs"
)

// largeFileTree builds a multi-chunk lazily-loaded tree (§4.1 "Chunk
// Store") with needle placed at needleOffset, to exercise the "never calls
// ToString" large-file search path (§8 "Large-file search").
func largeFileTree(t *testing.T, totalSize int, needleOffset int, needle string) *piecetree.Tree {
	t.Helper()
	var b strings.Builder
	b.Grow(totalSize)
	for b.Len() < needleOffset {
		b.WriteByte('x')
	}
	b.WriteString(needle)
	for b.Len() < totalSize {
		b.WriteByte('y')
	}
	content := []byte(b.String())

	fs := vfs.NewMock()
	fs.AddFile("/big.txt", content)
	cs, err := piecetree.NewChunkStore(fs, "/big.txt", int64(len(content)), 4)
	require.NoError(t, err)

	tr := piecetree.NewFromChunkStore(cs)
	require.True(t, tr.IsLargeFile())
	return tr
}

func TestFindFirstAfterSucceedsOnUnloadedChunk(t *testing.T) {
	ctx := context.Background()
	const needleOffset = 2*piecetree.DefaultChunkSize + 17
	tree := largeFileTree(t, 3*int(piecetree.DefaultChunkSize), needleOffset, "UNIQUE_SEARCH_TARGET")

	engine := NewEngine()
	re, err := engine.Compile("UNIQUE_SEARCH_TARGET", DefaultOptions())
	require.NoError(t, err)

	m, wrapped, found, err := FindFirstAfter(ctx, tree, re, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, wrapped)
	assert.Equal(t, int64(needleOffset), m.Start)
}

func TestScanRangeAllFindsEveryNonOverlappingMatch(t *testing.T) {
	ctx := context.Background()
	tree := newTree("foo\nfoo\nfoo\n")
	engine := NewEngine()
	re, err := engine.Compile("foo", DefaultOptions())
	require.NoError(t, err)

	matches, err := scanRangeAll(ctx, tree, re, 0, tree.Len())
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, []Match{{0, 3}, {4, 7}, {8, 11}}, matches)
}

func TestCompileCachesByPatternAndOptions(t *testing.T) {
	engine := NewEngine()
	re1, err := engine.Compile("foo", DefaultOptions())
	require.NoError(t, err)
	re2, err := engine.Compile("foo", DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, re1, re2)

	re3, err := engine.Compile("foo", Options{})
	require.NoError(t, err)
	assert.NotSame(t, re1, re3)
}

func TestWholeWordOptionExcludesSubstringMatches(t *testing.T) {
	engine := NewEngine()
	re, err := engine.Compile("foo", Options{CaseSensitive: true, WholeWord: true})
	require.NoError(t, err)

	assert.True(t, re.MatchString("a foo b"))
	assert.False(t, re.MatchString("afoob"))
}

func TestCaseInsensitiveOptionMatchesAnyCase(t *testing.T) {
	engine := NewEngine()
	re, err := engine.Compile("Foo", Options{CaseSensitive: false})
	require.NoError(t, err)

	assert.True(t, re.MatchString("FOO"))
	assert.True(t, re.MatchString("foo"))
}
