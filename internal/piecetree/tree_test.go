package piecetree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/vfs"
)

func TestTreeInsertAndRead(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("hello world"))

	require.NoError(t, tr.Insert(ctx, 5, ","))
	data, err := tr.GetTextRange(ctx, 0, tr.Len())
	require.NoError(t, err)
	assert.Equal(t, "hello, world", string(data))
	assert.True(t, tr.IsModified())
	assert.Equal(t, uint64(1), tr.Version())
}

func TestTreeDelete(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("hello, world"))

	require.NoError(t, tr.Delete(ctx, 5, 7))
	data, err := tr.GetTextRange(ctx, 0, tr.Len())
	require.NoError(t, err)
	assert.Equal(t, "helloworld", string(data))
}

func TestTreeInsertDeleteSequencePreservesConcatenationInvariant(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("0123456789"))

	require.NoError(t, tr.Insert(ctx, 0, "AB"))
	require.NoError(t, tr.Insert(ctx, 5, "CD"))
	require.NoError(t, tr.Delete(ctx, 2, 4))

	s, ok := tr.ToString()
	require.True(t, ok)
	assert.Len(t, s, int(tr.Len()))
}

func TestTreeSnapshotRestoreIsO1Rollback(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("abc"))

	snap := tr.Snapshot()
	require.NoError(t, tr.Insert(ctx, 3, "def"))
	assert.Equal(t, int64(6), tr.Len())

	tr.Restore(snap)
	assert.Equal(t, int64(3), tr.Len())
	s, ok := tr.ToString()
	require.True(t, ok)
	assert.Equal(t, "abc", s)
}

func TestTreeApplyBulkEditsReturnsUsableDelta(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("the quick brown fox"))

	delta, err := tr.ApplyBulkEdits(ctx, []Edit{
		{Pos: 4, DelLen: 5, Text: "slow"},
		{Pos: 16, DelLen: 3, Text: "cat"},
	})
	require.NoError(t, err)

	s, ok := tr.ToString()
	require.True(t, ok)
	assert.Equal(t, "the slow brown cat", s)

	// Offset 16, where the second edit begins, translates by the net
	// length change of the first edit (5 bytes deleted, 4 inserted).
	assert.Equal(t, int64(15), delta.Translate(16))
}

func TestTreeOffsetToPositionAndBack(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("line0\nline1\nline2"))

	pos, ok := tr.OffsetToPosition(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, Position{Line: 1, Column: 1}, pos)

	off := tr.PositionToOffset(ctx, Position{Line: 2, Column: 0})
	assert.Equal(t, int64(12), off)
}

func TestTreeLineStartOffset(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("aa\nbb\ncc"))

	off, ok := tr.LineStartOffset(ctx, 0)
	require.True(t, ok)
	assert.Equal(t, int64(0), off)

	off, ok = tr.LineStartOffset(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, int64(6), off)

	_, ok = tr.LineStartOffset(ctx, 5)
	assert.False(t, ok)
}

func TestTreeLSPPositionConversionHandlesUTF16(t *testing.T) {
	ctx := context.Background()
	// "a😀b": 'a' (1 utf-16 unit), emoji (2 units, 4 bytes), 'b' (1 unit).
	tr := New([]byte("a😀b"))

	byteOff := tr.LSPPositionToByte(ctx, 0, 3) // past 'a' and the surrogate pair
	assert.Equal(t, int64(5), byteOff)

	line, col := tr.PositionToLSPPosition(ctx, 5)
	assert.Equal(t, int64(0), line)
	assert.Equal(t, int64(3), col)
}

func TestTreeIterLinesFromRespectsMaxLines(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("a\nb\nc\nd\n"))

	it := tr.IterLinesFrom(ctx, 0, 2)
	var got []string
	for {
		data, _, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, string(data))
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestTreeLargeFileChunkLoadingViaMockFS(t *testing.T) {
	ctx := context.Background()
	fs := vfs.NewMock()
	content := []byte("line1\nline2\nline3\n")
	fs.AddFile("/big.txt", content)

	cs, err := NewChunkStore(fs, "/big.txt", int64(len(content)), 4)
	require.NoError(t, err)
	cs.chunkSize = 6 // force multiple chunks for this small fixture

	tr := NewFromChunkStore(cs)
	require.True(t, tr.IsLargeFile())

	data, err := tr.GetTextRange(ctx, 6, 5)
	require.NoError(t, err)
	assert.Equal(t, "line2", string(data))

	n, ok := tr.LineCount(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(4), n)
}

func TestTreeInsertOutOfRangeReturnsInvalidRangeError(t *testing.T) {
	ctx := context.Background()
	tr := New([]byte("abc"))
	err := tr.Insert(ctx, 100, "x")
	assert.Error(t, err)
}

func TestDeltaTranslateIdentityWhenEmpty(t *testing.T) {
	var d Delta
	assert.Equal(t, int64(42), d.Translate(42))
}
