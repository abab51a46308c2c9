package viewport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/piecetree"
)

func linesBuffer(n int) *piecetree.Tree {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("line\n")
	}
	return piecetree.New([]byte(b.String()))
}

func TestEnsureCursorVisibleScrollsDownWhenCursorBelowBottom(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(100)
	v := Viewport{Height: 22}

	cursorOffset, ok := tree.LineStartOffset(ctx, 30)
	require.True(t, ok)

	require.NoError(t, v.EnsureCursorVisible(ctx, tree, cursorOffset))

	topPos, _ := tree.OffsetToPosition(ctx, v.TopByte)
	cursorPos, _ := tree.OffsetToPosition(ctx, cursorOffset)
	assert.LessOrEqual(t, topPos.Line, cursorPos.Line)
	assert.LessOrEqual(t, cursorPos.Line, topPos.Line+int64(v.Height)-1)
}

func TestEnsureCursorVisibleScrollsUpWhenCursorAboveTop(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(100)
	v := Viewport{Height: 22}

	start, _ := tree.LineStartOffset(ctx, 50)
	v.TopByte = start

	cursorOffset, _ := tree.LineStartOffset(ctx, 10)
	require.NoError(t, v.EnsureCursorVisible(ctx, tree, cursorOffset))

	topPos, _ := tree.OffsetToPosition(ctx, v.TopByte)
	assert.Equal(t, int64(10), topPos.Line)
}

func TestEnsureCursorVisibleNoPreemptiveScroll(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(100)
	v := Viewport{Height: 22}

	cursorOffset, _ := tree.LineStartOffset(ctx, 5)
	require.NoError(t, v.EnsureCursorVisible(ctx, tree, cursorOffset))

	assert.Equal(t, int64(0), v.TopByte)
}

func TestLastLinePinnedWhenContentFitsViewport(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(10)
	v := Viewport{Height: 22}

	cursorOffset, _ := tree.LineStartOffset(ctx, 9)
	require.NoError(t, v.EnsureCursorVisible(ctx, tree, cursorOffset))

	assert.Equal(t, int64(0), v.TopByte)
}

func TestLastLinePinnedClampsMaxTopByte(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(100)
	v := Viewport{Height: 22}

	// total_lines is 101 (100 "line\n" entries then the implicit trailing
	// empty line); move the cursor to the very last line so the clamp
	// fires at its tightest bound.
	total, ok := tree.LineCount(ctx)
	require.True(t, ok)
	cursorOffset, _ := tree.LineStartOffset(ctx, total-1)
	require.NoError(t, v.EnsureCursorVisible(ctx, tree, cursorOffset))

	topPos, _ := tree.OffsetToPosition(ctx, v.TopByte)
	assert.Equal(t, total-int64(v.Height), topPos.Line)
}

func TestPageDownNoOpAtMaxTopByte(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(100)
	v := Viewport{Height: 22}

	// Scroll to the max first.
	require.NoError(t, v.ScrollLines(ctx, tree, 1000))
	maxTop := v.TopByte

	require.NoError(t, v.ScrollLines(ctx, tree, 22))
	assert.Equal(t, maxTop, v.TopByte)
}

func TestPageDownAdvancesWhenNotAtMax(t *testing.T) {
	ctx := context.Background()
	tree := linesBuffer(100)
	v := Viewport{Height: 22}

	require.NoError(t, v.ScrollLines(ctx, tree, 22))
	assert.Greater(t, v.TopByte, int64(0))
}

func TestEnsureColumnVisibleScrollsRightThenLeft(t *testing.T) {
	v := Viewport{Width: 20}
	gutter := 4

	v.EnsureColumnVisible(50, gutter)
	assert.Greater(t, v.LeftColumn, 0)
	assert.LessOrEqual(t, v.LeftColumn+(v.Width-gutter), 51)

	v.EnsureColumnVisible(0, gutter)
	assert.Equal(t, 0, v.LeftColumn)
}

func TestEnsureColumnVisibleKeepsFinalCharacterOfLongLineVisible(t *testing.T) {
	v := Viewport{Width: 20}
	gutter := 4
	lineLen := 500

	v.EnsureColumnVisible(lineLen-1, gutter)
	visible := v.Width - gutter
	assert.GreaterOrEqual(t, lineLen-1, v.LeftColumn)
	assert.Less(t, lineLen-1, v.LeftColumn+visible)
}
