package viewport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/piecetree"
)

func newSplitView(t *testing.T, initial string, height, width int) *SplitView {
	t.Helper()
	state := editor.New(piecetree.New([]byte(initial)))
	sv := NewSplitView(state)
	sv.View.Resize(height, width)
	return sv
}

func TestEnterAtBottomScrollsBeforeNextRender(t *testing.T) {
	ctx := context.Background()
	sv := newSplitView(t, strings.Repeat("x\n", 30), 22, 80)

	primary, ok := sv.State.Cursors.Primary()
	require.True(t, ok)

	// Move the cursor onto the viewport's bottom row.
	lineStart, ok := sv.State.Tree.LineStartOffset(ctx, 21)
	require.True(t, ok)
	require.NoError(t, sv.State.Apply(ctx, editor.MoveCursor{CursorID: primary.ID, Position: lineStart}))
	require.NoError(t, sv.SyncToCursor(ctx))
	topByteBefore := sv.View.TopByte

	require.NoError(t, sv.State.Apply(ctx, editor.Insert{Position: lineStart, Text: "\n", CursorID: primary.ID}))
	require.NoError(t, sv.SyncToCursor(ctx))

	assert.Greater(t, sv.View.TopByte, topByteBefore)

	c, _ := sv.State.Cursors.Get(primary.ID)
	cursorPos, _ := sv.State.Tree.OffsetToPosition(ctx, c.Position)
	topPos, _ := sv.State.Tree.OffsetToPosition(ctx, sv.View.TopByte)
	assert.Equal(t, topPos.Line+int64(sv.View.Height)-1, cursorPos.Line)
}

func TestScrollbarThumbReflectsSplitState(t *testing.T) {
	ctx := context.Background()
	sv := newSplitView(t, strings.Repeat("line\n", 200), 22, 80)

	size1, start1 := sv.ScrollbarThumb(ctx, 24)
	assert.Equal(t, 0, start1)

	require.NoError(t, sv.PageDown(ctx))
	size2, start2 := sv.ScrollbarThumb(ctx, 24)
	assert.Equal(t, size1, size2)
	assert.Greater(t, start2, start1)
}

func TestDragThumbRelocatesCursorToTopLine(t *testing.T) {
	ctx := context.Background()
	sv := newSplitView(t, strings.Repeat("line\n", 200), 22, 80)

	require.NoError(t, sv.DragThumb(ctx, 12, 24))

	primary, ok := sv.State.Cursors.Primary()
	require.True(t, ok)
	assert.Equal(t, sv.View.TopByte, primary.Position)
}

func TestGutterWidthGrowsWithLineCount(t *testing.T) {
	ctx := context.Background()
	small := newSplitView(t, "a\nb\n", 22, 80)
	large := newSplitView(t, strings.Repeat("line\n", 10000), 22, 80)

	assert.Less(t, small.GutterWidth(ctx), large.GutterWidth(ctx))
}
