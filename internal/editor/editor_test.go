package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/piecetree"
)

func newTestState(t *testing.T, initial string) *EditorState {
	t.Helper()
	return New(piecetree.New([]byte(initial)))
}

func bufferText(t *testing.T, s *EditorState) string {
	t.Helper()
	text, ok := s.Tree.ToString()
	require.True(t, ok)
	return text
}

func TestApplyInsertShiftsCursorAndLineNumber(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "hello world")
	s.LineNumber = LineNumber{Line: 0, Exact: true}

	primary, ok := s.Cursors.Primary()
	require.True(t, ok)

	err := s.Apply(ctx, Insert{Position: 5, Text: ",\nthere", CursorID: primary.ID})
	require.NoError(t, err)

	assert.Equal(t, "hello,\nthere world", bufferText(t, s))
	c, _ := s.Cursors.Get(primary.ID)
	assert.Equal(t, int64(12), c.Position)
	assert.Equal(t, int64(1), s.LineNumber.Line)
}

func TestApplyDeleteCollapsesCursorAndLineNumber(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "one\ntwo\nthree")
	s.LineNumber = LineNumber{Line: 2, Exact: true}

	primary, ok := s.Cursors.Primary()
	require.True(t, ok)

	err := s.Apply(ctx, Delete{Start: 3, End: 8, CursorID: primary.ID})
	require.NoError(t, err)

	assert.Equal(t, "onethree", bufferText(t, s))
	c, _ := s.Cursors.Get(primary.ID)
	assert.Equal(t, int64(3), c.Position)
	assert.Equal(t, int64(0), s.LineNumber.Line)
}

func TestUndoRedoRoundTripsInsert(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "abc")
	primary, _ := s.Cursors.Primary()

	require.NoError(t, s.Apply(ctx, Insert{Position: 1, Text: "XYZ", CursorID: primary.ID}))
	assert.Equal(t, "aXYZbc", bufferText(t, s))

	ok, err := s.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", bufferText(t, s))
	assert.False(t, s.CanUndo())
	assert.True(t, s.CanRedo())

	ok, err = s.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aXYZbc", bufferText(t, s))
}

func TestUndoRedoRoundTripsDeleteWithoutCallerSuppliedText(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "the quick fox")
	primary, _ := s.Cursors.Primary()

	// DeletedText deliberately left blank; apply must resolve it from the
	// tree before the bytes are gone so undo can restore them.
	require.NoError(t, s.Apply(ctx, Delete{Start: 4, End: 10, CursorID: primary.ID}))
	assert.Equal(t, "the fox", bufferText(t, s))

	ok, err := s.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "the quick fox", bufferText(t, s))
}

func TestUndoRedoRoundTripsBatch(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "aaaa")
	primary, _ := s.Cursors.Primary()
	second := s.Cursors.Add(2)

	batch := Batch{
		Description: "multi-cursor insert",
		Events: []Event{
			Insert{Position: 0, Text: "X", CursorID: primary.ID},
			Insert{Position: 2, Text: "Y", CursorID: second},
		},
	}
	require.NoError(t, s.Apply(ctx, batch))
	assert.Equal(t, "XaYaaa", bufferText(t, s))

	ok, err := s.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aaaa", bufferText(t, s))

	ok, err = s.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "XaYaaa", bufferText(t, s))
}

func TestUndoRedoRoundTripsBulkEdit(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "the cat sat on the cat mat")

	oldSnapshot := s.Tree.Snapshot()
	oldCursors := []cursorSnapshot{{ID: 1, Position: 0}}

	_, err := s.Tree.ApplyBulkEdits(ctx, []piecetree.Edit{
		{Pos: 4, DelLen: 3, Text: "dog"},
		{Pos: 19, DelLen: 3, Text: "dog"},
	})
	require.NoError(t, err)
	newSnapshot := s.Tree.Snapshot()
	newCursors := []cursorSnapshot{{ID: 1, Position: 0}}

	// Reset back to the pre-edit snapshot so Apply(BulkEdit) is what
	// actually performs the swap, matching how EditorState would be used:
	// ApplyBulkEdits above was only used to compute the target snapshot.
	s.Tree.Restore(oldSnapshot)

	require.NoError(t, s.Apply(ctx, BulkEdit{
		OldTree:     oldSnapshot,
		NewTree:     newSnapshot,
		OldCursors:  oldCursors,
		NewCursors:  newCursors,
		Description: "rename cat -> dog",
	}))
	assert.Equal(t, "the dog sat on the dog mat", bufferText(t, s))

	ok, err := s.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "the cat sat on the cat mat", bufferText(t, s))

	ok, err = s.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "the dog sat on the dog mat", bufferText(t, s))
}

func TestEditingDisabledSuppressesContentEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "abc")
	s.EditingDisabled = true
	primary, _ := s.Cursors.Primary()

	require.NoError(t, s.Apply(ctx, Insert{Position: 0, Text: "Z", CursorID: primary.ID}))
	assert.Equal(t, "abc", bufferText(t, s))
	assert.False(t, s.CanUndo())
}

func TestEditingDisabledStillAllowsCursorMotion(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "abcdef")
	s.EditingDisabled = true
	primary, _ := s.Cursors.Primary()

	require.NoError(t, s.Apply(ctx, MoveCursor{CursorID: primary.ID, Position: 3}))
	c, _ := s.Cursors.Get(primary.ID)
	assert.Equal(t, int64(3), c.Position)
}

func TestPopupStackSelectionWrapsAndPages(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "")

	popup := Popup{
		Kind:     PopupCompletion,
		Items:    []PopupItem{{Label: "a"}, {Label: "b"}, {Label: "c"}},
		PageSize: 2,
	}
	require.NoError(t, s.Apply(ctx, ShowPopup{Popup: popup}))

	require.NoError(t, s.Apply(ctx, PopupSelectPrev{}))
	top, ok := s.Popups.Top()
	require.True(t, ok)
	assert.Equal(t, 2, top.Selected)

	require.NoError(t, s.Apply(ctx, PopupSelectNext{}))
	top, _ = s.Popups.Top()
	assert.Equal(t, 0, top.Selected)

	require.NoError(t, s.Apply(ctx, PopupPageDown{}))
	top, _ = s.Popups.Top()
	assert.Equal(t, 2, top.Selected)

	require.NoError(t, s.Apply(ctx, HidePopup{}))
	assert.Equal(t, 0, s.Popups.Len())
}

func TestOverlayEventsRouteThroughState(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, "package main\n")

	require.NoError(t, s.Apply(ctx, AddOverlay{Start: 0, End: 7, Priority: 1, Namespace: "lsp"}))
	visible := s.Overlays.Visible(0, 13)
	require.Len(t, visible, 1)

	require.NoError(t, s.Apply(ctx, ClearNamespace{Namespace: "lsp"}))
	assert.Empty(t, s.Overlays.Visible(0, 13))
}
