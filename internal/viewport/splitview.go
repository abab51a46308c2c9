package viewport

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshedit/fresh/internal/editor"
)

// SplitView is one pane's view of a buffer (§3 "SplitView"): the
// EditorState it belongs to is owned separately, so several splits may
// point at the same buffer and see each other's edits immediately.
// Viewport is intentionally not a field of EditorState itself.
type SplitView struct {
	ID       uuid.UUID
	State    *editor.EditorState
	View     Viewport
	WrapLines bool

	// TabScrollOffset is the horizontal scroll position of this split's
	// own tab bar, independent of the buffer's own horizontal scroll.
	TabScrollOffset int
}

// NewSplitView returns a SplitView over state with a freshly generated id.
func NewSplitView(state *editor.EditorState) *SplitView {
	return &SplitView{ID: uuid.New(), State: state}
}

// SyncToCursor recomputes the viewport against the primary cursor's
// current position. §4.4's enter-at-bottom invariant requires this be
// called immediately after every event application, not lazily before the
// next render, so the newly inserted line is never drawn off-screen even
// for one frame.
func (sv *SplitView) SyncToCursor(ctx context.Context) error {
	primary, ok := sv.State.Cursors.Primary()
	if !ok {
		return nil
	}
	if err := sv.View.EnsureCursorVisible(ctx, sv.State.Tree, primary.Position); err != nil {
		return err
	}
	if sv.WrapLines {
		return nil
	}
	return sv.syncHorizontal(ctx, primary.Position)
}

func (sv *SplitView) syncHorizontal(ctx context.Context, cursorOffset int64) error {
	pos, ok := sv.State.Tree.OffsetToPosition(ctx, cursorOffset)
	if !ok {
		return nil
	}
	lineStart, ok := sv.State.Tree.LineStartOffset(ctx, pos.Line)
	if !ok {
		return nil
	}
	lineBytes, err := sv.State.Tree.GetTextRange(ctx, lineStart, pos.Column)
	if err != nil {
		return err
	}
	col := ColumnForByteOffset(lineBytes, len(lineBytes))
	sv.View.EnsureColumnVisible(col, sv.GutterWidth(ctx))
	return nil
}

// GutterWidth returns the width in columns of the line-number gutter plus
// its separator glyph, sized to the number of digits the buffer's total
// line count needs (§4.4 "The gutter width includes line numbers and the
// separator glyph").
func (sv *SplitView) GutterWidth(ctx context.Context) int {
	total, ok := sv.State.Tree.LineCount(ctx)
	if !ok {
		// Large file: the sparse line-number scheme still reserves room
		// for a plausible number of digits rather than measuring exactly.
		return 8
	}
	digits := 1
	for n := total; n >= 10; n /= 10 {
		digits++
	}
	return digits + 2 // one digit column + separator + one space
}

// PageDown/PageUp scroll by the viewport's full height, per §4.4 and the
// "PageDown from p is a no-op iff p is already the maximum top_byte"
// invariant (§8) — ScrollLines itself refuses to move top_byte past the
// last-line-pinned clamp, so calling this when already pinned leaves
// View.TopByte untouched.
func (sv *SplitView) PageDown(ctx context.Context) error {
	return sv.View.ScrollLines(ctx, sv.State.Tree, int64(sv.View.Height))
}

func (sv *SplitView) PageUp(ctx context.Context) error {
	return sv.View.ScrollLines(ctx, sv.State.Tree, -int64(sv.View.Height))
}

// ScrollWheel moves the viewport by lines (positive = down) without
// relocating the cursor, for mouse-wheel input.
func (sv *SplitView) ScrollWheel(ctx context.Context, lines int64) error {
	return sv.View.ScrollLines(ctx, sv.State.Tree, lines)
}

// scrollbarGeometry resolves the current (size, start) thumb position for
// a track of the given height, using the exact line-count formula when
// available and falling back to the byte-offset approximation for large
// files (§4.4).
func (sv *SplitView) scrollbarGeometry(ctx context.Context, trackHeight int) (size, start int) {
	total, ok := sv.State.Tree.LineCount(ctx)
	if !ok {
		return ThumbForBytes(sv.View.TopByte, sv.State.Tree.Len(), trackHeight)
	}
	size = ThumbSize(sv.View.Height, int(total), trackHeight)
	topPos, ok := sv.State.Tree.OffsetToPosition(ctx, sv.View.TopByte)
	if !ok {
		return size, 0
	}
	start = ThumbStart(int(topPos.Line), sv.View.Height, int(total), trackHeight, size)
	return size, start
}

// ScrollbarThumb returns the scrollbar's current (size, start) in track
// rows, for the renderer to draw.
func (sv *SplitView) ScrollbarThumb(ctx context.Context, trackHeight int) (size, start int) {
	return sv.scrollbarGeometry(ctx, trackHeight)
}

// DragThumb repositions the viewport for a thumb drag to thumbRow on a
// track of trackHeight, then relocates the primary cursor to the new top
// visible line (§4.4 "After drag, the primary cursor is relocated to the
// top visible line to keep it within the viewport").
func (sv *SplitView) DragThumb(ctx context.Context, thumbRow, trackHeight int) error {
	total, ok := sv.State.Tree.LineCount(ctx)
	if !ok {
		if sv.State.Tree.Len() <= 0 {
			return nil
		}
		frac := float64(thumbRow) / float64(trackHeight)
		sv.View.TopByte = int64(frac * float64(sv.State.Tree.Len()))
		return sv.pinCursorToTop(ctx)
	}
	size := ThumbSize(sv.View.Height, int(total), trackHeight)
	line := TopLineFromThumbRow(thumbRow, sv.View.Height, int(total), trackHeight, size)
	start, ok := sv.State.Tree.LineStartOffset(ctx, line)
	if !ok {
		return nil
	}
	sv.View.TopByte = start
	if err := sv.View.pinLastLine(ctx, sv.State.Tree); err != nil {
		return err
	}
	return sv.pinCursorToTop(ctx)
}

// ClickTrack jumps the viewport directly to the clicked track position
// (a click outside the thumb itself), then relocates the cursor the same
// way DragThumb does.
func (sv *SplitView) ClickTrack(ctx context.Context, clickRow, trackHeight int) error {
	total, ok := sv.State.Tree.LineCount(ctx)
	if !ok {
		return sv.DragThumb(ctx, clickRow, trackHeight)
	}
	line := TopLineFromTrackClick(clickRow, trackHeight, int(total), sv.View.Height)
	start, ok := sv.State.Tree.LineStartOffset(ctx, line)
	if !ok {
		return nil
	}
	sv.View.TopByte = start
	if err := sv.View.pinLastLine(ctx, sv.State.Tree); err != nil {
		return err
	}
	return sv.pinCursorToTop(ctx)
}

func (sv *SplitView) pinCursorToTop(ctx context.Context) error {
	primary, ok := sv.State.Cursors.Primary()
	if !ok {
		return nil
	}
	return sv.State.Apply(ctx, editor.MoveCursor{CursorID: primary.ID, Position: sv.View.TopByte, Deselect: true})
}
