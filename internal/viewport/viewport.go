// Package viewport implements the per-split scroll window and scrollbar
// math (§3 "SplitView", §4.4): a Viewport is owned by a split, not by
// EditorState, so multiple splits can show the same buffer at different
// scroll positions.
package viewport

import (
	"context"

	"github.com/freshedit/fresh/internal/piecetree"
)

// Viewport is the (top_byte, height) window into a buffer plus its
// horizontal counterpart, recomputed whenever the terminal resizes.
type Viewport struct {
	TopByte    int64
	Height     int // content rows, excludes tab bar and status bar
	LeftColumn int // display columns scrolled past, excludes the gutter
	Width      int // content columns, excludes the gutter
}

// Resize updates the content area dimensions after a terminal resize.
func (v *Viewport) Resize(height, width int) {
	v.Height = height
	v.Width = width
}

// EnsureCursorVisible applies the reactive cursor-visibility rule of §4.4:
// the viewport only moves when cursorOffset's line falls outside
// [top_line, top_line+height-1]; there is no preemptive scroll margin.
func (v *Viewport) EnsureCursorVisible(ctx context.Context, tree *piecetree.Tree, cursorOffset int64) error {
	cursorPos, ok := tree.OffsetToPosition(ctx, cursorOffset)
	if !ok {
		return nil
	}
	topPos, ok := tree.OffsetToPosition(ctx, v.TopByte)
	if !ok {
		return nil
	}

	switch {
	case cursorPos.Line < topPos.Line:
		if start, ok := tree.LineStartOffset(ctx, cursorPos.Line); ok {
			v.TopByte = start
		}
	case v.Height > 0 && cursorPos.Line > topPos.Line+int64(v.Height)-1:
		newTop := cursorPos.Line - int64(v.Height) + 1
		if start, ok := tree.LineStartOffset(ctx, newTop); ok {
			v.TopByte = start
		}
	}
	return v.pinLastLine(ctx, tree)
}

// pinLastLine enforces the last-line-pinned invariant: when the buffer
// fits entirely within the viewport, top_byte is always 0; otherwise
// top_byte is clamped so the final line never scrolls past the bottom
// content row. For files whose exact line count isn't available (too
// large, §4.1), clamping is skipped — the scrollbar falls back to the
// byte-offset-derived constant-size thumb in that case instead.
func (v *Viewport) pinLastLine(ctx context.Context, tree *piecetree.Tree) error {
	if v.Height <= 0 {
		return nil
	}
	total, ok := tree.LineCount(ctx)
	if !ok {
		return nil
	}
	if total <= int64(v.Height) {
		v.TopByte = 0
		return nil
	}
	maxTopLine := total - int64(v.Height)
	topPos, ok := tree.OffsetToPosition(ctx, v.TopByte)
	if !ok {
		return nil
	}
	if topPos.Line > maxTopLine {
		if start, ok := tree.LineStartOffset(ctx, maxTopLine); ok {
			v.TopByte = start
		}
	}
	return nil
}

// ScrollLines moves top_byte by delta lines (negative scrolls up),
// respecting the last-line-pinned and top-pinned clamps — the entry point
// for mouse-wheel and PageUp/PageDown/Ctrl+Home/Ctrl+End.
func (v *Viewport) ScrollLines(ctx context.Context, tree *piecetree.Tree, delta int64) error {
	topPos, ok := tree.OffsetToPosition(ctx, v.TopByte)
	if !ok {
		return nil
	}
	target := topPos.Line + delta
	if target < 0 {
		target = 0
	}
	if total, ok := tree.LineCount(ctx); ok && target > total-1 {
		target = total - 1
	}
	if start, ok := tree.LineStartOffset(ctx, target); ok {
		v.TopByte = start
	}
	return v.pinLastLine(ctx, tree)
}

// EnsureColumnVisible applies §4.4's horizontal-scroll rule: when line
// wrap is off and the cursor's display column falls outside
// [left_column, left_column+width-gutterWidth), left_column is adjusted
// by exactly enough to bring it back into view.
func (v *Viewport) EnsureColumnVisible(cursorCol, gutterWidth int) {
	visible := v.Width - gutterWidth
	if visible < 1 {
		visible = 1
	}
	switch {
	case cursorCol < v.LeftColumn:
		v.LeftColumn = cursorCol
	case cursorCol >= v.LeftColumn+visible:
		v.LeftColumn = cursorCol - visible + 1
	}
	if v.LeftColumn < 0 {
		v.LeftColumn = 0
	}
}

// ColumnForByteOffset returns the display column of byteOffset within the
// line of text lineBytes starts at — the cursor-column half of
// EnsureColumnVisible's input.
func ColumnForByteOffset(lineBytes []byte, byteOffset int) int {
	return columnAt(lineBytes, byteOffset)
}

// ByteOffsetForColumn is the inverse of ColumnForByteOffset, used to map a
// mouse click's screen column back to a byte offset within the clicked
// line.
func ByteOffsetForColumn(lineBytes []byte, col int) int {
	return byteOffsetForColumn(lineBytes, col)
}

// DisplayWidth measures the terminal column width of s (wide glyphs and
// ANSI escapes accounted for), matching the teacher's pitui.VisibleWidth.
func DisplayWidth(s string) int { return displayWidth(s) }
