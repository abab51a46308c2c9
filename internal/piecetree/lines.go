package piecetree

import "context"

// resolveNewlines computes the newline count for any piece whose count is
// still unresolved (the single whole-file piece of a freshly opened
// chunk-backed buffer). This forces those chunks to load, so it is only
// called by operations that need an exact line answer; pure byte-range
// reads never pay this cost.
func (t *Tree) resolveNewlines(ctx context.Context) error {
	changed := false
	for i, p := range t.pieces {
		if p.newlines < 0 {
			data, err := t.readPieceBytes(ctx, p)
			if err != nil {
				return err
			}
			t.pieces[i].newlines = countNewlines(data)
			changed = true
		}
	}
	if changed {
		t.reindex()
	}
	return nil
}

// LineStartOffset returns the byte offset where line begins (line 0 is
// the buffer start), or false if line is beyond the last line.
func (t *Tree) LineStartOffset(ctx context.Context, line int64) (int64, bool) {
	if line < 0 {
		return 0, false
	}
	if line == 0 {
		return 0, true
	}
	if err := t.resolveNewlines(ctx); err != nil {
		return 0, false
	}

	var linesBefore, byteBefore int64
	for _, p := range t.pieces {
		if linesBefore+p.newlines >= line {
			data, err := t.readPieceBytes(ctx, p)
			if err != nil {
				return 0, false
			}
			need := line - linesBefore
			idx := indexOfNthNewline(data, need)
			if idx < 0 {
				return 0, false
			}
			return byteBefore + int64(idx) + 1, true
		}
		linesBefore += p.newlines
		byteBefore += p.length
	}
	return 0, false
}

func indexOfNthNewline(data []byte, n int64) int {
	var count int64
	for i, b := range data {
		if b == '\n' {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

// OffsetToPosition converts a byte offset to a zero-based (line, column)
// pair, clamping out-of-range offsets rather than failing.
func (t *Tree) OffsetToPosition(ctx context.Context, off int64) (Position, bool) {
	if off < 0 {
		off = 0
	}
	if off > t.Len() {
		off = t.Len()
	}
	if err := t.resolveNewlines(ctx); err != nil {
		return Position{}, false
	}

	idx, within := t.pieceAt(off)
	var line int64
	if idx < len(t.pieces) {
		data, err := t.readPieceBytes(ctx, t.pieces[idx])
		if err != nil {
			return Position{}, false
		}
		line = t.prefixNL[idx] + countNewlines(data[:within])
	} else {
		line = t.prefixNL[len(t.prefixNL)-1]
	}

	lineStart, ok := t.LineStartOffset(ctx, line)
	if !ok {
		lineStart = 0
	}
	return Position{Line: line, Column: off - lineStart}, true
}

// PositionToOffset converts a (line, column) pair back to a byte offset,
// clamping to the buffer length if the position is out of range.
func (t *Tree) PositionToOffset(ctx context.Context, pos Position) int64 {
	lineStart, ok := t.LineStartOffset(ctx, pos.Line)
	if !ok {
		return t.Len()
	}
	off := lineStart + pos.Column
	if off > t.Len() {
		off = t.Len()
	}
	if off < 0 {
		off = 0
	}
	return off
}

// lineByteRange returns [start, end) of line's content, excluding its
// trailing newline.
func (t *Tree) lineByteRange(ctx context.Context, line int64) (int64, int64, bool) {
	start, ok := t.LineStartOffset(ctx, line)
	if !ok {
		return 0, 0, false
	}
	end := t.Len()
	if nextStart, ok := t.LineStartOffset(ctx, line+1); ok {
		end = nextStart - 1
		if end < start {
			end = start
		}
	}
	return start, end, true
}

// LSPPositionToByte converts an LSP {line, UTF-16 column} position to a
// byte offset, per §4.1 "LSP position conversion".
func (t *Tree) LSPPositionToByte(ctx context.Context, line, utf16Col int64) int64 {
	start, end, ok := t.lineByteRange(ctx, line)
	if !ok {
		return t.Len()
	}
	data, err := t.GetTextRange(ctx, start, end-start)
	if err != nil {
		return start
	}
	var units int64
	off := int64(0)
	for off < int64(len(data)) {
		if units >= utf16Col {
			break
		}
		r, size := decodeRuneAt(data[off:])
		units += runeUTF16Width(r)
		off += int64(size)
	}
	return start + off
}

// PositionToLSPPosition converts a byte offset to an LSP {line, UTF-16
// column} position.
func (t *Tree) PositionToLSPPosition(ctx context.Context, off int64) (int64, int64) {
	pos, ok := t.OffsetToPosition(ctx, off)
	if !ok {
		return 0, 0
	}
	lineStart := off - pos.Column
	data, err := t.GetTextRange(ctx, lineStart, pos.Column)
	if err != nil {
		return pos.Line, 0
	}
	return pos.Line, utf16Len(string(data))
}

func runeUTF16Width(r rune) int64 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// LineIterator yields successive lines' byte content starting at a given
// offset, up to a maximum number of lines — the renderer and search
// engine's shared way of walking a buffer without materializing it whole.
type LineIterator struct {
	tree     *Tree
	ctx      context.Context
	line     int64
	maxLines int
	done     bool
}

// IterLinesFrom begins iterating lines starting at the line containing
// off, yielding at most maxLines lines (0 means unbounded).
func (t *Tree) IterLinesFrom(ctx context.Context, off int64, maxLines int) *LineIterator {
	pos, _ := t.OffsetToPosition(ctx, off)
	return &LineIterator{tree: t, ctx: ctx, line: pos.Line, maxLines: maxLines}
}

// Next returns the next line's bytes (without trailing newline) and its
// line number, or false when iteration is exhausted.
func (it *LineIterator) Next() ([]byte, int64, bool) {
	if it.done {
		return nil, 0, false
	}
	start, end, ok := it.tree.lineByteRange(it.ctx, it.line)
	if !ok {
		it.done = true
		return nil, 0, false
	}
	data, err := it.tree.GetTextRange(it.ctx, start, end-start)
	if err != nil {
		it.done = true
		return nil, 0, false
	}
	line := it.line
	it.line++
	if it.maxLines > 0 {
		it.maxLines--
		if it.maxLines == 0 {
			it.done = true
		}
	}
	return data, line, true
}
