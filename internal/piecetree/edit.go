package piecetree

import (
	"context"
	"sort"

	"github.com/freshedit/fresh/internal/ferrors"
)

// Snapshot is an O(1) structural copy of the tree's piece list, the
// undo/redo unit (§3 "Lifecycle", §4.1 "snapshot_piece_tree"). Go slices
// are never mutated in place by this package — every edit builds a new
// backing array — so copying the slice header is sufficient sharing.
type Snapshot struct {
	pieces   []piece
	addLen   int64
	version  uint64
	modified bool
}

// Snapshot captures the current structural state in O(1).
func (t *Tree) Snapshot() Snapshot {
	return Snapshot{pieces: t.pieces, addLen: int64(len(t.add)), version: t.version, modified: t.modified}
}

// Restore reverts the tree to a previously captured Snapshot in O(1). The
// add buffer is append-only and its backing array's capacity never
// shrinks, so re-slicing to addLen is valid whether that's shorter than
// the current add buffer (a plain undo) or longer (a redo re-extending
// past an intervening undo's truncation) — the only way those bytes could
// have been overwritten in between is a new append, which only happens on
// a fresh edit, and a fresh edit always clears the redo history first.
func (t *Tree) Restore(s Snapshot) {
	t.pieces = s.pieces
	t.add = t.add[:s.addLen]
	t.version = s.version
	t.modified = s.modified
	t.reindex()
}

// splitPieceBytes returns the two pieces produced by cutting piece p at
// byte offset "at" within it (0 < at < p.length).
func (t *Tree) splitPieceBytes(ctx context.Context, p piece, at int64) (piece, piece, error) {
	data, err := t.readPieceBytes(ctx, p)
	if err != nil {
		return piece{}, piece{}, err
	}
	left := piece{buf: p.buf, start: p.start, length: at, newlines: countNewlines(data[:at])}
	right := piece{buf: p.buf, start: p.start + at, length: p.length - at, newlines: countNewlines(data[at:])}
	return left, right, nil
}

// spliceAt returns the piece list with the piece boundary cut exactly at
// byte offset off (a no-op if off already falls on a boundary), without
// otherwise changing the sequence.
func (t *Tree) spliceAt(ctx context.Context, off int64) ([]piece, error) {
	if off <= 0 || off >= t.Len() {
		out := make([]piece, len(t.pieces))
		copy(out, t.pieces)
		return out, nil
	}
	idx, within := t.pieceAt(off)
	if within == 0 {
		out := make([]piece, len(t.pieces))
		copy(out, t.pieces)
		return out, nil
	}
	left, right, err := t.splitPieceBytes(ctx, t.pieces[idx], within)
	if err != nil {
		return nil, err
	}
	out := make([]piece, 0, len(t.pieces)+1)
	out = append(out, t.pieces[:idx]...)
	out = append(out, left, right)
	out = append(out, t.pieces[idx+1:]...)
	return out, nil
}

// Insert inserts text at byte offset off.
func (t *Tree) Insert(ctx context.Context, off int64, text string) error {
	if off < 0 || off > t.Len() {
		return ferrors.InvalidRange("piecetree.insert", rangeErr(off, off, t.Len()))
	}
	if text == "" {
		return nil
	}

	pieces, err := t.spliceAt(ctx, off)
	if err != nil {
		return err
	}
	idx, _ := pieceAtIn(pieces, off)

	newPiece := piece{buf: bufAdd, start: int64(len(t.add)), length: int64(len(text)), newlines: countNewlines([]byte(text))}
	t.add = append(t.add, text...)

	out := make([]piece, 0, len(pieces)+1)
	out = append(out, pieces[:idx]...)
	out = append(out, newPiece)
	out = append(out, pieces[idx:]...)

	t.pieces = out
	t.reindex()
	t.version++
	t.modified = true
	return nil
}

// Delete removes the byte range [start, end).
func (t *Tree) Delete(ctx context.Context, start, end int64) error {
	if start < 0 || end < start || end > t.Len() {
		return ferrors.InvalidRange("piecetree.delete", rangeErr(start, end, t.Len()))
	}
	if start == end {
		return nil
	}

	pieces, err := t.spliceAt(ctx, start)
	if err != nil {
		return err
	}
	pieces, err = t.piecesSpliceAtOffset(ctx, pieces, end)
	if err != nil {
		return err
	}

	startIdx, _ := pieceAtIn(pieces, start)
	endIdx, _ := pieceAtIn(pieces, end)

	out := make([]piece, 0, len(pieces))
	out = append(out, pieces[:startIdx]...)
	out = append(out, pieces[endIdx:]...)

	t.pieces = out
	t.reindex()
	t.version++
	t.modified = true
	return nil
}

// piecesSpliceAtOffset is spliceAt but operating on an already-modified
// piece list (used by Delete after the start boundary has been cut,
// before the end boundary is cut against the updated list).
func (t *Tree) piecesSpliceAtOffset(ctx context.Context, pieces []piece, off int64) ([]piece, error) {
	total := int64(0)
	for _, p := range pieces {
		total += p.length
	}
	if off <= 0 || off >= total {
		return pieces, nil
	}
	idx, within := pieceAtIn(pieces, off)
	if within == 0 {
		return pieces, nil
	}
	left, right, err := t.splitPieceBytes(ctx, pieces[idx], within)
	if err != nil {
		return nil, err
	}
	out := make([]piece, 0, len(pieces)+1)
	out = append(out, pieces[:idx]...)
	out = append(out, left, right)
	out = append(out, pieces[idx+1:]...)
	return out, nil
}

// pieceAtIn is pieceAt generalized over an arbitrary piece slice, used
// while building an intermediate piece list mid-edit.
func pieceAtIn(pieces []piece, off int64) (int, int64) {
	var cum int64
	for i, p := range pieces {
		if off < cum+p.length {
			return i, off - cum
		}
		cum += p.length
	}
	return len(pieces), 0
}

// ApplyBulkEdits applies a batch of disjoint (pos, del_len, insert_text)
// edits in a single pass (§4.1 "Bulk edit algorithm"), returning a Delta
// for cursor/marker fix-up. Edits are taken in any order and sorted
// ascending by Pos internally; overlapping edits are rejected with an
// InvalidRange error.
func (t *Tree) ApplyBulkEdits(ctx context.Context, edits []Edit) (*Delta, error) {
	if len(edits) == 0 {
		return &Delta{}, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Pos < sorted[i-1].Pos+sorted[i-1].DelLen {
			return nil, ferrors.InvalidRange("piecetree.apply_bulk_edits", rangeErr(sorted[i].Pos, sorted[i].Pos, t.Len()))
		}
	}

	pieces := t.pieces
	var err error
	// Cut every edit boundary up front against the original piece list.
	for _, e := range sorted {
		pieces, err = t.piecesSpliceAtOffset(ctx, pieces, e.Pos)
		if err != nil {
			return nil, err
		}
		pieces, err = t.piecesSpliceAtOffset(ctx, pieces, e.Pos+e.DelLen)
		if err != nil {
			return nil, err
		}
	}

	var out []piece
	var bps []deltaPoint
	cursor := int64(0)
	newCursor := int64(0)

	for _, e := range sorted {
		if e.Pos > cursor {
			segIdx, _ := pieceAtIn(t.pieces, cursor)
			endIdx, _ := pieceAtIn(t.pieces, e.Pos)
			segPieces, serr := slicePiecesByOffset(ctx, t, cursor, e.Pos, segIdx, endIdx)
			if serr != nil {
				return nil, serr
			}
			out = append(out, segPieces...)
			bps = append(bps, deltaPoint{OldOffset: cursor, NewOffset: newCursor})
			newCursor += e.Pos - cursor
		}

		if e.DelLen > 0 {
			bps = append(bps, deltaPoint{OldOffset: e.Pos, NewOffset: newCursor, Deleted: true, OldEnd: e.Pos + e.DelLen})
		}

		if e.Text != "" {
			out = append(out, piece{buf: bufAdd, start: int64(len(t.add)), length: int64(len(e.Text)), newlines: countNewlines([]byte(e.Text))})
			t.add = append(t.add, e.Text...)
			newCursor += int64(len(e.Text))
		}

		cursor = e.Pos + e.DelLen
	}

	if cursor < t.Len() {
		segIdx, _ := pieceAtIn(t.pieces, cursor)
		endIdx := len(t.pieces)
		segPieces, serr := slicePiecesByOffset(ctx, t, cursor, t.Len(), segIdx, endIdx)
		if serr != nil {
			return nil, serr
		}
		out = append(out, segPieces...)
	}
	bps = append(bps, deltaPoint{OldOffset: cursor, NewOffset: newCursor})
	bps = append(bps, deltaPoint{OldOffset: t.Len(), NewOffset: newCursor + (t.Len() - cursor)})

	t.pieces = out
	t.reindex()
	t.version++
	t.modified = true

	return &Delta{breakpoints: bps}, nil
}

// slicePiecesByOffset returns the pieces (possibly split at both ends)
// covering [from, to) out of the tree's current (pre-edit) piece list.
func slicePiecesByOffset(ctx context.Context, t *Tree, from, to int64, fromIdx, toIdx int) ([]piece, error) {
	if from >= to {
		return nil, nil
	}
	pieces, err := t.spliceAt(ctx, from)
	if err != nil {
		return nil, err
	}
	pieces, err = t.piecesSpliceAtOffset(ctx, pieces, to)
	if err != nil {
		return nil, err
	}
	startIdx, _ := pieceAtIn(pieces, from)
	endIdx, _ := pieceAtIn(pieces, to)
	out := make([]piece, endIdx-startIdx)
	copy(out, pieces[startIdx:endIdx])
	return out, nil
}
