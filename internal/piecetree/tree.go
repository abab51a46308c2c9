package piecetree

import (
	"bytes"
	"context"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/freshedit/fresh/internal/ferrors"
)

// largeFileLineIndexThreshold is the file size above which the tree stops
// maintaining an exact line count and falls back to the sparse / relative
// line-number scheme described in §4.1 "Line numbers".
const largeFileLineIndexThreshold = 60 << 20 // 60 MiB

// Tree is the piece-tree text buffer (§3 "Piece Tree", §4.1). All reads
// and writes go through byte offsets; LSP-facing code converts to/from
// UTF-16 columns at the boundary via LSPPositionToByte/PositionToLSPPosition.
type Tree struct {
	original *ChunkStore
	add      []byte
	pieces   []piece

	// prefix[i] is the cumulative byte length of pieces[0:i]; prefixNL is
	// the cumulative newline count. Both have len(pieces)+1 entries.
	prefix   []int64
	prefixNL []int64

	version  uint64
	modified bool
}

// New builds a Tree wholly resident in memory — new buffers and files
// under the large-file threshold.
func New(initial []byte) *Tree {
	t := &Tree{add: make([]byte, 0, len(initial))}
	if len(initial) == 0 {
		t.reindex()
		return t
	}
	t.original = NewSingleChunkStore(initial)
	t.pieces = []piece{{buf: bufOriginal, start: 0, length: int64(len(initial)), newlines: int64(bytes.Count(initial, []byte{'\n'}))}}
	t.reindex()
	return t
}

// NewFromChunkStore builds a Tree over a lazily-loaded chunk store, for
// files above the large-file threshold. Since the newline count of the
// single initial piece can't be known without reading the whole file, it
// is computed lazily on first demand and cached.
func NewFromChunkStore(cs *ChunkStore) *Tree {
	t := &Tree{original: cs}
	if cs.Size() > 0 {
		t.pieces = []piece{{buf: bufOriginal, start: 0, length: cs.Size(), newlines: -1}}
	}
	t.reindex()
	return t
}

// Len returns the current byte length of the buffer.
func (t *Tree) Len() int64 {
	if len(t.prefix) == 0 {
		return 0
	}
	return t.prefix[len(t.prefix)-1]
}

// Version is monotonic, incrementing on every structural mutation.
func (t *Tree) Version() uint64 { return t.version }

// IsModified reports whether any edit has been applied since construction.
func (t *Tree) IsModified() bool { return t.modified }

// IsEmpty reports a zero-length buffer.
func (t *Tree) IsEmpty() bool { return t.Len() == 0 }

// IsLargeFile reports whether this buffer is chunk-backed.
func (t *Tree) IsLargeFile() bool { return t.original != nil && t.original.IsLazy() }

// LineCount returns the exact number of lines, or false if the buffer is
// too large to maintain an exact count (§4.1 "Line numbers").
func (t *Tree) LineCount(ctx context.Context) (int64, bool) {
	if t.IsLargeFile() && t.original.Size() > largeFileLineIndexThreshold {
		return 0, false
	}
	if err := t.resolveNewlines(ctx); err != nil {
		return 0, false
	}
	if len(t.prefixNL) == 0 {
		return 1, true
	}
	return t.prefixNL[len(t.prefixNL)-1] + 1, true
}

func (t *Tree) reindex() {
	n := len(t.pieces)
	t.prefix = make([]int64, n+1)
	t.prefixNL = make([]int64, n+1)
	for i, p := range t.pieces {
		nl := p.newlines
		if nl < 0 {
			nl = 0 // unresolved newline count for an unread chunked piece; resolved lazily by resolveNewlines
		}
		t.prefix[i+1] = t.prefix[i] + p.length
		t.prefixNL[i+1] = t.prefixNL[i] + nl
	}
}

// pieceAt returns the index of the piece containing byte offset off, and
// the offset within that piece. For off == Len(), it returns one past the
// last piece with offset 0 (the canonical "end" position).
func (t *Tree) pieceAt(off int64) (int, int64) {
	if off >= t.Len() {
		return len(t.pieces), 0
	}
	// largest i such that prefix[i] <= off
	i := sort.Search(len(t.pieces), func(i int) bool { return t.prefix[i+1] > off })
	return i, off - t.prefix[i]
}

func (t *Tree) readPieceBytes(ctx context.Context, p piece) ([]byte, error) {
	switch p.buf {
	case bufAdd:
		return t.add[p.start:p.end()], nil
	default:
		return t.original.ReadRange(ctx, p.start, p.length)
	}
}

// GetTextRange returns the bytes in [off, off+length), loading any
// required chunks. It never returns a partial result.
func (t *Tree) GetTextRange(ctx context.Context, off, length int64) ([]byte, error) {
	if off < 0 || length < 0 || off+length > t.Len() {
		return nil, ferrors.InvalidRange("piecetree.get_text_range", rangeErr(off, off+length, t.Len()))
	}
	if length == 0 {
		return []byte{}, nil
	}
	out := make([]byte, 0, length)
	idx, within := t.pieceAt(off)
	remaining := length
	pos := within
	for remaining > 0 {
		p := t.pieces[idx]
		data, err := t.readPieceBytes(ctx, p)
		if err != nil {
			return nil, err
		}
		avail := p.length - pos
		take := avail
		if take > remaining {
			take = remaining
		}
		out = append(out, data[pos:pos+take]...)
		remaining -= take
		pos = 0
		idx++
	}
	return out, nil
}

// ToString returns the whole buffer as a string, or false if it is
// chunk-backed and not fully resident (forcing a load is the caller's
// job, via GetTextRange(0, Len())).
func (t *Tree) ToString() (string, bool) {
	if t.IsLargeFile() {
		if !t.original.Resident(0, t.Len()) {
			return "", false
		}
	}
	data, err := t.GetTextRange(context.Background(), 0, t.Len())
	if err != nil {
		return "", false
	}
	return string(data), true
}

// PrepareViewport guarantees chunks covering an approximate
// [top_byte, top_byte + line_budget*avgLineBytes) window are resident.
func (t *Tree) PrepareViewport(ctx context.Context, topByte int64, lineBudget int, avgLineBytes int64) error {
	if !t.IsLazy() {
		return nil
	}
	if avgLineBytes <= 0 {
		avgLineBytes = 80
	}
	length := int64(lineBudget) * avgLineBytes
	if topByte+length > t.Len() {
		length = t.Len() - topByte
	}
	if length < 0 {
		length = 0
	}
	return t.original.PrepareRange(ctx, topByte, length)
}

// IsLazy reports whether reads may touch disk.
func (t *Tree) IsLazy() bool { return t.original != nil && t.original.IsLazy() }

func rangeErr(start, end, total int64) error {
	return invalidRangeError{start: start, end: end, total: total}
}

type invalidRangeError struct{ start, end, total int64 }

func (e invalidRangeError) Error() string {
	return "range out of bounds"
}

// countNewlines is a small helper shared by insert/delete for computing
// how many '\n' appear in a byte slice.
func countNewlines(b []byte) int64 { return int64(bytes.Count(b, []byte{'\n'})) }

// utf16Len returns the number of UTF-16 code units text would occupy,
// needed for LSP column conversion (LSP columns are UTF-16, not bytes).
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		n += int64(utf16.RuneLen(r))
	}
	return n
}

// decodeRuneAt is a tiny wrapper around utf8.DecodeRune for readability at
// call sites that walk a byte slice rune by rune.
func decodeRuneAt(b []byte) (rune, int) { return utf8.DecodeRune(b) }
