// Package cursor implements the ordered multi-cursor collection (§3
// "Cursor", §4.3 "Multi-cursor"): a set of cursors keyed by a stable,
// monotonic id so events referring to one cursor survive reordering, with
// the primary cursor always being the lowest id.
package cursor

import (
	"sort"
	"sync"
)

// ID is a stable handle to one cursor, stable across the cursor's whole
// lifetime regardless of how the set is reordered.
type ID uint64

// Block describes a rectangular block selection spanning lines
// [StartLine, EndLine] and columns [StartCol, EndCol) — a cursor-set-level
// concept distinct from the single anchor/position selection.
type Block struct {
	StartLine, EndLine int64
	StartCol, EndCol   int64
}

// Cursor is one insertion point, with an optional selection anchor and a
// sticky column used to keep vertical motion (up/down) visually aligned
// across lines of different lengths.
type Cursor struct {
	ID             ID
	Position       int64
	Anchor         *int64
	StickyColumn   int64
	DeselectOnMove bool
	Block          *Block
}

// HasSelection reports whether the cursor has a non-empty anchor-to-position span.
func (c *Cursor) HasSelection() bool { return c.Anchor != nil && *c.Anchor != c.Position }

// Selection returns the normalized [start, end) selection span, or false
// if the cursor has no selection.
func (c *Cursor) Selection() (int64, int64, bool) {
	if c.Anchor == nil {
		return 0, 0, false
	}
	a, p := *c.Anchor, c.Position
	if a == p {
		return 0, 0, false
	}
	if a > p {
		a, p = p, a
	}
	return a, p, true
}

// Set owns every cursor for one EditorState. Invariant: every cursor's
// Position is clamped to [0, bufLen] at all times (§3 "Cursor").
type Set struct {
	mu      sync.RWMutex
	cursors map[ID]*Cursor
	nextID  ID
	bufLen  int64
}

// New returns a Set with a single cursor at offset 0.
func New() *Set {
	s := &Set{cursors: map[ID]*Cursor{}}
	s.nextID = 1
	s.cursors[1] = &Cursor{ID: 1}
	return s
}

// SetBufferLen updates the clamp bound, re-clamping every cursor
// position. Called whenever the piece tree's length changes.
func (s *Set) SetBufferLen(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bufLen = n
	for _, c := range s.cursors {
		c.Position = clamp(c.Position, 0, n)
		if c.Anchor != nil {
			a := clamp(*c.Anchor, 0, n)
			c.Anchor = &a
		}
	}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Add creates a new cursor at pos and returns its id.
func (s *Set) Add(pos int64) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.cursors[id] = &Cursor{ID: id, Position: clamp(pos, 0, s.bufLen)}
	return id
}

// Remove deletes a cursor. Removing the last remaining cursor is a no-op,
// since a buffer always needs at least one cursor.
func (s *Set) Remove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cursors) <= 1 {
		return
	}
	delete(s.cursors, id)
}

// Get returns a copy of the cursor with id.
func (s *Set) Get(id ID) (Cursor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cursors[id]
	if !ok {
		return Cursor{}, false
	}
	return *c, true
}

// Primary returns the lowest-id cursor (§3 "Cursor": "Primary cursor is
// the first in id order").
func (s *Set) Primary() (Cursor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.cursors) == 0 {
		return Cursor{}, false
	}
	var min ID
	for id := range s.cursors {
		if min == 0 || id < min {
			min = id
		}
	}
	return *s.cursors[min], true
}

// All returns every cursor ordered ascending by id.
func (s *Set) All() []Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Cursor, 0, len(s.cursors))
	for _, c := range s.cursors {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Move relocates a cursor to pos. If deselect is true (or the cursor's
// own DeselectOnMove flag is set), its anchor is cleared.
func (s *Set) Move(id ID, pos int64, deselect bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cursors[id]
	if !ok {
		return
	}
	c.Position = clamp(pos, 0, s.bufLen)
	if deselect || c.DeselectOnMove {
		c.Anchor = nil
	}
}

// SetAnchor pins the cursor's selection anchor to its current position.
func (s *Set) SetAnchor(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cursors[id]
	if !ok {
		return
	}
	pos := c.Position
	c.Anchor = &pos
}

// ClearAnchor removes the cursor's selection.
func (s *Set) ClearAnchor(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cursors[id]; ok {
		c.Anchor = nil
	}
}

// SetStickyColumn records the visual column vertical motion should try to
// return to on each line.
func (s *Set) SetStickyColumn(id ID, col int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cursors[id]; ok {
		c.StickyColumn = col
	}
}

// SetBlock attaches or clears a rectangular block selection on id.
func (s *Set) SetBlock(id ID, b *Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cursors[id]; ok {
		c.Block = b
	}
}

// ShiftForInsert adjusts every cursor for an insertion of length bytes at
// pos (§4.3 "apply(Insert)" step 4: "shift all cursors ≥ pos by +len"),
// then moves the single emitting cursor to pos+length and clears its
// selection (step 5), which callers do separately via Move after this.
func (s *Set) ShiftForInsert(pos, length int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bufLen += length
	for _, c := range s.cursors {
		if c.Position >= pos {
			c.Position += length
		}
		if c.Anchor != nil && *c.Anchor >= pos {
			a := *c.Anchor + length
			c.Anchor = &a
		}
	}
}

// ShiftForDelete adjusts every cursor for a deletion of [start, end),
// collapsing cursors inside the range to start (§4.3 "apply(Delete):
// mirror image; collapse cursors inside the range").
func (s *Set) ShiftForDelete(start, end int64) {
	length := end - start
	if length <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bufLen -= length
	for _, c := range s.cursors {
		c.Position = shiftForDelete(c.Position, start, end)
		if c.Anchor != nil {
			a := shiftForDelete(*c.Anchor, start, end)
			c.Anchor = &a
		}
	}
}

func shiftForDelete(pos, start, end int64) int64 {
	switch {
	case pos <= start:
		return pos
	case pos >= end:
		return pos - (end - start)
	default:
		return start
	}
}
