package overlay

import (
	"sort"

	"github.com/freshedit/fresh/internal/marker"
)

// VirtualTextPosition places inline virtual text relative to the
// character at its anchor.
type VirtualTextPosition int

const (
	BeforeChar VirtualTextPosition = iota
	AfterChar
)

// VirtualText is purely visual: it never affects byte offsets or cursor
// positions (§3 "Virtual Text").
type VirtualText struct {
	ID       uint64
	Anchor   marker.ID
	Display  string
	Style    Style
	Position VirtualTextPosition
	Priority int
}

// VirtualTextManager owns every piece of virtual text for one buffer.
type VirtualTextManager struct {
	markers *marker.List
	byID    map[uint64]*VirtualText
	nextID  uint64
}

// NewVirtualTextManager returns a manager anchored on markers.
func NewVirtualTextManager(markers *marker.List) *VirtualTextManager {
	return &VirtualTextManager{markers: markers, byID: map[uint64]*VirtualText{}}
}

// Add attaches display text at pos and returns the new entry.
func (m *VirtualTextManager) Add(pos int64, display string, style Style, position VirtualTextPosition, priority int) *VirtualText {
	gravity := marker.GravityLeft
	if position == AfterChar {
		gravity = marker.GravityRight
	}
	anchor := m.markers.Create(pos, gravity)
	m.nextID++
	vt := &VirtualText{ID: m.nextID, Anchor: anchor, Display: display, Style: style, Position: position, Priority: priority}
	m.byID[vt.ID] = vt
	return vt
}

// Remove deletes one virtual-text entry.
func (m *VirtualTextManager) Remove(id uint64) {
	vt, ok := m.byID[id]
	if !ok {
		return
	}
	m.markers.Remove(vt.Anchor)
	delete(m.byID, id)
}

// Clear removes every virtual-text entry.
func (m *VirtualTextManager) Clear() {
	for _, vt := range m.byID {
		m.markers.Remove(vt.Anchor)
	}
	m.byID = map[uint64]*VirtualText{}
}

// ResolvedVirtualText is a VirtualText with its anchor resolved to a
// current byte offset.
type ResolvedVirtualText struct {
	VirtualText
	Offset int64
}

// Visible returns every virtual-text entry anchored in [viewStart,
// viewEnd), ordered by offset then priority.
func (m *VirtualTextManager) Visible(viewStart, viewEnd int64) []ResolvedVirtualText {
	var out []ResolvedVirtualText
	for _, vt := range m.byID {
		off, ok := m.markers.Position(vt.Anchor)
		if !ok || off < viewStart || off >= viewEnd {
			continue
		}
		out = append(out, ResolvedVirtualText{VirtualText: *vt, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Offset != out[j].Offset {
			return out[i].Offset < out[j].Offset
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}

// MarginAnnotation is a gutter-line decoration (e.g. a diagnostic dot or
// a git-status glyph) keyed by line rather than byte offset, since the
// gutter renders per visual line regardless of line length.
type MarginAnnotation struct {
	ID     uint64
	Anchor marker.ID
	Glyph  string
	Style  Style
	Kind   string // e.g. "diagnostic", "git", "breakpoint"
}

// MarginManager owns gutter annotations for one buffer.
type MarginManager struct {
	markers *marker.List
	byID    map[uint64]*MarginAnnotation
	nextID  uint64
}

// NewMarginManager returns a manager anchored on markers.
func NewMarginManager(markers *marker.List) *MarginManager {
	return &MarginManager{markers: markers, byID: map[uint64]*MarginAnnotation{}}
}

// Add attaches an annotation anchored at pos itself; pos is not moved to
// the start of its line.
func (m *MarginManager) Add(pos int64, glyph string, style Style, kind string) *MarginAnnotation {
	anchor := m.markers.Create(pos, marker.GravityLeft)
	m.nextID++
	a := &MarginAnnotation{ID: m.nextID, Anchor: anchor, Glyph: glyph, Style: style, Kind: kind}
	m.byID[a.ID] = a
	return a
}

// RemoveKind removes every annotation of the given kind (e.g. clearing
// stale diagnostics before republishing a fresh set).
func (m *MarginManager) RemoveKind(kind string) {
	for id, a := range m.byID {
		if a.Kind == kind {
			m.markers.Remove(a.Anchor)
			delete(m.byID, id)
		}
	}
}

// Clear removes every annotation.
func (m *MarginManager) Clear() {
	for _, a := range m.byID {
		m.markers.Remove(a.Anchor)
	}
	m.byID = map[uint64]*MarginAnnotation{}
}

// ResolvedAnnotation is a MarginAnnotation with its anchor resolved.
type ResolvedAnnotation struct {
	MarginAnnotation
	Offset int64
}

// Visible returns every annotation anchored in [viewStart, viewEnd).
func (m *MarginManager) Visible(viewStart, viewEnd int64) []ResolvedAnnotation {
	var out []ResolvedAnnotation
	for _, a := range m.byID {
		off, ok := m.markers.Position(a.Anchor)
		if !ok || off < viewStart || off >= viewEnd {
			continue
		}
		out = append(out, ResolvedAnnotation{MarginAnnotation: *a, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}
