// Package overlay implements the decoration collections keyed by markers
// (§3 "Overlay", "Virtual Text"; §2 component C): stacked highlight faces,
// inline virtual text, and gutter/margin annotations, all anchored to
// marker.ID handles so they track edits without the renderer needing to
// know about byte offsets at all.
package overlay

import (
	"sort"

	"charm.land/lipgloss/v2"

	"github.com/freshedit/fresh/internal/marker"
)

// Face is the sum type of renderable decoration styles (§3 "Overlay").
// Concrete types below are its only implementations.
type Face interface{ isFace() }

// Underline draws an underline in color with the given style.
type Underline struct {
	Color lipgloss.Color
	Style UnderlineStyle
}

func (Underline) isFace() {}

// UnderlineStyle mirrors the handful of underline renderings terminals
// actually support.
type UnderlineStyle int

const (
	UnderlineStraight UnderlineStyle = iota
	UnderlineCurly
	UnderlineDashed
)

// Background paints the cell background.
type Background struct{ Color lipgloss.Color }

func (Background) isFace() {}

// Foreground paints the cell foreground.
type Foreground struct{ Color lipgloss.Color }

func (Foreground) isFace() {}

// Style is a fully custom combination of attributes.
type Style struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Bold       bool
	Italic     bool
	Underline  bool
}

func (Style) isFace() {}

// ThemedStyle resolves its colors from named theme keys at render time,
// falling back to Fallback if the active theme doesn't define them —
// theme resolution itself is an external collaborator (§1 "Out of
// scope"), so this overlay only carries the keys.
type ThemedStyle struct {
	Fallback Style
	FgKey    string
	BgKey    string
}

func (ThemedStyle) isFace() {}

// Overlay is one decoration spanning [start-marker, end-marker).
type Overlay struct {
	ID              uint64
	Start           marker.ID
	End             marker.ID
	Face            Face
	Priority        int
	Namespace       string
	Message         string
	ExtendToLineEnd bool
}

// Manager owns every overlay for one buffer, keyed by the markers that
// anchor their span.
type Manager struct {
	markers *marker.List
	byID    map[uint64]*Overlay
	nextID  uint64
}

// NewManager returns an overlay Manager anchored on the given buffer's
// marker list.
func NewManager(markers *marker.List) *Manager {
	return &Manager{markers: markers, byID: map[uint64]*Overlay{}}
}

// Add creates an overlay spanning [start, end) with the given face and
// returns it (its ID field identifies it). Start uses left gravity (doesn't expand on insertion at
// its position), end uses right gravity (expands), matching §3's default
// bias for overlay anchors.
func (m *Manager) Add(start, end int64, face Face, priority int, namespace string) *Overlay {
	startMarker := m.markers.Create(start, marker.GravityLeft)
	endMarker := m.markers.Create(end, marker.GravityRight)
	m.nextID++
	o := &Overlay{
		ID: m.nextID, Start: startMarker, End: endMarker,
		Face: face, Priority: priority, Namespace: namespace,
	}
	m.byID[o.ID] = o
	return o
}

// Remove deletes one overlay by id, releasing its markers.
func (m *Manager) Remove(id uint64) {
	o, ok := m.byID[id]
	if !ok {
		return
	}
	m.markers.Remove(o.Start)
	m.markers.Remove(o.End)
	delete(m.byID, id)
}

// RemoveInRange removes every overlay whose start marker currently falls
// within [start, end).
func (m *Manager) RemoveInRange(start, end int64) {
	for id, o := range m.byID {
		pos, ok := m.markers.Position(o.Start)
		if ok && pos >= start && pos < end {
			m.markers.Remove(o.Start)
			m.markers.Remove(o.End)
			delete(m.byID, id)
		}
	}
}

// ClearNamespace removes every overlay tagged with namespace (e.g. a
// specific diagnostic source clearing its own markers before republishing).
func (m *Manager) ClearNamespace(namespace string) {
	for id, o := range m.byID {
		if o.Namespace == namespace {
			m.markers.Remove(o.Start)
			m.markers.Remove(o.End)
			delete(m.byID, id)
		}
	}
}

// Clear removes every overlay.
func (m *Manager) Clear() {
	for id := range m.byID {
		o := m.byID[id]
		m.markers.Remove(o.Start)
		m.markers.Remove(o.End)
	}
	m.byID = map[uint64]*Overlay{}
}

// Resolved is an overlay with its markers resolved to current byte
// offsets, ready for the renderer.
type Resolved struct {
	Overlay
	StartOffset int64
	EndOffset   int64
}

// Visible returns every overlay intersecting [viewStart, viewEnd),
// ordered ascending by Priority so higher-priority faces paint last (on
// top) in the renderer's straightforward left-to-right compose.
func (m *Manager) Visible(viewStart, viewEnd int64) []Resolved {
	var out []Resolved
	for _, o := range m.byID {
		startOff, ok1 := m.markers.Position(o.Start)
		endOff, ok2 := m.markers.Position(o.End)
		if !ok1 || !ok2 {
			continue
		}
		if endOff <= viewStart || startOff >= viewEnd {
			continue
		}
		out = append(out, Resolved{Overlay: *o, StartOffset: startOff, EndOffset: endOff})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
