package renderer

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/viewport"
)

// closeGlyph is the tab's close button, a literal "x" per spec §8
// scenario 6 ("hover over the close x of the first tab").
const closeGlyph = "x"

// Tab is one entry in a TabBar.
type Tab struct {
	Title string
	Dirty bool
}

// TabBar renders one split's row of tabs and tracks which tab's close
// button the mouse currently sits over, so it alone gets the hover
// highlight (spec §8 scenario 6: "the other tab's x does not change").
type TabBar struct {
	Tabs   []Tab
	Active int

	Theme overlay.Theme

	closeCols []closeHitbox // recomputed every Render
	hovered   int           // index into Tabs, -1 if none
	closedTab int           // set by HandleMouse when a close button was clicked, else -1
}

type closeHitbox struct {
	start, end int // [start, end) display columns, inclusive of the glyph only
}

func NewTabBar(theme overlay.Theme) *TabBar {
	return &TabBar{Theme: theme, hovered: -1, closedTab: -1}
}

// TakeClosedTab returns the tab index a close-button click targeted since
// the last call, clearing it.
func (t *TabBar) TakeClosedTab() (int, bool) {
	if t.closedTab < 0 {
		return 0, false
	}
	i := t.closedTab
	t.closedTab = -1
	return i, true
}

func (t *TabBar) Invalidate() {}

// hoverFace is the close button's highlighted foreground: spec §8
// scenario 6 pins this to RGB(~255,~100,~100), a literal value rather
// than a theme key since it is the hover affordance itself, not a
// themeable decoration.
var hoverFace = overlay.Style{Foreground: lipgloss.Color("#ff6464")}

func (t *TabBar) Render(ctx RenderContext) []string {
	t.closeCols = t.closeCols[:0]
	normal := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground"}, t.Theme)
	activeSty := overlay.Resolve(overlay.ThemedStyle{FgKey: "accent"}, t.Theme).Bold(true)
	hoverSty := overlay.Resolve(hoverFace, t.Theme)

	var line string
	col := 0
	for i, tab := range t.Tabs {
		label := tab.Title
		if tab.Dirty {
			label += " ●" // filled circle, unsaved-changes marker
		}
		sty := normal
		if i == t.Active {
			sty = activeSty
		}
		segment := fmt.Sprintf(" %s ", label)
		line += sty.Render(segment)
		col += viewport.DisplayWidth(segment)

		closeStart := col
		closeSty := sty
		if i == t.hovered {
			closeSty = hoverSty
		}
		line += closeSty.Render(closeGlyph)
		col += viewport.DisplayWidth(closeGlyph)
		t.closeCols = append(t.closeCols, closeHitbox{start: closeStart, end: col})

		line += normal.Render("|")
		col++
	}
	if ctx.Width > 0 {
		line = ansiTruncate(line, ctx.Width)
	}
	return []string{line}
}

// HandleMouse implements MouseEnabled. Motion over a close button sets
// hovered to that tab (and only that tab — scenario 6's "the other tab's
// x does not change" is just this replacing hovered wholesale rather than
// accumulating per-tab state); motion elsewhere, or a click, clears or
// acts on it.
func (t *TabBar) HandleMouse(msg tea.Msg) bool {
	switch m := msg.(type) {
	case tea.MouseMotionMsg:
		return t.updateHover(m.X)
	case tea.MouseClickMsg:
		if m.Button != tea.MouseLeft {
			return false
		}
		t.updateHover(m.X)
		if t.hovered >= 0 {
			t.closedTab = t.hovered
			return true
		}
		for i, hb := range t.closeCols {
			if m.X < hb.start {
				t.Active = i
				return true
			}
		}
		return false
	}
	return false
}

func (t *TabBar) updateHover(col int) bool {
	prev := t.hovered
	t.hovered = -1
	for i, hb := range t.closeCols {
		if col >= hb.start && col < hb.end {
			t.hovered = i
			break
		}
	}
	return t.hovered != prev
}

func ansiTruncate(s string, width int) string {
	if viewport.DisplayWidth(s) <= width {
		return s
	}
	// Truncation mid-tab-bar is rare (the terminal would need to be
	// narrower than the tabs need); a hard byte cut is acceptable here
	// since the tab bar degrades to "some tabs invisible" rather than
	// needing grapheme-accurate truncation like buffer content does.
	for len(s) > 0 && viewport.DisplayWidth(s) > width {
		s = s[:len(s)-1]
	}
	return s
}
