package renderer

import (
	tea "charm.land/bubbletea/v2"

	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/viewport"
)

// SplitOrientation is how a SplitNode divides its rectangle between its two
// children.
type SplitOrientation int

const (
	SplitHorizontal SplitOrientation = iota // side by side, divided by a vertical bar
	SplitVertical                           // stacked, divided by a horizontal bar
)

// SplitNode is one node of the editor's split tree: either a leaf wrapping
// a single Pane, or an interior node dividing its rectangle between two
// children at Ratio (first child's share, 0 < Ratio < 1).
type SplitNode struct {
	Pane *Pane // non-nil iff this is a leaf

	Orientation SplitOrientation
	Ratio       float64
	First       *SplitNode
	Second      *SplitNode

	rect rect // last rectangle this node was laid out into
}

type rect struct {
	x, y, w, h int
}

// NewLeaf wraps sv in a new single-pane split tree.
func NewLeaf(sv *viewport.SplitView, theme overlay.Theme) *SplitNode {
	return &SplitNode{Pane: NewPane(sv, theme)}
}

// Split divides the leaf n into two, putting a new pane over sv in the
// second half (§2 component J "editor split tree"; spec's keybindings
// section names split_right, the horizontal case).
func (n *SplitNode) Split(orientation SplitOrientation, sv *viewport.SplitView, theme overlay.Theme) {
	if n.Pane == nil {
		return
	}
	first := &SplitNode{Pane: n.Pane}
	second := NewLeaf(sv, theme)
	n.Pane = nil
	n.Orientation = orientation
	n.Ratio = 0.5
	n.First = first
	n.Second = second
}

// Leaves returns every leaf node in left-to-right, top-to-bottom order.
func (n *SplitNode) Leaves() []*SplitNode {
	if n == nil {
		return nil
	}
	if n.Pane != nil {
		return []*SplitNode{n}
	}
	return append(n.First.Leaves(), n.Second.Leaves()...)
}

// Layout recomputes every node's rectangle for a ctx.Width x ctx.Height
// root area.
func (n *SplitNode) Layout(ctx RenderContext) {
	n.layout(rect{0, 0, ctx.Width, ctx.Height})
}

func (n *SplitNode) layout(r rect) {
	n.rect = r
	if n.Pane != nil {
		return
	}
	switch n.Orientation {
	case SplitHorizontal:
		firstW := int(float64(r.w) * n.Ratio)
		n.First.layout(rect{r.x, r.y, firstW, r.h})
		n.Second.layout(rect{r.x + firstW + 1, r.y, r.w - firstW - 1, r.h})
	default:
		firstH := int(float64(r.h) * n.Ratio)
		n.First.layout(rect{r.x, r.y, r.w, firstH})
		n.Second.layout(rect{r.x, r.y + firstH + 1, r.w, r.h - firstH - 1})
	}
}

// Render composites every leaf's rendering into ctx.Width x ctx.Height,
// drawing a one-column/row separator between siblings.
func (n *SplitNode) Render(ctx RenderContext) []string {
	n.Layout(ctx)
	grid := make([][]rune, ctx.Height)
	for i := range grid {
		row := make([]rune, ctx.Width)
		for j := range row {
			row[j] = ' '
		}
		grid[i] = row
	}
	n.paint(grid)
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

func (n *SplitNode) paint(grid [][]rune) {
	if n.Pane != nil {
		lines := n.Pane.Render(RenderContext{Width: n.rect.w, Height: n.rect.h})
		for i, line := range lines {
			y := n.rect.y + i
			if y < 0 || y >= len(grid) {
				continue
			}
			paintRow(grid[y], n.rect.x, n.rect.w, line)
		}
		return
	}
	n.First.paint(grid)
	n.Second.paint(grid)
	if n.Orientation == SplitHorizontal {
		sepX := n.First.rect.x + n.First.rect.w
		for y := n.rect.y; y < n.rect.y+n.rect.h && y < len(grid); y++ {
			if sepX >= 0 && sepX < len(grid[y]) {
				grid[y][sepX] = '│'
			}
		}
	} else {
		sepY := n.First.rect.y + n.First.rect.h
		if sepY >= 0 && sepY < len(grid) {
			for x := n.rect.x; x < n.rect.x+n.rect.w && x < len(grid[sepY]); x++ {
				grid[sepY][x] = '─'
			}
		}
	}
}

func paintRow(row []rune, x, w int, s string) {
	runes := []rune(s)
	for i := 0; i < w && i < len(runes); i++ {
		if x+i >= 0 && x+i < len(row) {
			row[x+i] = runes[i]
		}
	}
}

// HitTest returns the leaf whose rectangle contains (col, row), after a
// Layout call.
func (n *SplitNode) HitTest(col, row int) *SplitNode {
	for _, leaf := range n.Leaves() {
		r := leaf.rect
		if col >= r.x && col < r.x+r.w && row >= r.y && row < r.y+r.h {
			return leaf
		}
	}
	return nil
}

// Dispatch routes a mouse event to the leaf it hit, translating its
// coordinates into that leaf's local rectangle first.
func (n *SplitNode) Dispatch(msg tea.Msg) (*SplitNode, bool) {
	x, y, ok := mouseCoords(msg)
	if !ok {
		return nil, false
	}
	leaf := n.HitTest(x, y)
	if leaf == nil {
		return nil, false
	}
	local := translateMouse(msg, leaf.rect.x, leaf.rect.y)
	return leaf, leaf.Pane.HandleMouse(local)
}

func mouseCoords(msg tea.Msg) (x, y int, ok bool) {
	switch m := msg.(type) {
	case tea.MouseClickMsg:
		return m.X, m.Y, true
	case tea.MouseMotionMsg:
		return m.X, m.Y, true
	case tea.MouseReleaseMsg:
		return m.X, m.Y, true
	case tea.MouseWheelMsg:
		return m.X, m.Y, true
	default:
		return 0, 0, false
	}
}

func translateMouse(msg tea.Msg, dx, dy int) tea.Msg {
	switch m := msg.(type) {
	case tea.MouseClickMsg:
		m.X -= dx
		m.Y -= dy
		return m
	case tea.MouseMotionMsg:
		m.X -= dx
		m.Y -= dy
		return m
	case tea.MouseReleaseMsg:
		m.X -= dx
		m.Y -= dy
		return m
	case tea.MouseWheelMsg:
		m.X -= dx
		m.Y -= dy
		return m
	default:
		return msg
	}
}
