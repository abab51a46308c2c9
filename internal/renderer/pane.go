package renderer

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/viewport"
)

// Pane renders one SplitView's tab bar, gutter, and buffer content — a
// single leaf of the split tree (§3 "SplitView", §2 component J).
type Pane struct {
	Split *viewport.SplitView
	Tabs  *TabBar
	Theme overlay.Theme

	focused bool
}

func NewPane(sv *viewport.SplitView, theme overlay.Theme) *Pane {
	return &Pane{Split: sv, Tabs: NewTabBar(theme), Theme: theme}
}

func (p *Pane) Invalidate() { p.Tabs.Invalidate() }

func (p *Pane) SetFocused(f bool) { p.focused = f }

// Render lays out the tab bar on row 0 and the buffer content (gutter plus
// text) in the remaining ctx.Height-1 rows, embedding CursorMarker at the
// primary cursor's cell when focused (Focusable contract).
func (p *Pane) Render(ctx RenderContext) []string {
	lines := make([]string, 0, ctx.Height)
	lines = append(lines, p.Tabs.Render(RenderContext{Width: ctx.Width, Height: 1})...)

	contentHeight := ctx.Height - 1
	if contentHeight < 0 {
		contentHeight = 0
	}
	p.Split.View.Resize(contentHeight, ctx.Width)

	gctx := context.Background()
	gutterWidth := p.Split.GutterWidth(gctx)
	textWidth := ctx.Width - gutterWidth
	if textWidth < 1 {
		textWidth = 1
	}

	gutterSty := overlay.Resolve(overlay.ThemedStyle{FgKey: "gutter"}, p.Theme)
	textSty := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground"}, p.Theme)

	primaryLine, primaryCol, havePrimary := p.primaryCursorCell(gctx)

	it := p.Split.State.Tree.IterLinesFrom(gctx, p.Split.View.TopByte, contentHeight)
	rendered := 0
	for {
		data, lineNo, ok := it.Next()
		if !ok {
			break
		}
		text := string(data)
		if p.Split.View.LeftColumn > 0 {
			start := viewport.ByteOffsetForColumn(data, p.Split.View.LeftColumn)
			text = text[start:]
		}
		if viewport.DisplayWidth(text) > textWidth {
			end := viewport.ByteOffsetForColumn([]byte(text), textWidth)
			text = text[:end]
		}
		if p.focused && havePrimary && lineNo == primaryLine {
			text = insertCursorMarker(text, primaryCol)
		}
		gutter := fmt.Sprintf("%*d ", gutterWidth-1, lineNo+1)
		lines = append(lines, gutterSty.Render(gutter)+textSty.Render(text))
		rendered++
	}
	for ; rendered < contentHeight; rendered++ {
		lines = append(lines, strings.Repeat(" ", gutterWidth)+"~")
	}
	return lines
}

// primaryCursorCell resolves the primary cursor's (line, display column),
// used to splice CursorMarker into the rendered line at the right byte
// position — Render can't just track a row/col pair because wide glyphs
// make byte offset and display column diverge.
func (p *Pane) primaryCursorCell(ctx context.Context) (line int64, col int, ok bool) {
	primary, ok := p.Split.State.Cursors.Primary()
	if !ok {
		return 0, 0, false
	}
	pos, ok := p.Split.State.Tree.OffsetToPosition(ctx, primary.Position)
	if !ok {
		return 0, 0, false
	}
	lineStart, ok := p.Split.State.Tree.LineStartOffset(ctx, pos.Line)
	if !ok {
		return 0, 0, false
	}
	lineBytes, err := p.Split.State.Tree.GetTextRange(ctx, lineStart, pos.Column)
	if err != nil {
		return 0, 0, false
	}
	return pos.Line, viewport.ColumnForByteOffset(lineBytes, len(lineBytes)) - p.Split.View.LeftColumn, true
}

func insertCursorMarker(line string, col int) string {
	if col < 0 {
		return CursorMarker + line
	}
	idx := viewport.ByteOffsetForColumn([]byte(line), col)
	if idx > len(line) {
		idx = len(line)
	}
	return line[:idx] + CursorMarker + line[idx:]
}

// HandleKey feeds a key press to the editing layer; the program owns the
// actual command dispatch (§2 component H), so Pane itself only reports
// whether it's the right target (it always is, when focused).
func (p *Pane) HandleKey(msg tea.KeyPressMsg) bool {
	return p.focused
}

// HandleMouse bubbles wheel scrolling to the split's viewport and clicks
// into the tab bar; a click in the content area just changes focus, which
// the program (owning the split tree) handles by comparing hit position.
func (p *Pane) HandleMouse(msg tea.Msg) bool {
	switch m := msg.(type) {
	case tea.MouseWheelMsg:
		delta := int64(3)
		if m.Button == tea.MouseWheelUp {
			delta = -delta
		}
		_ = p.Split.ScrollWheel(context.Background(), delta)
		return true
	default:
		return p.Tabs.HandleMouse(msg)
	}
}
