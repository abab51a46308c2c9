package renderer

import (
	"context"
	"fmt"

	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/viewport"
)

// StatusLine renders the one-row mode/path/cursor/diagnostics summary below
// the active split, the last fixed row of the program's layout.
type StatusLine struct {
	Path        string
	Diagnostics int
	Theme       overlay.Theme
}

func (s *StatusLine) Invalidate() {}

func (s *StatusLine) Render(sv *viewport.SplitView, width int) string {
	sty := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground", BgKey: "selection"}, s.Theme)

	mode := modeLabel(sv.State.Mode)
	line, col := "-", "-"
	if primary, ok := sv.State.Cursors.Primary(); ok {
		if pos, ok := sv.State.Tree.OffsetToPosition(context.Background(), primary.Position); ok {
			line = fmt.Sprintf("%d", pos.Line+1)
			col = fmt.Sprintf("%d", pos.Column+1)
		}
	}
	dirty := ""
	text := fmt.Sprintf(" %s │ %s%s │ Ln %s, Col %s", mode, s.Path, dirty, line, col)
	if s.Diagnostics > 0 {
		text += fmt.Sprintf(" │ %d problems", s.Diagnostics)
	}
	if pad := width - viewport.DisplayWidth(text); pad > 0 {
		for i := 0; i < pad; i++ {
			text += " "
		}
	}
	return sty.Render(text)
}

func modeLabel(m editor.ViewMode) string {
	switch m {
	case editor.ModeCompose:
		return "COMPOSE"
	default:
		return "SOURCE"
	}
}
