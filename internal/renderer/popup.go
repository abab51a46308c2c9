package renderer

import (
	"context"
	"fmt"

	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/viewport"
)

// PopupView renders the topmost entry of an editor.PopupStack, anchored at
// its buffer position via ResolveOverlayLayout (completion/signature-help
// anchor bottom-left of the cursor, §4.4 "Quick suggestions"; hover anchors
// above it since it would otherwise obscure the line being inspected).
type PopupView struct {
	Theme overlay.Theme
}

// Render returns the popup's lines plus its (row, col) origin in the split's
// content rectangle, or ok=false if no popup is showing.
func (pv PopupView) Render(sv *viewport.SplitView, termW, termH int) (lines []string, row, col int, ok bool) {
	popup, has := sv.State.Popups.Top()
	if !has {
		return nil, 0, 0, false
	}

	ctx := context.Background()
	pos, posOK := sv.State.Tree.OffsetToPosition(ctx, popup.Anchor)
	anchorRow, anchorCol := 0, 0
	if posOK {
		lineStart, lsOK := sv.State.Tree.LineStartOffset(ctx, pos.Line)
		if lsOK {
			lineBytes, err := sv.State.Tree.GetTextRange(ctx, lineStart, pos.Column)
			if err == nil {
				anchorCol = viewport.ColumnForByteOffset(lineBytes, len(lineBytes)) - sv.View.LeftColumn + sv.GutterWidth(ctx)
			}
		}
		anchorRow = int(pos.Line-posToTopLine(ctx, sv)) + 1 // +1 for the tab bar row
	}

	body := renderPopupBody(popup, pv.Theme)
	opts := popupOverlayOptions(popup, anchorRow, anchorCol)
	width, r, c, maxH, maxHSet := ResolveOverlayLayout(opts, len(body), termW, termH)
	if maxHSet && len(body) > maxH {
		body = body[:maxH]
	}
	for i, l := range body {
		if viewport.DisplayWidth(l) > width {
			end := viewport.ByteOffsetForColumn([]byte(l), width)
			body[i] = l[:end]
		}
	}
	return body, r, c, true
}

func posToTopLine(ctx context.Context, sv *viewport.SplitView) int64 {
	topPos, ok := sv.State.Tree.OffsetToPosition(ctx, sv.View.TopByte)
	if !ok {
		return 0
	}
	return topPos.Line
}

func popupOverlayOptions(popup editor.Popup, anchorRow, anchorCol int) OverlayOptions {
	if popup.Kind == editor.PopupHover {
		return OverlayOptions{
			Row: SizeAbs(max(0, anchorRow-1)),
			Col: SizeAbs(anchorCol),
		}
	}
	return OverlayOptions{
		Row: SizeAbs(anchorRow + 1),
		Col: SizeAbs(anchorCol),
	}
}

func renderPopupBody(popup editor.Popup, theme overlay.Theme) []string {
	normal := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground", BgKey: "selection"}, theme)
	selected := overlay.Resolve(overlay.ThemedStyle{FgKey: "accent", BgKey: "selection"}, theme).Bold(true)

	if len(popup.Items) == 0 {
		return []string{normal.Render(" (no items) ")}
	}
	lines := make([]string, len(popup.Items))
	for i, item := range popup.Items {
		label := fmt.Sprintf(" %s", item.Label)
		if item.Detail != "" {
			label += "  " + item.Detail
		}
		sty := normal
		if i == popup.Selected {
			sty = selected
		}
		lines[i] = sty.Render(label)
	}
	return lines
}
