package renderer

import (
	"fmt"

	"github.com/freshedit/fresh/internal/dialog"
	"github.com/freshedit/fresh/internal/overlay"
)

// renderFileOpenDialog draws the query line, a loading indicator, then the
// scored listing, dimming entries scoreAndFilter marked as no-match
// (§4.8 "no match (dimmed, kept visible)").
func renderFileOpenDialog(d *dialog.FileOpenDialog, theme overlay.Theme) []string {
	normal := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground", BgKey: "background"}, theme)
	dimmed := overlay.Resolve(overlay.ThemedStyle{FgKey: "gutter", BgKey: "background"}, theme)
	selected := overlay.Resolve(overlay.ThemedStyle{FgKey: "accent", BgKey: "selection"}, theme).Bold(true)

	lines := []string{normal.Render(fmt.Sprintf(" Open: %s ", d.Dir())), normal.Render(" " + d.Query + "_ ")}
	if d.Loading {
		lines = append(lines, dimmed.Render(" loading… "))
		return lines
	}
	for i, e := range d.Entries {
		label := e.Name
		if e.IsDir {
			label += "/"
		}
		sty := normal
		switch {
		case i == d.Cursor:
			sty = selected
		case e.Dimmed():
			sty = dimmed
		}
		lines = append(lines, sty.Render(" "+label+" "))
	}
	if len(d.Entries) == 0 {
		lines = append(lines, dimmed.Render(" (empty) "))
	}
	return lines
}

func renderUnsavedChangesPrompt(p *dialog.UnsavedChangesPrompt, theme overlay.Theme) []string {
	normal := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground", BgKey: "background"}, theme)
	selected := overlay.Resolve(overlay.ThemedStyle{FgKey: "accent", BgKey: "selection"}, theme).Bold(true)

	labels := map[dialog.ConfirmChoice]string{
		dialog.ConfirmSave:    "Save",
		dialog.ConfirmDiscard: "Discard",
		dialog.ConfirmCancel:  "Cancel",
	}
	lines := []string{normal.Render(fmt.Sprintf(" %s has unsaved changes ", p.Path))}
	for _, choice := range []dialog.ConfirmChoice{dialog.ConfirmSave, dialog.ConfirmDiscard, dialog.ConfirmCancel} {
		sty := normal
		if choice == p.Selected() {
			sty = selected
		}
		lines = append(lines, sty.Render(" "+labels[choice]+" "))
	}
	return lines
}

func renderSettingsDialog(d *dialog.SettingsDialog, theme overlay.Theme) []string {
	normal := overlay.Resolve(overlay.ThemedStyle{FgKey: "foreground", BgKey: "background"}, theme)
	selected := overlay.Resolve(overlay.ThemedStyle{FgKey: "accent", BgKey: "selection"}, theme).Bold(true)

	lines := []string{normal.Render(" Settings ")}
	for i, row := range d.Rows {
		sty := normal
		if i == d.Cursor {
			sty = selected
		}
		lines = append(lines, sty.Render(fmt.Sprintf(" %s (--%s) = %v ", row.Path, row.FlagName, row.Value)))
	}
	return lines
}
