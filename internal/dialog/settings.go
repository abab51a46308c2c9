package dialog

import (
	"sort"

	"github.com/freshedit/fresh/internal/config"
)

// SettingRow is one editable entry in the settings dialog: a dotted config
// path alongside the flag name cmd/fresh would accept for the same setting
// (internal/config.FlagPath's kebab-case form), so the dialog can show users
// the CLI-equivalent for whatever they're changing interactively.
type SettingRow struct {
	Path     string // e.g. "editor.tab_width"
	FlagName string // e.g. "editor.tab-width"
	Value    any
}

// SettingsDialog lists every known setting path and lets the session layer
// override one at a time (§2 component K "settings dialog").
type SettingsDialog struct {
	cfg     *config.Config
	Rows    []SettingRow
	Cursor  int
	focused bool
}

// paths enumerated here are the ones systemDefaults (defaults.go) declares; new
// settings need an entry added both there and here to appear in the dialog.
var knownSettingPaths = []string{
	"editor.quick_suggestions",
	"editor.quick_suggestions_delay_ms",
	"editor.large_file_threshold_bytes",
	"editor.tab_width",
	"editor.insert_spaces",
	"editor.trim_trailing_whitespace",
	"editor.scroll_off",
	"theme.name",
}

func NewSettingsDialog(cfg *config.Config) *SettingsDialog {
	d := &SettingsDialog{cfg: cfg}
	d.Reload()
	return d
}

func (d *SettingsDialog) Focus() { d.focused = true }
func (d *SettingsDialog) Blur()  { d.focused = false }

// Reload re-reads every known path's current merged value, for opening the
// dialog fresh or after an external config file change.
func (d *SettingsDialog) Reload() {
	rows := make([]SettingRow, 0, len(knownSettingPaths))
	for _, path := range knownSettingPaths {
		v, _, _ := d.cfg.Get(path)
		rows = append(rows, SettingRow{
			Path:     path,
			FlagName: config.FlagPath(path),
			Value:    v,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	d.Rows = rows
}

// Set writes value to the session layer for the row at Cursor and reloads.
func (d *SettingsDialog) Set(value any) error {
	if d.Cursor < 0 || d.Cursor >= len(d.Rows) {
		return nil
	}
	row := d.Rows[d.Cursor]
	if err := d.cfg.Set(config.LayerSession, row.Path, value); err != nil {
		return err
	}
	d.Reload()
	return nil
}

func (d *SettingsDialog) Next() {
	if d.Cursor < len(d.Rows)-1 {
		d.Cursor++
	}
}

func (d *SettingsDialog) Prev() {
	if d.Cursor > 0 {
		d.Cursor--
	}
}
