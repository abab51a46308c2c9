package config

// systemDefaults returns the built-in settings tree, the lowest-precedence
// layer. Every dotted path the editor reads via Get should have an entry
// here so a fresh install behaves sensibly with no user or project config.
func systemDefaults() tree {
	return tree{
		"editor": map[string]any{
			"quick_suggestions":           true,
			"quick_suggestions_delay_ms":  int64(250),
			"large_file_threshold_bytes":  int64(10 << 20),
			"tab_width":                   int64(4),
			"insert_spaces":               true,
			"trim_trailing_whitespace":    false,
			"scroll_off":                  int64(3),
		},
		"languages": map[string]any{},
		"theme": map[string]any{
			"name": "default-dark",
			"colors": map[string]any{
				"foreground": "#e6e6e6",
				"background": "#1e1e1e",
				"accent":     "#61afef",
				"error":      "#e06c75",
				"warning":    "#e5c07b",
				"info":       "#56b6c2",
				"gutter":     "#5c6370",
				"selection":  "#3e4451",
			},
		},
		"keybindings": map[string]any{
			"save":        "ctrl+s",
			"quit":        "ctrl+q",
			"find":        "ctrl+f",
			"replace":     "ctrl+h",
			"go_to_line":  "ctrl+g",
			"open_file":   "ctrl+o",
			"close_tab":   "ctrl+w",
			"next_tab":    "ctrl+tab",
			"prev_tab":    "ctrl+shift+tab",
			"split_right": "ctrl+\\",
			"undo":        "ctrl+z",
			"redo":        "ctrl+y",
		},
	}
}

// LanguageServerConfig is the shape of languages.<id>.lsp in any layer.
type LanguageServerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	RootDir string   `toml:"root_dir"`
	// AutoStart gates try_spawn (§4.6 "Spawning policy"); defaults to true
	// so a language entry with no explicit auto_start still spawns.
	AutoStart bool `toml:"auto_start"`
}

// LanguageServer returns the configured server for a language id, if one
// has been set in any layer.
func (c *Config) LanguageServer(languageID string) (LanguageServerConfig, bool) {
	v, _, ok := c.Get("languages." + languageID + ".lsp")
	if !ok {
		return LanguageServerConfig{}, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return LanguageServerConfig{}, false
	}
	lsc := LanguageServerConfig{AutoStart: true}
	if s, ok := m["command"].(string); ok {
		lsc.Command = s
	}
	if s, ok := m["root_dir"].(string); ok {
		lsc.RootDir = s
	}
	if raw, ok := m["args"].([]any); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				lsc.Args = append(lsc.Args, s)
			}
		}
	}
	if b, ok := m["auto_start"].(bool); ok {
		lsc.AutoStart = b
	}
	return lsc, true
}

// Keybinding returns the chord bound to action, falling back to the
// system default if no layer overrides it.
func (c *Config) Keybinding(action string) (string, bool) {
	v, _, ok := c.Get("keybindings." + action)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ActionForKeybinding reverse-looks-up action by chord, for the renderer's
// key dispatch (a key press arrives as a chord string; the editor needs to
// know what it means).
func (c *Config) ActionForKeybinding(chord string) (string, bool) {
	for action := range systemDefaults()["keybindings"].(map[string]any) {
		if bound, ok := c.Keybinding(action); ok && bound == chord {
			return action, true
		}
	}
	return "", false
}

// ThemeColors returns the active theme's named color palette as plain
// hex strings, keyed the same way overlay.ThemedStyle's FgKey/BgKey
// address it. Returned as strings (not lipgloss.Color) so this package
// doesn't need to depend on lipgloss — the renderer converts at the
// boundary where it builds an overlay.Theme.
func (c *Config) ThemeColors() map[string]string {
	v, _, ok := c.Get("theme.colors")
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, raw := range m {
		if s, ok := raw.(string); ok {
			out[k] = s
		}
	}
	return out
}
