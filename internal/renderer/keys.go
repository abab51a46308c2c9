package renderer

import (
	tea "charm.land/bubbletea/v2"

	"github.com/freshedit/fresh/internal/config"
)

// Action names the program's Update switches on, resolved from a key chord
// via the active config layer (§6 "config" — keybindings are data, not a
// compiled-in switch).
type Action string

const (
	ActionSave       Action = "save"
	ActionQuit       Action = "quit"
	ActionFind       Action = "find"
	ActionReplace    Action = "replace"
	ActionGoToLine   Action = "go_to_line"
	ActionOpenFile   Action = "open_file"
	ActionCloseTab   Action = "close_tab"
	ActionNextTab    Action = "next_tab"
	ActionPrevTab    Action = "prev_tab"
	ActionSplitRight Action = "split_right"
	ActionUndo       Action = "undo"
	ActionRedo       Action = "redo"
)

// ResolveAction looks msg's chord up against cfg's keybindings layer,
// returning the bound action name, if any.
func ResolveAction(cfg *config.Config, msg tea.KeyPressMsg) (Action, bool) {
	name, ok := cfg.ActionForKeybinding(msg.Keystroke())
	if !ok {
		return "", false
	}
	return Action(name), true
}
