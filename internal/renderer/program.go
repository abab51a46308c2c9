package renderer

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/freshedit/fresh/internal/config"
	"github.com/freshedit/fresh/internal/dialog"
	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/piecetree"
	"github.com/freshedit/fresh/internal/vfs"
	"github.com/freshedit/fresh/internal/viewport"
)

// Program is the single tea.Model driving the whole editor: it owns the
// split tree, the status line, the theme, and dispatches key/mouse events to
// the focused leaf. Everything under internal/renderer composes beneath it
// the way the teacher's pitui.Component tree composed beneath one pitui.TUI.
type Program struct {
	cfg *config.Config

	root     *SplitNode
	focused  *SplitNode
	status   *StatusLine
	theme    overlay.Theme
	popups   PopupView

	dialogs dialog.Stack
	fs      vfs.FileSystem

	width, height int
	quitting      bool
}

// NewProgram builds a Program over a single already-open buffer, the
// starting point cmd/fresh hands off to after loading the first file.
func NewProgram(cfg *config.Config, path string, initial []byte) *Program {
	theme := themeFromConfig(cfg)
	state := editor.New(piecetree.New(initial))
	sv := viewport.NewSplitView(state)
	root := NewLeaf(sv, theme)

	return &Program{
		cfg:     cfg,
		root:    root,
		focused: root,
		status:  &StatusLine{Path: path, Theme: theme},
		theme:   theme,
		popups:  PopupView{Theme: theme},
		fs:      vfs.Std{},
	}
}

func themeFromConfig(cfg *config.Config) overlay.Theme {
	colors := make(map[string]lipgloss.Color, 8)
	for k, v := range cfg.ThemeColors() {
		colors[k] = lipgloss.Color(v)
	}
	return overlay.Theme{Colors: colors}
}

func (p *Program) Init() tea.Cmd {
	p.focused.Pane.SetFocused(true)
	return nil
}

func (p *Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = m.Width, m.Height
		return p, nil
	case tea.KeyPressMsg:
		return p.handleKey(m)
	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		if leaf, handled := p.root.Dispatch(msg); handled && leaf != nil {
			p.refocus(leaf)
		}
		return p, nil
	}
	return p, nil
}

func (p *Program) refocus(leaf *SplitNode) {
	if leaf == p.focused {
		return
	}
	p.focused.Pane.SetFocused(false)
	p.focused = leaf
	p.focused.Pane.SetFocused(true)
}

func (p *Program) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if top, ok := p.dialogs.Top(); ok {
		return p.handleDialogKey(top, msg)
	}
	if action, ok := ResolveAction(p.cfg, msg); ok {
		return p.dispatchAction(action)
	}
	p.insertText(msg)
	return p, nil
}

// handleDialogKey routes a key press to whichever dialog is on top of the
// stack; each dialog type owns its own small key vocabulary rather than the
// program's keybindings layer, since dialogs are transient and modal.
func (p *Program) handleDialogKey(top dialog.Dialog, msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch d := top.(type) {
	case *dialog.FileOpenDialog:
		switch msg.Keystroke() {
		case "esc":
			p.dialogs.Pop()
		case "enter":
			p.dialogs.Pop()
		case "backspace":
			if q := d.Query; q != "" {
				d.SetQuery(q[:len(q)-1])
			}
		default:
			if msg.Text != "" {
				d.SetQuery(d.Query + msg.Text)
			}
		}
	case *dialog.UnsavedChangesPrompt:
		switch msg.Keystroke() {
		case "esc":
			d.Cancel()
			p.dialogs.Pop()
		case "enter":
			d.Confirm()
			p.dialogs.Pop()
		case "up", "left":
			d.Prev()
		case "down", "right", "tab":
			d.Next()
		}
	case *dialog.SettingsDialog:
		switch msg.Keystroke() {
		case "esc":
			p.dialogs.Pop()
		case "up":
			d.Prev()
		case "down":
			d.Next()
		}
	}
	return p, nil
}

func (p *Program) dispatchAction(action Action) (tea.Model, tea.Cmd) {
	switch action {
	case ActionQuit:
		p.quitting = true
		return p, tea.Quit
	case ActionUndo:
		_, _ = p.focused.Pane.Split.State.Undo(context.Background())
		_ = p.focused.Pane.Split.SyncToCursor(context.Background())
		return p, nil
	case ActionRedo:
		_, _ = p.focused.Pane.Split.State.Redo(context.Background())
		_ = p.focused.Pane.Split.SyncToCursor(context.Background())
		return p, nil
	case ActionSplitRight:
		sv := viewport.NewSplitView(p.focused.Pane.Split.State)
		p.focused.Split(SplitHorizontal, sv, p.theme)
		return p, nil
	case ActionOpenFile:
		ctx := context.Background()
		d := dialog.NewFileOpenDialog(p.fs, ".")
		d.Open(ctx, ".")
		d.Shortcuts = dialog.ResolveShortcuts(ctx, p.fs, []dialog.Shortcut{
			{Label: "parent", Path: ".."},
			{Label: "home", Path: os.Getenv("HOME")},
		})
		p.dialogs.Push(d)
		return p, nil
	default:
		return p, nil
	}
}

func (p *Program) insertText(msg tea.KeyPressMsg) {
	if msg.Text == "" {
		return
	}
	sv := p.focused.Pane.Split
	primary, ok := sv.State.Cursors.Primary()
	if !ok {
		return
	}
	_ = sv.State.Apply(context.Background(), editor.Insert{
		CursorID: primary.ID,
		Position: primary.Position,
		Text:     msg.Text,
	})
	_ = sv.SyncToCursor(context.Background())
}

func (p *Program) View() string {
	contentHeight := p.height - 1
	if contentHeight < 0 {
		contentHeight = 0
	}
	lines := p.root.Render(RenderContext{Width: p.width, Height: contentHeight})
	p.overlayPopup(lines)
	p.overlayDialog(lines)
	lines = append(lines, p.status.Render(p.focused.Pane.Split, p.width))
	return joinLines(lines)
}

// overlayDialog splices the topmost dialog's rendering centered over lines,
// via the same ResolveOverlayLayout math the popup overlay uses.
func (p *Program) overlayDialog(lines []string) {
	top, ok := p.dialogs.Top()
	if !ok {
		return
	}
	var body []string
	switch d := top.(type) {
	case *dialog.FileOpenDialog:
		body = renderFileOpenDialog(d, p.theme)
	case *dialog.UnsavedChangesPrompt:
		body = renderUnsavedChangesPrompt(d, p.theme)
	case *dialog.SettingsDialog:
		body = renderSettingsDialog(d, p.theme)
	}
	if len(body) == 0 {
		return
	}
	opts := OverlayOptions{Anchor: AnchorCenter, Width: SizePct(60), MaxHeight: SizePct(60)}
	width, row, col, maxH, maxHSet := ResolveOverlayLayout(opts, len(body), p.width, len(lines))
	if maxHSet && len(body) > maxH {
		body = body[:maxH]
	}
	for i, l := range body {
		r := row + i
		if r < 0 || r >= len(lines) {
			continue
		}
		if viewport.DisplayWidth(l) > width {
			end := viewport.ByteOffsetForColumn([]byte(l), width)
			l = l[:end]
		}
		lines[r] = spliceAt(lines[r], col, l)
	}
}

// overlayPopup splices the focused split's topmost popup (if any) over
// lines in place, at the row/col ResolveOverlayLayout anchored it to.
func (p *Program) overlayPopup(lines []string) {
	body, row, col, ok := p.popups.Render(p.focused.Pane.Split, p.width, len(lines))
	if !ok {
		return
	}
	for i, l := range body {
		r := row + i
		if r < 0 || r >= len(lines) {
			continue
		}
		lines[r] = spliceAt(lines[r], col, l)
	}
}

// spliceAt overwrites base starting at display column col with overlay,
// using byte offsets (not rune indices) so multi-byte runes in either
// string stay intact.
func spliceAt(base string, col int, ovl string) string {
	start := viewport.ByteOffsetForColumn([]byte(base), col)
	if start > len(base) {
		start = len(base)
	}
	end := viewport.ByteOffsetForColumn([]byte(base), col+viewport.DisplayWidth(ovl))
	if end > len(base) {
		end = len(base)
	}
	return base[:start] + ovl + base[end:]
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// Run starts the bubbletea program with the alt screen and full mouse
// motion reporting the split tree's hover tracking (tab close buttons,
// scrollbar drags) needs.
func Run(p *Program) error {
	prog := tea.NewProgram(p, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := prog.Run()
	return err
}
