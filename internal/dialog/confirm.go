package dialog

// ConfirmChoice is the outcome of an unsaved-changes confirmation (§2
// component K "unsaved-change confirmation").
type ConfirmChoice int

const (
	ConfirmPending ConfirmChoice = iota
	ConfirmSave
	ConfirmDiscard
	ConfirmCancel
)

// UnsavedChangesPrompt gates a buffer-destroying action (closing a tab,
// quitting) behind a three-way choice. It is a Dialog so Stack can nest it
// above whatever raised it (e.g. the file-open dialog closing over a dirty
// buffer).
type UnsavedChangesPrompt struct {
	Path     string
	Choice   ConfirmChoice
	focused  bool
	selected int // index into options, for keyboard navigation
}

var confirmOptions = []ConfirmChoice{ConfirmSave, ConfirmDiscard, ConfirmCancel}

func NewUnsavedChangesPrompt(path string) *UnsavedChangesPrompt {
	return &UnsavedChangesPrompt{Path: path, Choice: ConfirmPending}
}

func (p *UnsavedChangesPrompt) Focus() { p.focused = true }
func (p *UnsavedChangesPrompt) Blur()  { p.focused = false }

// Next/Prev move the keyboard selection among Save/Discard/Cancel.
func (p *UnsavedChangesPrompt) Next() {
	p.selected = (p.selected + 1) % len(confirmOptions)
}

func (p *UnsavedChangesPrompt) Prev() {
	p.selected--
	if p.selected < 0 {
		p.selected = len(confirmOptions) - 1
	}
}

// Selected returns the currently highlighted option, for rendering.
func (p *UnsavedChangesPrompt) Selected() ConfirmChoice {
	return confirmOptions[p.selected]
}

// Confirm commits the highlighted option as the final Choice.
func (p *UnsavedChangesPrompt) Confirm() ConfirmChoice {
	p.Choice = p.Selected()
	return p.Choice
}

// Cancel is the Escape-key shortcut straight to ConfirmCancel, bypassing
// whatever option is currently highlighted.
func (p *UnsavedChangesPrompt) Cancel() ConfirmChoice {
	p.Choice = ConfirmCancel
	return p.Choice
}
