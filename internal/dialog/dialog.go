// Package dialog implements the focus model and state machines for the
// editor's transient modal surfaces: the file-open dialog (§4.8) and the
// settings dialog and unsaved-changes confirmation named in §2 component K.
// None of these own their own rendering — internal/renderer draws them the
// same way it draws an internal/editor.Popup, via ResolveOverlayLayout.
package dialog

// Dialog is any modal surface the Stack can hold. Blur/Focus let a dialog
// suspend input handling (e.g. dim itself) without losing its state while a
// nested dialog (an unsaved-changes confirm raised from within the file-open
// dialog's "overwrite?" case) is on top of it.
type Dialog interface {
	Focus()
	Blur()
}

// Stack is a LIFO nesting of dialogs: opening a new one suspends whatever
// was on top rather than replacing it, so closing the new one resumes
// exactly where the caller left off. This mirrors the editor's
// editor.PopupStack shape (§4.4) but is kept as a separate type since
// dialogs are session-level UI state, not per-buffer.
type Stack struct {
	entries []Dialog
}

// Push suspends the current top (if any) and raises d above it.
func (s *Stack) Push(d Dialog) {
	if top, ok := s.Top(); ok {
		top.Blur()
	}
	s.entries = append(s.entries, d)
	d.Focus()
}

// Pop closes the current top and resumes whatever is now on top, if any.
func (s *Stack) Pop() {
	if len(s.entries) == 0 {
		return
	}
	top := s.entries[len(s.entries)-1]
	top.Blur()
	s.entries = s.entries[:len(s.entries)-1]
	if newTop, ok := s.Top(); ok {
		newTop.Focus()
	}
}

// Top returns the currently focused dialog, if any.
func (s *Stack) Top() (Dialog, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len reports how deep the stack is nested.
func (s *Stack) Len() int { return len(s.entries) }

// Empty reports whether no dialog is open.
func (s *Stack) Empty() bool { return len(s.entries) == 0 }
