package editor

import "context"

// undoEntry pairs an applied event with its inverse, so redo can re-apply
// the original without recomputing it.
type undoEntry struct {
	forward Event
	inverse Event
}

// undoLog is EditorState's undo/redo stack (§3 "EditorState", §4.3
// "Undo/redo"). Only content-mutating events are invertible and therefore
// recorded; cursor motion, mode changes, and popup/decoration events are
// replayed live but never undone.
type undoLog struct {
	past   []undoEntry
	future []undoEntry
}

// record appends ev's inverse to the undo stack and clears the redo stack,
// mirroring the usual "any new edit discards redo history" rule. Events
// with no defined inverse (cursor motion, decoration, popup, mode events)
// are not recorded.
func (l *undoLog) record(ev Event) {
	inv, ok := invert(ev)
	if !ok {
		return
	}
	l.past = append(l.past, undoEntry{forward: ev, inverse: inv})
	l.future = nil
}

func (l *undoLog) canUndo() bool { return len(l.past) > 0 }
func (l *undoLog) canRedo() bool { return len(l.future) > 0 }

// popUndo removes and returns the most recent undo entry.
func (l *undoLog) popUndo() (undoEntry, bool) {
	if len(l.past) == 0 {
		return undoEntry{}, false
	}
	e := l.past[len(l.past)-1]
	l.past = l.past[:len(l.past)-1]
	l.future = append(l.future, e)
	return e, true
}

// popRedo removes and returns the most recently undone entry.
func (l *undoLog) popRedo() (undoEntry, bool) {
	if len(l.future) == 0 {
		return undoEntry{}, false
	}
	e := l.future[len(l.future)-1]
	l.future = l.future[:len(l.future)-1]
	l.past = append(l.past, e)
	return e, true
}

// invert returns ev's inverse and true if ev is undoable.
func invert(ev Event) (Event, bool) {
	switch e := ev.(type) {
	case Insert:
		return Delete{
			Start:       e.Position,
			End:         e.Position + int64(len(e.Text)),
			DeletedText: e.Text,
			CursorID:    e.CursorID,
		}, true
	case Delete:
		return Insert{
			Position: e.Start,
			Text:     e.DeletedText,
			CursorID: e.CursorID,
		}, true
	case Batch:
		inner := make([]Event, 0, len(e.Events))
		for i := len(e.Events) - 1; i >= 0; i-- {
			inv, ok := invert(e.Events[i])
			if !ok {
				return nil, false
			}
			inner = append(inner, inv)
		}
		return Batch{Events: inner, Description: e.Description}, true
	case BulkEdit:
		return BulkEdit{
			OldTree:     e.NewTree,
			NewTree:     e.OldTree,
			OldCursors:  e.NewCursors,
			NewCursors:  e.OldCursors,
			Description: e.Description,
		}, true
	default:
		return nil, false
	}
}

// Undo reverts the most recent undoable event. It reports false if there
// is nothing to undo.
func (s *EditorState) Undo(ctx context.Context) (bool, error) {
	entry, ok := s.log.popUndo()
	if !ok {
		return false, nil
	}
	if _, err := s.apply(ctx, entry.inverse); err != nil {
		return false, err
	}
	return true, nil
}

// Redo re-applies the most recently undone event. It reports false if
// there is nothing to redo.
func (s *EditorState) Redo(ctx context.Context) (bool, error) {
	entry, ok := s.log.popRedo()
	if !ok {
		return false, nil
	}
	if _, err := s.apply(ctx, entry.forward); err != nil {
		return false, err
	}
	return true, nil
}

// CanUndo/CanRedo report whether Undo/Redo would do anything, for the
// renderer to gray out menu items.
func (s *EditorState) CanUndo() bool { return s.log.canUndo() }
func (s *EditorState) CanRedo() bool { return s.log.canRedo() }
