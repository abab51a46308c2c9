package editor

import (
	"context"
	"strings"

	"github.com/freshedit/fresh/internal/cursor"
	"github.com/freshedit/fresh/internal/marker"
	"github.com/freshedit/fresh/internal/overlay"
	"github.com/freshedit/fresh/internal/piecetree"
)

// EditorState owns every piece of per-buffer state and is the only thing
// allowed to mutate the tree, cursor set, markers, or decorations — always
// through apply, never directly (§3 "EditorState").
type EditorState struct {
	Tree        *piecetree.Tree
	Cursors     *cursor.Set
	Markers     *marker.List
	Overlays    *overlay.Manager
	VirtualText *overlay.VirtualTextManager
	Margins     *overlay.MarginManager
	Popups      *PopupStack

	Mode                ViewMode
	LanguageID          string
	RelativeLineNumbers bool
	LineNumber          LineNumber
	EditingDisabled     bool
	ShowCursors         bool

	// InvalidateHighlight, if set, is called with the byte range a mutation
	// touched so the highlighter/semantic-token caches can drop stale spans
	// (§2 component I). Left nil until that component is wired in.
	InvalidateHighlight func(start, end int64)

	log undoLog
}

// New builds an EditorState over an already-constructed tree, wiring a
// fresh marker list, cursor set, and decoration managers to it.
func New(tree *piecetree.Tree) *EditorState {
	markers := marker.New()
	cursors := cursor.New()
	cursors.SetBufferLen(tree.Len())
	return &EditorState{
		Tree:        tree,
		Cursors:     cursors,
		Markers:     markers,
		Overlays:    overlay.NewManager(markers),
		VirtualText: overlay.NewVirtualTextManager(markers),
		Margins:     overlay.NewMarginManager(markers),
		Popups:      NewPopupStack(),
		ShowCursors: true,
	}
}

// Apply dispatches ev through the mutation it names, recording an undo
// entry for anything reversible. EditingDisabled suppresses every
// content-mutating event (large-file / read-only buffers, §4.8) while
// still allowing cursor motion and decoration updates through.
func (s *EditorState) Apply(ctx context.Context, ev Event) error {
	if s.EditingDisabled && isContentEvent(ev) {
		return nil
	}
	resolved, err := s.apply(ctx, ev)
	if err != nil {
		return err
	}
	s.log.record(resolved)
	return nil
}

// ApplyRaw performs ev's mutation and returns the resolved event without
// recording it to the undo log. It exists for callers that need to apply a
// sequence of events as one undo step decided only once the sequence ends —
// interactive search/replace (§4.5), which lets each accepted replacement
// land immediately but reverts the whole session on a single undo — via
// CommitBatch once the sequence is known.
func (s *EditorState) ApplyRaw(ctx context.Context, ev Event) (Event, error) {
	if s.EditingDisabled && isContentEvent(ev) {
		return ev, nil
	}
	return s.apply(ctx, ev)
}

// CommitBatch records events (already applied via ApplyRaw, in application
// order) as a single Batch undo entry, without re-executing them.
func (s *EditorState) CommitBatch(events []Event, description string) {
	if len(events) == 0 {
		return
	}
	s.log.record(Batch{Events: events, Description: description})
}

func isContentEvent(ev Event) bool {
	switch ev.(type) {
	case Insert, Delete, BulkEdit:
		return true
	case Batch:
		return true
	default:
		return false
	}
}

// apply performs the mutation ev names and returns the event actually
// applied — identical to ev except for Delete (whose DeletedText gets
// filled in from the tree before the bytes are gone) and Batch (whose
// inner events are each resolved the same way), so the undo log always
// records an event it can invert without re-reading the buffer.
func (s *EditorState) apply(ctx context.Context, ev Event) (Event, error) {
	switch e := ev.(type) {
	case Insert:
		return s.applyInsert(ctx, e)
	case Delete:
		return s.applyDelete(ctx, e)
	case MoveCursor:
		s.Cursors.Move(e.CursorID, e.Position, e.Deselect)
		return e, nil
	case AddCursor:
		s.Cursors.Add(e.Position)
		return e, nil
	case RemoveCursor:
		s.Cursors.Remove(e.CursorID)
		return e, nil
	case SetAnchor:
		s.Cursors.SetAnchor(e.CursorID)
		return e, nil
	case ClearAnchor:
		s.Cursors.ClearAnchor(e.CursorID)
		return e, nil
	case ChangeMode:
		s.Mode = e.Mode
		return e, nil
	case SetLineNumbers:
		s.RelativeLineNumbers = e.Relative
		return e, nil
	case Batch:
		resolved := make([]Event, len(e.Events))
		for i, inner := range e.Events {
			r, err := s.apply(ctx, inner)
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
		return Batch{Events: resolved, Description: e.Description}, nil
	case BulkEdit:
		return s.applyBulkEdit(e)
	case AddOverlay:
		s.Overlays.Add(e.Start, e.End, e.Face, e.Priority, e.Namespace)
		return e, nil
	case RemoveOverlay:
		s.Overlays.Remove(e.ID)
		return e, nil
	case RemoveOverlaysInRange:
		s.Overlays.RemoveInRange(e.Start, e.End)
		return e, nil
	case ClearNamespace:
		s.Overlays.ClearNamespace(e.Namespace)
		return e, nil
	case ClearOverlays:
		s.Overlays.Clear()
		return e, nil
	case AddMarginAnnotation:
		s.Margins.Add(e.Position, e.Glyph, e.Style, e.Kind)
		return e, nil
	case RemoveMarginAnnotationsOfKind:
		s.Margins.RemoveKind(e.Kind)
		return e, nil
	case ShowPopup:
		s.Popups.Push(e.Popup)
		return e, nil
	case HidePopup:
		s.Popups.Pop()
		return e, nil
	case ClearPopups:
		s.Popups.Clear()
		return e, nil
	case PopupSelectNext:
		s.Popups.selectNext()
		return e, nil
	case PopupSelectPrev:
		s.Popups.selectPrev()
		return e, nil
	case PopupPageUp:
		s.Popups.page(-1)
		return e, nil
	case PopupPageDown:
		s.Popups.page(1)
		return e, nil
	default:
		return ev, nil
	}
}

// applyInsert implements the six-step sequence of §4.3 "apply(Insert)":
// adjust markers, mutate the tree, invalidate the highlighter, shift every
// cursor, relocate the emitting cursor past the inserted text, and update
// the cached line number.
func (s *EditorState) applyInsert(ctx context.Context, e Insert) (Event, error) {
	length := int64(len(e.Text))

	s.Markers.AdjustForInsert(e.Position, length)
	if err := s.Tree.Insert(ctx, e.Position, e.Text); err != nil {
		return nil, err
	}
	if s.InvalidateHighlight != nil {
		s.InvalidateHighlight(e.Position, e.Position+length)
	}
	s.Cursors.ShiftForInsert(e.Position, length)
	s.Cursors.Move(e.CursorID, e.Position+length, true)

	s.LineNumber.Line += int64(strings.Count(e.Text, "\n"))
	return e, nil
}

// applyDelete mirrors applyInsert (§4.3 "apply(Delete)": adjust markers,
// mutate the tree, invalidate the highlighter, collapse cursors inside the
// deleted range, move the emitting cursor to the start of the deletion).
func (s *EditorState) applyDelete(ctx context.Context, e Delete) (Event, error) {
	text, err := s.Tree.GetTextRange(ctx, e.Start, e.End-e.Start)
	if err != nil {
		return nil, err
	}
	e.DeletedText = string(text)

	s.Markers.AdjustForDelete(e.Start, e.End)
	if err := s.Tree.Delete(ctx, e.Start, e.End); err != nil {
		return nil, err
	}
	if s.InvalidateHighlight != nil {
		s.InvalidateHighlight(e.Start, e.Start)
	}
	s.Cursors.ShiftForDelete(e.Start, e.End)
	s.Cursors.Move(e.CursorID, e.Start, true)

	s.LineNumber.Line -= int64(strings.Count(e.DeletedText, "\n"))
	return e, nil
}

// applyBulkEdit swaps in a pre-built tree/cursor snapshot in O(1) — how LSP
// rename and "replace all" land hundreds of edits as a single operation
// (§4.3 "apply(BulkEdit)").
func (s *EditorState) applyBulkEdit(e BulkEdit) (Event, error) {
	s.Tree.Restore(e.NewTree)
	s.Cursors.SetBufferLen(s.Tree.Len())
	rebuildCursors(s.Cursors, e.NewCursors)
	if e.Delta != nil {
		s.Markers.AdjustForDelta(e.Delta)
	}
	if s.InvalidateHighlight != nil {
		s.InvalidateHighlight(0, s.Tree.Len())
	}
	s.LineNumber.Exact = false
	return e, nil
}

// SnapshotCursors captures every cursor as plain data, for building the
// OldCursors/NewCursors halves of a BulkEdit event (§4.3 "apply(BulkEdit)").
func (s *EditorState) SnapshotCursors() []cursorSnapshot {
	all := s.Cursors.All()
	out := make([]cursorSnapshot, len(all))
	for i, c := range all {
		cs := cursorSnapshot{ID: c.ID, Position: c.Position}
		if c.Anchor != nil {
			a := *c.Anchor
			cs.Anchor = &a
		}
		out[i] = cs
	}
	return out
}

// TranslateCursorSnapshots maps every snapshot's position/anchor through t,
// for building the NewCursors half of a BulkEdit event from a
// *piecetree.Delta without the caller needing to touch the live cursor set.
func TranslateCursorSnapshots(snaps []cursorSnapshot, t marker.Translator) []cursorSnapshot {
	if t == nil {
		return snaps
	}
	out := make([]cursorSnapshot, len(snaps))
	for i, cs := range snaps {
		out[i] = cursorSnapshot{ID: cs.ID, Position: t.Translate(cs.Position)}
		if cs.Anchor != nil {
			a := t.Translate(*cs.Anchor)
			out[i].Anchor = &a
		}
	}
	return out
}

// rebuildCursors repositions the live cursor set to match snaps, reusing
// existing cursor ids where possible (so an undo immediately after a bulk
// edit restores the same ids the rest of EditorState may reference) rather
// than rebuilding from scratch.
func rebuildCursors(set *cursor.Set, snaps []cursorSnapshot) {
	if len(snaps) == 0 {
		return
	}
	existing := set.All()
	for i, cs := range snaps {
		var id cursor.ID
		if i < len(existing) {
			id = existing[i].ID
		} else {
			id = set.Add(cs.Position)
		}
		if cs.Anchor != nil {
			set.Move(id, *cs.Anchor, true)
			set.SetAnchor(id)
			set.Move(id, cs.Position, false)
		} else {
			set.Move(id, cs.Position, true)
		}
	}
	for i := len(snaps); i < len(existing); i++ {
		set.Remove(existing[i].ID)
	}
}
