// Package editor implements the event-sourced per-buffer state (§3
// "EditorState", §4.3): every mutation is expressed as a typed Event and
// applied through EditorState.apply, which is the only code path allowed
// to touch the piece tree, cursor set, markers, or overlays.
package editor

import (
	"github.com/freshedit/fresh/internal/cursor"
	"github.com/freshedit/fresh/internal/marker"
	"github.com/freshedit/fresh/internal/piecetree"
)

// Event is the sum type of every mutation EditorState accepts. Concrete
// types below are its only implementations.
type Event interface{ isEvent() }

// Insert inserts Text at Position on behalf of CursorID.
type Insert struct {
	Position int64
	Text     string
	CursorID cursor.ID
}

func (Insert) isEvent() {}

// Delete removes [Start, End), recording DeletedText for undo.
type Delete struct {
	Start, End  int64
	DeletedText string
	CursorID    cursor.ID
}

func (Delete) isEvent() {}

// MoveCursor relocates CursorID, optionally clearing its selection.
type MoveCursor struct {
	CursorID cursor.ID
	Position int64
	Deselect bool
}

func (MoveCursor) isEvent() {}

// AddCursor creates a new cursor at Position.
type AddCursor struct{ Position int64 }

func (AddCursor) isEvent() {}

// RemoveCursor destroys CursorID.
type RemoveCursor struct{ CursorID cursor.ID }

func (RemoveCursor) isEvent() {}

// SetAnchor pins CursorID's selection anchor to its current position.
type SetAnchor struct{ CursorID cursor.ID }

func (SetAnchor) isEvent() {}

// ClearAnchor removes CursorID's selection.
type ClearAnchor struct{ CursorID cursor.ID }

func (ClearAnchor) isEvent() {}

// ViewMode distinguishes the two rendering modes EditorState tracks.
type ViewMode int

const (
	ModeSource ViewMode = iota
	ModeCompose
)

// ChangeMode switches the buffer's view mode.
type ChangeMode struct{ Mode ViewMode }

func (ChangeMode) isEvent() {}

// AddOverlay, RemoveOverlay, etc. are intentionally defined in overlay_events.go
// alongside the other decoration events, to keep this file to cursor and
// structural edit events.

// SetLineNumbers toggles absolute/relative gutter numbering.
type SetLineNumbers struct{ Relative bool }

func (SetLineNumbers) isEvent() {}

// Batch applies Events in order as a single undo/redo unit, used for
// multi-cursor fan-out (§4.3 "Multi-cursor").
type Batch struct {
	Events      []Event
	Description string
}

func (Batch) isEvent() {}

// BulkEdit atomically replaces the entire piece tree and cursor set via
// an O(1) snapshot swap — how LSP rename and "replace all" apply hundreds
// of edits at once (§4.3 "apply(BulkEdit)").
type BulkEdit struct {
	OldTree    piecetree.Snapshot
	NewTree    piecetree.Snapshot
	OldCursors []cursorSnapshot
	NewCursors []cursorSnapshot

	// Delta re-anchors markers (search match handles, overlays) forward
	// from OldTree to NewTree in one O(n) pass (§4.2 "Markers survive bulk
	// edits"). Left nil when no meaningful forward mapping exists (e.g.
	// inverting a BulkEdit for undo), in which case markers inside the
	// touched range are left stale — acceptable since InvalidateHighlight
	// already treats the whole buffer as reparsed on a bulk edit.
	Delta       marker.Translator
	Description string
}

func (BulkEdit) isEvent() {}

// cursorSnapshot is a plain-data copy of one cursor, used by BulkEdit
// since the live cursor.Set can't be snapshotted structurally the way the
// piece tree can.
type cursorSnapshot struct {
	ID       cursor.ID
	Position int64
	Anchor   *int64
}

// LineNumber is the primary-cursor line number cache (§3 "EditorState",
// §4.1 "Line numbers"): exact when the tree's line index is complete,
// approximate (tracked incrementally from a last-known line) otherwise.
type LineNumber struct {
	Line         int64
	Exact        bool
	FromCachedAt int64 // buffer version this relative count was last anchored at, when !Exact
}
