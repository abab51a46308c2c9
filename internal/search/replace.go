package search

import (
	"context"

	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/marker"
	"github.com/freshedit/fresh/internal/piecetree"
)

// ReplaceAll substitutes every match of pattern within [scopeStart, scopeEnd)
// with replacement as one atomic BulkEdit (§4.3 "apply(BulkEdit)"), so a
// replace-all touching hundreds of occurrences is a single undoable step. It
// returns the number of replacements made.
func ReplaceAll(ctx context.Context, engine *Engine, state *editor.EditorState, pattern, replacement string, opts Options, scopeStart, scopeEnd int64) (int, error) {
	re, err := engine.Compile(pattern, opts)
	if err != nil {
		return 0, err
	}
	matches, err := scanRangeAll(ctx, state.Tree, re, scopeStart, scopeEnd)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	edits := make([]piecetree.Edit, len(matches))
	for i, m := range matches {
		edits[i] = piecetree.Edit{Pos: m.Start, DelLen: m.End - m.Start, Text: replacement}
	}

	oldSnap := state.Tree.Snapshot()
	oldCursors := state.SnapshotCursors()

	delta, err := state.Tree.ApplyBulkEdits(ctx, edits)
	if err != nil {
		return 0, err
	}
	newSnap := state.Tree.Snapshot()
	state.Tree.Restore(oldSnap)

	newCursors := editor.TranslateCursorSnapshots(oldCursors, delta)

	if err := state.Apply(ctx, editor.BulkEdit{
		OldTree:     oldSnap,
		NewTree:     newSnap,
		OldCursors:  oldCursors,
		NewCursors:  newCursors,
		Delta:       delta,
		Description: "replace all",
	}); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Action is a user's answer to one interactive-replace prompt (§4.5
// "Interactive replace. User actions y/n/a/c").
type Action int

const (
	ActionReplace Action = iota
	ActionSkip
	ActionReplaceAll
	ActionCancel
)

// ReplaceSession drives an interactive y/n/a/c replace (§4.5). Every match
// found at entry is visited exactly once, in circular order starting from
// the first match at or after the entry cursor — "stops when it returns to
// start_position" normalized to one full lap of that fixed list, per the
// §9 Open Question and test scenario 3/4. Accepted replacements are applied
// immediately via EditorState.ApplyRaw so the buffer updates live, but are
// only recorded to the undo log as a single Batch once the session ends, so
// one undo reverts the whole session.
type ReplaceSession struct {
	state       *editor.EditorState
	matches     []matchHandle
	replacement string

	pos      int // index into matches, circular
	visited  int
	replaced int
	applied  []editor.Event
	done     bool
}

// NewReplaceSession compiles pattern, finds every match in
// [scopeStart, scopeEnd), and starts the circular walk at the first match at
// or after cursor (wrapping to the first match overall if none qualifies).
func NewReplaceSession(ctx context.Context, engine *Engine, state *editor.EditorState, pattern, replacement string, opts Options, cursor int64, scopeStart, scopeEnd int64) (*ReplaceSession, error) {
	re, err := engine.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	found, err := scanRangeAll(ctx, state.Tree, re, scopeStart, scopeEnd)
	if err != nil {
		return nil, err
	}

	rs := &ReplaceSession{state: state, replacement: replacement}
	rs.matches = make([]matchHandle, len(found))
	for i, m := range found {
		rs.matches[i] = matchHandle{
			start: state.Markers.Create(m.Start, marker.GravityRight),
			end:   state.Markers.Create(m.End, marker.GravityLeft),
		}
	}
	for i, m := range found {
		if m.Start >= cursor {
			rs.pos = i
			break
		}
	}
	if len(found) == 0 {
		rs.done = true
	}
	return rs, nil
}

// Done reports whether every match has been visited (or the session was
// cancelled), in which case Pending returns false and the caller should call
// Finish.
func (rs *ReplaceSession) Done() bool { return rs.done || rs.visited >= len(rs.matches) }

// Pending returns the match awaiting a y/n/a/c decision, or false once Done.
func (rs *ReplaceSession) Pending() (Match, bool) {
	if rs.Done() {
		return Match{}, false
	}
	return rs.resolve(rs.matches[rs.pos])
}

func (rs *ReplaceSession) resolve(h matchHandle) (Match, bool) {
	start, ok1 := rs.state.Markers.Position(h.start)
	end, ok2 := rs.state.Markers.Position(h.end)
	if !ok1 || !ok2 {
		return Match{}, false
	}
	return Match{Start: start, End: end}, true
}

// Decide applies action to the pending match and advances. ActionCancel and
// ActionReplaceAll end the session (Done becomes true); Finish must still be
// called afterward to commit the undo batch.
func (rs *ReplaceSession) Decide(ctx context.Context, action Action) error {
	if rs.Done() {
		return nil
	}
	switch action {
	case ActionCancel:
		rs.done = true
		return nil
	case ActionReplaceAll:
		for !rs.Done() {
			if err := rs.replaceCurrent(ctx); err != nil {
				return err
			}
			rs.advance()
		}
		return nil
	case ActionReplace:
		if err := rs.replaceCurrent(ctx); err != nil {
			return err
		}
		rs.advance()
		return nil
	default: // ActionSkip
		rs.advance()
		return nil
	}
}

func (rs *ReplaceSession) advance() {
	rs.visited++
	rs.pos++
	if rs.pos >= len(rs.matches) {
		rs.pos = 0
	}
}

func (rs *ReplaceSession) replaceCurrent(ctx context.Context) error {
	m, ok := rs.resolve(rs.matches[rs.pos])
	if !ok {
		return nil
	}
	primary, _ := rs.state.Cursors.Primary()
	del, err := rs.state.ApplyRaw(ctx, editor.Delete{Start: m.Start, End: m.End, CursorID: primary.ID})
	if err != nil {
		return err
	}
	ins, err := rs.state.ApplyRaw(ctx, editor.Insert{Position: m.Start, Text: rs.replacement, CursorID: primary.ID})
	if err != nil {
		return err
	}
	rs.applied = append(rs.applied, del, ins)
	rs.replaced++
	return nil
}

// Finish releases the session's match markers and, if any replacement was
// applied, commits the whole sequence as one undoable Batch. It returns the
// number of replacements made.
func (rs *ReplaceSession) Finish() int {
	for _, h := range rs.matches {
		rs.state.Markers.Remove(h.start)
		rs.state.Markers.Remove(h.end)
	}
	rs.state.CommitBatch(rs.applied, "interactive replace")
	return rs.replaced
}
