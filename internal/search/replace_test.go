package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 4 (§8): query-replace foo→XXX starting at cursor 25 in
// "foo is here\nand\nfoo is there\nfoo again": next match 29 (y), wraps to 0
// (n), next 16 (y). Final buffer has "foo is here" and "and" untouched,
// "XXX is there" and "XXX again", status "Replaced 2".
func TestInteractiveReplaceSessionMatchesScenarioFour(t *testing.T) {
	ctx := context.Background()
	const text = "foo is here\nand\nfoo is there\nfoo again"
	state := newState(text)
	engine := NewEngine()

	rs, err := NewReplaceSession(ctx, engine, state, "foo", "XXX", DefaultOptions(), 25, 0, state.Tree.Len())
	require.NoError(t, err)

	m, ok := rs.Pending()
	require.True(t, ok)
	assert.Equal(t, int64(29), m.Start)
	require.NoError(t, rs.Decide(ctx, ActionReplace))

	m, ok = rs.Pending()
	require.True(t, ok)
	assert.Equal(t, int64(0), m.Start)
	require.NoError(t, rs.Decide(ctx, ActionSkip))

	m, ok = rs.Pending()
	require.True(t, ok)
	assert.Equal(t, int64(16), m.Start)
	require.NoError(t, rs.Decide(ctx, ActionReplace))

	assert.True(t, rs.Done())
	replaced := rs.Finish()
	assert.Equal(t, 2, replaced)

	got, err := state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "foo is here\nand\nXXX is there\nXXX again", string(got))
}

func TestInteractiveReplaceSessionUndoesAsOneStep(t *testing.T) {
	ctx := context.Background()
	state := newState("foo bar foo baz foo")
	engine := NewEngine()

	rs, err := NewReplaceSession(ctx, engine, state, "foo", "XYZ", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)
	for !rs.Done() {
		require.NoError(t, rs.Decide(ctx, ActionReplace))
	}
	replaced := rs.Finish()
	assert.Equal(t, 3, replaced)

	got, err := state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "XYZ bar XYZ baz XYZ", string(got))

	assert.True(t, state.CanUndo())
	undone, err := state.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)
	assert.False(t, state.CanUndo())

	got, err = state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "foo bar foo baz foo", string(got))
}

func TestInteractiveReplaceSessionCancelCommitsOnlyWhatWasApplied(t *testing.T) {
	ctx := context.Background()
	state := newState("foo foo foo")
	engine := NewEngine()

	rs, err := NewReplaceSession(ctx, engine, state, "foo", "X", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)

	require.NoError(t, rs.Decide(ctx, ActionReplace))
	require.NoError(t, rs.Decide(ctx, ActionCancel))
	assert.True(t, rs.Done())
	replaced := rs.Finish()
	assert.Equal(t, 1, replaced)

	got, err := state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "X foo foo", string(got))

	undone, err := state.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)
	got, err = state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "foo foo foo", string(got))
}

func TestReplaceAllAppliesAsSingleUndoableBulkEdit(t *testing.T) {
	ctx := context.Background()
	state := newState("foo bar foo baz foo")
	engine := NewEngine()

	n, err := ReplaceAll(ctx, engine, state, "foo", "XYZ", DefaultOptions(), 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "XYZ bar XYZ baz XYZ", string(got))

	assert.True(t, state.CanUndo())
	undone, err := state.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)

	got, err = state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "foo bar foo baz foo", string(got))
}

func TestReplaceAllNoMatchesIsNoOp(t *testing.T) {
	ctx := context.Background()
	state := newState("nothing here")
	engine := NewEngine()

	n, err := ReplaceAll(ctx, engine, state, "zzz", "X", DefaultOptions(), 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, state.CanUndo())
}
