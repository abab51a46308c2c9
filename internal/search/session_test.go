package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/editor"
)

// Scenario 1 (§8): "hello world\nfoo bar\nhello again\nbaz", Ctrl+F "hello"
// Enter → byte 0, F3 → byte 20, F3 → wraps to byte 0.
func TestSessionEnterThenF3WrapsAroundBuffer(t *testing.T) {
	ctx := context.Background()
	state := newState("hello world\nfoo bar\nhello again\nbaz")
	engine := NewEngine()

	sess, err := NewSession(ctx, engine, state, "hello", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)
	require.Equal(t, 2, sess.Len())

	m, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, int64(0), m.Start)
	assert.False(t, sess.ConsumeWrapped())

	m, ok = sess.FindNext()
	require.True(t, ok)
	assert.Equal(t, int64(20), m.Start)
	assert.False(t, sess.ConsumeWrapped())

	m, ok = sess.FindNext()
	require.True(t, ok)
	assert.Equal(t, int64(0), m.Start)
	assert.True(t, sess.ConsumeWrapped())
	assert.False(t, sess.ConsumeWrapped(), "wrapped flag is one-shot")
}

// Scenario 3 (§8): "foo\nfoo\nfoo\n", Ctrl+F "foo" Enter, F3 → byte 4.
// Ctrl+Home, type "XXX ", F3 → byte 12 (third foo at its updated position),
// status "Match 3 of 3".
func TestSessionTracksMatchesAcrossAnEditInFrontOfTheBuffer(t *testing.T) {
	ctx := context.Background()
	state := newState("foo\nfoo\nfoo\n")
	engine := NewEngine()

	sess, err := NewSession(ctx, engine, state, "foo", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)

	m, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, int64(0), m.Start)

	m, ok = sess.FindNext()
	require.True(t, ok)
	assert.Equal(t, int64(4), m.Start)

	primary, ok := state.Cursors.Primary()
	require.True(t, ok)
	require.NoError(t, state.Apply(ctx, editor.MoveCursor{CursorID: primary.ID, Position: 0, Deselect: true}))
	require.NoError(t, state.Apply(ctx, editor.Insert{Position: 0, Text: "XXX ", CursorID: primary.ID}))

	m, ok = sess.FindNext()
	require.True(t, ok)
	assert.Equal(t, int64(12), m.Start)
	assert.Equal(t, 3, sess.Len())
	assert.Equal(t, 3, sess.CurrentIndex())
}

func TestSessionCloseReleasesMarkersAndHighlights(t *testing.T) {
	ctx := context.Background()
	state := newState("foo bar foo")
	engine := NewEngine()

	sess, err := NewSession(ctx, engine, state, "foo", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.NotZero(t, state.Markers.Len())

	sess.Close()
	assert.Equal(t, 0, state.Markers.Len())
	assert.Len(t, state.Overlays.Visible(0, state.Tree.Len()), 0)
}

func TestSessionHighlightsCurrentMatchSeparately(t *testing.T) {
	ctx := context.Background()
	state := newState("foo bar foo")
	engine := NewEngine()

	sess, err := NewSession(ctx, engine, state, "foo", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)

	visible := state.Overlays.Visible(0, state.Tree.Len())
	require.Len(t, visible, 2)

	var namespaces []string
	for _, o := range visible {
		namespaces = append(namespaces, o.Namespace)
	}
	assert.Contains(t, namespaces, namespaceCurrent)
	assert.Contains(t, namespaces, namespaceMatches)
}

func TestSessionNoMatchesReportsEmpty(t *testing.T) {
	ctx := context.Background()
	state := newState("nothing here")
	engine := NewEngine()

	sess, err := NewSession(ctx, engine, state, "zzz", DefaultOptions(), 0, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Len())
	assert.Equal(t, 0, sess.CurrentIndex())

	_, ok := sess.Current()
	assert.False(t, ok)
}
