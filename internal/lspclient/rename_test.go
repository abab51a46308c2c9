package lspclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/lspproto"
)

func TestApplyWorkspaceEditRenamesAllOccurrencesAsOneUndoStep(t *testing.T) {
	ctx := context.Background()
	const text = "let foo = 1\nprint(foo)\n"
	state := newState(text)
	const uri = "file:///test.go"

	// Two edits on line 0 and line 1, deliberately given out of order to
	// exercise the position-sort before ApplyBulkEdits.
	edit := lspproto.WorkspaceEdit{
		Changes: map[string][]lspproto.TextEdit{
			uri: {
				{Range: lspproto.Range{Start: lspproto.Position{Line: 1, Character: 6}, End: lspproto.Position{Line: 1, Character: 9}}, NewText: "bar"},
				{Range: lspproto.Range{Start: lspproto.Position{Line: 0, Character: 4}, End: lspproto.Position{Line: 0, Character: 7}}, NewText: "bar"},
			},
		},
	}

	applied, skipped, err := ApplyWorkspaceEdit(ctx, state, uri, edit)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, 0, skipped)

	got, err := state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, "let bar = 1\nprint(bar)\n", string(got))

	undone, err := state.Undo(ctx)
	require.NoError(t, err)
	require.True(t, undone)
	got, err = state.Tree.GetTextRange(ctx, 0, state.Tree.Len())
	require.NoError(t, err)
	assert.Equal(t, text, string(got), "the whole rename should undo in one step")
}

func TestApplyWorkspaceEditCountsOtherFileEditsAsSkipped(t *testing.T) {
	ctx := context.Background()
	state := newState("foo\n")

	edit := lspproto.WorkspaceEdit{
		Changes: map[string][]lspproto.TextEdit{
			"file:///other.go": {{Range: lspproto.Range{}, NewText: "x"}},
		},
	}

	applied, skipped, err := ApplyWorkspaceEdit(ctx, state, "file:///test.go", edit)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.Equal(t, 1, skipped)
}

func TestApplyWorkspaceEditNoOpWhenNoEditsForURI(t *testing.T) {
	ctx := context.Background()
	state := newState("foo\n")
	applied, skipped, err := ApplyWorkspaceEdit(ctx, state, "file:///test.go", lspproto.WorkspaceEdit{})
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.Equal(t, 0, skipped)
}
