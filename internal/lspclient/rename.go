package lspclient

import (
	"context"
	"fmt"
	"sort"

	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/ferrors"
	"github.com/freshedit/fresh/internal/lspproto"
	"github.com/freshedit/fresh/internal/piecetree"
)

// ApplyWorkspaceEdit turns the TextEdit list for buf's own URI into one
// atomic BulkEdit, grounded on internal/search/replace.go's ReplaceAll:
// snapshot, ApplyBulkEdits, snapshot again, restore, then commit through
// EditorState.Apply so the whole rename is a single undo step (§4.6
// "Rename" -> "apply WorkspaceEdit"). Edits touching other files are
// returned as skipped — this orchestrator only has the one buffer it was
// asked to edit in hand; a caller juggling multiple open buffers should
// call this once per buffer whose URI appears in edit.Changes.
func ApplyWorkspaceEdit(ctx context.Context, state *editor.EditorState, uri string, edit lspproto.WorkspaceEdit) (applied int, skippedOtherFiles int, err error) {
	for otherURI := range edit.Changes {
		if otherURI != uri {
			skippedOtherFiles++
		}
	}
	textEdits := edit.Changes[uri]
	if len(textEdits) == 0 {
		return 0, skippedOtherFiles, nil
	}

	edits := make([]piecetree.Edit, len(textEdits))
	for i, te := range textEdits {
		start := state.Tree.LSPPositionToByte(ctx, te.Range.Start.Line, te.Range.Start.Character)
		end := state.Tree.LSPPositionToByte(ctx, te.Range.End.Line, te.Range.End.Character)
		if end < start {
			return 0, skippedOtherFiles, ferrors.InvalidRange("lsp.rename", fmt.Errorf("edit %d: end %d before start %d", i, end, start))
		}
		edits[i] = piecetree.Edit{Pos: start, DelLen: end - start, Text: te.NewText}
	}
	// ApplyBulkEdits sorts its input by position and rejects overlapping
	// edits; a server's WorkspaceEdit carries no ordering guarantee.
	sort.Slice(edits, func(i, j int) bool { return edits[i].Pos < edits[j].Pos })

	oldSnap := state.Tree.Snapshot()
	oldCursors := state.SnapshotCursors()

	delta, err := state.Tree.ApplyBulkEdits(ctx, edits)
	if err != nil {
		return 0, skippedOtherFiles, err
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
		Description: "rename",
	}); err != nil {
		return 0, skippedOtherFiles, err
	}
	return len(textEdits), skippedOtherFiles, nil
}
