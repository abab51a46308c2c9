package search

import (
	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/piecetree"
)

func newTree(s string) *piecetree.Tree {
	return piecetree.New([]byte(s))
}

func newState(s string) *editor.EditorState {
	return editor.New(newTree(s))
}
