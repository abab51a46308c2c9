package lspclient

import (
	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/piecetree"
)

func newState(s string) *editor.EditorState {
	return editor.New(piecetree.New([]byte(s)))
}
