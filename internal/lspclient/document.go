package lspclient

import "github.com/freshedit/fresh/internal/editor"

// BufferID identifies one open editor buffer, stable for the buffer's
// lifetime. Shared with internal/semtok, whose per-buffer token store is
// keyed the same way.
type BufferID uint64

// Buffer is the slice of editor state the orchestrator needs: enough to
// read/apply text without owning buffer lifecycle itself.
type Buffer struct {
	ID         BufferID
	URI        string
	LanguageID string
	State      *editor.EditorState
}

// openDoc tracks one buffer's state as known to a particular LspHandle:
// whether didOpen has been sent and what version didChange last reported,
// per §4.6 "Buffers track which server instances have received didOpen
// for them (lsp_opened_with: Set<handle-id>)".
type openDoc struct {
	version int32
}
