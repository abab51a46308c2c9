package lspclient

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/freshedit/fresh/internal/config"
	"github.com/freshedit/fresh/internal/ferrors"
	"github.com/freshedit/fresh/internal/lspproto"
)

// LspManager owns one LspHandle per language id (§4.6 "Model": "one
// LspManager owning map[language-id]LspHandle"). Buffers are looked up by
// language id on every call so a language whose config changes mid-session
// (project config layer edited) is picked up on the next spawn attempt.
type LspManager struct {
	cfg      *config.Config
	registry *processRegistry
	env      *envLoader
	procCtx  context.Context

	mu      sync.Mutex
	handles map[string]*LspHandle
}

// NewLspManager takes procCtx as the parent lifetime for every server this
// manager spawns; cancel it (or call Close) on editor shutdown.
func NewLspManager(procCtx context.Context, cfg *config.Config) *LspManager {
	return &LspManager{
		cfg:      cfg,
		registry: &processRegistry{},
		env:      newEnvLoader(),
		procCtx:  procCtx,
		handles:  make(map[string]*LspHandle),
	}
}

// handleFor returns the handle for languageID, creating it from config the
// first time it's requested. Returns false if the language has no lsp
// entry configured at all (distinct from Disabled, which is a configured
// server the user or back-off has turned off).
func (m *LspManager) handleFor(languageID string) (*LspHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[languageID]; ok {
		return h, true
	}
	lsc, ok := m.cfg.LanguageServer(languageID)
	if !ok {
		return nil, false
	}
	h := newLspHandle(m.procCtx, languageID, lsc, m.registry, m.env)
	m.handles[languageID] = h
	return h, true
}

// EnsureStarted runs try_spawn for languageID and, on a fresh Spawned
// result, performs the initialize/initialized handshake before the handle
// is used for any other request (§4.6 step 1-2).
func (m *LspManager) EnsureStarted(ctx context.Context, languageID string) (SpawnResult, error) {
	h, ok := m.handleFor(languageID)
	if !ok {
		return Disabled, nil
	}
	res, err := h.TrySpawn(ctx)
	if res != Spawned {
		return res, err
	}
	if err := m.initialize(ctx, h); err != nil {
		return SpawnFailed, err
	}
	return Spawned, nil
}

func (m *LspManager) initialize(ctx context.Context, h *LspHandle) error {
	pid := os.Getpid()
	params := lspproto.InitializeParams{
		ProcessID: &pid,
		RootURI:   pathToURI(h.cfg.RootDir),
		Capabilities: lspproto.ClientCapabilities{
			TextDocument: lspproto.TextDocumentClientCapabilities{
				Completion:     &struct{}{},
				Hover:          &struct{}{},
				Definition:     &struct{}{},
				References:     &struct{}{},
				SignatureHelp:  &struct{}{},
				CodeAction:     &struct{}{},
				Rename:         &struct{}{},
				InlayHint:      &struct{}{},
				SemanticTokens: &struct{}{},
			},
		},
	}
	var result lspproto.InitializeResult
	if err := h.call(ctx, "initialize", "initialize", params, &result); err != nil {
		return err
	}
	h.mu.Lock()
	h.caps = result.Capabilities
	client := h.client
	h.mu.Unlock()
	if client != nil {
		_ = client.Notify(ctx, "initialized", struct{}{})
	}
	return nil
}

// pathToURI converts a filesystem path to a file:// URI. Best-effort: an
// unresolvable relative path is used as-is rather than failing the spawn.
func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// --- notifications, fanned out by buffer language id ---

func (m *LspManager) DidOpen(ctx context.Context, buf *Buffer, text string) error {
	h, ok := m.handleFor(buf.LanguageID)
	if !ok {
		return nil
	}
	if _, err := m.EnsureStarted(ctx, buf.LanguageID); err != nil {
		return err
	}
	if !h.Running() {
		return nil
	}
	return h.ensureOpen(ctx, buf, text)
}

func (m *LspManager) DidChange(ctx context.Context, buf *Buffer, text string) error {
	h, ok := m.handleFor(buf.LanguageID)
	if !ok || !h.Running() {
		return nil
	}
	return h.didChange(ctx, buf, text)
}

func (m *LspManager) DidSave(ctx context.Context, buf *Buffer, text string) error {
	h, ok := m.handleFor(buf.LanguageID)
	if !ok || !h.Running() {
		return nil
	}
	return h.didSave(ctx, buf, text)
}

func (m *LspManager) DidClose(ctx context.Context, buf *Buffer) error {
	h, ok := m.handleFor(buf.LanguageID)
	if !ok || !h.Running() {
		return nil
	}
	return h.didClose(ctx, buf)
}

// --- requests ---

func (m *LspManager) position(ctx context.Context, buf *Buffer, offset int64) lspproto.TextDocumentPositionParams {
	line, col := buf.State.Tree.PositionToLSPPosition(ctx, offset)
	return lspproto.TextDocumentPositionParams{
		TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI},
		Position:     lspproto.Position{Line: line, Character: col},
	}
}

func (m *LspManager) running(buf *Buffer) (*LspHandle, error) {
	h, ok := m.handleFor(buf.LanguageID)
	if !ok || !h.Running() {
		return nil, ferrors.IO("lsp", fmt.Errorf("no running language server for %q", buf.LanguageID))
	}
	return h, nil
}

func (m *LspManager) Completion(ctx context.Context, buf *Buffer, offset int64, trigger string) (lspproto.CompletionList, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.CompletionList{}, err
	}
	params := lspproto.CompletionParams{TextDocumentPositionParams: m.position(ctx, buf, offset)}
	if trigger != "" {
		params.Context = &lspproto.CompletionContext{TriggerKind: lspproto.CompletionTriggerCharacter, TriggerCharacter: trigger}
	} else {
		params.Context = &lspproto.CompletionContext{TriggerKind: lspproto.CompletionTriggerInvoked}
	}
	var result lspproto.CompletionList
	err = h.call(ctx, "completion", "textDocument/completion", params, &result)
	return result, err
}

func (m *LspManager) Hover(ctx context.Context, buf *Buffer, offset int64) (lspproto.Hover, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.Hover{}, err
	}
	var result lspproto.Hover
	err = h.call(ctx, "hover", "textDocument/hover", lspproto.HoverParams{TextDocumentPositionParams: m.position(ctx, buf, offset)}, &result)
	return result, err
}

func (m *LspManager) Definition(ctx context.Context, buf *Buffer, offset int64) ([]lspproto.Location, error) {
	h, err := m.running(buf)
	if err != nil {
		return nil, err
	}
	var result []lspproto.Location
	err = h.call(ctx, "definition", "textDocument/definition", lspproto.DefinitionParams{TextDocumentPositionParams: m.position(ctx, buf, offset)}, &result)
	return result, err
}

func (m *LspManager) References(ctx context.Context, buf *Buffer, offset int64, includeDecl bool) ([]lspproto.Location, error) {
	h, err := m.running(buf)
	if err != nil {
		return nil, err
	}
	params := lspproto.ReferenceParams{
		TextDocumentPositionParams: m.position(ctx, buf, offset),
		Context:                    lspproto.ReferenceContext{IncludeDeclaration: includeDecl},
	}
	var result []lspproto.Location
	err = h.call(ctx, "references", "textDocument/references", params, &result)
	return result, err
}

func (m *LspManager) SignatureHelp(ctx context.Context, buf *Buffer, offset int64) (lspproto.SignatureHelp, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.SignatureHelp{}, err
	}
	var result lspproto.SignatureHelp
	err = h.call(ctx, "signatureHelp", "textDocument/signatureHelp", lspproto.SignatureHelpParams{TextDocumentPositionParams: m.position(ctx, buf, offset)}, &result)
	return result, err
}

func (m *LspManager) CodeAction(ctx context.Context, buf *Buffer, startOff, endOff int64, diags []lspproto.Diagnostic) ([]lspproto.CodeAction, error) {
	h, err := m.running(buf)
	if err != nil {
		return nil, err
	}
	startLine, startCol := buf.State.Tree.PositionToLSPPosition(ctx, startOff)
	endLine, endCol := buf.State.Tree.PositionToLSPPosition(ctx, endOff)
	params := lspproto.CodeActionParams{
		TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI},
		Range: lspproto.Range{
			Start: lspproto.Position{Line: startLine, Character: startCol},
			End:   lspproto.Position{Line: endLine, Character: endCol},
		},
		Context: lspproto.CodeActionContext{Diagnostics: diags},
	}
	var result []lspproto.CodeAction
	err = h.call(ctx, "codeAction", "textDocument/codeAction", params, &result)
	return result, err
}

func (m *LspManager) Rename(ctx context.Context, buf *Buffer, offset int64, newName string) (lspproto.WorkspaceEdit, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.WorkspaceEdit{}, err
	}
	params := lspproto.RenameParams{TextDocumentPositionParams: m.position(ctx, buf, offset), NewName: newName}
	var result lspproto.WorkspaceEdit
	err = h.call(ctx, "rename", "textDocument/rename", params, &result)
	return result, err
}

func (m *LspManager) InlayHint(ctx context.Context, buf *Buffer, startOff, endOff int64) ([]lspproto.InlayHint, error) {
	h, err := m.running(buf)
	if err != nil {
		return nil, err
	}
	startLine, startCol := buf.State.Tree.PositionToLSPPosition(ctx, startOff)
	endLine, endCol := buf.State.Tree.PositionToLSPPosition(ctx, endOff)
	params := lspproto.InlayHintParams{
		TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI},
		Range: lspproto.Range{
			Start: lspproto.Position{Line: startLine, Character: startCol},
			End:   lspproto.Position{Line: endLine, Character: endCol},
		},
	}
	var result []lspproto.InlayHint
	err = h.call(ctx, "inlayHint", "textDocument/inlayHint", params, &result)
	return result, err
}

func (m *LspManager) SemanticTokensFull(ctx context.Context, buf *Buffer) (lspproto.SemanticTokens, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.SemanticTokens{}, err
	}
	var result lspproto.SemanticTokens
	err = h.call(ctx, "semanticTokensFull", "textDocument/semanticTokens/full", lspproto.SemanticTokensParams{TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI}}, &result)
	return result, err
}

func (m *LspManager) SemanticTokensDelta(ctx context.Context, buf *Buffer, previousResultID string) (lspproto.SemanticTokensDelta, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.SemanticTokensDelta{}, err
	}
	params := lspproto.SemanticTokensDeltaParams{TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI}, PreviousResultID: previousResultID}
	var result lspproto.SemanticTokensDelta
	err = h.call(ctx, "semanticTokensDelta", "textDocument/semanticTokens/full/delta", params, &result)
	return result, err
}

func (m *LspManager) SemanticTokensRange(ctx context.Context, buf *Buffer, startOff, endOff int64) (lspproto.SemanticTokens, error) {
	h, err := m.running(buf)
	if err != nil {
		return lspproto.SemanticTokens{}, err
	}
	startLine, startCol := buf.State.Tree.PositionToLSPPosition(ctx, startOff)
	endLine, endCol := buf.State.Tree.PositionToLSPPosition(ctx, endOff)
	params := lspproto.SemanticTokensRangeParams{
		TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI},
		Range: lspproto.Range{
			Start: lspproto.Position{Line: startLine, Character: startCol},
			End:   lspproto.Position{Line: endLine, Character: endCol},
		},
	}
	var result lspproto.SemanticTokens
	err = h.call(ctx, "semanticTokensRange", "textDocument/semanticTokens/range", params, &result)
	return result, err
}

func (m *LspManager) WorkspaceSymbol(ctx context.Context, languageID, query string) ([]lspproto.SymbolInformation, error) {
	h, ok := m.handleFor(languageID)
	if !ok || !h.Running() {
		return nil, ferrors.IO("lsp", fmt.Errorf("no running language server for %q", languageID))
	}
	var result []lspproto.SymbolInformation
	err := h.call(ctx, "workspaceSymbol", "workspace/symbol", lspproto.WorkspaceSymbolParams{Query: query}, &result)
	return result, err
}

// Cancel cancels the most recent in-flight request of kind for the given
// buffer's language, e.g. a superseded completion request.
func (m *LspManager) Cancel(languageID, kind string) {
	if h, ok := m.handleFor(languageID); ok {
		h.Cancel(kind)
	}
}

// Enable re-enables a language server the user or back-off had disabled.
func (m *LspManager) Enable(languageID string) {
	if h, ok := m.handleFor(languageID); ok {
		h.Enable()
	}
}

// Close stops every spawned server and releases process resources.
func (m *LspManager) Close() {
	m.mu.Lock()
	handles := make([]*LspHandle, 0, len(m.handles))
	for _, h := range m.handles {
		handles = append(handles, h)
	}
	m.mu.Unlock()
	for _, h := range handles {
		_ = h.Close()
	}
	m.registry.StopAll()
}
