package lspclient

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/freshedit/fresh/internal/config"
	"github.com/freshedit/fresh/internal/ferrors"
	"github.com/freshedit/fresh/internal/lspproto"
)

// SpawnResult is try_spawn's outcome (§4.6 "Spawning policy").
type SpawnResult int

const (
	Spawned SpawnResult = iota
	AlreadyRunning
	Disabled
	// SpawnFailed is a practical addition beyond the spec's three documented
	// results: a respawn was attempted (the language isn't Disabled) but
	// either the process failed to start or the handle is still inside its
	// back-off window. Callers treat it the same as Disabled — return
	// silently, no status error (§4.6 step 2).
	SpawnFailed
)

// LspHandle wraps one spawned language server: stdio framing via
// creachadair/jrpc2 over jrpc2/channel.LSP, a monotonic per-kind request
// generation (see call), and the set of buffers that have received
// didOpen (§4.6 "Model"). This is the inverse direction of the teacher's
// own cmd/dang/main.go --lsp mode, which runs a jrpc2.NewServer over the
// same channel.LSP framing to *serve* requests.
type LspHandle struct {
	languageID string
	cfg        config.LanguageServerConfig
	registry   *processRegistry
	env        *envLoader

	procCtx    context.Context
	procCancel context.CancelFunc

	mu              sync.Mutex
	client          *jrpc2.Client
	cmd             *exec.Cmd
	running         bool
	autoStartOff    bool // user explicitly disabled; stays Disabled until re-enabled
	respawnAttempts int
	backoff         time.Time // don't retry spawning before this instant
	backoffState    *backoff.ExponentialBackOff
	opened          map[BufferID]*openDoc
	generation      map[string]uint64
	cancelFuncs     map[string]context.CancelFunc
	caps            lspproto.ServerCapabilities
}

// newLspHandle takes procCtx as the parent for the spawned process's
// lifetime, independent of any single request's context — a completion
// request's context ending must not kill the server it was served by.
// procCtx is normally the manager's own lifetime context, cancelled once
// on editor shutdown.
func newLspHandle(procCtx context.Context, languageID string, cfg config.LanguageServerConfig, registry *processRegistry, env *envLoader) *LspHandle {
	pctx, cancel := context.WithCancel(procCtx)
	return &LspHandle{
		procCtx:     pctx,
		procCancel:  cancel,
		languageID:  languageID,
		cfg:         cfg,
		registry:    registry,
		env:         env,
		opened:      make(map[BufferID]*openDoc),
		generation:  make(map[string]uint64),
		cancelFuncs: make(map[string]context.CancelFunc),
	}
}

// TrySpawn implements try_spawn (§4.6): spawns the server if not already
// running, subject to auto_start and crash back-off.
func (h *LspHandle) TrySpawn(ctx context.Context) (SpawnResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.autoStartOff || !h.cfg.AutoStart {
		return Disabled, nil
	}
	if h.running {
		return AlreadyRunning, nil
	}
	if time.Now().Before(h.backoff) {
		return SpawnFailed, nil
	}
	if h.respawnAttempts >= maxRespawnAttempts {
		h.autoStartOff = true
		return Disabled, nil
	}

	if err := h.spawnLocked(ctx); err != nil {
		h.respawnAttempts++
		if h.backoffState == nil {
			h.backoffState = newRespawnBackOff()
		}
		d := h.backoffState.NextBackOff()
		if d < 0 { // backoff.Stop: the schedule is exhausted
			h.autoStartOff = true
			return Disabled, err
		}
		h.backoff = time.Now().Add(d)
		slog.WarnContext(ctx, "failed to spawn language server", "language", h.languageID, "error", err, "attempt", h.respawnAttempts)
		return SpawnFailed, err
	}
	h.respawnAttempts = 0
	h.backoffState = nil
	return Spawned, nil
}

func (h *LspHandle) spawnLocked(ctx context.Context) error {
	if h.cfg.Command == "" {
		return fmt.Errorf("no command configured for language %q", h.languageID)
	}

	cmd := exec.CommandContext(h.procCtx, h.cfg.Command, h.cfg.Args...)
	cmd.Dir = h.cfg.RootDir
	setProcessGroup(cmd)
	if extra := h.env.loadProjectEnv(ctx, h.cfg.RootDir); len(extra) > 0 {
		cmd.Env = append(cmd.Environ(), extra...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", h.cfg.Command, err)
	}
	h.registry.register(cmd)

	ch := channel.LSP(stdout, stdin)
	client := jrpc2.NewClient(ch, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			h.handlePush(req)
		},
	})

	h.cmd = cmd
	h.client = client
	h.running = true
	h.opened = make(map[BufferID]*openDoc)

	go h.watch(cmd)
	return nil
}

// watch waits for the spawned process to exit and marks the handle as no
// longer running, so the next request attempts a respawn (§7 "LSP server
// crashes are logged, handle is dropped, next request will attempt
// respawn").
func (h *LspHandle) watch(cmd *exec.Cmd) {
	err := cmd.Wait()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd == cmd {
		h.running = false
		slog.Warn("language server exited", "language", h.languageID, "error", err)
	}
}

// handlePush dispatches a server-initiated notification (diagnostics,
// workspace/configuration, etc). Left to the renderer/highlight layer to
// consume; this orchestrator only logs unrecognized kinds so the reader
// goroutine never silently drops protocol data (§7 ProtocolError).
func (h *LspHandle) handlePush(req *jrpc2.Request) {
	slog.Debug("lsp push", "language", h.languageID, "method", req.Method())
}

// Close shuts the handle down: closes the jrpc2 client then kills the
// process group so no orphaned server lingers past editor exit.
func (h *LspHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.procCancel()
	if h.client != nil {
		_ = h.client.Close()
	}
	if h.cmd != nil {
		_ = killProcessGroup(h.cmd)
	}
	h.running = false
	return nil
}

// Enable clears a prior Disabled state, letting the next request attempt
// a fresh spawn (user explicitly re-enabling per §4.6).
func (h *LspHandle) Enable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.autoStartOff = false
	h.respawnAttempts = 0
	h.backoff = time.Time{}
}

// ensureOpen sends didOpen for buf if this handle hasn't seen it yet —
// lazy, because reading the whole buffer text is expensive on large
// files (§4.6 step 3).
func (h *LspHandle) ensureOpen(ctx context.Context, buf *Buffer, text string) error {
	h.mu.Lock()
	_, ok := h.opened[buf.ID]
	client := h.client
	h.mu.Unlock()
	if ok || client == nil {
		return nil
	}

	err := client.Notify(ctx, "textDocument/didOpen", lspproto.DidOpenTextDocumentParams{
		TextDocument: lspproto.TextDocumentItem{
			URI:        buf.URI,
			LanguageID: buf.LanguageID,
			Version:    1,
			Text:       text,
		},
	})
	if err != nil {
		return ferrors.IO("lsp.didOpen", err)
	}

	h.mu.Lock()
	h.opened[buf.ID] = &openDoc{version: 1}
	h.mu.Unlock()
	return nil
}

// didChange sends one didChange notification carrying the full post-edit
// text. The teacher's own server (handle_initialize.go) declares only
// TextDocumentSyncKindFull, never Incremental, so this orchestrator
// always speaks the sync mode its reference implementation actually
// supports rather than computing incremental ranges from a bulk-edit
// delta. Incremental (range-based) content changes are never sent.
func (h *LspHandle) didChange(ctx context.Context, buf *Buffer, text string) error {
	h.mu.Lock()
	doc, ok := h.opened[buf.ID]
	client := h.client
	h.mu.Unlock()
	if !ok {
		return h.ensureOpen(ctx, buf, text)
	}
	if client == nil {
		return nil
	}

	doc.version++
	err := client.Notify(ctx, "textDocument/didChange", lspproto.DidChangeTextDocumentParams{
		TextDocument: lspproto.VersionedTextDocumentIdentifier{URI: buf.URI, Version: doc.version},
		ContentChanges: []lspproto.TextDocumentContentChangeEvent{
			{Text: text},
		},
	})
	if err != nil {
		return ferrors.IO("lsp.didChange", err)
	}
	return nil
}

func (h *LspHandle) didSave(ctx context.Context, buf *Buffer, text string) error {
	h.mu.Lock()
	_, ok := h.opened[buf.ID]
	client := h.client
	h.mu.Unlock()
	if !ok || client == nil {
		return nil
	}
	err := client.Notify(ctx, "textDocument/didSave", lspproto.DidSaveTextDocumentParams{
		TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI},
		Text:         text,
	})
	if err != nil {
		return ferrors.IO("lsp.didSave", err)
	}
	return nil
}

func (h *LspHandle) didClose(ctx context.Context, buf *Buffer) error {
	h.mu.Lock()
	_, ok := h.opened[buf.ID]
	client := h.client
	delete(h.opened, buf.ID)
	h.mu.Unlock()
	if !ok || client == nil {
		return nil
	}
	err := client.Notify(ctx, "textDocument/didClose", lspproto.DidCloseTextDocumentParams{
		TextDocument: lspproto.TextDocumentIdentifier{URI: buf.URI},
	})
	if err != nil {
		return ferrors.IO("lsp.didClose", err)
	}
	return nil
}

// call implements the shared request lifecycle of §4.6 steps 4-6: it
// allocates a generation for kind (our own staleness token — it doesn't
// need to match jrpc2's internal wire id, only to tell "this was the most
// recent request of this kind" apart from an older, now-superseded one),
// issues the request, and drops the result if a newer request of the same
// kind has since been issued or the pending entry was cancelled.
func (h *LspHandle) call(ctx context.Context, kind, method string, params, result any) error {
	h.mu.Lock()
	client := h.client
	h.generation[kind]++
	myGen := h.generation[kind]
	cctx, cancel := context.WithCancel(ctx)
	h.cancelFuncs[kind] = cancel
	h.mu.Unlock()
	defer cancel()

	if client == nil {
		return ferrors.IO("lsp.call", fmt.Errorf("%s: no running client", h.languageID))
	}

	resp, err := client.Call(cctx, method, params)

	h.mu.Lock()
	stale := h.generation[kind] != myGen
	h.mu.Unlock()
	if stale {
		return ferrors.StaleResponse(kind, int64(myGen))
	}
	if err != nil {
		if jerr, ok := err.(*jrpc2.Error); ok && jerr.Code == jrpc2.Code(-32801) {
			return ferrors.ContentModified(kind, jerr)
		}
		return ferrors.IO("lsp."+kind, err)
	}
	if result != nil {
		if err := resp.UnmarshalResult(result); err != nil {
			return ferrors.Protocol("lsp."+kind+".decode", err)
		}
	}
	return nil
}

// Cancel invalidates the most recent pending request of kind: a late
// response will be recognized as stale by call's generation check, and
// the locally-blocked Call unblocks immediately via its context (§4.6
// "Cancellation"). No $/cancelRequest notification is sent, so the
// server is not told that the request was cancelled.
func (h *LspHandle) Cancel(kind string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generation[kind]++
	if cancel, ok := h.cancelFuncs[kind]; ok && cancel != nil {
		cancel()
	}
}

// Capabilities returns the server's last-announced capabilities (from
// initialize), zero-valued before the server has responded.
func (h *LspHandle) Capabilities() lspproto.ServerCapabilities {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.caps
}

// Running reports whether a server process is currently alive.
func (h *LspHandle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}
