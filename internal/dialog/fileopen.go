package dialog

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/freshedit/fresh/internal/vfs"
)

// existsProbeTimeout bounds a single FileSystem.Exists call when resolving a
// navigation shortcut, so an unreachable network mount degrades to "shortcut
// unavailable" instead of hanging the dialog (§4.8).
const existsProbeTimeout = 2 * time.Second

// matchKind ranks a filtered entry; spec.md §4.8's scoring order.
type matchKind int

const (
	matchNone matchKind = iota
	matchSubstring
	matchPrefix
	matchBasenameWithExt
	matchBasenameExact
)

// Entry is one row the dialog renders: a listed file/directory plus its
// current filter match quality.
type Entry struct {
	vfs.DirEntry
	Match matchKind
}

// Dimmed reports whether Entry should render de-emphasized: kept visible
// (§4.8 "no match (dimmed, kept visible)") but clearly not what the filter
// is looking for.
func (e Entry) Dimmed() bool { return e.Match == matchNone }

// FileOpenDialog is the file-picker state machine: async directory listing
// (entries stream in; the dialog renders the skeleton immediately per
// §4.8), a filter query scored per entry, and a handful of fixed navigation
// shortcuts resolved through the FileSystem capability interface so a
// stalled path can't hang the whole dialog.
type FileOpenDialog struct {
	fs  vfs.FileSystem
	dir string

	Query     string
	Loading   bool
	Entries   []Entry
	Cursor    int
	Shortcuts []Shortcut

	focused bool

	mu  sync.Mutex
	gen int // listing generation, invalidates stale async results
}

// NewFileOpenDialog starts unfocused in startDir; call Open to begin
// listing it.
func NewFileOpenDialog(fs vfs.FileSystem, startDir string) *FileOpenDialog {
	return &FileOpenDialog{fs: fs, dir: startDir}
}

func (d *FileOpenDialog) Focus() { d.focused = true }
func (d *FileOpenDialog) Blur()  { d.focused = false }

// Dir returns the directory currently listed.
func (d *FileOpenDialog) Dir() string { return d.dir }

// Open lists dir asynchronously, discarding any in-flight listing for a
// previous directory (navigating away mid-listing must not let the stale
// result clobber the new one — gen guards that).
func (d *FileOpenDialog) Open(ctx context.Context, dir string) <-chan struct{} {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.dir = dir
	d.Loading = true
	d.Entries = nil
	d.Cursor = 0
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		entries, err := d.fs.ReadDir(ctx, dir)
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen != gen {
			return // a newer Open superseded this one
		}
		d.Loading = false
		if err != nil {
			return
		}
		d.Entries = scoreAndFilter(entries, d.Query)
	}()
	return done
}

// SetQuery re-scores the already-listed entries against a new filter
// string; it does not re-list the directory.
func (d *FileOpenDialog) SetQuery(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Query = query
	raw := make([]vfs.DirEntry, len(d.Entries))
	for i, e := range d.Entries {
		raw[i] = e.DirEntry
	}
	d.Entries = scoreAndFilter(raw, query)
	d.Cursor = 0
}

// scoreAndFilter ranks entries by spec.md §4.8's match order: exact
// basename > exact basename with extension > prefix > substring > no match
// (kept, dimmed). A stable sort preserves the underlying alphabetical
// listing order within each tier.
func scoreAndFilter(raw []vfs.DirEntry, query string) []Entry {
	out := make([]Entry, len(raw))
	q := strings.ToLower(query)
	for i, e := range raw {
		out[i] = Entry{DirEntry: e, Match: matchEntry(e.Name, q)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Match > out[j].Match })
	return out
}

func matchEntry(name, query string) matchKind {
	if query == "" {
		return matchBasenameExact
	}
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	base := strings.TrimSuffix(lower, ext)
	switch {
	case base == query:
		return matchBasenameExact
	case base+ext == query:
		return matchBasenameWithExt
	case strings.HasPrefix(lower, query):
		return matchPrefix
	case strings.Contains(lower, query):
		return matchSubstring
	default:
		return matchNone
	}
}

// Shortcut is one of the fixed navigation targets (§4.8 "Navigation
// shortcuts"), resolved against fs before being offered so an unreachable
// target (e.g. a downloads dir on a stripped-down container) doesn't appear
// as a dead end.
type Shortcut struct {
	Label string
	Path  string
}

// ResolveShortcuts probes each candidate's existence concurrently, bounded
// by a worker pool (golang.org/x/sync/semaphore + errgroup, the same
// primitives §5's LSP reader/writer and directory-listing task pools use),
// each probe capped at existsProbeTimeout so one stalled mount can't delay
// the others.
func ResolveShortcuts(ctx context.Context, fs vfs.FileSystem, candidates []Shortcut) []Shortcut {
	sem := semaphore.NewWeighted(4)
	present := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)
			probeCtx, cancel := context.WithTimeout(gctx, existsProbeTimeout)
			defer cancel()
			present[i] = fs.Exists(probeCtx, c.Path)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Shortcut, 0, len(candidates))
	for i, c := range candidates {
		if present[i] {
			out = append(out, c)
		}
	}
	return out
}
