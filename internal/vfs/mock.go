package vfs

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/freshedit/fresh/internal/ferrors"
)

// Mock is an in-memory FileSystem for tests: no real I/O, deterministic
// listing order, and no dependency on the test's working directory.
type Mock struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

var (
	_ FileSystem  = (*Mock)(nil)
	_ RangeReader = (*Mock)(nil)
)

// NewMock returns an empty Mock filesystem.
func NewMock() *Mock {
	return &Mock{files: map[string][]byte{}, dirs: map[string]bool{"/": true}}
}

// AddFile seeds a file at path with content, creating parent directories.
func (m *Mock) AddFile(pathStr string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[pathStr] = content
	for dir := path.Dir(pathStr); dir != "." && dir != "/"; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
	m.dirs["/"] = true
}

// AddDir seeds an empty directory at path.
func (m *Mock) AddDir(pathStr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[pathStr] = true
}

func (m *Mock) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	if !ok {
		return nil, ferrors.IO("vfs.read_file", osNotExist(p))
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ReadFileRange reads [offset, offset+length) from an in-memory file,
// clamping to the file's actual length.
func (m *Mock) ReadFileRange(ctx context.Context, p string, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	if !ok {
		return nil, ferrors.IO("vfs.read_file_range", osNotExist(p))
	}
	end := offset + length
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	if offset > end {
		offset = end
	}
	out := make([]byte, end-offset)
	copy(out, data[offset:end])
	return out, nil
}

func (m *Mock) WriteFile(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[p] = cp
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

func (m *Mock) ReadDir(ctx context.Context, p string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirs[p] {
		return nil, ferrors.IO("vfs.read_dir", osNotExist(p))
	}

	seen := map[string]bool{}
	var out []DirEntry
	prefix := strings.TrimSuffix(p, "/") + "/"

	for f := range m.files {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		rest := strings.TrimPrefix(f, prefix)
		name := strings.SplitN(rest, "/", 2)[0]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, DirEntry{Name: name, IsDir: strings.Contains(rest, "/")})
	}
	for d := range m.dirs {
		if d == p || !strings.HasPrefix(d, prefix) {
			continue
		}
		rest := strings.TrimPrefix(d, prefix)
		name := strings.SplitN(rest, "/", 2)[0]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, DirEntry{Name: name, IsDir: true})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Mock) Exists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; ok {
		return true
	}
	return m.dirs[p]
}

func (m *Mock) Metadata(ctx context.Context, p string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.files[p]; ok {
		return Metadata{Size: int64(len(data))}, nil
	}
	if m.dirs[p] {
		return Metadata{IsDir: true}, nil
	}
	return Metadata{}, ferrors.IO("vfs.metadata", osNotExist(p))
}

// Slow wraps a FileSystem and adds a fixed latency before every call,
// honoring ctx cancellation during the delay — for exercising the
// file-open dialog's "navigation shortcuts must not block" requirement
// and the chunk loader's prefetch-vs-foreground-read race.
type Slow struct {
	Inner FileSystem
	Delay time.Duration
}

var _ FileSystem = Slow{}

func (s Slow) wait(ctx context.Context) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s Slow) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Inner.ReadFile(ctx, p)
}

func (s Slow) WriteFile(ctx context.Context, p string, data []byte) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.Inner.WriteFile(ctx, p, data)
}

func (s Slow) ReadDir(ctx context.Context, p string) ([]DirEntry, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Inner.ReadDir(ctx, p)
}

func (s Slow) Exists(ctx context.Context, p string) bool {
	if err := s.wait(ctx); err != nil {
		return false
	}
	return s.Inner.Exists(ctx, p)
}

func (s Slow) Metadata(ctx context.Context, p string) (Metadata, error) {
	if err := s.wait(ctx); err != nil {
		return Metadata{}, err
	}
	return s.Inner.Metadata(ctx, p)
}

type notExistError struct{ path string }

func (e *notExistError) Error() string { return e.path + ": no such file or directory" }

func osNotExist(path string) error { return &notExistError{path: path} }
