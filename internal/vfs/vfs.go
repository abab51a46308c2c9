// Package vfs defines the filesystem capability interface (§9): the chunk
// store, directory listing, and file-open dialog all go through a
// FileSystem rather than package os directly, so tests can swap in a Mock
// and a background task pool can bound how long an unresponsive path is
// allowed to stall the UI.
package vfs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"time"
)

// DirEntry is a trimmed os.DirEntry: just what directory-listing and the
// file-open dialog need to render and filter.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Metadata is the subset of file metadata the editor cares about: size for
// the large-file threshold, mod time for external-change detection.
type Metadata struct {
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// FileSystem is the capability interface every filesystem touchpoint in
// the editor depends on: the piece-tree chunk loader, the file-open
// dialog's directory listing, and the save path. Every existence check a
// caller needs goes through Exists rather than a raw stat, so Mock/Slow
// implementations can bound or fail it deterministically in tests.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	ReadDir(ctx context.Context, path string) ([]DirEntry, error)
	Exists(ctx context.Context, path string) bool
	Metadata(ctx context.Context, path string) (Metadata, error)
}

// RangeReader is an optional capability a FileSystem may also implement,
// letting the chunk store read a single chunk without materializing the
// whole file. Callers should type-assert for it and fall back to
// ReadFile+slice otherwise.
type RangeReader interface {
	ReadFileRange(ctx context.Context, path string, offset, length int64) ([]byte, error)
}

// Std is the real filesystem, backed by package os. ctx is honored only
// where os exposes a cancelable variant; long-running listings are
// expected to be issued from a bounded worker pool by the caller rather
// than canceled mid-syscall.
type Std struct{}

var (
	_ FileSystem  = Std{}
	_ RangeReader = Std{}
)

func (Std) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (Std) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (Std) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

func (Std) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ReadFileRange reads up to length bytes starting at offset (fewer when the
// file ends first) without loading the rest of the file, the fast path the
// chunk store prefers.
func (Std) ReadFileRange(ctx context.Context, path string, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func (Std) Metadata(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}
