// Package piecetree implements the editor's text buffer (§4.1): an
// ordered sequence of pieces over either an in-memory add buffer or a
// lazily-loaded on-disk chunk store, with O(1) structural snapshots for
// undo/redo and UTF-16 aware position conversion for LSP.
package piecetree

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/freshedit/fresh/internal/ferrors"
	"github.com/freshedit/fresh/internal/vfs"
)

// DefaultChunkSize is the fixed chunk size for files over the large-file
// threshold (§3 "Chunk Store").
const DefaultChunkSize = 1 << 20 // 1 MiB

const maxChunkLoadRetries = 3

// ChunkStore lazily loads fixed-size slices of an on-disk file, caching a
// bounded number of resident chunks. Files below the large-file threshold
// are represented with a single always-resident chunk covering the whole
// file, so the piece tree's read path is uniform either way.
type ChunkStore struct {
	fs        vfs.FileSystem
	path      string
	size      int64
	chunkSize int64
	cache     *lru.Cache[int64, []byte]
	readOnly  bool
}

// NewChunkStore opens path as a chunk-backed source. cacheChunks bounds how
// many chunks stay resident at once; it is a no-op sizing knob for small
// files, since NewSingleChunkStore should be used for those instead.
func NewChunkStore(fs vfs.FileSystem, path string, size int64, cacheChunks int) (*ChunkStore, error) {
	if cacheChunks < 2 {
		cacheChunks = 2
	}
	cache, err := lru.New[int64, []byte](cacheChunks)
	if err != nil {
		return nil, err
	}
	return &ChunkStore{fs: fs, path: path, size: size, chunkSize: DefaultChunkSize, cache: cache}, nil
}

// NewSingleChunkStore wraps data that is already fully resident in memory
// (small files, new buffers), giving it the same ChunkStore interface with
// no lazy loading involved.
func NewSingleChunkStore(data []byte) *ChunkStore {
	cache, _ := lru.New[int64, []byte](1)
	cache.Add(int64(0), data)
	return &ChunkStore{size: int64(len(data)), chunkSize: int64(len(data)), cache: cache}
}

// IsLazy reports whether reads may need to touch disk.
func (s *ChunkStore) IsLazy() bool { return s.fs != nil }

// Size is the total byte length of the backing source.
func (s *ChunkStore) Size() int64 { return s.size }

// ReadOnly reports whether a load failure has downgraded this store.
func (s *ChunkStore) ReadOnly() bool { return s.readOnly }

func (s *ChunkStore) chunkIndex(off int64) int64 { return off / s.chunkSize }

func (s *ChunkStore) chunkStart(idx int64) int64 { return idx * s.chunkSize }

// chunk returns the bytes for chunk idx, loading it from disk on a cache
// miss. Load failures are retried a bounded number of times before the
// store is marked read-only and an IoError is returned.
func (s *ChunkStore) chunk(ctx context.Context, idx int64) ([]byte, error) {
	if data, ok := s.cache.Get(idx); ok {
		return data, nil
	}
	if !s.IsLazy() {
		// Single-chunk stores never miss; a miss here means an out-of-range idx.
		return nil, ferrors.InvalidRange("chunkstore.chunk", fmt.Errorf("chunk %d out of range", idx))
	}

	start := s.chunkStart(idx)
	length := s.chunkSize
	if start+length > s.size {
		length = s.size - start
	}
	if length <= 0 {
		return nil, ferrors.InvalidRange("chunkstore.chunk", fmt.Errorf("chunk %d beyond end of file", idx))
	}

	var lastErr error
	for attempt := 0; attempt < maxChunkLoadRetries; attempt++ {
		data, err := s.readRange(ctx, start, length)
		if err == nil {
			s.cache.Add(idx, data)
			return data, nil
		}
		lastErr = err
	}
	s.readOnly = true
	return nil, ferrors.IO("chunkstore.chunk", lastErr)
}

func (s *ChunkStore) readRange(ctx context.Context, start, length int64) ([]byte, error) {
	if rr, ok := s.fs.(vfs.RangeReader); ok {
		return rr.ReadFileRange(ctx, s.path, start, length)
	}
	full, err := s.fs.ReadFile(ctx, s.path)
	if err != nil {
		return nil, err
	}
	end := start + length
	if end > int64(len(full)) {
		end = int64(len(full))
	}
	if start > end {
		start = end
	}
	return full[start:end], nil
}

// ReadRange returns [off, off+length), loading any missing chunks. It
// never returns a partial slice: either the full range or an error.
func (s *ChunkStore) ReadRange(ctx context.Context, off, length int64) ([]byte, error) {
	if off < 0 || length < 0 || off+length > s.size {
		return nil, ferrors.InvalidRange("chunkstore.read_range", fmt.Errorf("[%d,%d) out of [0,%d)", off, off+length, s.size))
	}
	if length == 0 {
		return []byte{}, nil
	}

	out := make([]byte, 0, length)
	first := s.chunkIndex(off)
	last := s.chunkIndex(off + length - 1)
	for idx := first; idx <= last; idx++ {
		data, err := s.chunk(ctx, idx)
		if err != nil {
			return nil, err
		}
		chunkStart := s.chunkStart(idx)
		lo := int64(0)
		if off > chunkStart {
			lo = off - chunkStart
		}
		hi := int64(len(data))
		if off+length < chunkStart+int64(len(data)) {
			hi = off + length - chunkStart
		}
		out = append(out, data[lo:hi]...)
	}
	return out, nil
}

// PrepareRange guarantees every chunk intersecting [off, off+length) is
// resident, for the viewport's prepare-before-render contract.
func (s *ChunkStore) PrepareRange(ctx context.Context, off, length int64) error {
	if length <= 0 {
		return nil
	}
	end := off + length
	if end > s.size {
		end = s.size
	}
	if off >= end {
		return nil
	}
	first := s.chunkIndex(off)
	last := s.chunkIndex(end - 1)
	for idx := first; idx <= last; idx++ {
		if _, err := s.chunk(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// Resident reports whether every chunk covering [off, off+length) is
// already cached, without triggering a load.
func (s *ChunkStore) Resident(off, length int64) bool {
	if !s.IsLazy() {
		return true
	}
	if length <= 0 {
		return true
	}
	end := off + length
	if end > s.size {
		end = s.size
	}
	first := s.chunkIndex(off)
	last := s.chunkIndex(end - 1)
	for idx := first; idx <= last; idx++ {
		if _, ok := s.cache.Get(idx); !ok {
			return false
		}
	}
	return true
}
