package semtok

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/freshedit/fresh/internal/lspclient"
	"github.com/freshedit/fresh/internal/lspproto"
	"github.com/freshedit/fresh/internal/piecetree"
)

// SemanticTokenStore is one buffer's decoded semantic tokens, valid only
// for the tree version it was built against (§4.7: "valid iff version ==
// buffer.version(); any edit invalidates").
type SemanticTokenStore struct {
	Version  uint64
	ResultID string
	RawData  []uint32
	Tokens   []Token
}

// Valid reports whether the store still matches the buffer it was built
// for.
func (s *SemanticTokenStore) Valid(currentVersion uint64) bool {
	return s != nil && s.Version == currentVersion
}

// Cache holds one SemanticTokenStore per buffer, evicting the
// least-recently-used entry once full — bounded so a session with many
// open buffers doesn't keep every one's raw token array resident forever.
type Cache struct {
	mu sync.Mutex
	c  *lru.Cache[lspclient.BufferID, *SemanticTokenStore]
}

// NewCache builds a cache holding at most size buffers' stores.
func NewCache(size int) *Cache {
	c, _ := lru.New[lspclient.BufferID, *SemanticTokenStore](size)
	return &Cache{c: c}
}

// Get returns the store for id if present and still valid for
// currentVersion; an invalidated entry is evicted rather than returned.
func (c *Cache) Get(id lspclient.BufferID, currentVersion uint64) (*SemanticTokenStore, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.c.Get(id)
	if !ok {
		return nil, false
	}
	if !s.Valid(currentVersion) {
		c.c.Remove(id)
		return nil, false
	}
	return s, true
}

// PutFull decodes a semanticTokens/full response and stores it for id.
func (c *Cache) PutFull(ctx context.Context, id lspclient.BufferID, tree *piecetree.Tree, version uint64, result lspproto.SemanticTokens, legend lspproto.SemanticTokensLegend) *SemanticTokenStore {
	store := &SemanticTokenStore{
		Version:  version,
		ResultID: result.ResultID,
		RawData:  result.Data,
		Tokens:   Decode(ctx, tree, result.Data, legend),
	}
	c.mu.Lock()
	c.c.Add(id, store)
	c.mu.Unlock()
	return store
}

// PutDelta applies a semanticTokens/full/delta response against the
// previous store's raw data (falling back to treating it as a full
// replacement if there is no previous store, e.g. the server sent a
// delta response despite full/delta not being requested) and re-decodes.
func (c *Cache) PutDelta(ctx context.Context, id lspclient.BufferID, tree *piecetree.Tree, version uint64, previous *SemanticTokenStore, delta lspproto.SemanticTokensDelta, legend lspproto.SemanticTokensLegend) *SemanticTokenStore {
	var base []uint32
	if previous != nil {
		base = previous.RawData
	}
	raw := ApplyDelta(base, delta.Edits)
	store := &SemanticTokenStore{
		Version:  version,
		ResultID: delta.ResultID,
		RawData:  raw,
		Tokens:   Decode(ctx, tree, raw, legend),
	}
	c.mu.Lock()
	c.c.Add(id, store)
	c.mu.Unlock()
	return store
}

// Invalidate drops id's cached store, e.g. on didClose.
func (c *Cache) Invalidate(id lspclient.BufferID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Remove(id)
}

// PreferDelta reports whether a request for id should use
// semanticTokens/full/delta: the server supports it and a previous
// result_id is known (§4.7 "prefers semanticTokens/full/delta when
// supported and a previous result_id is known, otherwise
// semanticTokens/full").
func (c *Cache) PreferDelta(id lspclient.BufferID, serverSupportsDelta bool) (previousResultID string, ok bool) {
	if !serverSupportsDelta {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.c.Peek(id)
	if !ok || s.ResultID == "" {
		return "", false
	}
	return s.ResultID, true
}
