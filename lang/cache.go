package lang

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/zeebo/blake3"
)

// parseCache stores parse results keyed by a hash of the source text.
// Cached statements are shared between callers, which is safe because the
// parser never modifies a node after returning it.
//
// A nil *parseCache is valid and caches nothing.
type parseCache struct {
	lru *lru.Cache
}

// cacheKey identifies a source text.
type cacheKey [32]byte

type cacheEntry struct {
	script []*Statement
	err    error
}

func newParseCache(size int) *parseCache {
	if size <= 0 {
		return nil
	}

	c, err := lru.New(size)
	if err != nil {
		return nil
	}

	return &parseCache{lru: c}
}

func (c *parseCache) get(text string) ([]*Statement, error, bool) {
	if c == nil {
		return nil, nil, false
	}

	v, ok := c.lru.Get(keyOf(text))
	if !ok {
		return nil, nil, false
	}

	e := v.(cacheEntry) //nolint:forcetypeassert

	return e.script, e.err, true
}

func (c *parseCache) add(text string, script []*Statement, err error) {
	if c == nil {
		return
	}

	c.lru.Add(keyOf(text), cacheEntry{script: script, err: err})
}

// Len returns the number of cached sources.
func (c *parseCache) Len() int {
	if c == nil {
		return 0
	}

	return c.lru.Len()
}

func keyOf(text string) cacheKey {
	return blake3.Sum256([]byte(text))
}
