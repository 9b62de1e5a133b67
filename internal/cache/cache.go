package cache

import (
	"slices"
	"sync"
)

// Cache is a last-write-wins response cache. Every key is independent;
// there is no TTL and no eviction other than Drop.
type Cache struct {
	entries sync.Map // Key -> Response
}

var _ Responses = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{}
}

// Put stores resp for (uri, line), replacing any previous response.
func (c *Cache) Put(uri string, line uint32, resp Response) {
	resp.Headers = slices.Clone(resp.Headers)
	c.entries.Store(Key{URI: uri, Line: line}, resp)
}

// Get returns the response last stored for (uri, line).
func (c *Cache) Get(uri string, line uint32) (Response, bool) {
	v, ok := c.entries.Load(Key{URI: uri, Line: line})
	if !ok {
		return Response{}, false
	}
	resp := v.(Response)
	resp.Headers = slices.Clone(resp.Headers)
	return resp, true
}

// Drop removes every response of uri and returns how many were removed.
func (c *Cache) Drop(uri string) int {
	removed := 0
	c.entries.Range(func(k, _ any) bool {
		if k.(Key).URI == uri {
			if _, loaded := c.entries.LoadAndDelete(k); loaded {
				removed++
			}
		}
		return true
	})
	return removed
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
