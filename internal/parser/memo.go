package parser

import (
	"crypto/sha256"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo caches the boundaries of recently seen texts by content hash.
type Memo struct {
	next  Extractor
	cache *lru.Cache[[sha256.Size]byte, []Boundary]
}

// NewMemo wraps next with an LRU holding up to size texts.
func NewMemo(next Extractor, size int) (*Memo, error) {
	cache, err := lru.New[[sha256.Size]byte, []Boundary](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &Memo{next: next, cache: cache}, nil
}

func (m *Memo) Boundaries(text string) []Boundary {
	key := sha256.Sum256([]byte(text))
	if b, ok := m.cache.Get(key); ok {
		return slices.Clone(b)
	}
	b := m.next.Boundaries(text)
	m.cache.Add(key, b)
	return slices.Clone(b)
}

// Len returns the number of cached texts.
func (m *Memo) Len() int {
	return m.cache.Len()
}
