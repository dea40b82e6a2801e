package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/bayesdx/internal/service"
)

// responseCache memoises encoded responses keyed by operation and resolved
// input. A nil cache never hits.
type responseCache struct {
	entries *lru.Cache[string, []byte]
}

// newResponseCache returns nil when size is 0.
func newResponseCache(size int) (*responseCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create response cache: %w", err)
	}
	return &responseCache{entries: entries}, nil
}

// key hashes the operation and the canonical JSON of the resolved input.
// Catalog IDs are resolved before hashing so equivalent requests share a key.
func (c *responseCache) key(op service.Operation, in any) (string, bool) {
	if c == nil {
		return "", false
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(append([]byte(op+"\x00"), b...))
	return hex.EncodeToString(sum[:]), true
}

func (c *responseCache) get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

func (c *responseCache) add(key string, body []byte) {
	if c != nil {
		c.entries.Add(key, body)
	}
}

func (c *responseCache) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
