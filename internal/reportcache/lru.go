package reportcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize bounds the in-process cache when no size is configured.
const DefaultLRUSize = 1024

// LRUCache keeps entries in process memory, evicting the least recently used.
type LRUCache struct {
	entries *lru.Cache[string, *Entry]
}

// NewLRU creates an in-process cache holding at most size users.
func NewLRU(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	entries, err := lru.New[string, *Entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

// Get returns a copy of the cached entry.
func (c *LRUCache) Get(_ context.Context, userID string) (*Entry, bool, error) {
	if userID == "" {
		return nil, false, ErrEmptyUserID
	}
	entry, ok := c.entries.Get(userID)
	if !ok {
		return nil, false, nil
	}
	return cloneEntry(entry), true, nil
}

// Put stores a copy of entry.
func (c *LRUCache) Put(_ context.Context, userID string, entry *Entry) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	c.entries.Add(userID, cloneEntry(entry))
	return nil
}

// Ping always succeeds.
func (c *LRUCache) Ping(context.Context) error { return nil }

// Len returns the number of cached users.
func (c *LRUCache) Len() int { return c.entries.Len() }
