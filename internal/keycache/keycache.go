// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package keycache implements a bounded cache from object keys to the byte
// offsets of their key tokens.
//
// Keys are added in the order a scan passes them, and the oldest entry is
// evicted to make room when the cache is full. Adding a key does not refresh
// it; only Promote marks a key as recently useful.
//
// A scan that begins at the start of an object passes the first occurrence of
// each key before any repeat. Between BeginScan and EndScan, a key evicted
// during the scan is not added again, so a repeat never replaces it.
package keycache

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the default maximum number of keys in a Cache.
const DefaultCapacity = 512

// A Cache maps object keys to offsets. It is not safe for concurrent use.
type Cache struct {
	lru     *simplelru.LRU[string, int64]
	limit   int
	evicted int
	dropped map[string]bool // keys evicted during the current scan, or nil
}

// New constructs an empty Cache holding at most limit keys.
// It panics if limit <= 0.
func New(limit int) *Cache {
	c := &Cache{limit: limit}
	lru, err := simplelru.NewLRU[string, int64](limit, func(key string, _ int64) {
		c.evicted++
		if c.dropped != nil {
			c.dropped[key] = true
		}
	})
	if err != nil {
		panic(fmt.Sprintf("keycache: %v", err))
	}
	c.lru = lru
	return c
}

// Lookup reports the offset recorded for key, if any. Lookup does not change
// the eviction order.
func (c *Cache) Lookup(key string) (int64, bool) { return c.lru.Peek(key) }

// Note records that key was found at offset, unless key is already present
// or was evicted during the current scan. If the cache is full, the oldest
// entry is evicted. Note reports whether key was added.
func (c *Cache) Note(key string, offset int64) bool {
	if c.lru.Contains(key) || c.dropped[key] {
		return false
	}
	c.lru.Add(key, offset)
	return true
}

// BeginScan starts a scan of an object from its first member.
func (c *Cache) BeginScan() { c.dropped = make(map[string]bool) }

// EndScan ends the current scan, if any.
func (c *Cache) EndScan() { c.dropped = nil }

// Promote marks key as the most recently used entry, if it is present.
func (c *Cache) Promote(key string) { c.lru.Get(key) }

// Len reports the number of keys in c.
func (c *Cache) Len() int { return c.lru.Len() }

// Limit reports the capacity of c.
func (c *Cache) Limit() int { return c.limit }

// Evicted reports the total number of keys evicted from c.
func (c *Cache) Evicted() int { return c.evicted }

// Keys returns the cached keys from oldest to newest.
func (c *Cache) Keys() []string { return c.lru.Keys() }
