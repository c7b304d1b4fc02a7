// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package stride implements a sampled index of byte offsets.
//
// A Table records the offsets of every Nth element of a sequence, where N
// (the stride) starts at 1. When the table exceeds its capacity, every other
// sample is discarded and the stride doubles, so the table never holds more
// than its capacity while the distance from any index to the nearest sample
// at or below it stays proportional to the stride.
//
// Sample k of the table (0-based) holds the offset of element (k+1)*stride.
// Element 0 is never sampled; callers know its position already.
package stride

import "fmt"

// DefaultCapacity is the default maximum number of samples in a Table.
const DefaultCapacity = 1000

// A Table is a sampled index from element numbers to byte offsets.
// The zero value is not ready for use; construct one with New.
type Table struct {
	offsets []int64
	stride  int
	limit   int
}

// New constructs an empty Table that holds at most limit samples.
// It panics if limit < 2, since compaction could not make progress.
func New(limit int) *Table {
	if limit < 2 {
		panic(fmt.Sprintf("stride: invalid table limit %d", limit))
	}
	return &Table{stride: 1, limit: limit}
}

// Len reports the number of samples currently in t.
func (t *Table) Len() int { return len(t.offsets) }

// Stride reports the current sampling interval of t.
func (t *Table) Stride() int { return t.stride }

// Limit reports the capacity of t.
func (t *Table) Limit() int { return t.limit }

// Next reports the element index whose offset t will record next.
func (t *Table) Next() int { return (len(t.offsets) + 1) * t.stride }

// Observe records that element index begins at offset. Only the element
// reported by Next is sampled; other observations are ignored. Observe
// reports whether the observation caused the table to compact.
func (t *Table) Observe(index int, offset int64) (compacted bool) {
	if index != t.Next() {
		return false
	}
	t.offsets = append(t.offsets, offset)
	if len(t.offsets) <= t.limit {
		return false
	}

	// Keep the samples at odd positions, which are exactly the multiples of
	// the doubled stride.
	n := 0
	for i := 1; i < len(t.offsets); i += 2 {
		t.offsets[n] = t.offsets[i]
		n++
	}
	clear(t.offsets[n:])
	t.offsets = t.offsets[:n]
	t.stride *= 2
	return true
}

// Floor returns the greatest sampled element index that is ≤ index, along
// with its offset. If no such sample exists, Floor returns 0, 0, false.
func (t *Table) Floor(index int) (int, int64, bool) {
	if len(t.offsets) == 0 || index < t.stride {
		return 0, 0, false
	}
	k := min((index-t.stride)/t.stride, len(t.offsets)-1)
	return (k + 1) * t.stride, t.offsets[k], true
}

// Sample returns the element index and offset of the kth sample in t.
// It panics if k is out of range.
func (t *Table) Sample(k int) (int, int64) {
	return (k + 1) * t.stride, t.offsets[k]
}
