// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"errors"
	"fmt"
	"math"

	"github.com/creachadair/bigjson/internal/stride"
	"github.com/go-kit/log/level"
)

// An Array is a lazy view of a JSON array. Elements are located and decoded
// only when requested.
//
// To make repeated and ascending access cheap, an Array remembers the offset
// of the furthest element it has reached, and a sampled table of the offsets
// of every Nth element. The table has bounded size: when it fills, half its
// samples are dropped and N doubles.
type Array struct {
	r      *Reader
	begin  int64 // offset of "["
	length int   // -1 if unknown

	lastIndex int   // furthest element reached
	lastPos   int64 // offset of element lastIndex
	table     *stride.Table
}

func newArray(r *Reader, begin int64) *Array {
	return &Array{r: r, begin: begin, length: -1, lastPos: begin}
}

// Offset returns the byte offset of the opening bracket of a.
func (a *Array) Offset() int64 { return a.begin }

func (a *Array) String() string { return fmt.Sprintf("Array@%d", a.begin) }

// Len returns the number of elements in a. The first call scans the array;
// the result is cached thereafter.
func (a *Array) Len() (int, error) {
	if a.length < 0 {
		if err := a.ReadAll(); err != nil {
			return 0, err
		}
	}
	return a.length, nil
}

// ReadAll scans and validates every element of a, and caches its length.
func (a *Array) ReadAll() error {
	_, err := a.readAll(Skip, false, true)
	return err
}

// Materialize decodes every element of a recursively into native values.
func (a *Array) Materialize() ([]any, error) { return a.readAll(Materialize, true, true) }

// readAll scans every element of a in the given mode, and returns them if
// keep is true. If record is false, element offsets are not kept.
func (a *Array) readAll(mode Mode, keep, record bool) ([]any, error) {
	var out []any
	if keep {
		out = []any{}
	}
	n := 0
	it := a.IterMode(mode)
	it.record = record
	for it.Next() {
		if keep {
			out = append(out, it.Value())
		}
		n++
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	a.length = n
	return out, nil
}

// Get returns the element of a at index i. A negative index counts backward
// from the end of the array, which requires the length of a to be known.
// Arrays and objects are returned as unscanned views.
//
// Get reports an error wrapping ErrIndexRange if i is out of range.
func (a *Array) Get(i int) (any, error) {
	want := i
	if i < 0 {
		n, err := a.Len()
		if err != nil {
			return nil, err
		}
		if i += n; i < 0 {
			return nil, a.rangeError(want)
		}
	}
	if a.length >= 0 && i >= a.length {
		return nil, a.rangeError(want)
	}

	at, err := a.seekNear(i)
	if err != nil {
		return nil, err
	}
	r := a.r
	if at == 0 {
		if _, err := r.expect('['); err != nil {
			return nil, err
		}
		if ok, err := r.PeekIs(']'); err != nil {
			return nil, err
		} else if ok {
			return nil, a.rangeError(want)
		}
	}

	for {
		if at == i {
			return r.Read(Lazy)
		}
		if _, err := r.Read(Skip); err != nil {
			return nil, err
		}
		if sep, err := r.expect(',', ']'); err != nil {
			return nil, err
		} else if sep == ']' {
			return nil, a.rangeError(want)
		}
		if err := r.SkipSpace(); err != nil {
			return nil, err
		}
		at++
		a.observe(at, r.Pos())
	}
}

// seekNear positions the reader at the closest known element at or before
// index i, and returns the index of that element.
func (a *Array) seekNear(i int) (int, error) {
	at, pos := 0, a.begin
	if i >= a.lastIndex {
		at, pos = a.lastIndex, a.lastPos
	} else if a.table != nil {
		if j, off, ok := a.table.Floor(i); ok {
			at, pos = j, off
		}
	}
	return at, a.r.Seek(pos)
}

// observe records that element index begins at offset pos.
func (a *Array) observe(index int, pos int64) {
	if index > a.lastIndex {
		a.lastIndex, a.lastPos = index, pos
	}
	if a.table == nil {
		a.table = stride.New(a.r.indexSize)
	}
	if a.table.Observe(index, pos) {
		level.Debug(a.r.logger).Log("msg", "compacted array index table",
			"array", a.begin, "stride", a.table.Stride(), "samples", a.table.Len())
	}
}

func (a *Array) rangeError(i int) error {
	if a.length >= 0 {
		return fmt.Errorf("array index %d (n=%d): %w", i, a.length, ErrIndexRange)
	}
	return fmt.Errorf("array index %d: %w", i, ErrIndexRange)
}

// Unbounded may be passed as the start or stop argument of Slice to denote
// an open end of the range.
const Unbounded = math.MinInt

// Slice returns the elements of a selected by start, stop, and step, with
// the usual slice conventions: the range is half-open, negative bounds
// count back from the end, out-of-range bounds are clamped, and a negative
// step walks backward. Pass Unbounded for an open start or stop.
//
// The length of a is computed only when a bound is open at the end, a bound
// is negative, or step is negative. Each element is fetched as by Get.
func (a *Array) Slice(start, stop, step int) ([]any, error) {
	if step == 0 {
		return nil, errors.New("slice step cannot be zero")
	}
	if step > 0 && start >= 0 && stop >= 0 {
		out := []any{}
		for i := start; i < stop; i += step {
			v, err := a.Get(i)
			if errors.Is(err, ErrIndexRange) {
				break
			} else if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	if step > 0 && start == Unbounded && stop >= 0 {
		return a.Slice(0, stop, step)
	}

	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	lo, hi := sliceIndices(n, start, stop, step)
	out := []any{}
	for i := lo; (step > 0 && i < hi) || (step < 0 && i > hi); i += step {
		v, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// sliceIndices normalizes slice bounds against length n.
func sliceIndices(n, start, stop, step int) (lo, hi int) {
	fix := func(v, open, floor, ceil int) int {
		if v == Unbounded {
			return open
		}
		if v < 0 {
			v += n
		}
		return max(floor, min(v, ceil))
	}
	if step > 0 {
		return fix(start, 0, 0, n), fix(stop, n, 0, n)
	}
	return fix(start, n-1, -1, n-1), fix(stop, -1, -1, n-1)
}

// Index returns the position of the first element of a equal to v (see
// Equal). It reports an error wrapping ErrNotFound if there is none.
func (a *Array) Index(v any) (int, error) {
	it := a.Iter()
	for it.Next() {
		if eq, err := Equal(it.Value(), v); err != nil {
			return -1, err
		} else if eq {
			return it.Index(), nil
		}
	}
	if err := it.Err(); err != nil {
		return -1, err
	}
	return -1, fmt.Errorf("array index of %v: %w", v, ErrNotFound)
}

// Count returns the number of elements of a equal to v (see Equal).
func (a *Array) Count(v any) (int, error) {
	var n int
	it := a.Iter()
	for it.Next() {
		if eq, err := Equal(it.Value(), v); err != nil {
			return 0, err
		} else if eq {
			n++
		}
	}
	return n, it.Err()
}

// Contains reports whether any element of a is equal to v (see Equal).
func (a *Array) Contains(v any) (bool, error) {
	_, err := a.Index(v)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ArrayStats describe the cached state of an Array.
type ArrayStats struct {
	Length    int // -1 if not yet known
	LastIndex int // furthest element located so far
	Samples   int // entries in the sampled offset table
	Stride    int // element interval between samples
}

// Stats reports the cached state of a.
func (a *Array) Stats() ArrayStats {
	s := ArrayStats{Length: a.length, LastIndex: a.lastIndex, Stride: 1}
	if a.table != nil {
		s.Samples, s.Stride = a.table.Len(), a.table.Stride()
	}
	return s
}

// Iter returns an iterator over the elements of a, in order. Arrays and
// objects are returned as scanned views (see Skip).
//
// Iteration updates the offset caches of a: the elements it passes are
// recorded in the sampled table, and become the starting points of later
// calls to Get (see Stats).
func (a *Array) Iter() *ArrayIter { return a.IterMode(Skip) }

// IterMode returns an iterator over the elements of a, decoded with the given
// mode. Lazy is treated as Skip, since the iterator must pass each element.
func (a *Array) IterMode(mode Mode) *ArrayIter {
	if mode == Lazy {
		mode = Skip
	}
	return &ArrayIter{a: a, mode: mode, index: -1, record: true}
}

// An ArrayIter is an iterator over the elements of an array:
//
//	it := arr.Iter()
//	for it.Next() {
//	   log.Printf("Element %d: %v", it.Index(), it.Value())
//	}
//	if err := it.Err(); err != nil {
//	   log.Fatalf("Iteration failed: %v", err)
//	}
//
// Each call to Next seeks to where the previous call stopped, so other
// operations on the same Reader may be performed between calls. The offsets
// of elements passed by an iterator are recorded for later calls to Get.
type ArrayIter struct {
	a      *Array
	mode   Mode
	record bool  // update the offset caches of a
	next   int64 // offset after the current element
	index  int
	value  any
	err    error
	done   bool
}

// Next advances it to the next element, and reports whether one is available.
func (it *ArrayIter) Next() bool {
	if it.done {
		return false
	}
	r := it.a.r
	if it.index < 0 {
		if err := r.Seek(it.a.begin); err != nil {
			return it.fail(err)
		}
		if _, err := r.expect('['); err != nil {
			return it.fail(err)
		}
		if ok, err := r.ConsumeIf(']'); err != nil {
			return it.fail(err)
		} else if ok {
			return it.stop()
		}
	} else {
		if err := r.Seek(it.next); err != nil {
			return it.fail(err)
		}
		if sep, err := r.expect(',', ']'); err != nil {
			return it.fail(err)
		} else if sep == ']' {
			return it.stop()
		}
		if err := r.SkipSpace(); err != nil {
			return it.fail(err)
		}
		if it.record {
			it.a.observe(it.index+1, r.Pos())
		}
	}
	v, err := r.Read(it.mode)
	if err != nil {
		return it.fail(err)
	}
	it.index++
	it.value = v
	it.next = r.Pos()
	return true
}

// Value returns the current element. It is valid only after Next reports true.
func (it *ArrayIter) Value() any { return it.value }

// Index returns the position of the current element.
func (it *ArrayIter) Index() int { return it.index }

// Err returns the error that ended iteration, if any.
func (it *ArrayIter) Err() error { return it.err }

func (it *ArrayIter) stop() bool {
	it.done, it.value = true, nil
	return false
}

func (it *ArrayIter) fail(err error) bool {
	it.err = err
	return it.stop()
}
