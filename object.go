// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"fmt"

	"github.com/creachadair/bigjson/internal/escape"
	"github.com/creachadair/bigjson/internal/keycache"
)

// An Object is a lazy view of a JSON object. Members are located and decoded
// only when requested, and are reported in the order they occur in the input.
//
// An Object caches the offsets of keys it has scanned past, up to a fixed
// limit, so that later lookups of those keys can seek directly to them. When
// the cache is full the oldest entry is evicted; keys that were the target of
// a successful lookup are refreshed and survive longer.
//
// JSON permits an object to repeat a key. Iteration reports every member,
// including repeats; lookup by key always finds the first occurrence.
type Object struct {
	r      *Reader
	begin  int64 // offset of "{"
	length int   // -1 if unknown
	keys   *keycache.Cache
}

func newObject(r *Reader, begin int64) *Object {
	return &Object{r: r, begin: begin, length: -1}
}

// Offset returns the byte offset of the opening brace of o.
func (o *Object) Offset() int64 { return o.begin }

func (o *Object) String() string { return fmt.Sprintf("Object@%d", o.begin) }

func (o *Object) cache() *keycache.Cache {
	if o.keys == nil {
		o.keys = keycache.New(o.r.cacheSize)
	}
	return o.keys
}

// Len returns the number of members in o, counting repeated keys. The first
// call scans the object; the result is cached thereafter.
func (o *Object) Len() (int, error) {
	if o.length < 0 {
		if err := o.ReadAll(); err != nil {
			return 0, err
		}
	}
	return o.length, nil
}

// ReadAll scans and validates every member of o, and caches its length.
func (o *Object) ReadAll() error {
	_, err := o.readAll(Skip, false, false)
	return err
}

// Materialize decodes every member of o recursively into native values.
func (o *Object) Materialize() (Members, error) { return o.readAll(Materialize, true, false) }

// PopulateCache scans every member of o and records key offsets in the cache
// of o until it is full. Keys already cached are not replaced.
func (o *Object) PopulateCache() error {
	_, err := o.readAll(Skip, false, true)
	return err
}

func (o *Object) readAll(mode Mode, keep, populate bool) (Members, error) {
	var out Members
	if keep {
		out = Members{}
	}
	var c *keycache.Cache
	if populate {
		c = o.cache()
	}
	n := 0
	it := o.IterMode(mode)
	for it.Next() {
		if keep {
			out = append(out, Member{Key: it.Key(), Value: it.Value()})
		}
		if c != nil && c.Len() < c.Limit() {
			c.Note(it.Key(), it.Offset())
		}
		n++
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	o.length = n
	return out, nil
}

// lookupMode selects how a lookup treats a missing key.
type lookupMode byte

const (
	mustFind    lookupMode = iota // report ErrKeyNotFound
	withDefault                   // return a default value
	presence                      // report presence only
)

// Get returns the value of the first member of o with the given key. Arrays
// and objects are returned as unscanned views. If no member has that key, Get
// reports an error wrapping ErrKeyNotFound.
func (o *Object) Get(key string) (any, error) {
	v, ok, err := o.lookup(key, mustFind)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("key %s: %w", escape.Quote(key), ErrKeyNotFound)
	}
	return v, nil
}

// GetDefault returns the value of the first member of o with the given key,
// or def if there is no such member.
func (o *Object) GetDefault(key string, def any) (any, error) {
	v, ok, err := o.lookup(key, withDefault)
	if err != nil {
		return nil, err
	} else if !ok {
		return def, nil
	}
	return v, nil
}

// Has reports whether o has a member with the given key.
func (o *Object) Has(key string) (bool, error) {
	_, ok, err := o.lookup(key, presence)
	return ok, err
}

// lookup finds the first member of o with the given key. If the key has been
// seen before, lookup seeks directly to it; otherwise it scans from the start
// of o, caching the offsets of the keys it passes.
func (o *Object) lookup(key string, mode lookupMode) (any, bool, error) {
	r := o.r
	c := o.cache()
	if off, ok := c.Lookup(key); ok {
		if err := r.Seek(off); err != nil {
			return nil, false, err
		}
	} else {
		c.BeginScan()
		defer c.EndScan()
		if err := r.Seek(o.begin); err != nil {
			return nil, false, err
		}
		if _, err := r.expect('{'); err != nil {
			return nil, false, err
		}
	}
	if ok, err := r.PeekIs('}'); err != nil || ok {
		return nil, false, err
	}

	for {
		if err := r.SkipSpace(); err != nil {
			return nil, false, err
		}
		off := r.Pos()
		k2, err := r.readKey()
		if err != nil {
			return nil, false, err
		}
		if _, err := r.expect(':'); err != nil {
			return nil, false, err
		}
		if err := r.SkipSpace(); err != nil {
			return nil, false, err
		}

		// A scan that passes keys begins at the start of the object, and the
		// cache refuses a key evicted earlier in the same scan, so only the
		// first occurrence of a repeated key is ever cached.
		c.Note(k2, off)
		if k2 == key {
			c.Promote(key)
			if mode == presence {
				return nil, true, nil
			}
			v, err := r.Read(Lazy)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		}

		if _, err := r.Read(Skip); err != nil {
			return nil, false, err
		}
		if sep, err := r.expect(',', '}'); err != nil {
			return nil, false, err
		} else if sep == '}' {
			return nil, false, nil
		}
	}
}

// Keys returns the keys of o in order, including repeats.
func (o *Object) Keys() ([]string, error) {
	keys := []string{}
	it := o.Iter()
	for it.Next() {
		keys = append(keys, it.Key())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Values returns the values of the members of o in order. Arrays and objects
// are returned as scanned views.
func (o *Object) Values() ([]any, error) {
	vals := []any{}
	it := o.Iter()
	for it.Next() {
		vals = append(vals, it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return vals, nil
}

// Items returns the members of o in order. Arrays and objects are returned
// as scanned views.
func (o *Object) Items() (Members, error) { return o.readAll(Skip, true, false) }

// ObjectStats describe the cached state of an Object.
type ObjectStats struct {
	Length     int // -1 if not yet known
	CachedKeys int // keys in the offset cache
	Evicted    int // keys evicted from the offset cache
}

// Stats reports the cached state of o.
func (o *Object) Stats() ObjectStats {
	s := ObjectStats{Length: o.length}
	if o.keys != nil {
		s.CachedKeys, s.Evicted = o.keys.Len(), o.keys.Evicted()
	}
	return s
}

// Iter returns an iterator over the members of o, in order. Arrays and
// objects are returned as scanned views (see Skip).
func (o *Object) Iter() *ObjectIter { return o.IterMode(Skip) }

// IterMode returns an iterator over the members of o, with values decoded
// with the given mode. Lazy is treated as Skip.
func (o *Object) IterMode(mode Mode) *ObjectIter {
	if mode == Lazy {
		mode = Skip
	}
	return &ObjectIter{o: o, mode: mode}
}

// An ObjectIter is an iterator over the members of an object:
//
//	it := obj.Iter()
//	for it.Next() {
//	   log.Printf("Member %q: %v", it.Key(), it.Value())
//	}
//	if err := it.Err(); err != nil {
//	   log.Fatalf("Iteration failed: %v", err)
//	}
//
// Each call to Next seeks to where the previous call stopped, so other
// operations on the same Reader may be performed between calls.
type ObjectIter struct {
	o       *Object
	mode    Mode
	started bool
	next    int64 // offset after the current value

	key    string
	value  any
	offset int64 // offset of the current key token
	err    error
	done   bool
}

// Next advances it to the next member, and reports whether one is available.
func (it *ObjectIter) Next() bool {
	if it.done {
		return false
	}
	r := it.o.r
	if !it.started {
		it.started = true
		if err := r.Seek(it.o.begin); err != nil {
			return it.fail(err)
		}
		if _, err := r.expect('{'); err != nil {
			return it.fail(err)
		}
		if ok, err := r.ConsumeIf('}'); err != nil {
			return it.fail(err)
		} else if ok {
			return it.stop()
		}
	} else {
		if err := r.Seek(it.next); err != nil {
			return it.fail(err)
		}
		if sep, err := r.expect(',', '}'); err != nil {
			return it.fail(err)
		} else if sep == '}' {
			return it.stop()
		}
	}

	if err := r.SkipSpace(); err != nil {
		return it.fail(err)
	}
	off := r.Pos()
	key, err := r.readKey()
	if err != nil {
		return it.fail(err)
	}
	if _, err := r.expect(':'); err != nil {
		return it.fail(err)
	}
	v, err := r.Read(it.mode)
	if err != nil {
		return it.fail(err)
	}
	it.key, it.value, it.offset = key, v, off
	it.next = r.Pos()
	return true
}

// Key returns the key of the current member.
func (it *ObjectIter) Key() string { return it.key }

// Value returns the value of the current member.
func (it *ObjectIter) Value() any { return it.value }

// Offset returns the byte offset of the key of the current member.
func (it *ObjectIter) Offset() int64 { return it.offset }

// Err returns the error that ended iteration, if any.
func (it *ObjectIter) Err() error { return it.err }

func (it *ObjectIter) stop() bool {
	it.done, it.key, it.value = true, "", nil
	return false
}

func (it *ObjectIter) fail(err error) bool {
	it.err = err
	return it.stop()
}
