// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/creachadair/bigjson"
	"github.com/google/go-cmp/cmp"
)

func mustObject(t *testing.T, input string, opts *bigjson.Options) *bigjson.Object {
	t.Helper()
	v := mustLoad(t, input, opts)
	obj, ok := v.(*bigjson.Object)
	if !ok {
		t.Fatalf("Load %q: got %T, want *Object", input, v)
	}
	return obj
}

// wideObject returns the text of a JSON object mapping "kN" to N for each N
// in 0..n-1.
func wideObject(n int) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i := range n {
		if i > 0 {
			sb.WriteString(",\n ")
		}
		fmt.Fprintf(&sb, `"k%d": %d`, i, i)
	}
	sb.WriteString("}")
	return sb.String()
}

func TestObjectGet(t *testing.T) {
	obj := mustObject(t, `{"a": 1, "b": 2}`, nil)

	for key, want := range map[string]int64{"a": 1, "b": 2} {
		got, err := obj.Get(key)
		if err != nil {
			t.Errorf("Get(%q): unexpected error: %v", key, err)
		} else if got != want {
			t.Errorf("Get(%q): got %v, want %v", key, got, want)
		}
	}
	if got, err := obj.Get("c"); !errors.Is(err, bigjson.ErrKeyNotFound) {
		t.Errorf("Get(c): got (%v, %v), want %v", got, err, bigjson.ErrKeyNotFound)
	}
	if got, err := obj.GetDefault("c", "dflt"); err != nil || got != "dflt" {
		t.Errorf("GetDefault(c): got (%v, %v), want dflt", got, err)
	}
	if got, err := obj.GetDefault("b", "dflt"); err != nil || got != int64(2) {
		t.Errorf("GetDefault(b): got (%v, %v), want 2", got, err)
	}
	for key, want := range map[string]bool{"a": true, "b": true, "A": false, "": false} {
		if got, err := obj.Has(key); err != nil || got != want {
			t.Errorf("Has(%q): got (%v, %v), want %v", key, got, err, want)
		}
	}
	if n, err := obj.Len(); err != nil || n != 2 {
		t.Errorf("Len: got (%d, %v), want (2, nil)", n, err)
	}

	keys, err := obj.Keys()
	if err != nil {
		t.Fatalf("Keys: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	vals, err := obj.Values()
	if err != nil {
		t.Fatalf("Values: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]any{int64(1), int64(2)}, vals); diff != "" {
		t.Errorf("Values (-want, +got):\n%s", diff)
	}
}

func TestObjectEmpty(t *testing.T) {
	obj := mustObject(t, `{ }`, nil)
	if got, err := obj.Get("a"); !errors.Is(err, bigjson.ErrKeyNotFound) {
		t.Errorf("Get(a): got (%v, %v), want %v", got, err, bigjson.ErrKeyNotFound)
	}
	if n, err := obj.Len(); err != nil || n != 0 {
		t.Errorf("Len: got (%d, %v), want (0, nil)", n, err)
	}
	keys, err := obj.Keys()
	if err != nil || keys == nil || len(keys) != 0 {
		t.Errorf("Keys: got (%#v, %v), want empty", keys, err)
	}
	ms, err := obj.Materialize()
	if err != nil || ms == nil || len(ms) != 0 {
		t.Errorf("Materialize: got (%#v, %v), want empty", ms, err)
	}
}

func TestObjectDuplicateKeys(t *testing.T) {
	obj := mustObject(t, `{"b": 0, "a": 1, "a": 2}`, nil)

	check := func(when string) {
		t.Helper()
		if got, err := obj.Get("a"); err != nil || got != int64(1) {
			t.Errorf("Get(a) %s: got (%v, %v), want 1", when, got, err)
		}
	}
	check("cold")
	check("warm")

	// A full scan passes the second "a" but must not replace the first.
	if _, err := obj.Get("missing"); !errors.Is(err, bigjson.ErrKeyNotFound) {
		t.Errorf("Get(missing): got %v, want %v", err, bigjson.ErrKeyNotFound)
	}
	check("after scan")
	if err := obj.PopulateCache(); err != nil {
		t.Fatalf("PopulateCache: unexpected error: %v", err)
	}
	check("after populate")

	items, err := obj.Items()
	if err != nil {
		t.Fatalf("Items: unexpected error: %v", err)
	}
	want := bigjson.Members{
		{Key: "b", Value: int64(0)},
		{Key: "a", Value: int64(1)},
		{Key: "a", Value: int64(2)},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("Items (-want, +got):\n%s", diff)
	}
	if n, err := obj.Len(); err != nil || n != 3 {
		t.Errorf("Len: got (%d, %v), want (3, nil)", n, err)
	}
	if got, ok := items.Find("a"); !ok || got != int64(1) {
		t.Errorf("Find(a): got (%v, %v), want (1, true)", got, ok)
	}
	if diff := cmp.Diff([]string{"b", "a", "a"}, items.Keys()); diff != "" {
		t.Errorf("Members keys (-want, +got):\n%s", diff)
	}
}

func TestObjectDuplicateKeysEvicted(t *testing.T) {
	const input = `{"a": 1, "b": 2, "c": 3, "a": 4}`

	tests := []struct {
		name  string
		setup []string // keys looked up before the checks
	}{
		{"cold", nil},
		{"miss", []string{"zzz"}},
		{"hit then miss", []string{"a", "zzz"}},
		{"last then miss", []string{"c", "zzz", "b"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			obj := mustObject(t, input, &bigjson.Options{KeyCacheSize: 2})
			for _, key := range test.setup {
				if _, err := obj.Get(key); err != nil && !errors.Is(err, bigjson.ErrKeyNotFound) {
					t.Fatalf("Get(%q): unexpected error: %v", key, err)
				}
			}
			for i := range 3 {
				if got, err := obj.Get("a"); err != nil || got != int64(1) {
					t.Errorf("Get(a) #%d: got (%v, %v), want 1", i+1, got, err)
				}
				if _, err := obj.Get("zzz"); !errors.Is(err, bigjson.ErrKeyNotFound) {
					t.Errorf("Get(zzz): got %v, want %v", err, bigjson.ErrKeyNotFound)
				}
			}
			if s := obj.Stats(); s.CachedKeys > 2 {
				t.Errorf("Stats: %d cached keys exceeds limit 2", s.CachedKeys)
			}
		})
	}
}

func TestObjectManyKeys(t *testing.T) {
	const n = 2000
	input := wideObject(n)

	for _, size := range []int{0, 8, 100} {
		t.Run(fmt.Sprintf("cache=%d", size), func(t *testing.T) {
			obj := mustObject(t, input, &bigjson.Options{KeyCacheSize: size})
			limit := size
			if limit == 0 {
				limit = 512
			}

			// Reach the last key first, which passes all the others.
			if got, err := obj.Get(fmt.Sprintf("k%d", n-1)); err != nil || got != int64(n-1) {
				t.Fatalf("Get(last): got (%v, %v), want %d", got, err, n-1)
			}
			for _, i := range rand.Perm(n)[:400] {
				key := fmt.Sprintf("k%d", i)
				got, err := obj.Get(key)
				if err != nil {
					t.Fatalf("Get(%q): unexpected error: %v", key, err)
				}
				if got != int64(i) {
					t.Fatalf("Get(%q): got %v, want %d", key, got, i)
				}
			}
			s := obj.Stats()
			if s.CachedKeys > limit {
				t.Errorf("Stats: %d cached keys exceeds limit %d", s.CachedKeys, limit)
			}
			if s.Evicted == 0 {
				t.Errorf("Stats: no keys evicted from a cache of %d after %d keys", limit, n)
			}
			if s.Length != -1 {
				t.Errorf("Stats: lookups computed the length (%d)", s.Length)
			}
		})
	}
}

func TestObjectPopulateCache(t *testing.T) {
	obj := mustObject(t, `{"a":1,"b":2,"c":3,"d":4,"e":5,"f":6}`, &bigjson.Options{KeyCacheSize: 4})
	if err := obj.PopulateCache(); err != nil {
		t.Fatalf("PopulateCache: unexpected error: %v", err)
	}
	s := obj.Stats()
	if s.CachedKeys != 4 || s.Evicted != 0 || s.Length != 6 {
		t.Errorf("Stats: got %+v, want 4 cached keys, none evicted, length 6", s)
	}
	for i, key := range []string{"a", "b", "c", "d", "e", "f"} {
		if got, err := obj.Get(key); err != nil || got != int64(i+1) {
			t.Errorf("Get(%q): got (%v, %v), want %d", key, got, err, i+1)
		}
	}
}

func TestObjectNested(t *testing.T) {
	obj := mustObject(t, `{"x": {"y": [1, {"z": true}]}, "w": null}`, nil)

	v, err := obj.Get("x")
	if err != nil {
		t.Fatalf("Get(x): unexpected error: %v", err)
	}
	inner, ok := v.(*bigjson.Object)
	if !ok {
		t.Fatalf("Get(x): got %T, want *Object", v)
	}
	if s := inner.Stats(); s.Length != -1 {
		t.Errorf("Get(x): object was scanned, length %d", s.Length)
	}
	if got, err := bigjson.Path(obj, "x", "y", 1, "z"); err != nil || got != true {
		t.Errorf("Path: got (%v, %v), want (true, nil)", got, err)
	}
	if got, err := obj.Get("w"); err != nil || got != nil {
		t.Errorf("Get(w): got (%v, %v), want (nil, nil)", got, err)
	}
	if ok, err := obj.Has("w"); err != nil || !ok {
		t.Errorf("Has(w): got (%v, %v), want (true, nil)", ok, err)
	}
}

func TestObjectErrors(t *testing.T) {
	tests := []struct {
		input, key string
		want       error
	}{
		{`{"a": 1,}`, "z", bigjson.ErrStructure},
		{`{"a": 1 "b": 2}`, "b", bigjson.ErrStructure},
		{`{"a" 1}`, "a", bigjson.ErrStructure},
		{`{"a": }`, "a", bigjson.ErrStructure},
		{`{1: 2}`, "a", bigjson.ErrKeyType},
		{`{"a": 1, false: 2}`, "b", bigjson.ErrKeyType},
		{`{"a": tru}`, "b", bigjson.ErrSyntax},
		{`{"a": 1`, "b", bigjson.ErrStructure},
	}
	for _, test := range tests {
		obj := mustObject(t, test.input, nil)
		if got, err := obj.Get(test.key); !errors.Is(err, test.want) {
			t.Errorf("Get(%q) on %#q: got (%v, %v), want %v", test.key, test.input, got, err, test.want)
		}
		if _, err := obj.Keys(); !errors.Is(err, test.want) {
			t.Errorf("Keys on %#q: got %v, want %v", test.input, err, test.want)
		}
	}
}

func TestObjectIterInterleaved(t *testing.T) {
	obj := mustObject(t, wideObject(20), &bigjson.Options{KeyCacheSize: 4})

	var keys []string
	it := obj.Iter()
	for it.Next() {
		keys = append(keys, it.Key())
		if _, err := obj.Get("k19"); err != nil {
			t.Fatalf("Get(k19): unexpected error: %v", err)
		}
		if got, err := obj.Get(it.Key()); err != nil || got != it.Value() {
			t.Fatalf("Get(%q): got (%v, %v), want %v", it.Key(), got, err, it.Value())
		}
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Iter: unexpected error: %v", err)
	}
	if len(keys) != 20 || keys[0] != "k0" || keys[19] != "k19" {
		t.Errorf("Iter keys: got %v", keys)
	}
}

func TestObjectIterOffsets(t *testing.T) {
	const input = `{"a": 1, "bb": [2]}`
	obj := mustObject(t, input, nil)
	it := obj.Iter()
	var offs []int64
	for it.Next() {
		offs = append(offs, it.Offset())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Iter: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int64{1, 9}, offs); diff != "" {
		t.Errorf("Offsets (-want, +got):\n%s", diff)
	}
	if got := obj.String(); got != "Object@0" {
		t.Errorf("String: got %q, want Object@0", got)
	}
}
