// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package bigjson implements random-access reading of JSON documents too
// large to hold in memory.
//
// # Loading
//
// Load reads the top-level value of a seekable input. Arrays and objects are
// not decoded; instead Load returns a lazy view that locates and decodes
// elements on request, by seeking back into the input:
//
//	f, err := bigjson.Open("huge.json", nil)
//	if err != nil {
//	   log.Fatalf("Open: %v", err)
//	}
//	defer f.Close()
//	v, err := bigjson.Path(f.Root, "episodes", 1500, "title")
//
// Scalars (strings, numbers, true, false, null) are always decoded directly.
// Set Options.Materialize to decode the whole input into native values, or
// Options.ReadAll to validate it up front.
//
// # Views
//
// An *Array supports indexed access (Get, Slice), iteration (Iter), search
// (Index, Count, Contains), and Len. An *Object supports lookup by key (Get,
// GetDefault, Has), iteration in input order (Iter, Keys, Values, Items), and
// Len. Each view caches the byte offsets it discovers, in structures of
// bounded size, so that repeated and ascending access avoid rescanning:
//
//	Type    | Cache                              | Default size
//	------- | ---------------------------------- | ------------
//	Array   | offsets of every Nth element       | 1000 samples
//	Object  | offsets of recently useful keys    | 512 keys
//
// # Values
//
// Values produced by a Reader have one of these concrete types: nil, bool,
// string, int64, float64, *Array, *Object, []any, or Members. Use Equal to
// compare them and Plain to convert them to the form used by encoding/json.
//
// # Concurrency
//
// All the views derived from one input share the cursor of a single Reader.
// Every operation seeks to a known offset before reading, so views may be used
// in any order from a single goroutine, including in the middle of an
// iteration. A Reader is not safe for concurrent use by multiple goroutines;
// open separate Readers over independent handles instead.
//
// # Errors
//
// Malformed input is reported as a *SyntaxError that wraps ErrSyntax,
// ErrStructure, or ErrKeyType. Lookups report ErrIndexRange, ErrKeyNotFound,
// or ErrNotFound. Offsets cached by earlier successful operations remain valid
// after an error. Use Locate to find the line and column of an offset.
//
// # Queries
//
// Path follows a fixed sequence of keys and indexes. The jpath subpackage
// evaluates JSONPath expressions against the same views.
package bigjson
