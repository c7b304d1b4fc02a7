// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import "fmt"

// A Member is a single key-value pair of a materialized object.
type Member struct {
	Key   string
	Value any
}

// Members is the materialized form of a JSON object. Members are in input
// order, and repeated keys are preserved.
type Members []Member

// Find returns the value of the first member of m with the given key, and
// reports whether one was found.
func (m Members) Find(key string) (any, bool) {
	for _, mem := range m {
		if mem.Key == key {
			return mem.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys of m in order.
func (m Members) Keys() []string {
	keys := make([]string, len(m))
	for i, mem := range m {
		keys[i] = mem.Key
	}
	return keys
}

// A kind classifies a value by its JSON type.
type kind byte

const (
	badKind kind = iota
	nullKind
	boolKind
	numberKind
	stringKind
	arrayKind
	objectKind
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return nullKind
	case bool:
		return boolKind
	case int64, float64, int:
		return numberKind
	case string:
		return stringKind
	case *Array, []any:
		return arrayKind
	case *Object, Members, map[string]any:
		return objectKind
	}
	return badKind
}

// Equal reports whether a and b represent the same JSON value. Either may be
// a view, a materialized value, or a scalar as returned by Reader.Read.
//
// Two views of the same region of the same Reader are equal without reading
// anything. Otherwise views are materialized and compared structurally:
// numbers compare by value regardless of representation, and objects compare
// member by member in order. A map[string]any is compared as a set of members,
// ignoring order, against an object with no repeated keys.
func Equal(a, b any) (bool, error) {
	ka, kb := kindOf(a), kindOf(b)
	if ka == badKind || kb == badKind {
		return false, fmt.Errorf("cannot compare %T with %T", a, b)
	} else if ka != kb {
		return false, nil
	}
	if sameView(a, b) {
		return true, nil
	}
	a, err := materialize(a)
	if err != nil {
		return false, err
	}
	b, err = materialize(b)
	if err != nil {
		return false, err
	}
	return equalValues(a, b), nil
}

func sameView(a, b any) bool {
	switch x := a.(type) {
	case *Array:
		y, ok := b.(*Array)
		return ok && x.r == y.r && x.begin == y.begin
	case *Object:
		y, ok := b.(*Object)
		return ok && x.r == y.r && x.begin == y.begin
	}
	return false
}

// materialize decodes v if it is a view, and returns it unchanged otherwise.
func materialize(v any) (any, error) {
	switch t := v.(type) {
	case *Array:
		return t.Materialize()
	case *Object:
		return t.Materialize()
	}
	return v, nil
}

// equalValues compares values with no views at the top level. Views nested
// inside materialized values cannot occur, since materialization is recursive.
func equalValues(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool, string:
		return a == b
	case int64, float64, int:
		return numEqual(x, b)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalValues(x[i], y[i]) {
				return false
			}
		}
		return true
	case Members:
		switch y := b.(type) {
		case Members:
			if len(x) != len(y) {
				return false
			}
			for i := range x {
				if x[i].Key != y[i].Key || !equalValues(x[i].Value, y[i].Value) {
					return false
				}
			}
			return true
		case map[string]any:
			return membersEqualMap(x, y)
		}
	case map[string]any:
		if y, ok := b.(Members); ok {
			return membersEqualMap(y, x)
		}
	}
	return false
}

func membersEqualMap(m Members, x map[string]any) bool {
	if len(m) != len(x) {
		return false
	}
	for _, mem := range m {
		v, ok := x[mem.Key]
		if !ok || !equalValues(mem.Value, v) {
			return false
		}
	}
	return true
}

func numEqual(a, b any) bool {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case int:
			return x == int64(y)
		case float64:
			return float64(x) == y
		}
	case int:
		return numEqual(int64(x), b)
	case float64:
		switch y := b.(type) {
		case float64:
			return x == y
		case int64, int:
			return numEqual(y, x)
		}
	}
	return false
}

// Plain converts v into the form encoding/json produces when decoding into
// an interface value: map[string]any for objects, []any for arrays, float64
// for numbers, and string, bool, or nil for the rest. Views are materialized.
// If an object repeats a key, the last occurrence wins, as with encoding/json.
func Plain(v any) (any, error) {
	v, err := materialize(v)
	if err != nil {
		return nil, err
	}
	return plainValue(v), nil
}

func plainValue(v any) any {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case Members:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.Key] = plainValue(m.Value)
		}
		return out
	}
	return v
}
