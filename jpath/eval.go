// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jpath

import (
	"errors"
	"fmt"

	"github.com/creachadair/bigjson"
	"github.com/theory/jsonpath"
)

// Select applies e to root and returns the values it selects, in order.
// The root may be a view or a materialized value as produced by bigjson.
//
// Member, index, slice, wildcard, and descent steps are evaluated against the
// views directly, so only the parts of the input they touch are read. A filter
// step materializes each value it applies to and hands the remainder of the
// expression to a complete JSONPath implementation; values selected from that
// point on are in the form returned by bigjson.Plain.
func Select(root any, e Expr) ([]any, error) {
	cur := []any{root}
	for i, step := range e {
		switch step.Op {
		case Filter:
			return delegate(cur, e[i:])
		case Script:
			return nil, fmt.Errorf("script expressions are not supported: %s", step)
		}
		var next []any
		for _, v := range cur {
			out, err := apply(v, step, next)
			if err != nil {
				return nil, fmt.Errorf("step %s: %w", step, err)
			}
			next = out
		}
		cur = next
	}
	return cur, nil
}

// SelectString parses s as a JSONPath expression and applies it to root.
func SelectString(root any, s string) ([]any, error) {
	e, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return Select(root, e)
}

// apply appends to out the values selected by step from v.
func apply(v any, step Step, out []any) ([]any, error) {
	switch step.Op {
	case Member:
		return member(v, step.Name, out)
	case Wildcard:
		return children(v, out)
	case Index:
		for _, i := range step.Indices {
			e, ok, err := index(v, i)
			if err != nil {
				return nil, err
			} else if ok {
				out = append(out, e)
			}
		}
		return out, nil
	case Slice:
		return slice(v, step.Start, step.Stop, out)
	case Recur:
		var err error
		walkErr := walk(v, func(node any) error {
			if step.Name == "" {
				out, err = children(node, out)
			} else {
				out, err = member(node, step.Name, out)
			}
			return err
		})
		return out, walkErr
	}
	return nil, fmt.Errorf("unsupported operator %v", step.Op)
}

func member(v any, name string, out []any) ([]any, error) {
	switch t := v.(type) {
	case *bigjson.Object:
		e, err := t.Get(name)
		if errors.Is(err, bigjson.ErrKeyNotFound) {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		return append(out, e), nil
	case bigjson.Members:
		if e, ok := t.Find(name); ok {
			return append(out, e), nil
		}
	case map[string]any:
		if e, ok := t[name]; ok {
			return append(out, e), nil
		}
	}
	return out, nil
}

func children(v any, out []any) ([]any, error) {
	switch t := v.(type) {
	case *bigjson.Array:
		it := t.Iter()
		for it.Next() {
			out = append(out, it.Value())
		}
		return out, it.Err()
	case *bigjson.Object:
		it := t.Iter()
		for it.Next() {
			out = append(out, it.Value())
		}
		return out, it.Err()
	case []any:
		return append(out, t...), nil
	case bigjson.Members:
		for _, m := range t {
			out = append(out, m.Value)
		}
	}
	return out, nil
}

func index(v any, i int) (any, bool, error) {
	switch t := v.(type) {
	case *bigjson.Array:
		e, err := t.Get(i)
		if errors.Is(err, bigjson.ErrIndexRange) {
			return nil, false, nil
		} else if err != nil {
			return nil, false, err
		}
		return e, true, nil
	case []any:
		if i < 0 {
			i += len(t)
		}
		if i >= 0 && i < len(t) {
			return t[i], true, nil
		}
	}
	return nil, false, nil
}

func slice(v any, start, stop *int, out []any) ([]any, error) {
	lo, hi := bigjson.Unbounded, bigjson.Unbounded
	if start != nil {
		lo = *start
	}
	if stop != nil {
		hi = *stop
	}
	switch t := v.(type) {
	case *bigjson.Array:
		es, err := t.Slice(lo, hi, 1)
		if err != nil {
			return nil, err
		}
		return append(out, es...), nil
	case []any:
		n := len(t)
		fix := func(b, open int) int {
			if b == bigjson.Unbounded {
				return open
			} else if b < 0 {
				b += n
			}
			return max(0, min(b, n))
		}
		if i, j := fix(lo, 0), fix(hi, n); i < j {
			return append(out, t[i:j]...), nil
		}
	}
	return out, nil
}

// walk calls f for v and each of its descendants in document order, stopping
// at the first error.
func walk(v any, f func(any) error) error {
	if err := f(v); err != nil {
		return err
	}
	switch t := v.(type) {
	case *bigjson.Array, *bigjson.Object, []any, bigjson.Members:
		kids, err := children(t, nil)
		if err != nil {
			return err
		}
		for _, k := range kids {
			if err := walk(k, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// delegate evaluates rest, which begins with a filter step, against each of
// the given values using a complete JSONPath implementation.
func delegate(vals []any, rest Expr) ([]any, error) {
	text := rest.String()
	path, err := jsonpath.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", text, err)
	}
	var out []any
	for _, v := range vals {
		p, err := bigjson.Plain(v)
		if err != nil {
			return nil, err
		}
		out = append(out, path.Select(p)...)
	}
	return out, nil
}
