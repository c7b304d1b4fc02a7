// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"fmt"

	"github.com/creachadair/bigjson/internal/escape"
)

// Path traverses a sequential path through the structure of a value starting
// at v, where path elements are either strings (denoting object keys) or
// integers (denoting offsets into arrays). If the path is valid, the element
// reached is returned. Views along the path are read lazily, so only the
// members and elements named by the path are decoded.
//
// If a path element is a string, the corresponding value must be an object,
// and the string resolves the first member with that key. Any other type of
// element applied to an object reports an error wrapping ErrKeyType.
//
// If a path element is an integer, the corresponding value must be an array,
// and the integer resolves to an index in the array. Negative indices count
// backward from the end of the array (-1 is last, -2 second last, etc.).
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(any) (any, error)
//
// If the function fails, the traversal reports its error.
func Path(v any, path ...any) (any, error) {
	cur := v
	for _, elt := range path {
		if f, ok := elt.(func(any) (any, error)); ok {
			next, err := f(cur)
			if err != nil {
				return nil, err
			}
			cur = next
			continue
		}

		var err error
		switch c := cur.(type) {
		case *Object:
			key, ok := elt.(string)
			if !ok {
				return nil, fmt.Errorf("path element %v (%T): %w", elt, elt, ErrKeyType)
			}
			cur, err = c.Get(key)

		case Members:
			key, ok := elt.(string)
			if !ok {
				return nil, fmt.Errorf("path element %v (%T): %w", elt, elt, ErrKeyType)
			}
			var found bool
			if cur, found = c.Find(key); !found {
				err = fmt.Errorf("key %s: %w", escape.Quote(key), ErrKeyNotFound)
			}

		case *Array:
			i, ok := elt.(int)
			if !ok {
				return nil, fmt.Errorf("cannot traverse array with %T", elt)
			}
			cur, err = c.Get(i)

		case []any:
			i, ok := elt.(int)
			if !ok {
				return nil, fmt.Errorf("cannot traverse array with %T", elt)
			}
			j, ok := fixArrayBound(len(c), i)
			if !ok {
				return nil, fmt.Errorf("array index %d (n=%d): %w", i, len(c), ErrIndexRange)
			}
			cur = c[j]

		default:
			return nil, fmt.Errorf("cannot traverse %T with %v", cur, elt)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
