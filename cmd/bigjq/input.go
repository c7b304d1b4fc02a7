// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creachadair/bigjson"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
)

var jsonOut = jsoniter.ConfigCompatibleWithStandardLibrary

// input is an opened JSON file.
type input struct {
	name string
	size int64
	root any
	file *bigjson.File // nil if the input was read into memory
}

func (in *input) Close() error {
	if in.file != nil {
		return in.file.Close()
	}
	return nil
}

func (c *config) options() *bigjson.Options {
	return &bigjson.Options{
		Materialize:    c.materialize,
		IndexTableSize: c.indexTableSize,
		KeyCacheSize:   c.keyCacheSize,
		BufferSize:     c.bufferSize,
		AllowJWCC:      c.jwcc,
		Logger:         c.logger,
	}
}

// open loads the named file. JWCC input must be standardized in memory, so
// with --jwcc the whole file is read; otherwise it is read lazily.
func (c *config) open(name string) (*input, error) {
	opts := c.options()
	if c.jwcc {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		root, err := bigjson.LoadBytes(data, opts)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", name, err)
		}
		level.Debug(c.logger).Log("msg", "loaded file into memory", "file", name, "size", len(data))
		return &input{name: name, size: int64(len(data)), root: root}, nil
	}

	f, err := bigjson.Open(name, opts)
	if err != nil {
		return nil, err
	}
	size, err := f.Size()
	if err != nil {
		f.Close()
		return nil, err
	}
	level.Debug(c.logger).Log("msg", "opened file", "file", name, "size", size, "root", fmt.Sprint(f.Root))
	return &input{name: name, size: size, root: f.Root, file: f}, nil
}

// resolve opens the named file and traverses the given path elements.
// The caller must close the input when it is no longer needed.
func (c *config) resolve(name string, path []string) (*input, any, error) {
	in, err := c.open(name)
	if err != nil {
		return nil, nil, err
	}
	v, err := bigjson.Path(in.root, parsePath(path)...)
	if err != nil {
		in.Close()
		return nil, nil, fmt.Errorf("path %s: %w", strings.Join(path, " "), err)
	}
	return in, v, nil
}

// parsePath converts command-line path elements into the arguments of
// bigjson.Path.
func parsePath(args []string) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if key, ok := strings.CutPrefix(arg, "="); ok {
			out[i] = key
		} else if n, err := strconv.Atoi(arg); err == nil {
			out[i] = n
		} else {
			out[i] = arg
		}
	}
	return out
}

// writeValue writes v as a line of JSON to the output.
func (c *config) writeValue(v any) error {
	p, err := outputValue(v)
	if err != nil {
		return err
	}
	bits, err := jsonOut.Marshal(p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "%s\n", bits)
	return err
}

// outputValue materializes v for output. Unlike bigjson.Plain it keeps
// integers as int64, so values beyond the precision of a float64 are printed
// exactly. If an object repeats a key, the last occurrence wins.
func outputValue(v any) (any, error) {
	switch t := v.(type) {
	case *bigjson.Array:
		vs, err := t.Materialize()
		if err != nil {
			return nil, err
		}
		return outputValue(vs)
	case *bigjson.Object:
		ms, err := t.Materialize()
		if err != nil {
			return nil, err
		}
		return outputValue(ms)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ev, err := outputValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case bigjson.Members:
		out := make(map[string]any, len(t))
		for _, m := range t {
			mv, err := outputValue(m.Value)
			if err != nil {
				return nil, err
			}
			out[m.Key] = mv
		}
		return out, nil
	}
	return v, nil
}

// annotate adds the line and column of a syntax error to err, which was
// reported while reading the named file. Other errors are returned as-is.
func (c *config) annotate(name string, err error) error {
	var serr *bigjson.SyntaxError
	if !errors.As(err, &serr) {
		return err
	}
	f, ferr := os.Open(name)
	if ferr != nil {
		return err
	}
	defer f.Close()
	lc, lerr := bigjson.Locate(f, serr.Offset)
	if lerr != nil {
		return err
	}
	level.Debug(c.logger).Log("msg", "located syntax error", "file", name, "offset", serr.Offset, "line", lc.Line, "column", lc.Column)
	return fmt.Errorf("%s:%v: %w", name, lc, err)
}
