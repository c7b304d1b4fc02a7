// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/bigjson/internal/keycache"
	"github.com/creachadair/bigjson/internal/stride"
	"github.com/go-kit/log"
	"github.com/tailscale/hujson"
)

// Options are settings for a Reader and the entry points. A nil *Options is
// ready for use and provides default values as described.
type Options struct {
	// If true, validate the entire input and cache the lengths of all the
	// containers it contains, but return the top-level value as a view.
	ReadAll bool

	// If true, decode the entire input into native values. This takes
	// precedence over ReadAll.
	Materialize bool

	// The maximum number of sampled offsets kept per array (default 1000).
	IndexTableSize int

	// The maximum number of key offsets cached per object (default 512).
	KeyCacheSize int

	// The size in bytes of the read buffer (default 4096).
	BufferSize int

	// If true, LoadBytes accepts JWCC input (JSON with comments and trailing
	// commas). Comments and trailing commas are blanked out in a copy of the
	// input, so offsets are unchanged. Other entry points ignore this field.
	AllowJWCC bool

	// If set, receives debug events such as index table compaction.
	Logger log.Logger
}

func (o *Options) readMode() Mode {
	switch {
	case o == nil:
		return Lazy
	case o.Materialize:
		return Materialize
	case o.ReadAll:
		return Skip
	}
	return Lazy
}

func (o *Options) indexTableSize() int {
	if o == nil || o.IndexTableSize < 2 {
		return stride.DefaultCapacity
	}
	return o.IndexTableSize
}

func (o *Options) keyCacheSize() int {
	if o == nil || o.KeyCacheSize <= 0 {
		return keycache.DefaultCapacity
	}
	return o.KeyCacheSize
}

func (o *Options) bufferSize() int {
	if o == nil || o.BufferSize <= 0 {
		return 4096
	}
	return o.BufferSize
}

func (o *Options) logger() log.Logger {
	if o == nil || o.Logger == nil {
		return log.NewNopLogger()
	}
	return o.Logger
}

// Load reads the JSON value at the beginning of r.
//
// By default, an array or object is returned as an unscanned *Array or
// *Object and a scalar is decoded directly. With opts.ReadAll the whole input
// is validated first; with opts.Materialize it is decoded into native values
// (see Reader.Read). In both cases Load reports an error if anything other
// than whitespace follows the value.
//
// Any views returned share a Reader over r, and remain valid only as long as
// r is usable.
func Load(r io.ReadSeeker, opts *Options) (any, error) {
	rd := NewReader(r, opts)
	if err := rd.Seek(0); err != nil {
		return nil, err
	}
	mode := opts.readMode()
	v, err := rd.Read(mode)
	if err != nil {
		return nil, err
	}
	if mode != Lazy {
		if err := rd.expectEOF(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// LoadBytes reads the JSON value encoded by data, as Load.
func LoadBytes(data []byte, opts *Options) (any, error) {
	if opts != nil && opts.AllowJWCC {
		std, err := hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return nil, fmt.Errorf("standardize JWCC: %w", err)
		}
		data = std
	}
	return Load(bytes.NewReader(data), opts)
}

// A File is a JSON file opened for lazy reading.
// The caller must call Close when the File is no longer needed.
type File struct {
	f *os.File

	// Root is the top-level value of the file, as returned by Load.
	Root any
}

// Open opens the named file and loads its contents as Load.
func Open(path string, opts *Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	root, err := Load(f, opts)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return &File{f: f, Root: root}, nil
}

// Name returns the name of the underlying file.
func (f *File) Name() string { return f.f.Name() }

// Size reports the size in bytes of the underlying file.
func (f *File) Size() (int64, error) {
	fi, err := f.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Close closes the underlying file. Views derived from f are invalid after
// Close returns.
func (f *File) Close() error { return f.f.Close() }
