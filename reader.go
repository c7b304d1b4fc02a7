// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/bigjson/internal/escape"
	"github.com/go-kit/log"
	"go4.org/mem"
)

// Mode selects how Read decodes a value.
type Mode byte

// Constants defining the valid Mode values. Scalars decode the same way in
// every mode; the modes differ only in their treatment of arrays and objects.
const (
	// Lazy returns an unscanned view rooted at the opening delimiter. The
	// position of the reader after a Lazy read of a container is unspecified.
	Lazy Mode = iota

	// Skip scans past the container, validating its contents and caching its
	// length, and returns a view of it.
	Skip

	// Materialize decodes the container recursively into native values:
	// []any for arrays and Members for objects.
	Materialize
)

var modeStr = [...]string{Lazy: "lazy", Skip: "skip", Materialize: "materialize"}

func (m Mode) String() string {
	if int(m) < len(modeStr) {
		return modeStr[m]
	}
	return "invalid mode"
}

// A Reader decodes JSON values from a seekable byte stream. It maintains a
// single cursor, shared by every Array and Object it produces.
//
// A Reader is not safe for concurrent use. Views derived from the same Reader
// may be used alternately from one goroutine, since each of their operations
// seeks to a known offset before reading; concurrent readers of one source
// need separate Readers over independent handles.
type Reader struct {
	src io.ReadSeeker
	br  *bufio.Reader
	pos int64  // offset of the next unread byte; -1 before the first Seek
	buf []byte // text of the current token

	indexSize int
	cacheSize int
	logger    log.Logger
}

// NewReader constructs a Reader that consumes input from r. A nil opts is
// ready for use and provides default settings. The reader is not positioned
// until the first call to Seek.
func NewReader(r io.ReadSeeker, opts *Options) *Reader {
	return &Reader{
		src:       r,
		br:        bufio.NewReaderSize(r, opts.bufferSize()),
		pos:       -1,
		indexSize: opts.indexTableSize(),
		cacheSize: opts.keyCacheSize(),
		logger:    opts.logger(),
	}
}

// Pos returns the offset of the next unread byte.
func (r *Reader) Pos() int64 { return r.pos }

// Seek repositions the reader to the absolute offset off. Seeking forward
// within the buffered input does not touch the underlying stream.
func (r *Reader) Seek(off int64) error {
	if off == r.pos {
		return nil
	}
	if d := off - r.pos; r.pos >= 0 && d > 0 && d <= int64(r.br.Buffered()) {
		n, err := r.br.Discard(int(d))
		r.pos += int64(n)
		return err
	}
	if _, err := r.src.Seek(off, io.SeekStart); err != nil {
		return ioError{pos: off, err: err}
	}
	r.br.Reset(r.src)
	r.pos = off
	return nil
}

// SkipSpace advances the reader past any JSON whitespace. Reaching the end
// of the input is not an error.
func (r *Reader) SkipSpace() error {
	for {
		ch, err := r.peekByte()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		} else if !isSpace(ch) {
			return nil
		}
		r.br.ReadByte()
		r.pos++
	}
}

// PeekIs reports whether the next non-whitespace byte of the input is b,
// without consuming it.
func (r *Reader) PeekIs(b byte) (bool, error) {
	if err := r.SkipSpace(); err != nil {
		return false, err
	}
	ch, err := r.peekByte()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return ch == b, nil
}

// ConsumeIf reports whether the next non-whitespace byte of the input is b,
// and if so consumes it. Otherwise the reader is left at that byte.
func (r *Reader) ConsumeIf(b byte) (bool, error) {
	ok, err := r.PeekIs(b)
	if ok {
		r.br.ReadByte()
		r.pos++
	}
	return ok, err
}

// Read decodes exactly one JSON value starting at the next non-whitespace
// byte of the input. The concrete type of the result is one of:
//
//	JSON type | Go type
//	--------- | ------------------------------------------------
//	null      | nil
//	boolean   | bool
//	string    | string
//	number    | int64 (integers in range), otherwise float64
//	array     | *Array (Lazy, Skip), []any (Materialize)
//	object    | *Object (Lazy, Skip), Members (Materialize)
//
// Malformed input is reported as a *SyntaxError.
func (r *Reader) Read(mode Mode) (any, error) {
	if err := r.SkipSpace(); err != nil {
		return nil, err
	}
	ch, err := r.peekByte()
	if err == io.EOF {
		return nil, r.failf(ErrSyntax, "unexpected end of input")
	} else if err != nil {
		return nil, err
	}

	switch {
	case ch == '[':
		// An array passed over here keeps only its length; its sampled table
		// is built if and when a caller indexes into it.
		a := newArray(r, r.pos)
		switch mode {
		case Lazy:
			return a, nil
		case Materialize:
			vs, err := a.readAll(Materialize, true, false)
			if err != nil {
				return nil, err
			}
			return vs, nil
		default:
			if _, err := a.readAll(Skip, false, false); err != nil {
				return nil, err
			}
			return a, nil
		}

	case ch == '{':
		o := newObject(r, r.pos)
		switch mode {
		case Lazy:
			return o, nil
		case Materialize:
			ms, err := o.Materialize()
			if err != nil {
				return nil, err
			}
			return ms, nil
		default:
			if err := o.ReadAll(); err != nil {
				return nil, err
			}
			return o, nil
		}

	case ch == '"':
		return r.scanString()

	case isNumStart(ch):
		return r.scanNumber()

	case ch == 't':
		return r.scanConst(mem.S("true"), true)
	case ch == 'f':
		return r.scanConst(mem.S("false"), false)
	case ch == 'n':
		return r.scanConst(mem.S("null"), nil)

	case isDelim(ch):
		return nil, r.failf(ErrStructure, "unexpected %q", ch)
	default:
		return nil, r.failf(ErrSyntax, "unexpected %q", ch)
	}
}

// expect consumes the next non-whitespace byte of the input, which must be
// one of the given delimiters, and returns it.
func (r *Reader) expect(delims ...byte) (byte, error) {
	if err := r.SkipSpace(); err != nil {
		return 0, err
	}
	ch, err := r.peekByte()
	if err == io.EOF {
		return 0, r.failf(ErrStructure, "expected %s, got end of input", delimLabel(delims))
	} else if err != nil {
		return 0, err
	}
	for _, d := range delims {
		if ch == d {
			r.br.ReadByte()
			r.pos++
			return ch, nil
		}
	}
	return 0, r.failf(ErrStructure, "expected %s, got %q", delimLabel(delims), ch)
}

// readKey decodes an object key at the next non-whitespace byte of the input.
func (r *Reader) readKey() (string, error) {
	if err := r.SkipSpace(); err != nil {
		return "", err
	}
	ch, err := r.peekByte()
	if err == io.EOF {
		return "", r.failf(ErrStructure, "expected string key, got end of input")
	} else if err != nil {
		return "", err
	}
	switch {
	case ch == '"':
		return r.scanString()
	case ch == '[':
		return "", r.failf(ErrKeyType, "got array as object key")
	case ch == '{':
		return "", r.failf(ErrKeyType, "got object as object key")
	case isDelim(ch):
		return "", r.failf(ErrStructure, "expected string key, got %q", ch)
	case isNumStart(ch):
		return "", r.failf(ErrKeyType, "got number as object key")
	case ch == 't' || ch == 'f':
		return "", r.failf(ErrKeyType, "got boolean as object key")
	case ch == 'n':
		return "", r.failf(ErrKeyType, "got null as object key")
	default:
		return "", r.failf(ErrSyntax, "unexpected %q", ch)
	}
}

// expectEOF reports an error if anything other than whitespace remains.
func (r *Reader) expectEOF() error {
	if err := r.SkipSpace(); err != nil {
		return err
	}
	ch, err := r.peekByte()
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	return r.failf(ErrSyntax, "unexpected %q after value", ch)
}

// scanString decodes a string token beginning at the opening quotation mark.
func (r *Reader) scanString() (string, error) {
	r.readByte() // opening quote
	r.buf = r.buf[:0]
	var esc bool
	for {
		ch, err := r.readByte()
		if err != nil {
			return "", r.fail(err, "unterminated string")
		} else if ch == '"' && !esc {
			break
		}
		if esc {
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				r.buf = append(r.buf, ch)
				if err := r.readHex4(); err != nil {
					return "", err
				}
				esc = false
				continue
			default:
				return "", r.failf(ErrSyntax, "invalid %q after escape", ch)
			}
			esc = false
		} else if ch < ' ' {
			return "", r.failf(ErrSyntax, "unescaped control %q", ch)
		} else {
			esc = ch == '\\'
		}
		r.buf = append(r.buf, ch)
	}
	s, err := escape.Unquote(mem.B(r.buf))
	if err != nil {
		return "", r.failf(ErrSyntax, "%v", err)
	}
	return s, nil
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (r *Reader) readHex4() error {
	for range 4 {
		ch, err := r.readByte()
		if err != nil {
			return r.fail(err, "incomplete Unicode escape")
		} else if !isHexDigit(ch) {
			return r.failf(ErrSyntax, "invalid Unicode escape: not a hex digit: %q", ch)
		}
		r.buf = append(r.buf, ch)
	}
	return nil
}

// scanNumber decodes a number token. Integers that fit in an int64 are
// returned as int64; all others as float64.
func (r *Reader) scanNumber() (any, error) {
	r.buf = r.buf[:0]
	start, _ := r.readByte()
	r.buf = append(r.buf, start)

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		if err := r.require(isDigit, "digit"); err != nil {
			return nil, err
		}
	}
	ch, err := r.readWhile(isDigit)
	if err != nil && err != io.EOF {
		return nil, err
	}

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	if hasExtraLeadingZeroes(r.buf) {
		return nil, r.failf(ErrSyntax, "extra leading zeroes")
	} else if err == io.EOF {
		return r.integer()
	}

	var isFloat bool
	if ch == '.' {
		r.buf = append(r.buf, r.mustByte())
		nd := len(r.buf)
		ch, err = r.readWhile(isDigit)
		if err != nil && err != io.EOF {
			return nil, err
		} else if len(r.buf) == nd {
			return nil, r.failf(ErrSyntax, "no digits after decimal point")
		} else if err == io.EOF {
			return r.float()
		}
		isFloat = true
	}

	if ch != 'E' && ch != 'e' {
		if isFloat {
			return r.float()
		}
		return r.integer()
	}

	r.buf = append(r.buf, r.mustByte())
	if err := r.require(isExpStart, "sign or digit"); err != nil {
		return nil, err
	}
	sign := r.buf[len(r.buf)-1]
	nd := len(r.buf)
	if _, err := r.readWhile(isDigit); err != nil && err != io.EOF {
		return nil, err
	}
	if len(r.buf) == nd && (sign == '-' || sign == '+') {
		return nil, r.failf(ErrSyntax, "missing exponent digits")
	}
	return r.float()
}

func (r *Reader) integer() (any, error) {
	v, err := strconv.ParseInt(string(r.buf), 10, 64)
	if err == nil {
		return v, nil
	}
	return r.float()
}

func (r *Reader) float() (any, error) {
	v, err := strconv.ParseFloat(string(r.buf), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, r.failf(ErrSyntax, "invalid number %q", r.buf)
	}
	return v, nil
}

// scanConst consumes a run of lowercase letters, checks that it spells want,
// and if so returns v.
func (r *Reader) scanConst(want mem.RO, v any) (any, error) {
	r.buf = r.buf[:0]
	r.buf = append(r.buf, r.mustByte())
	if _, err := r.readWhile(isNameByte); err != nil && err != io.EOF {
		return nil, err
	}
	if got := mem.B(r.buf); !got.Equal(want) {
		return nil, r.failf(ErrSyntax, "unknown constant %q", got.StringCopy())
	}
	return v, nil
}

func (r *Reader) peekByte() (byte, error) {
	p, err := r.br.Peek(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) readByte() (byte, error) {
	ch, err := r.br.ReadByte()
	if err == nil {
		r.pos++
	}
	return ch, err
}

// mustByte consumes a byte that is already known to be buffered.
func (r *Reader) mustByte() byte {
	ch, _ := r.readByte()
	return ch
}

// require consumes a single byte matching f, or reports an error mentioning
// the desired label.
func (r *Reader) require(f func(byte) bool, label string) error {
	ch, err := r.peekByte()
	if err != nil {
		return r.fail(err, "want "+label)
	} else if !f(ch) {
		return r.failf(ErrSyntax, "got %q, want %s", ch, label)
	}
	r.buf = append(r.buf, r.mustByte())
	return nil
}

// readWhile consumes bytes matching f into the token buffer until EOF or a
// byte not matching f, which is returned but not consumed.
func (r *Reader) readWhile(f func(byte) bool) (byte, error) {
	for {
		ch, err := r.peekByte()
		if err != nil {
			return 0, err
		} else if !f(ch) {
			return ch, nil
		}
		r.buf = append(r.buf, r.mustByte())
	}
}

// fail converts a read error inside a token into an error. A premature end
// of input is a syntax error; anything else is an I/O failure.
func (r *Reader) fail(err error, what string) error {
	if err == io.EOF {
		return r.failf(ErrSyntax, "%s: unexpected end of input", what)
	}
	return ioError{pos: r.pos, err: err}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch byte) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isDelim(ch byte) bool {
	switch ch {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the JSON grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

// delimLabel makes a human-readable summary of the given delimiters.
func delimLabel(delims []byte) string {
	switch len(delims) {
	case 0:
		return "delimiter"
	case 1:
		return fmt.Sprintf("%q", delims[0])
	default:
		return fmt.Sprintf("%q or %q", delims[0], delims[1])
	}
}
