// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"bufio"
	"fmt"
	"io"
)

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// Locate reports the line and column of byte offset off in the input of r,
// for example the Offset of a *SyntaxError. Locate reads r from the start,
// so r must not be the source of a Reader that is still in use.
func Locate(r io.ReadSeeker, off int64) (LineCol, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return LineCol{}, err
	}
	br := bufio.NewReader(io.LimitReader(r, off))
	lc := LineCol{Line: 1}
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return lc, nil
		} else if err != nil {
			return LineCol{}, err
		}
		if b == '\n' {
			lc.Line++
			lc.Column = 0
		} else {
			lc.Column++
		}
	}
}
