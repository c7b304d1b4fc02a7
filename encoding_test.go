// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/bigjson"
)

func TestQuoteUnquote(t *testing.T) {
	tests := []struct {
		input, quoted string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{"a \"b\" \\ c", `"a \"b\" \\ c"`},
		{"line\nfeed\t", `"line\nfeed\t"`},
		{"\x01", `"\u0001"`},
		{"été", `"été"`},
	}
	for _, test := range tests {
		q := bigjson.Quote(test.input)
		if q != test.quoted {
			t.Errorf("Quote(%q): got %s, want %s", test.input, q, test.quoted)
		}
		u, err := bigjson.Unquote(q)
		if err != nil {
			t.Errorf("Unquote(%s): unexpected error: %v", q, err)
		} else if u != test.input {
			t.Errorf("Unquote(%s): got %q, want %q", q, u, test.input)
		}
	}

	for _, bad := range []string{"", `"`, `abc`, `"abc`, `"\u12"`} {
		if got, err := bigjson.Unquote(bad); err == nil {
			t.Errorf("Unquote(%s): got %q, want error", bad, got)
		}
	}
}

func TestLocate(t *testing.T) {
	const input = "{\n  \"a\": [1,\n    2 3]\n}"
	r := newReader(t, input)
	_, err := r.Read(bigjson.Materialize)
	var serr *bigjson.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Read: got %v, want *SyntaxError", err)
	}

	lc, err := bigjson.Locate(strings.NewReader(input), serr.Offset)
	if err != nil {
		t.Fatalf("Locate: unexpected error: %v", err)
	}
	if want := (bigjson.LineCol{Line: 3, Column: 6}); lc != want {
		t.Errorf("Locate(%d): got %v, want %v", serr.Offset, lc, want)
	}
	if got := lc.String(); got != "3:6" {
		t.Errorf("String: got %q, want 3:6", got)
	}

	start, err := bigjson.Locate(strings.NewReader(input), 0)
	if err != nil || start != (bigjson.LineCol{Line: 1}) {
		t.Errorf("Locate(0): got (%v, %v), want 1:0", start, err)
	}
}
