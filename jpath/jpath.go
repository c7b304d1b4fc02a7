// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a minimal JSONPath expression parser, and an
// evaluator that applies expressions to lazy JSON values.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX
 value = script
 value = filter
 slice = [INT] ":" [INT]
script = "(" TEXT ")"
filter = "?(" TEXT ")"

  WORD = RE `\w+`
 QTEXT = RE `([^']|\\')*`
 INDEX = RE `-?\d+(,-?\d+)*`
   INT = RE `-?\d+`
  TEXT = { all text with nested parentheses }

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var steps Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at %q: %w", t, err)
		}
		steps = append(steps, step)
		t = rest
	}
	return steps, nil
}

// MustParse parses s as a JSONPath expression, and panics on error.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: parse %q: %v", s, err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup: .name, ['name'], [name]
	Index              // array index lookup: [1], [0,-1]
	Slice              // array slice: [1:3], [-2:], [:4]
	Wildcard           // all children: .*, [*]
	Recur              // recursive descent: ..name, ..*
	Filter             // filter: [?(...)]
	Script             // script: [(...)]
)

var opText = map[Op]string{
	Invalid:  "invalid",
	Member:   "member",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Recur:    "..",
	Filter:   "?(...)",
	Script:   "(...)",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op Op

	// For Member and Recur, the name selected; empty for a Recur wildcard.
	// For Filter and Script, the text inside the parentheses.
	Name string

	// For Index, the selected offsets.
	Indices []int

	// For Slice, the bounds; nil denotes an open bound.
	Start, Stop *int

	quoted bool // name was written in quotes
}

func (s Step) String() string {
	switch s.Op {
	case Member:
		if s.quoted || !plainRE.MatchString(s.Name) {
			return fmt.Sprintf("['%s']", quoteName(s.Name))
		}
		return "." + s.Name
	case Index:
		ss := make([]string, len(s.Indices))
		for i, v := range s.Indices {
			ss[i] = strconv.Itoa(v)
		}
		return "[" + strings.Join(ss, ",") + "]"
	case Slice:
		return "[" + intText(s.Start) + ":" + intText(s.Stop) + "]"
	case Wildcard:
		return "[*]"
	case Recur:
		if s.Name == "" {
			return "..*"
		} else if s.quoted || !plainRE.MatchString(s.Name) {
			return fmt.Sprintf("..['%s']", quoteName(s.Name))
		}
		return ".." + s.Name
	case Filter:
		return "[?(" + s.Name + ")]"
	case Script:
		return "[(" + s.Name + ")]"
	}
	return "[?]"
}

func intText(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func quoteName(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, quoted, wild, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		} else if wild {
			return Step{Op: Recur}, u, nil
		}
		return Step{Op: Recur, Name: name, quoted: quoted}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, quoted, wild, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		} else if wild {
			return Step{Op: Wildcard}, u, nil
		}
		return Step{Op: Member, Name: name, quoted: quoted}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		step, u, err := parseValue(t)
		if err != nil {
			return Step{}, t, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return step, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseName(s string) (name string, quoted, wild bool, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "", false, true, t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return m[1], false, false, s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return unquoteName(m[1]), true, false, s[len(m[0]):], nil
	}
	return "", false, false, s, errors.New("invalid name")
}

func unquoteName(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\'`, `'`).Replace(s)
}

func parseValue(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "?("); ok {
		text, rest, err := parseScript(t)
		return Step{Op: Filter, Name: text}, rest, err
	}
	if t, ok := strings.CutPrefix(s, "("); ok {
		text, rest, err := parseScript(t)
		return Step{Op: Script, Name: text}, rest, err
	}
	if m := indexRE.FindStringSubmatch(s); m != nil {
		rest := s[len(m[0]):]
		if u, ok := strings.CutPrefix(rest, ":"); ok && !strings.Contains(m[1], ",") {
			return parseSlice(m[1], u)
		}
		idx, err := parseInts(m[1])
		return Step{Op: Index, Indices: idx}, rest, err
	}
	if u, ok := strings.CutPrefix(s, ":"); ok {
		return parseSlice("", u)
	}
	if name, quoted, wild, rest, err := parseName(s); err == nil {
		if wild {
			return Step{Op: Wildcard}, rest, nil
		}
		return Step{Op: Member, Name: name, quoted: quoted}, rest, nil
	}
	return Step{}, s, fmt.Errorf("invalid value: %q", s)
}

// parseSlice parses the remainder of a slice whose start text has been read.
func parseSlice(start, s string) (Step, string, error) {
	out := Step{Op: Slice}
	if start != "" {
		v, err := strconv.Atoi(start)
		if err != nil {
			return Step{}, s, err
		}
		out.Start = &v
	}
	if m := intRE.FindStringSubmatch(s); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return Step{}, s, err
		}
		out.Stop = &v
		s = s[len(m[0]):]
	}
	return out, s, nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseScript(s string) (text, rest string, _ error) {
	i, np := 0, 1
	for i < len(s) {
		if s[i] == ')' {
			np--
			if np == 0 {
				break
			}
		} else if s[i] == '(' {
			np++
		}
		i++
	}
	if np > 0 {
		return "", s, errors.New("unbalanced parentheses")
	}
	return s[:i], s[i+1:], nil
}

var (
	wordRE  = regexp.MustCompile(`^(\w+)`)
	indexRE = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	intRE   = regexp.MustCompile(`^(-?\d+)`)
	quoteRE = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)

	// Names that may be written in dot notation without quotes.
	plainRE = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)
