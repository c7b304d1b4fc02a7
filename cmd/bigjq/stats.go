// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/bigjson"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"
)

// statsCommand describes a value and the state of its offset caches.
type statsCommand struct {
	*pathCommand
	touch *[]string
}

func addStatsCommand(app *kingpin.Application, cfg *config) {
	pc, clause := newPathCommand(app, cfg, "stats", "Describe the value at a path and its offset caches.")
	cmd := &statsCommand{pathCommand: pc}
	cmd.touch = clause.Flag("touch", "Look up this index or key before reporting (repeatable)").Strings()
	clause.Action(func(*kingpin.ParseContext) error {
		return cmd.with(cmd.printStats)
	})
}

func (cmd *statsCommand) printStats(in *input, v any) error {
	cfg := cmd.cfg
	bold := color.New(color.Bold)
	bold.Fprintln(cfg.stdout, "File:")
	fmt.Fprintf(cfg.stdout, "\tname: %s, size: %v\n", in.name, humanize.Bytes(uint64(in.size)))

	for _, t := range parsePath(*cmd.touch) {
		if _, err := bigjson.Path(v, t); err != nil {
			level.Warn(cfg.logger).Log("msg", "lookup failed", "element", t, "err", err)
		}
	}

	switch t := v.(type) {
	case *bigjson.Array:
		n, err := t.Len()
		if err != nil {
			return err
		}
		s := t.Stats()
		bold.Fprintln(cfg.stdout, "Array:")
		fmt.Fprintf(cfg.stdout, "\toffset: %s, length: %s\n", humanize.Comma(t.Offset()), humanize.Comma(int64(n)))
		fmt.Fprintf(cfg.stdout, "\tindex table: %d samples, stride %d, furthest element %d\n",
			s.Samples, s.Stride, s.LastIndex)

	case *bigjson.Object:
		n, err := t.Len()
		if err != nil {
			return err
		}
		s := t.Stats()
		bold.Fprintln(cfg.stdout, "Object:")
		fmt.Fprintf(cfg.stdout, "\toffset: %s, members: %s\n", humanize.Comma(t.Offset()), humanize.Comma(int64(n)))
		fmt.Fprintf(cfg.stdout, "\tkey cache: %d keys, %d evicted\n", s.CachedKeys, s.Evicted)

	default:
		bold.Fprintln(cfg.stdout, "Value:")
		fmt.Fprintf(cfg.stdout, "\ttype: %T\n", v)
	}
	return nil
}
