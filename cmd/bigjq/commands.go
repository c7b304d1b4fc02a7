// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/bigjson"
	"github.com/creachadair/bigjson/jpath"
	"github.com/go-kit/log/level"
)

// pathCommand is the shape shared by commands that act on one value of a
// file, named by a path.
type pathCommand struct {
	cfg  *config
	file *string
	path *[]string
}

func newPathCommand(app *kingpin.Application, cfg *config, name, help string) (*pathCommand, *kingpin.CmdClause) {
	cmd := &pathCommand{cfg: cfg}
	clause := app.Command(name, help)
	cmd.file = clause.Arg("file", "The JSON file to read.").Required().ExistingFile()
	cmd.path = clause.Arg("path", "Keys and indexes leading to the value.").Strings()
	return cmd, clause
}

// with resolves the path of cmd and calls f with the input and the value the
// path reaches.
func (cmd *pathCommand) with(f func(in *input, v any) error) error {
	in, v, err := cmd.cfg.resolve(*cmd.file, *cmd.path)
	if err != nil {
		return cmd.cfg.annotate(*cmd.file, err)
	}
	defer in.Close()
	return cmd.cfg.annotate(*cmd.file, f(in, v))
}

func addGetCommand(app *kingpin.Application, cfg *config) {
	cmd, clause := newPathCommand(app, cfg, "get", "Print the value at a path as JSON.")
	clause.Action(func(*kingpin.ParseContext) error {
		return cmd.with(func(_ *input, v any) error { return cfg.writeValue(v) })
	})
}

func addLenCommand(app *kingpin.Application, cfg *config) {
	cmd, clause := newPathCommand(app, cfg, "len", "Print the length of the array or object at a path.")
	clause.Action(func(*kingpin.ParseContext) error {
		return cmd.with(func(_ *input, v any) error {
			n, err := lengthOf(v)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cfg.stdout, n)
			return err
		})
	})
}

func lengthOf(v any) (int, error) {
	switch t := v.(type) {
	case *bigjson.Array:
		return t.Len()
	case *bigjson.Object:
		return t.Len()
	case []any:
		return len(t), nil
	case bigjson.Members:
		return len(t), nil
	case string:
		return len([]rune(t)), nil
	}
	return 0, fmt.Errorf("value of type %T has no length", v)
}

func addKeysCommand(app *kingpin.Application, cfg *config) {
	cmd, clause := newPathCommand(app, cfg, "keys", "Print the keys of the object at a path, one per line.")
	clause.Action(func(*kingpin.ParseContext) error {
		return cmd.with(func(_ *input, v any) error {
			var keys []string
			switch t := v.(type) {
			case *bigjson.Object:
				var err error
				if keys, err = t.Keys(); err != nil {
					return err
				}
			case bigjson.Members:
				keys = t.Keys()
			default:
				return fmt.Errorf("value of type %T has no keys", v)
			}
			for _, key := range keys {
				if err := cfg.writeValue(key); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func addSelectCommand(app *kingpin.Application, cfg *config) {
	clause := app.Command("select", "Print the values selected by a JSONPath expression, one per line.")
	file := clause.Arg("file", "The JSON file to read.").Required().ExistingFile()
	expr := clause.Arg("expr", "A JSONPath expression, for example $.items[0].name").Required().String()
	clause.Action(func(*kingpin.ParseContext) error {
		e, err := jpath.Parse(*expr)
		if err != nil {
			return fmt.Errorf("parse %q: %w", *expr, err)
		}
		in, err := cfg.open(*file)
		if err != nil {
			return cfg.annotate(*file, err)
		}
		defer in.Close()

		vs, err := jpath.Select(in.root, e)
		if err != nil {
			return cfg.annotate(*file, err)
		}
		level.Debug(cfg.logger).Log("msg", "selected values", "expr", e, "count", len(vs))
		for _, v := range vs {
			if err := cfg.writeValue(v); err != nil {
				return err
			}
		}
		return nil
	})
}
