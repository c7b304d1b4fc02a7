// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program bigjq inspects JSON files too large to load into memory. Values are
// located by seeking into the file, so only the parts a query touches are read.
//
// Usage:
//
//	bigjq get FILE [PATH...]      # print the value at PATH
//	bigjq len FILE [PATH...]      # print the length of an array or object
//	bigjq keys FILE [PATH...]     # print the keys of an object
//	bigjq select FILE EXPR        # print the values selected by a JSONPath
//	bigjq stats FILE [PATH...]    # describe a value and its caches
//
// Path elements that parse as integers select array elements (negative values
// count from the end, and must follow "--"); all others select object keys.
// Prefix an element with "=" to use it as a key even if it looks like an
// integer.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newApp(stdout, stderr io.Writer) *kingpin.Application {
	app := kingpin.New("bigjq", "Query JSON files too large to load into memory.")
	app.HelpFlag.Short('h')
	app.ErrorWriter(stderr)
	app.UsageWriter(stderr)

	cfg := &config{stdout: stdout, stderr: stderr, logger: log.NewNopLogger()}
	cfg.registerFlags(app)
	app.PreAction(func(*kingpin.ParseContext) error {
		return cfg.setupLogger()
	})

	addGetCommand(app, cfg)
	addLenCommand(app, cfg)
	addKeysCommand(app, cfg)
	addSelectCommand(app, cfg)
	addStatsCommand(app, cfg)
	return app
}

// config holds the settings shared by all the subcommands.
type config struct {
	indexTableSize int
	keyCacheSize   int
	bufferSize     int
	jwcc           bool
	materialize    bool
	logLevel       string

	stdout, stderr io.Writer
	logger         log.Logger
}

func (c *config) registerFlags(app *kingpin.Application) {
	app.Flag("index-table-size", "Maximum sampled offsets kept per array").Default("1000").IntVar(&c.indexTableSize)
	app.Flag("key-cache-size", "Maximum key offsets cached per object").Default("512").IntVar(&c.keyCacheSize)
	app.Flag("buffer-size", "Read buffer size in bytes").Default("65536").IntVar(&c.bufferSize)
	app.Flag("jwcc", "Accept comments and trailing commas (reads the whole file into memory)").BoolVar(&c.jwcc)
	app.Flag("materialize", "Decode the whole file up front").BoolVar(&c.materialize)
	app.Flag("log.level", "Only log messages with the given severity or above").
		Default("warn").EnumVar(&c.logLevel, "debug", "info", "warn", "error")
}

func (c *config) setupLogger() error {
	var opt level.Option
	switch c.logLevel {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return fmt.Errorf("invalid log level %q", c.logLevel)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(c.stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	c.logger = level.NewFilter(logger, opt)
	return nil
}
