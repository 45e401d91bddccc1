package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/logger"
)

var (
	corpusPath  string
	corporaPath string
	order       int64
	maxBytes    int64
	logLevel    string
	logFormat   string
	debug       bool
)

func commonCorpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "corpus",
			Aliases:     []string{"c"},
			Usage:       "path to a corpus file or directory",
			Destination: &corpusPath,
		},
		&cli.StringFlag{
			Name:        "corpora-path",
			Aliases:     []string{"path"},
			Usage:       "path to directory containing .txt corpora",
			Destination: &corporaPath,
		},
		&cli.Int64Flag{
			Name:        "order",
			Aliases:     []string{"o"},
			Usage:       "number of preceding tokens that form a context (1-4)",
			Value:       1,
			Destination: &order,
		},
		&cli.Int64Flag{
			Name:        "max-bytes",
			Usage:       "refuse corpora larger than this many bytes (0 = unlimited)",
			Destination: &maxBytes,
		},
	}
}

func generationFlags(steps *int64, seed *int64, stop *[]string) []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "steps",
			Aliases:     []string{"n"},
			Usage:       "number of tokens per reply",
			Value:       10,
			Destination: steps,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling RNG seed (default -1 = random)",
			Value:       -1,
			Destination: seed,
		},
		&cli.StringSliceFlag{
			Name:        "stop",
			Usage:       "end a reply when this token is generated (repeatable)",
			Destination: stop,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// setupLogging installs the configured logger in the command context.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := LoadConfig()
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	return logger.WithContext(ctx, logger.ForFormat(logFormat, os.Stderr, level)), nil
}
