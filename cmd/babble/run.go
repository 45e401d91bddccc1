package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/inference"
)

func runCmd() *cli.Command {
	var (
		steps      int64
		seed       int64
		stop       []string
		streamMode string
		raw        bool
		showStats  bool
	)

	flags := append(commonCorpusFlags(), generationFlags(&steps, &seed, &stop)...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "stream-mode",
			Usage:       "how replies are printed (instant, smooth, typewriter, quiet)",
			Value:       string(StreamInstant),
			Destination: &streamMode,
		},
		&cli.BoolFlag{
			Name:        "raw",
			Usage:       "escape control characters in replies",
			Destination: &raw,
		},
		&cli.BoolFlag{
			Name:        "show-stats",
			Usage:       "print generation stats after each reply",
			Destination: &showStats,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Reply to every line typed on stdin",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()
			applyGenerationConfig(c, cfg, &steps, &seed, &stop)
			if cfg.StreamMode != "" && !c.IsSet("stream-mode") {
				streamMode = cfg.StreamMode
			}
			mode, err := parseStreamMode(streamMode)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			loaded, err := loadModel(ctx, c, cfg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = loaded.Engine.Close() }()

			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
			defer cancel()

			session := &replySession{
				engine:    loaded.Engine,
				base:      requestFromFlags(steps, seed, stop),
				out:       os.Stdout,
				stderr:    os.Stderr,
				mode:      mode,
				raw:       raw,
				showStats: showStats,
			}
			if stdinIsTTY() {
				fmt.Fprintln(os.Stderr, "Interactive mode. Type /exit to quit.")
			}
			var hist lineHistory
			stdin := bufio.NewReader(os.Stdin)
			return session.loop(ctx, func() (string, error) {
				return readInteractiveLine("> ", &hist, stdin)
			})
		},
	}
}

func requestFromFlags(steps, seed int64, stop []string) inference.Request {
	s := int(steps)
	return inference.ResolveRequest(inference.RequestOptions{
		Steps: &s,
		Seed:  &seed,
		Stop:  inference.ParseStop(stop),
	}, inference.GenDefaults{})
}

// replySession answers each input with a freshly generated reply. With a
// fixed seed the n-th reply uses seed+n, so a session replays exactly.
type replySession struct {
	engine    inference.Engine
	base      inference.Request
	out       io.Writer
	stderr    io.Writer
	mode      StreamMode
	raw       bool
	showStats bool
	turn      int
}

func (s *replySession) reply(ctx context.Context) (*inference.Result, error) {
	req := s.base
	req.Seed = inference.DeriveSeed(req.Seed, s.turn)
	s.turn++

	sw := NewStreamWriter(s.out, s.mode, s.raw)
	res, err := s.engine.Generate(ctx, &req, sw.Write)
	sw.Flush()
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(s.out)
	if s.showStats {
		fmt.Fprintf(s.stderr, "Stats: %.2f TPS (%d tokens in %s, %d resets, finish=%s)\n",
			res.Stats.TPS, res.Stats.TokensGenerated, res.Stats.Duration, res.Stats.Resets, res.FinishReason)
	}
	return res, nil
}

// loop replies to every non-blank line until input ends, /exit is typed or
// ctx is cancelled.
func (s *replySession) loop(ctx context.Context, readLine func() (string, error)) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}
		if _, err := s.reply(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
