package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/inference"
)

func generateCmd() *cli.Command {
	var (
		steps   int64
		seed    int64
		stop    []string
		count   int64
		jsonOut bool
	)

	flags := append(commonCorpusFlags(), generationFlags(&steps, &seed, &stop)...)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "count",
			Usage:       "number of replies to print",
			Value:       1,
			Destination: &count,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print one JSON object per reply",
			Destination: &jsonOut,
		},
	)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Print generated replies and exit",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if count < 1 {
				return cli.Exit("error: --count must be at least 1", 1)
			}
			cfg := LoadConfig()
			applyGenerationConfig(c, cfg, &steps, &seed, &stop)

			loaded, err := loadModel(ctx, c, cfg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = loaded.Engine.Close() }()

			base := requestFromFlags(steps, seed, stop)
			if err := generateReplies(ctx, loaded.Engine, base, int(count), jsonOut, os.Stdout); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

type generatedReply struct {
	Index        int      `json:"index"`
	Text         string   `json:"text"`
	Tokens       []string `json:"tokens"`
	FinishReason string   `json:"finish_reason"`
	Resets       int      `json:"resets"`
}

// generateReplies writes count replies to w, one per line. Seeds are derived
// the same way as in an interactive session.
func generateReplies(ctx context.Context, engine inference.Engine, base inference.Request, count int, jsonOut bool, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i := range count {
		req := base
		req.Seed = inference.DeriveSeed(req.Seed, i)
		res, err := engine.Generate(ctx, &req, nil)
		if err != nil {
			return err
		}
		if jsonOut {
			if err := enc.Encode(generatedReply{
				Index:        i,
				Text:         res.Text,
				Tokens:       res.Tokens,
				FinishReason: res.FinishReason,
				Resets:       res.Stats.Resets,
			}); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, res.Text); err != nil {
			return err
		}
	}
	return nil
}
