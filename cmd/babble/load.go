package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/inference"
	"github.com/samcharles93/babble/internal/logger"
	"github.com/samcharles93/babble/internal/markov"
)

// loadModel resolves the corpus selected by the shared flags and builds its
// model.
func loadModel(ctx context.Context, cmd *cli.Command, cfg Config) (*inference.LoadResult, error) {
	applyCorpusConfig(cmd, cfg)
	if order < 1 || order > markov.MaxOrder {
		return nil, fmt.Errorf("--order must be between 1 and %d", markov.MaxOrder)
	}
	path, err := resolveCorpusPath(corpusPath, corporaPath, os.Stdin, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus: %w", err)
	}

	loaded, err := newLoader(cfg.generationDefaults()).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	stats := loaded.Model.Stats()
	logger.FromContext(ctx).Info("corpus loaded",
		"path", path,
		"size", formatSize(loaded.Bytes),
		"tokens", stats.Tokens,
		"contexts", stats.Contexts,
		"elapsed", loaded.LoadTime,
	)
	return loaded, nil
}
