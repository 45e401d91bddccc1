package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samcharles93/babble/internal/corpus"
	"github.com/samcharles93/babble/internal/logger"
	"github.com/samcharles93/babble/internal/markov"
)

type Loader struct {
	// Order is the Markov context length. Zero means 1.
	Order int
	// MaxBytes caps the corpus size. Zero means unlimited.
	MaxBytes int64
	// Defaults are attached to every LoadResult.
	Defaults GenDefaults
}

type LoadResult struct {
	Engine             *MarkovEngine
	Model              *markov.Model[string]
	Sources            []string
	Bytes              int64
	GenerationDefaults GenDefaults
	LoadTime           time.Duration
}

// Load reads the corpus at path and trains a model on it.
func (l Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("corpus path is required")
	}
	log := logger.FromContext(ctx)
	start := time.Now()

	text, err := corpus.Load(path, corpus.LoadOptions{MaxBytes: l.MaxBytes})
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := l.Order
	if order <= 0 {
		order = 1
	}
	m := markov.Build(corpus.Tokens(text.Content), markov.WithOrder(order))
	stats := m.Stats()
	elapsed := time.Since(start)

	if m.Empty() {
		log.Warn("corpus produced an empty model", "path", path)
	}
	log.Debug("model built",
		"path", path,
		"bytes", text.Bytes,
		"order", stats.Order,
		"tokens", stats.Tokens,
		"contexts", stats.Contexts,
		"transitions", stats.Transitions,
		"elapsed", elapsed,
	)

	return &LoadResult{
		Engine:             NewMarkovEngine(m),
		Model:              m,
		Sources:            text.Sources,
		Bytes:              text.Bytes,
		GenerationDefaults: l.Defaults,
		LoadTime:           elapsed,
	}, nil
}
