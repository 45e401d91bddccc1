package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samcharles93/babble/internal/markov"
)

// ErrNoModel is returned by an engine that has no model to generate from.
var ErrNoModel = errors.New("no model loaded")

type Stats struct {
	TokensGenerated int
	Resets          int
	Duration        time.Duration
	TPS             float64
}

// MarkovEngine generates replies from a word-level Markov model. The model is
// never modified, so one engine serves any number of concurrent requests.
type MarkovEngine struct {
	model   *markov.Model[string]
	newRand func(seed int64) markov.Rand
}

// NewMarkovEngine wraps m. The engine draws randomness from NewRand.
func NewMarkovEngine(m *markov.Model[string]) *MarkovEngine {
	return &MarkovEngine{
		model:   m,
		newRand: NewRand,
	}
}

// Model returns the model the engine samples from.
func (e *MarkovEngine) Model() *markov.Model[string] {
	return e.model
}

func (e *MarkovEngine) Close() error {
	return nil
}

func (e *MarkovEngine) Generate(ctx context.Context, req *Request, stream StreamFunc) (res *Result, err error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if e.model == nil {
		return nil, ErrNoModel
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = fmt.Errorf("generate panic: %v", rec)
		}
	}()

	steps := req.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	steps = min(steps, MaxSteps)

	gen := markov.NewGenerator(e.model, e.newRand(req.Seed))
	var (
		f      Formatter
		tokens = make([]string, 0, min(steps, 256))
		stats  Stats
		finish = FinishLength
	)

	start := time.Now()
	for range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, ok := gen.Next()
		if !ok {
			finish = FinishExhausted
			break
		}
		if isStopToken(tok, req.Stop) {
			finish = FinishStop
			break
		}
		tokens = append(tokens, tok)
		piece := f.Piece(tok)
		if stream != nil {
			stream(piece)
		}
		stats.TokensGenerated++
	}

	stats.Resets = gen.Resets()
	stats.Duration = time.Since(start)
	if stats.Duration.Seconds() > 0 {
		stats.TPS = float64(stats.TokensGenerated) / stats.Duration.Seconds()
	}

	return &Result{
		Text:         f.String(),
		Tokens:       tokens,
		FinishReason: finish,
		Stats:        stats,
	}, nil
}
