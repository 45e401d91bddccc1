package inference

import "context"

// StreamFunc receives each formatted piece of a reply as it is produced.
type StreamFunc func(piece string)

type Engine interface {
	Generate(ctx context.Context, req *Request, stream StreamFunc) (*Result, error)
	Close() error
}

type Request struct {
	// Steps is the number of tokens to generate. Non-positive values fall
	// back to DefaultSteps.
	Steps int
	// Seed selects a deterministic randomness source when >= 0.
	Seed int64
	// Stop ends the reply early when a generated token equals one of these.
	Stop []string
}

// Finish reasons reported in Result.
const (
	FinishLength    = "length"
	FinishStop      = "stop"
	FinishExhausted = "exhausted"
)

type Result struct {
	Text         string
	Tokens       []string
	FinishReason string
	Stats        Stats
}
