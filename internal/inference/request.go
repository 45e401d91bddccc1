package inference

import "math"

const (
	// DefaultSteps is the reply length used when a request does not set one.
	DefaultSteps = 10
	// MaxSteps caps the reply length of a single request.
	MaxSteps = 4096
)

type RequestOptions struct {
	Steps *int
	Seed  *int64
	Stop  []string
}

// GenDefaults are per-model fallbacks applied before request options.
type GenDefaults struct {
	Steps *int
	Seed  *int64
}

func ResolveRequest(opts RequestOptions, defaults GenDefaults) Request {
	req := Request{
		Steps: DefaultSteps,
		Seed:  -1,
	}

	if defaults.Steps != nil && *defaults.Steps > 0 {
		req.Steps = *defaults.Steps
	}
	if defaults.Seed != nil {
		req.Seed = *defaults.Seed
	}

	if opts.Steps != nil && *opts.Steps > 0 {
		req.Steps = *opts.Steps
	}
	if opts.Seed != nil {
		req.Seed = *opts.Seed
	}
	req.Steps = min(req.Steps, MaxSteps)
	if len(opts.Stop) > 0 {
		req.Stop = append([]string(nil), opts.Stop...)
	}

	return req
}

// DeriveSeed returns the seed for the i-th of several outputs sharing seed.
// Negative seeds stay negative; fixed seeds wrap within the non-negative
// range so every derived seed stays reproducible.
func DeriveSeed(seed int64, i int) int64 {
	if seed < 0 {
		return seed
	}
	return int64((uint64(seed) + uint64(i)) & math.MaxInt64)
}
