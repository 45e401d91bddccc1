// Package markov builds token transition tables and samples new sequences
// from them.
//
// A Model is immutable once Build returns and may be shared by any number of
// goroutines. Each Generator owns its own position and randomness source and
// must not be shared.
package markov

import "iter"

// Model maps each observed context to the distribution of tokens that
// followed it.
type Model[T comparable] struct {
	order int
	table map[Context[T]]*Distribution[T]
	stats Stats
}

// Stats summarises a built Model.
type Stats struct {
	Order       int `json:"order"`
	Tokens      int `json:"tokens"`
	Contexts    int `json:"contexts"`
	Transitions int `json:"transitions"`
	Vocabulary  int `json:"vocabulary"`
}

type options struct {
	order int
}

// Option configures Build.
type Option func(*options)

// WithOrder sets how many preceding tokens form a context. Values outside
// [1, MaxOrder] are clamped.
func WithOrder(n int) Option {
	return func(o *options) { o.order = clampOrder(n) }
}

// Build consumes tokens once and returns the resulting Model. An empty
// sequence yields a Model with no transitions.
func Build[T comparable](tokens iter.Seq[T], opts ...Option) *Model[T] {
	o := options{order: 1}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Model[T]{
		order: o.order,
		table: make(map[Context[T]]*Distribution[T]),
	}
	vocab := make(map[T]struct{})

	prev := Start[T]()
	for t := range tokens {
		d, ok := m.table[prev]
		if !ok {
			d = &Distribution[T]{}
			m.table[prev] = d
		}
		d.observe(t)
		vocab[t] = struct{}{}
		m.stats.Tokens++
		prev = prev.Push(t, m.order)
	}

	m.stats.Order = m.order
	m.stats.Contexts = len(m.table)
	m.stats.Vocabulary = len(vocab)
	for _, d := range m.table {
		m.stats.Transitions += d.Len()
	}
	return m
}

// Order returns the context length the Model was built with.
func (m *Model[T]) Order() int {
	return m.order
}

// Distribution returns the successors observed after ctx, or nil if ctx was
// never followed by a token.
func (m *Model[T]) Distribution(ctx Context[T]) *Distribution[T] {
	return m.table[ctx]
}

// Contexts yields every context with at least one successor. Iteration order
// is unspecified.
func (m *Model[T]) Contexts() iter.Seq2[Context[T], *Distribution[T]] {
	return func(yield func(Context[T], *Distribution[T]) bool) {
		for ctx, d := range m.table {
			if !yield(ctx, d) {
				return
			}
		}
	}
}

// Stats returns summary counts gathered during Build.
func (m *Model[T]) Stats() Stats {
	return m.stats
}

// Empty reports whether the Model was built from an empty sequence.
func (m *Model[T]) Empty() bool {
	return m.stats.Tokens == 0
}
