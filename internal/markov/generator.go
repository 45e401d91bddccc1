package markov

import "iter"

// Generator walks a Model, producing one token per call to Next. It never
// ends on its own unless the Model is empty; callers bound the output.
type Generator[T comparable] struct {
	model  *Model[T]
	rng    Rand
	ctx    Context[T]
	resets int
}

// NewGenerator returns a Generator positioned at the start context.
func NewGenerator[T comparable](m *Model[T], r Rand) *Generator[T] {
	return &Generator[T]{
		model: m,
		rng:   r,
		ctx:   Start[T](),
	}
}

// Next samples the next token. When the current context has no successors
// the generator restarts from the start context and tries once more; if that
// also has none, the generator is exhausted and Next returns false.
func (g *Generator[T]) Next() (T, bool) {
	d := g.model.Distribution(g.ctx)
	if d.Len() == 0 && !g.ctx.IsStart() {
		g.ctx = Start[T]()
		g.resets++
		d = g.model.Distribution(g.ctx)
	}
	t, ok := d.Sample(g.rng)
	if !ok {
		return t, false
	}
	g.ctx = g.ctx.Push(t, g.model.order)
	return t, true
}

// All yields tokens from Next until the generator is exhausted or the caller
// stops ranging.
func (g *Generator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			t, ok := g.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}

// Context returns the generator's current position.
func (g *Generator[T]) Context() Context[T] {
	return g.ctx
}

// Resets counts how many times the generator hit a dead end and restarted
// from the start context.
func (g *Generator[T]) Resets() int {
	return g.resets
}

// Take yields at most n values from seq.
func Take[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}
}
