package markov

// MaxOrder is the longest history a Context can hold.
const MaxOrder = 4

// Context is the conditioning key for the next token: the most recent tokens
// of the sequence, oldest first. The zero value is the start-of-sequence
// sentinel.
type Context[T comparable] struct {
	n    int
	hist [MaxOrder]T
}

// Start returns the start-of-sequence context.
func Start[T comparable]() Context[T] {
	return Context[T]{}
}

// IsStart reports whether c is the start-of-sequence sentinel.
func (c Context[T]) IsStart() bool {
	return c.n == 0
}

// Len is the number of tokens of history held by c.
func (c Context[T]) Len() int {
	return c.n
}

// Tokens returns a copy of the history, oldest first.
func (c Context[T]) Tokens() []T {
	out := make([]T, c.n)
	copy(out, c.hist[:c.n])
	return out
}

// Push returns the context that follows c once t is appended, keeping at most
// order tokens. With order 1 the result holds just t.
func (c Context[T]) Push(t T, order int) Context[T] {
	order = clampOrder(order)
	next := c
	if next.n < order {
		next.hist[next.n] = t
		next.n++
		return next
	}
	copy(next.hist[:order-1], next.hist[next.n-order+1:next.n])
	var zero T
	for i := order - 1; i < MaxOrder; i++ {
		next.hist[i] = zero
	}
	next.hist[order-1] = t
	next.n = order
	return next
}

func clampOrder(order int) int {
	if order < 1 {
		return 1
	}
	if order > MaxOrder {
		return MaxOrder
	}
	return order
}
