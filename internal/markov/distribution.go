package markov

import "iter"

// Rand is the randomness capability a Generator draws from. It is satisfied
// by *math/rand/v2.Rand.
type Rand interface {
	// Uint64N returns a uniformly random value in [0, n). n is never zero.
	Uint64N(n uint64) uint64
}

// Entry is one successor token and the number of times it was observed.
type Entry[T comparable] struct {
	Token T
	Count uint64
}

// Distribution is a weighted multiset of successor tokens kept in first-seen
// order. A nil *Distribution is valid and empty.
type Distribution[T comparable] struct {
	entries []Entry[T]
	index   map[T]int
	total   uint64
}

func (d *Distribution[T]) observe(t T) {
	if d.index == nil {
		d.index = make(map[T]int)
	}
	i, ok := d.index[t]
	if !ok {
		i = len(d.entries)
		d.index[t] = i
		d.entries = append(d.entries, Entry[T]{Token: t})
	}
	d.entries[i].Count++
	d.total++
}

// Len returns the number of distinct successors.
func (d *Distribution[T]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Total returns the sum of all counts.
func (d *Distribution[T]) Total() uint64 {
	if d == nil {
		return 0
	}
	return d.total
}

// Count returns how often t was observed.
func (d *Distribution[T]) Count(t T) uint64 {
	if d == nil {
		return 0
	}
	i, ok := d.index[t]
	if !ok {
		return 0
	}
	return d.entries[i].Count
}

// All yields every successor and its count in first-seen order.
func (d *Distribution[T]) All() iter.Seq2[T, uint64] {
	return func(yield func(T, uint64) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !yield(e.Token, e.Count) {
				return
			}
		}
	}
}

// Sample draws one successor with probability proportional to its count.
// It returns false when the distribution is empty.
func (d *Distribution[T]) Sample(r Rand) (T, bool) {
	var zero T
	if d.Total() == 0 {
		return zero, false
	}
	x := r.Uint64N(d.total)
	for _, e := range d.entries {
		if x < e.Count {
			return e.Token, true
		}
		x -= e.Count
	}
	// Unreachable while total equals the sum of counts.
	return d.entries[len(d.entries)-1].Token, true
}
