// Package random wraps a seeded math/rand stream with the draw helpers the
// generators need. A single Rand is threaded through the stages in order so a
// seed fully determines every table.
package random

import (
	"hash/fnv"
	"math/rand"
	"sort"
)

// Rand is a seeded, non-concurrent random stream.
type Rand struct {
	r *rand.Rand
}

// New returns a stream seeded with seed.
func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Derive returns an independent stream keyed by seed and label.
func Derive(seed int64, label string) *Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	return New(seed ^ int64(h.Sum64()))
}

// Float64 returns a draw in [0, 1).
func (g *Rand) Float64() float64 {
	return g.r.Float64()
}

// Uniform returns a draw in [lo, hi).
func (g *Rand) Uniform(lo, hi float64) float64 {
	return lo + g.r.Float64()*(hi-lo)
}

// IntRange returns an integer in [lo, hi). hi must be greater than lo.
func (g *Rand) IntRange(lo, hi int) int {
	return lo + g.r.Intn(hi-lo)
}

// Exp returns an exponentially distributed draw with rate 1.
func (g *Rand) Exp() float64 {
	return g.r.ExpFloat64()
}

// Choice returns an index picked with the given (normalized) probabilities.
func (g *Rand) Choice(probs []float64) int {
	u := g.r.Float64()
	cum := 0.0
	for i, p := range probs {
		cum += p
		if u < cum {
			return i
		}
	}
	return len(probs) - 1
}

// Dirichlet returns n weights drawn from a symmetric Dirichlet(1) distribution.
func (g *Rand) Dirichlet(n int) []float64 {
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = g.Exp()
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Sample returns k distinct indices from [0, n) in ascending order.
func (g *Rand) Sample(n, k int) []int {
	if k >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := g.r.Perm(n)[:k]
	sort.Ints(idx)
	return idx
}
