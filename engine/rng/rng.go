// Package rng provides the seeded random source used for stat variance,
// monster selection, and combat rolls.
package rng

import "math/rand"

// RNG wraps math/rand.Rand with position tracking.
// Position increments with every call so a turn's draws can be logged.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		return 1
	}
	r.pos++
	return r.src.Intn(sides) + 1
}

// Between returns a uniform integer in [lo, hi]. Swapped bounds are
// reordered.
func (r *RNG) Between(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	r.pos++
	return lo + r.src.Intn(hi-lo+1)
}

// Intn returns a uniform index in [0, n). n < 1 yields 0.
func (r *RNG) Intn(n int) int {
	if n < 1 {
		return 0
	}
	r.pos++
	return r.src.Intn(n)
}

// Seed returns the seed this RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
