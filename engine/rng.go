package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, enabling save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Between returns a random integer in [lo, hi]. If hi <= lo it returns lo
// without consuming a draw, so degenerate ranges stay deterministic.
func (r *RNG) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	r.pos++
	return lo + r.src.Intn(hi-lo+1)
}

// Shuffle permutes the string slice in place. The underlying source makes
// one draw per swap, so the position advances by len(s)-1; RestoreRNG
// depends on this count matching exactly.
func (r *RNG) Shuffle(s []string) {
	if n := len(s); n > 1 {
		r.pos += int64(n - 1)
	}
	r.src.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// Seed returns the seed this RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.Intn(2)
	}
	rng.pos = position
	return rng
}
