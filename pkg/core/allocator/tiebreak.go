package allocator

import (
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// TieBreaker orders employees whose assigned hours are equal
type TieBreaker interface {
	// Shuffle permutes n equally ranked elements using swap
	Shuffle(n int, swap func(i, j int))
}

// RandomTieBreaker permutes ties uniformly at random from a seeded source,
// so a fixed seed reproduces a run exactly
type RandomTieBreaker struct {
	rng *rand.Rand
}

// NewRandomTieBreaker creates a tie-breaker seeded with seed
func NewRandomTieBreaker(seed uint64) *RandomTieBreaker {
	return &RandomTieBreaker{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Shuffle implements TieBreaker
func (r *RandomTieBreaker) Shuffle(n int, swap func(i, j int)) {
	r.rng.Shuffle(n, swap)
}

// StableTieBreaker leaves ties in roster order
type StableTieBreaker struct{}

// Shuffle implements TieBreaker
func (StableTieBreaker) Shuffle(int, func(i, j int)) {}

// SeedFromString derives a PRNG seed from free text. Numeric text is not
// special: "42" and "042" give different seeds.
func SeedFromString(s string) uint64 {
	return xxh3.HashString(s)
}

// RandomSeed draws a fresh seed for runs that did not ask for one
func RandomSeed() uint64 {
	return rand.Uint64()
}
