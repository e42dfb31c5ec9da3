package generator

import (
	"math/rand/v2"
)

// Sampler draws uniform integers in [0, n). Implementations need not be
// safe for concurrent use; a generator samples from one goroutine.
type Sampler interface {
	IntN(n int) int
}

// pcgStream is the fixed second PCG word; the seed alone selects the
// sequence.
const pcgStream = 0x9e3779b97f4a7c15

// NewSampler returns a PCG-backed sampler. Equal seeds produce equal
// sequences.
func NewSampler(seed uint64) Sampler {
	return rand.New(rand.NewPCG(seed, pcgStream))
}

// RandomSeed draws a seed from the runtime's randomly seeded source.
func RandomSeed() uint64 {
	return rand.Uint64()
}
