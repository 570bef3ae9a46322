package evaluator

import "math/rand"

// Rand is the randomness source consumed by the engine: variable sampling,
// distractor perturbation and option shuffling. *rand.Rand satisfies it, which
// is what tests inject for reproducibility.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type systemRand struct{}

func (systemRand) Intn(n int) int                      { return rand.Intn(n) }
func (systemRand) Shuffle(n int, swap func(i, j int))  { rand.Shuffle(n, swap) }

// SystemRand returns a Rand backed by the process-wide math/rand source,
// which is safe for concurrent use across requests.
func SystemRand() Rand {
	return systemRand{}
}
