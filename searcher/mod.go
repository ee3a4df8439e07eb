package searcher

import (
	"math"

	"connect4/game"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// Win is the magnitude of a forced win or loss, before adjusting by the remaining depth.
const Win = game.WinScore

// Infinity bounds the alpha-beta window. It leaves head room so that bounds can be widened by one.
const Infinity = math.MaxInt32

// Leaf evaluations are perturbed by up to NoiseScale*randomness points.
const NoiseScale = 50.0

// MaxRandomness caps the weakening probability.
const MaxRandomness = 0.2

type Option func(s *search)

// WithRandomness sets the probability of a deliberate mistake at each
// decision, which also scales the noise added to leaf evaluations.
func WithRandomness(randomness float64) Option {
	return func(s *search) {
		if randomness > 0 {
			s.randomness = min(randomness, 1)
		}
	}
}

// WithSeed makes a search reproducible.
func WithSeed(seed uint64) Option {
	return func(s *search) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand shares a caller-owned random source. The source must not be used concurrently.
func WithRand(rng *rand.Rand) Option {
	return func(s *search) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *search) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

// Randomness maps a requested search depth to a weakening probability:
// shallow searches make more mistakes, depth 9 and beyond make none.
func Randomness(depth int) float64 {
	r := 0.25 - float64(depth)*0.03
	return max(0.0, min(MaxRandomness, r))
}

// NewRand returns a random source seeded from system entropy.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
}
