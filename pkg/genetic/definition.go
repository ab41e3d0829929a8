// Package genetic implements a generic evolutionary-optimization
// engine. A population of candidate solutions ("hypotheses") is
// evolved toward higher fitness through repeated rounds of
// probabilistic selection, recombination, and mutation. The engine
// never inspects a hypothesis itself; all manipulation goes through
// the caller's AlgorithmDefinition.
package genetic

import "math/rand"

// AlgorithmDefinition is the capability set a problem supplies to the
// engine. H is the caller's hypothesis type; the engine treats it as
// opaque.
type AlgorithmDefinition[H any] interface {
	// Initialize is called exactly once, before generation zero, with
	// the engine's shared random source. When the engine runs with a
	// worker pool the source is safe for concurrent use.
	Initialize(rng *rand.Rand)

	// NewRandomHypothesis creates one random hypothesis. It is called
	// once per individual to seed generation zero.
	NewRandomHypothesis() (H, error)

	// MutateHypothesis applies one atomic random perturbation. It may
	// return the same reference mutated in place or a fresh copy; the
	// engine assumes neither.
	MutateHypothesis(hypothesis H) (H, error)

	// CrossOverHypothesis produces offspring combining traits of both
	// parents. At least one offspring is expected, typically two.
	CrossOverHypothesis(first, second H) ([]H, error)

	// CalculateFitness scores a hypothesis. The result must be finite
	// and non-negative; higher is better.
	CalculateFitness(hypothesis H) (float64, error)

	// Loop is called once per completed generation with the best
	// hypothesis observed so far. Returning true continues the
	// search, false stops it.
	Loop(best H) (bool, error)
}
