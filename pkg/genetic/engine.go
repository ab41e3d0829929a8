package genetic

import (
	"context"
	"errors"
)

// ErrCrossoverStalled reports a crossover pass that exhausted its
// parent-draw budget without producing the requested number of
// offspring. This happens when a collaborator keeps returning zero
// offspring and marks a contract violation rather than an engine bug.
var ErrCrossoverStalled = errors.New("crossover produced too few offspring")

// ComputeEngine executes population-level operations for the
// orchestrator. Implementations differ only in execution strategy:
// SimpleComputeEngine runs everything on the calling goroutine,
// PoolComputeEngine fans phases out to a fixed-size worker pool.
type ComputeEngine[H any] interface {
	// CreateRandomPopulation invokes the collaborator's random
	// creation count times and wraps each hypothesis in a fresh,
	// fitness-invalid handle.
	CreateRandomPopulation(ctx context.Context, count int) ([]*Handle[H], error)

	// UpdateFitness computes and caches fitness for every handle
	// whose cache is invalid, then recomputes every handle's
	// selection probability. It returns the sum of probabilities,
	// which is 1 within floating-point tolerance whenever the total
	// fitness is positive.
	UpdateFitness(ctx context.Context, population []*Handle[H]) (float64, error)

	// Select draws targetCount handles via roulette-wheel sampling
	// with replacement and appends them to target.
	Select(ctx context.Context, population []*Handle[H], sumOfProbabilities float64, targetCount int, target []*Handle[H]) ([]*Handle[H], error)

	// Crossover repeatedly draws two parents via roulette-wheel
	// sampling, recombines them, and appends fresh fitness-invalid
	// offspring handles to target. Exactly targetCount offspring are
	// appended; surplus offspring from the final pair are dropped.
	Crossover(ctx context.Context, population []*Handle[H], sumOfProbabilities float64, targetCount int, target []*Handle[H]) ([]*Handle[H], error)

	// Mutate draws mutationCount indices uniformly with replacement,
	// mutates the hypothesis at each drawn index, and replaces the
	// affected handle with a fresh fitness-invalid one. Some
	// individuals may be mutated more than once, others never.
	Mutate(ctx context.Context, population []*Handle[H], mutationCount int) error

	// Max returns the handle with the greatest fitness, resolving
	// ties to the first one in population order. The second return
	// is false only for an empty population.
	Max(population []*Handle[H]) (*Handle[H], bool)
}

// probabilisticSelect walks the population in order, accumulating
// selection probabilities, and returns the handle at the index where
// the running sum first reaches point*sumOfProbabilities. If the walk
// exhausts the population first, the last handle is returned. point
// is expected in [0, 1).
func probabilisticSelect[H any](population []*Handle[H], sumOfProbabilities, point float64) *Handle[H] {
	result := population[0]
	inflatedPoint := point * sumOfProbabilities

	soFar := 0.0
	for i := 0; i < len(population) && soFar < inflatedPoint; i++ {
		result = population[i]
		soFar += result.probability
	}
	return result
}

func maxHandle[H any](population []*Handle[H]) (*Handle[H], bool) {
	if len(population) == 0 {
		return nil, false
	}
	result := population[0]
	for _, current := range population[1:] {
		if current.fitness > result.fitness {
			result = current
		}
	}
	return result, true
}

// updateProbabilities recomputes every handle's selection probability
// from the already-cached fitness values and returns their sum. A
// zero total fitness leaves all probabilities at zero instead of
// dividing to NaN; the roulette walk then degenerates to the first
// handle.
func updateProbabilities[H any](population []*Handle[H]) float64 {
	sumFitness := 0.0
	for _, current := range population {
		sumFitness += current.fitness
	}
	if sumFitness <= 0 {
		for _, current := range population {
			current.setProbability(0)
		}
		return 0
	}

	sumOfProbabilities := 0.0
	for _, current := range population {
		probability := current.fitness / sumFitness
		current.setProbability(probability)
		sumOfProbabilities += probability
	}
	return sumOfProbabilities
}

// crossoverDrawBudget bounds the number of parent-pair draws a single
// crossover pass may spend before giving up with ErrCrossoverStalled.
func crossoverDrawBudget(targetCount int) int {
	return 8*targetCount + 16
}
