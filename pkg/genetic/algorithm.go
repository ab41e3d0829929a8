package genetic

import (
	"context"
	"fmt"
)

// GenerationObserver is called once per completed generation with the
// generation number and the best fitness observed so far.
type GenerationObserver func(generation int, bestFitness float64)

// GeneticAlgorithm drives the generation-by-generation search. It
// owns the tunable rates, tracks the all-time-best handle, and
// delegates all heavy computation to its compute engine.
type GeneticAlgorithm[H any] struct {
	crossOverRate  float64
	mutationRate   float64
	generationSize int

	definition AlgorithmDefinition[H]
	engine     ComputeEngine[H]
	observer   GenerationObserver
}

// CrossOverRate returns the fraction of each generation produced by
// recombination.
func (a *GeneticAlgorithm[H]) CrossOverRate() float64 {
	return a.crossOverRate
}

// MutationRate returns the fraction of each generation mutated.
func (a *GeneticAlgorithm[H]) MutationRate() float64 {
	return a.mutationRate
}

// GenerationSize returns the population width.
func (a *GeneticAlgorithm[H]) GenerationSize() int {
	return a.generationSize
}

// Engine returns the compute engine the algorithm delegates to.
func (a *GeneticAlgorithm[H]) Engine() ComputeEngine[H] {
	return a.engine
}

// FindMaximum seeds a random population and evolves it until the
// collaborator's Loop predicate returns false, then returns the
// all-time-best handle. The second return is false only in the
// degenerate case where no individual was ever evaluated. The run
// either completes or fails atomically; no partial result is
// returned on error.
func (a *GeneticAlgorithm[H]) FindMaximum(ctx context.Context) (*Handle[H], bool, error) {
	currentGeneration, err := a.engine.CreateRandomPopulation(ctx, a.generationSize)
	if err != nil {
		return nil, false, err
	}

	var allTimeBest *Handle[H]
	generation := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		sumOfProbabilities, err := a.engine.UpdateFitness(ctx, currentGeneration)
		if err != nil {
			return nil, false, err
		}
		if currentMax, ok := a.engine.Max(currentGeneration); ok {
			// First-seen wins ties, so only a strictly greater
			// fitness displaces the record.
			if allTimeBest == nil || currentMax.fitness > allTimeBest.fitness {
				allTimeBest = currentMax
			}
		}

		currentGeneration, err = a.replaceGeneration(ctx, currentGeneration, sumOfProbabilities)
		if err != nil {
			return nil, false, err
		}
		if err := a.engine.Mutate(ctx, currentGeneration, a.mutationCount()); err != nil {
			return nil, false, err
		}

		generation++
		if allTimeBest == nil {
			return nil, false, nil
		}
		if a.observer != nil {
			a.observer(generation, allTimeBest.fitness)
		}
		keepGoing, err := a.definition.Loop(allTimeBest.hypothesis)
		if err != nil {
			return nil, false, fmt.Errorf("loop condition: %w", err)
		}
		if !keepGoing {
			return allTimeBest, true, nil
		}
	}
}

// CalculateNextGeneration runs one full generation step on the given
// population and returns the replacement population. It is the
// manual-control alternative to FindMaximum for callers that drive
// the loop themselves.
func (a *GeneticAlgorithm[H]) CalculateNextGeneration(ctx context.Context, currentGeneration []*Handle[H]) ([]*Handle[H], error) {
	sumOfProbabilities, err := a.engine.UpdateFitness(ctx, currentGeneration)
	if err != nil {
		return nil, err
	}
	nextGeneration, err := a.replaceGeneration(ctx, currentGeneration, sumOfProbabilities)
	if err != nil {
		return nil, err
	}
	if err := a.engine.Mutate(ctx, nextGeneration, a.mutationCount()); err != nil {
		return nil, err
	}
	return nextGeneration, nil
}

// replaceGeneration builds the next population from roulette-selected
// survivors plus crossover offspring. The crossover share is
// int(crossOverRate*generationSize) and selection fills the rest, so
// the result is exactly generationSize individuals.
func (a *GeneticAlgorithm[H]) replaceGeneration(ctx context.Context, currentGeneration []*Handle[H], sumOfProbabilities float64) ([]*Handle[H], error) {
	crossOverCount := int(a.crossOverRate * float64(a.generationSize))
	selectCount := a.generationSize - crossOverCount

	nextGeneration := make([]*Handle[H], 0, a.generationSize)
	nextGeneration, err := a.engine.Select(ctx, currentGeneration, sumOfProbabilities, selectCount, nextGeneration)
	if err != nil {
		return nil, err
	}
	nextGeneration, err = a.engine.Crossover(ctx, currentGeneration, sumOfProbabilities, crossOverCount, nextGeneration)
	if err != nil {
		return nil, err
	}
	return nextGeneration, nil
}

func (a *GeneticAlgorithm[H]) mutationCount() int {
	return int(a.mutationRate * float64(a.generationSize))
}
