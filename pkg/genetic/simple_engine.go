package genetic

import (
	"context"
	"fmt"
	"math/rand"
)

// SimpleComputeEngine executes all population operations synchronously
// on the calling goroutine with a single random stream. Given a fixed
// seed and a fixed call order its results are fully reproducible.
type SimpleComputeEngine[H any] struct {
	rng        *rand.Rand
	definition AlgorithmDefinition[H]
}

// NewSimpleComputeEngine creates a serial compute engine.
func NewSimpleComputeEngine[H any](rng *rand.Rand, definition AlgorithmDefinition[H]) *SimpleComputeEngine[H] {
	return &SimpleComputeEngine[H]{rng: rng, definition: definition}
}

func (e *SimpleComputeEngine[H]) CreateRandomPopulation(ctx context.Context, count int) ([]*Handle[H], error) {
	result := make([]*Handle[H], 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hypothesis, err := e.definition.NewRandomHypothesis()
		if err != nil {
			return nil, fmt.Errorf("new random hypothesis: %w", err)
		}
		result = append(result, newHandle(hypothesis))
	}
	return result, nil
}

func (e *SimpleComputeEngine[H]) UpdateFitness(ctx context.Context, population []*Handle[H]) (float64, error) {
	for _, current := range population {
		if current.hasFitness {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fitness, err := e.definition.CalculateFitness(current.hypothesis)
		if err != nil {
			return 0, fmt.Errorf("calculate fitness: %w", err)
		}
		current.setFitness(fitness)
	}
	return updateProbabilities(population), nil
}

func (e *SimpleComputeEngine[H]) Select(ctx context.Context, population []*Handle[H], sumOfProbabilities float64, targetCount int, target []*Handle[H]) ([]*Handle[H], error) {
	for i := 0; i < targetCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target = append(target, probabilisticSelect(population, sumOfProbabilities, e.rng.Float64()))
	}
	return target, nil
}

func (e *SimpleComputeEngine[H]) Crossover(ctx context.Context, population []*Handle[H], sumOfProbabilities float64, targetCount int, target []*Handle[H]) ([]*Handle[H], error) {
	budget := crossoverDrawBudget(targetCount)
	produced := 0
	for draws := 0; produced < targetCount; draws++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if draws >= budget {
			return nil, fmt.Errorf("%w: want=%d got=%d draws=%d", ErrCrossoverStalled, targetCount, produced, draws)
		}

		first := probabilisticSelect(population, sumOfProbabilities, e.rng.Float64())
		second := probabilisticSelect(population, sumOfProbabilities, e.rng.Float64())
		offspring, err := e.definition.CrossOverHypothesis(first.hypothesis, second.hypothesis)
		if err != nil {
			return nil, fmt.Errorf("cross over hypothesis: %w", err)
		}

		for _, child := range offspring {
			if produced >= targetCount {
				break
			}
			target = append(target, newHandle(child))
			produced++
		}
	}
	return target, nil
}

func (e *SimpleComputeEngine[H]) Mutate(ctx context.Context, population []*Handle[H], mutationCount int) error {
	if len(population) == 0 {
		return nil
	}
	for i := 0; i < mutationCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		index := e.rng.Intn(len(population))
		mutated, err := e.definition.MutateHypothesis(population[index].hypothesis)
		if err != nil {
			return fmt.Errorf("mutate hypothesis: %w", err)
		}
		population[index] = newHandle(mutated)
	}
	return nil
}

func (e *SimpleComputeEngine[H]) Max(population []*Handle[H]) (*Handle[H], bool) {
	return maxHandle(population)
}
