package problem

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"genitor/pkg/genetic"
)

const defaultMaxGenerations = 2000

func withProblemDefaults(cfg RunConfig) RunConfig {
	if cfg.CrossOverRate == 0 {
		cfg.CrossOverRate = genetic.DefaultCrossOverRate
	}
	if cfg.MutationRate == 0 {
		cfg.MutationRate = genetic.DefaultMutationRate
	}
	if cfg.GenerationSize == 0 {
		cfg.GenerationSize = genetic.DefaultGenerationSize
	}
	if cfg.MaxGenerations == 0 {
		cfg.MaxGenerations = defaultMaxGenerations
	}
	return cfg
}

// generationCounter lets runProblem read back how many generations a
// definition observed.
type generationCounter interface {
	generationCount() int
}

func (d *intGuessingDefinition) generationCount() int  { return d.generations }
func (d *textGuessingDefinition) generationCount() int { return d.generations }

func runProblem[H any](ctx context.Context, def genetic.AlgorithmDefinition[H], cfg RunConfig, encode func(best H) (json.RawMessage, error)) (Result, error) {
	var bestByGeneration []float64
	observer := func(generation int, bestFitness float64) {
		bestByGeneration = append(bestByGeneration, bestFitness)
		if cfg.Observer != nil {
			cfg.Observer(generation, bestFitness)
		}
	}

	opts := []genetic.Option{
		genetic.WithCrossOverRate(cfg.CrossOverRate),
		genetic.WithMutationRate(cfg.MutationRate),
		genetic.WithGenerationSize(cfg.GenerationSize),
		genetic.WithGenerationObserver(observer),
	}
	if cfg.Seed != 0 {
		opts = append(opts, genetic.WithRandomSource(rand.NewSource(cfg.Seed)))
	}
	if cfg.Workers > 0 {
		opts = append(opts, genetic.WithWorkers(cfg.Workers))
	}

	algorithm, err := genetic.New(def, opts...)
	if err != nil {
		return Result{}, err
	}

	best, ok, err := algorithm.FindMaximum(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("search produced no result")
	}

	payload, err := encode(best.Hypothesis())
	if err != nil {
		return Result{}, fmt.Errorf("encode best hypothesis: %w", err)
	}

	result := Result{
		BestFitness:      best.Fitness(),
		BestPayload:      payload,
		BestByGeneration: bestByGeneration,
		Generations:      len(bestByGeneration),
	}
	if counter, ok := def.(generationCounter); ok {
		result.Generations = counter.generationCount()
	}
	return result, nil
}
