package genetic

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PoolComputeEngine fans each population phase out to a fixed-size
// worker pool and joins all tasks before the next phase begins.
// Phases never overlap; worker tasks only read the population and
// write into private per-task slots that are merged after the join.
// The first task error cancels the phase, the remaining in-flight
// tasks are drained, and the error is returned to the caller.
//
// Because task completion order and shared-rng contention interleave
// nondeterministically, results are not bit-reproducible for a given
// seed; they follow the same probability distribution as the serial
// engine.
type PoolComputeEngine[H any] struct {
	rng        *rand.Rand
	definition AlgorithmDefinition[H]
	workers    int
}

// NewPoolComputeEngine creates a worker-pool compute engine. The rng
// must be safe for concurrent use; a rand.Rand built over a
// LockedSource qualifies.
func NewPoolComputeEngine[H any](rng *rand.Rand, definition AlgorithmDefinition[H], workers int) *PoolComputeEngine[H] {
	if workers < 1 {
		workers = 1
	}
	return &PoolComputeEngine[H]{rng: rng, definition: definition, workers: workers}
}

func (e *PoolComputeEngine[H]) CreateRandomPopulation(ctx context.Context, count int) ([]*Handle[H], error) {
	result := make([]*Handle[H], count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range result {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hypothesis, err := e.definition.NewRandomHypothesis()
			if err != nil {
				return fmt.Errorf("new random hypothesis: %w", err)
			}
			result[i] = newHandle(hypothesis)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *PoolComputeEngine[H]) UpdateFitness(ctx context.Context, population []*Handle[H]) (float64, error) {
	// Selection copies survivors by reference, so the same handle can
	// occupy several population slots. Deduplicate before fanning out
	// so no two tasks write the same handle.
	pending := make([]*Handle[H], 0, len(population))
	seen := make(map[*Handle[H]]struct{}, len(population))
	for _, current := range population {
		if current.hasFitness {
			continue
		}
		if _, ok := seen[current]; ok {
			continue
		}
		seen[current] = struct{}{}
		pending = append(pending, current)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, current := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fitness, err := e.definition.CalculateFitness(current.hypothesis)
			if err != nil {
				return fmt.Errorf("calculate fitness: %w", err)
			}
			current.setFitness(fitness)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return updateProbabilities(population), nil
}

func (e *PoolComputeEngine[H]) Select(ctx context.Context, population []*Handle[H], sumOfProbabilities float64, targetCount int, target []*Handle[H]) ([]*Handle[H], error) {
	drawn := make([]*Handle[H], targetCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range drawn {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			drawn[i] = probabilisticSelect(population, sumOfProbabilities, e.rng.Float64())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(target, drawn...), nil
}

func (e *PoolComputeEngine[H]) Crossover(ctx context.Context, population []*Handle[H], sumOfProbabilities float64, targetCount int, target []*Handle[H]) ([]*Handle[H], error) {
	budget := crossoverDrawBudget(targetCount)
	produced := 0
	draws := 0

	// Offspring counts are only known after a pair recombines, so the
	// fan-out runs in rounds: launch enough pair tasks to cover the
	// remaining demand assuming two offspring each, join, merge, and
	// repeat until the demand is met or the draw budget is spent.
	for produced < targetCount {
		if draws >= budget {
			return nil, fmt.Errorf("%w: want=%d got=%d draws=%d", ErrCrossoverStalled, targetCount, produced, draws)
		}
		pairs := (targetCount - produced + 1) / 2
		if pairs > budget-draws {
			pairs = budget - draws
		}
		draws += pairs

		litters := make([][]H, pairs)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i := range litters {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				first := probabilisticSelect(population, sumOfProbabilities, e.rng.Float64())
				second := probabilisticSelect(population, sumOfProbabilities, e.rng.Float64())
				offspring, err := e.definition.CrossOverHypothesis(first.hypothesis, second.hypothesis)
				if err != nil {
					return fmt.Errorf("cross over hypothesis: %w", err)
				}
				litters[i] = offspring
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, litter := range litters {
			for _, child := range litter {
				if produced >= targetCount {
					break
				}
				target = append(target, newHandle(child))
				produced++
			}
		}
	}
	return target, nil
}

func (e *PoolComputeEngine[H]) Mutate(ctx context.Context, population []*Handle[H], mutationCount int) error {
	if len(population) == 0 {
		return nil
	}

	// Draw all indices up front, with replacement, then group repeat
	// draws by index. One task per distinct index keeps concurrent
	// writes to the population disjoint while preserving the
	// with-replacement bias and the composition of repeated
	// mutations.
	countByIndex := make(map[int]int, mutationCount)
	for i := 0; i < mutationCount; i++ {
		countByIndex[e.rng.Intn(len(population))]++
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for index, count := range countByIndex {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hypothesis := population[index].hypothesis
			for step := 0; step < count; step++ {
				mutated, err := e.definition.MutateHypothesis(hypothesis)
				if err != nil {
					return fmt.Errorf("mutate hypothesis: %w", err)
				}
				hypothesis = mutated
			}
			population[index] = newHandle(hypothesis)
			return nil
		})
	}
	return g.Wait()
}

func (e *PoolComputeEngine[H]) Max(population []*Handle[H]) (*Handle[H], bool) {
	return maxHandle(population)
}

// LockedSource wraps a rand.Source with a mutex so a single
// rand.Rand can be shared across worker tasks.
type LockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

// NewLockedSource wraps src for concurrent use.
func NewLockedSource(src rand.Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *LockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src64, ok := s.src.(rand.Source64); ok {
		return src64.Uint64()
	}
	return uint64(s.src.Int63())>>31 | uint64(s.src.Int63())<<32
}

func (s *LockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
