package genetic

import (
	"context"
	"math/rand"
	"sync"
	"testing"
)

// stubDefinition is a configurable collaborator for engine-level
// tests. Unset callbacks fall back to harmless defaults.
type stubDefinition struct {
	rng *rand.Rand

	newRandom func() ([]int, error)
	mutate    func(hypothesis []int) ([]int, error)
	crossOver func(first, second []int) ([][]int, error)
	fitness   func(hypothesis []int) (float64, error)
	loop      func(best []int) (bool, error)

	mu           sync.Mutex
	fitnessCalls int
}

func (d *stubDefinition) fitnessCallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fitnessCalls
}

func (d *stubDefinition) Initialize(rng *rand.Rand) {
	d.rng = rng
}

func (d *stubDefinition) NewRandomHypothesis() ([]int, error) {
	if d.newRandom != nil {
		return d.newRandom()
	}
	return []int{0}, nil
}

func (d *stubDefinition) MutateHypothesis(hypothesis []int) ([]int, error) {
	if d.mutate != nil {
		return d.mutate(hypothesis)
	}
	return append([]int(nil), hypothesis...), nil
}

func (d *stubDefinition) CrossOverHypothesis(first, second []int) ([][]int, error) {
	if d.crossOver != nil {
		return d.crossOver(first, second)
	}
	return [][]int{append([]int(nil), first...), append([]int(nil), second...)}, nil
}

func (d *stubDefinition) CalculateFitness(hypothesis []int) (float64, error) {
	d.mu.Lock()
	d.fitnessCalls++
	d.mu.Unlock()
	if d.fitness != nil {
		return d.fitness(hypothesis)
	}
	return 1, nil
}

func (d *stubDefinition) Loop(best []int) (bool, error) {
	if d.loop != nil {
		return d.loop(best)
	}
	return false, nil
}

func TestUpdateFitnessEvaluatesEachHandleOnce(t *testing.T) {
	def := &stubDefinition{}
	engine := NewSimpleComputeEngine[[]int](rand.New(rand.NewSource(7)), def)
	ctx := context.Background()

	population, err := engine.CreateRandomPopulation(ctx, 10)
	if err != nil {
		t.Fatalf("create population: %v", err)
	}
	sum, err := engine.UpdateFitness(ctx, population)
	if err != nil {
		t.Fatalf("update fitness: %v", err)
	}
	if def.fitnessCallCount() != 10 {
		t.Fatalf("fitness calls = %d, want 10", def.fitnessCallCount())
	}

	// A second pass over the same population must hit the cache only.
	if _, err := engine.UpdateFitness(ctx, population); err != nil {
		t.Fatalf("update fitness: %v", err)
	}
	if def.fitnessCallCount() != 10 {
		t.Fatalf("fitness calls after cached pass = %d, want 10", def.fitnessCallCount())
	}

	// Selection copies handles by reference; survivors keep their
	// cache while fresh crossover offspring are evaluated anew.
	next, err := engine.Select(ctx, population, sum, 6, nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	next, err = engine.Crossover(ctx, population, sum, 4, next)
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	if _, err := engine.UpdateFitness(ctx, next); err != nil {
		t.Fatalf("update fitness: %v", err)
	}
	if def.fitnessCallCount() != 14 {
		t.Fatalf("fitness calls after replacement = %d, want 14", def.fitnessCallCount())
	}
}

func TestPoolUpdateFitnessDeduplicatesSharedHandles(t *testing.T) {
	def := &stubDefinition{}
	engine := NewPoolComputeEngine[[]int](rand.New(NewLockedSource(rand.NewSource(7))), def, 4)

	shared := newHandle([]int{1})
	population := []*Handle[[]int]{shared, shared, shared, newHandle([]int{2})}

	if _, err := engine.UpdateFitness(context.Background(), population); err != nil {
		t.Fatalf("update fitness: %v", err)
	}
	if def.fitnessCallCount() != 2 {
		t.Fatalf("fitness calls = %d, want 2 distinct handles", def.fitnessCallCount())
	}
}
