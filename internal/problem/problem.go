// Package problem hosts ready-made optimization problems that run on
// the genetic engine. Problems register themselves by name; the lab
// and the CLI look them up through the package registry.
package problem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrProblemExists   = errors.New("problem already registered")
	ErrProblemNotFound = errors.New("problem not found")
)

// RunConfig carries the engine settings for one run. Zero values fall
// back to each problem's defaults.
type RunConfig struct {
	CrossOverRate  float64
	MutationRate   float64
	GenerationSize int
	MaxGenerations int
	FitnessGoal    float64
	Seed           int64
	Workers        int

	// Observer, when set, receives per-generation progress.
	Observer func(generation int, bestFitness float64)
}

// Result summarizes a finished run. BestPayload is the JSON encoding
// of the winning hypothesis.
type Result struct {
	Generations      int
	BestFitness      float64
	BestPayload      json.RawMessage
	BestByGeneration []float64
}

// Problem is one self-contained optimization task.
type Problem interface {
	Name() string
	Description() string
	Run(ctx context.Context, cfg RunConfig) (Result, error)
}

var problemRegistry = struct {
	mu sync.RWMutex
	m  map[string]Problem
}{
	m: make(map[string]Problem),
}

// Register adds a problem to the registry.
func Register(p Problem) error {
	if p == nil || p.Name() == "" {
		return fmt.Errorf("problem name is required")
	}

	problemRegistry.mu.Lock()
	defer problemRegistry.mu.Unlock()

	if _, ok := problemRegistry.m[p.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrProblemExists, p.Name())
	}
	problemRegistry.m[p.Name()] = p
	return nil
}

// Lookup returns the problem registered under name.
func Lookup(name string) (Problem, error) {
	problemRegistry.mu.RLock()
	defer problemRegistry.mu.RUnlock()

	p, ok := problemRegistry.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, name)
	}
	return p, nil
}

// Names lists registered problems in sorted order.
func Names() []string {
	problemRegistry.mu.RLock()
	defer problemRegistry.mu.RUnlock()

	names := make([]string, 0, len(problemRegistry.m))
	for name := range problemRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
