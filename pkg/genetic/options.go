package genetic

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrConfiguration marks a rejected algorithm configuration. All
// validation failures from New wrap it.
var ErrConfiguration = errors.New("invalid configuration")

// Defaults applied by New when the corresponding option is omitted.
const (
	DefaultCrossOverRate  = 0.3
	DefaultMutationRate   = 0.05
	DefaultGenerationSize = 100
)

type options struct {
	crossOverRate  float64
	mutationRate   float64
	generationSize int
	source         rand.Source
	workers        int
	observer       GenerationObserver
}

// Option configures a GeneticAlgorithm built by New.
type Option func(*options)

// WithCrossOverRate sets the fraction of each generation produced by
// crossover, in [0, 1].
func WithCrossOverRate(rate float64) Option {
	return func(o *options) { o.crossOverRate = rate }
}

// WithMutationRate sets the fraction of each generation mutated, in
// [0, 1].
func WithMutationRate(rate float64) Option {
	return func(o *options) { o.mutationRate = rate }
}

// WithGenerationSize sets the population width, at least 2.
func WithGenerationSize(size int) Option {
	return func(o *options) { o.generationSize = size }
}

// WithRandomSource sets the source of randomness. Fixing the source
// makes serial runs reproducible. The default is seeded from the
// clock.
func WithRandomSource(source rand.Source) Option {
	return func(o *options) { o.source = source }
}

// WithWorkers switches the algorithm to the worker-pool compute
// engine with the given pool size. Zero keeps the serial engine.
func WithWorkers(workers int) Option {
	return func(o *options) { o.workers = workers }
}

// WithGenerationObserver registers a callback invoked after every
// generation with the generation number and best fitness so far.
func WithGenerationObserver(observer GenerationObserver) Option {
	return func(o *options) { o.observer = observer }
}

// New validates the configuration and builds a ready-to-run
// GeneticAlgorithm around the given collaborator. The collaborator's
// Initialize is called exactly once, before New returns.
func New[H any](definition AlgorithmDefinition[H], opts ...Option) (*GeneticAlgorithm[H], error) {
	if definition == nil {
		return nil, fmt.Errorf("%w: definition must not be nil", ErrConfiguration)
	}

	o := options{
		crossOverRate:  DefaultCrossOverRate,
		mutationRate:   DefaultMutationRate,
		generationSize: DefaultGenerationSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.crossOverRate < 0 || o.crossOverRate > 1 {
		return nil, fmt.Errorf("%w: cross-over rate %v outside [0, 1]", ErrConfiguration, o.crossOverRate)
	}
	if o.mutationRate < 0 || o.mutationRate > 1 {
		return nil, fmt.Errorf("%w: mutation rate %v outside [0, 1]", ErrConfiguration, o.mutationRate)
	}
	if o.generationSize < 2 {
		return nil, fmt.Errorf("%w: generation size %d below minimum 2", ErrConfiguration, o.generationSize)
	}
	if o.workers < 0 {
		return nil, fmt.Errorf("%w: worker count %d must not be negative", ErrConfiguration, o.workers)
	}

	source := o.source
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	var engine ComputeEngine[H]
	var rng *rand.Rand
	if o.workers > 0 {
		rng = rand.New(NewLockedSource(source))
		engine = NewPoolComputeEngine(rng, definition, o.workers)
	} else {
		rng = rand.New(source)
		engine = NewSimpleComputeEngine(rng, definition)
	}

	definition.Initialize(rng)

	return &GeneticAlgorithm[H]{
		crossOverRate:  o.crossOverRate,
		mutationRate:   o.mutationRate,
		generationSize: o.generationSize,
		definition:     definition,
		engine:         engine,
		observer:       o.observer,
	}, nil
}
