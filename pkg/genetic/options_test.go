package genetic

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"cross-over rate below zero", []Option{WithCrossOverRate(-0.1)}},
		{"cross-over rate above one", []Option{WithCrossOverRate(1.1)}},
		{"mutation rate below zero", []Option{WithMutationRate(-0.5)}},
		{"mutation rate above one", []Option{WithMutationRate(2)}},
		{"generation size zero", []Option{WithGenerationSize(0)}},
		{"generation size one", []Option{WithGenerationSize(1)}},
		{"negative workers", []Option{WithWorkers(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New[[]int](&stubDefinition{}, tc.opts...); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("got %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestNewRejectsNilDefinition(t *testing.T) {
	if _, err := New[[]int](nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want ErrConfiguration", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	algorithm, err := New[[]int](&stubDefinition{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := algorithm.CrossOverRate(); got != DefaultCrossOverRate {
		t.Fatalf("cross-over rate = %v, want %v", got, DefaultCrossOverRate)
	}
	if got := algorithm.MutationRate(); got != DefaultMutationRate {
		t.Fatalf("mutation rate = %v, want %v", got, DefaultMutationRate)
	}
	if got := algorithm.GenerationSize(); got != DefaultGenerationSize {
		t.Fatalf("generation size = %d, want %d", got, DefaultGenerationSize)
	}
}

func TestNewAcceptsBoundaryRates(t *testing.T) {
	algorithm, err := New[[]int](&stubDefinition{},
		WithCrossOverRate(1),
		WithMutationRate(0),
		WithGenerationSize(2),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if algorithm.CrossOverRate() != 1 || algorithm.MutationRate() != 0 || algorithm.GenerationSize() != 2 {
		t.Fatalf("boundary configuration not retained: %v %v %d",
			algorithm.CrossOverRate(), algorithm.MutationRate(), algorithm.GenerationSize())
	}
}

func TestNewInitializesDefinitionOnce(t *testing.T) {
	def := &stubDefinition{}
	if _, err := New[[]int](def, WithRandomSource(rand.NewSource(3))); err != nil {
		t.Fatalf("new: %v", err)
	}
	if def.rng == nil {
		t.Fatal("Initialize was not called with the engine rng")
	}
}

func TestNewSelectsEngineByWorkerCount(t *testing.T) {
	serial, err := New[[]int](&stubDefinition{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := serial.Engine().(*SimpleComputeEngine[[]int]); !ok {
		t.Fatalf("engine = %T, want SimpleComputeEngine", serial.Engine())
	}

	pooled, err := New[[]int](&stubDefinition{}, WithWorkers(4))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := pooled.Engine().(*PoolComputeEngine[[]int]); !ok {
		t.Fatalf("engine = %T, want PoolComputeEngine", pooled.Engine())
	}
}

func TestAccessorsAreStable(t *testing.T) {
	algorithm, err := New[[]int](&stubDefinition{},
		WithCrossOverRate(0.25),
		WithMutationRate(0.1),
		WithGenerationSize(40),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for i := 0; i < 3; i++ {
		if algorithm.CrossOverRate() != 0.25 || algorithm.MutationRate() != 0.1 || algorithm.GenerationSize() != 40 {
			t.Fatalf("accessor drift on read %d", i)
		}
	}
}
