package problem

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// IntGuessing searches for a hidden integer vector. Fitness rewards
// matching positions and penalizes distance on mismatches, pushed
// through an exponential so partial matches dominate the roulette
// wheel early.
type IntGuessing struct {
	size       int
	maxElement int
}

func NewIntGuessing(size, maxElement int) *IntGuessing {
	return &IntGuessing{size: size, maxElement: maxElement}
}

func (p *IntGuessing) Name() string {
	return "int-guessing"
}

func (p *IntGuessing) Description() string {
	return fmt.Sprintf("guess a hidden vector of %d integers in [0, %d)", p.size, p.maxElement)
}

func (p *IntGuessing) Run(ctx context.Context, cfg RunConfig) (Result, error) {
	cfg = withProblemDefaults(cfg)

	def := &intGuessingDefinition{
		size:           p.size,
		maxElement:     p.maxElement,
		maxGenerations: cfg.MaxGenerations,
		fitnessGoal:    cfg.FitnessGoal,
	}
	return runProblem(ctx, def, cfg, func(best []int) (json.RawMessage, error) {
		return json.Marshal(best)
	})
}

type intGuessingDefinition struct {
	size           int
	maxElement     int
	maxGenerations int
	fitnessGoal    float64

	rng         *rand.Rand
	target      []int
	generations int
}

func (d *intGuessingDefinition) Initialize(rng *rand.Rand) {
	d.rng = rng
	d.target = make([]int, d.size)
	for i := range d.target {
		d.target[i] = rng.Intn(d.maxElement)
	}
}

func (d *intGuessingDefinition) NewRandomHypothesis() ([]int, error) {
	hypothesis := make([]int, d.size)
	for i := range hypothesis {
		hypothesis[i] = d.rng.Intn(d.maxElement)
	}
	return hypothesis, nil
}

func (d *intGuessingDefinition) MutateHypothesis(hypothesis []int) ([]int, error) {
	mutated := append([]int(nil), hypothesis...)
	mutated[d.rng.Intn(len(mutated))] = d.rng.Intn(d.maxElement)
	return mutated, nil
}

func (d *intGuessingDefinition) CrossOverHypothesis(first, second []int) ([][]int, error) {
	point := d.rng.Intn(len(first) + 1)
	left := append(append([]int(nil), first[:point]...), second[point:]...)
	right := append(append([]int(nil), second[:point]...), first[point:]...)
	return [][]int{left, right}, nil
}

func (d *intGuessingDefinition) CalculateFitness(hypothesis []int) (float64, error) {
	sum := 0.0
	for i, v := range hypothesis {
		if v == d.target[i] {
			sum++
		} else {
			sum -= math.Abs(float64(v - d.target[i]))
		}
	}
	return math.Exp(sum), nil
}

func (d *intGuessingDefinition) Loop(best []int) (bool, error) {
	d.generations++
	if d.solved(best) {
		return false, nil
	}
	if d.fitnessGoal > 0 {
		fitness, err := d.CalculateFitness(best)
		if err != nil {
			return false, err
		}
		if fitness >= d.fitnessGoal {
			return false, nil
		}
	}
	return d.generations < d.maxGenerations, nil
}

func (d *intGuessingDefinition) solved(hypothesis []int) bool {
	for i, v := range hypothesis {
		if v != d.target[i] {
			return false
		}
	}
	return true
}
