package problem

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

const textAlphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TextGuessing searches for a fixed phrase over a small alphabet.
// Unlike IntGuessing the target is known up front, which makes run
// output easy to eyeball.
type TextGuessing struct {
	target string
}

func NewTextGuessing(target string) *TextGuessing {
	return &TextGuessing{target: target}
}

func (p *TextGuessing) Name() string {
	return "text-guessing"
}

func (p *TextGuessing) Description() string {
	return fmt.Sprintf("guess the phrase %q letter by letter", p.target)
}

func (p *TextGuessing) Run(ctx context.Context, cfg RunConfig) (Result, error) {
	cfg = withProblemDefaults(cfg)

	def := &textGuessingDefinition{
		target:         []byte(p.target),
		maxGenerations: cfg.MaxGenerations,
	}
	return runProblem(ctx, def, cfg, func(best []byte) (json.RawMessage, error) {
		return json.Marshal(string(best))
	})
}

type textGuessingDefinition struct {
	target         []byte
	maxGenerations int

	rng         *rand.Rand
	generations int
}

func (d *textGuessingDefinition) Initialize(rng *rand.Rand) {
	d.rng = rng
}

func (d *textGuessingDefinition) NewRandomHypothesis() ([]byte, error) {
	hypothesis := make([]byte, len(d.target))
	for i := range hypothesis {
		hypothesis[i] = textAlphabet[d.rng.Intn(len(textAlphabet))]
	}
	return hypothesis, nil
}

func (d *textGuessingDefinition) MutateHypothesis(hypothesis []byte) ([]byte, error) {
	mutated := append([]byte(nil), hypothesis...)
	mutated[d.rng.Intn(len(mutated))] = textAlphabet[d.rng.Intn(len(textAlphabet))]
	return mutated, nil
}

func (d *textGuessingDefinition) CrossOverHypothesis(first, second []byte) ([][]byte, error) {
	point := d.rng.Intn(len(first) + 1)
	left := append(append([]byte(nil), first[:point]...), second[point:]...)
	right := append(append([]byte(nil), second[:point]...), first[point:]...)
	return [][]byte{left, right}, nil
}

func (d *textGuessingDefinition) CalculateFitness(hypothesis []byte) (float64, error) {
	matches := 0
	for i, c := range hypothesis {
		if c == d.target[i] {
			matches++
		}
	}
	return math.Exp(float64(matches)), nil
}

func (d *textGuessingDefinition) Loop(best []byte) (bool, error) {
	d.generations++
	if string(best) == string(d.target) {
		return false, nil
	}
	return d.generations < d.maxGenerations, nil
}
