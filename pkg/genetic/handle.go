package genetic

// Handle pairs a hypothesis with its cached evaluation state. The
// fitness value is meaningless until HasFitness reports true; the
// selection probability is only meaningful immediately after a
// fitness update and before the population is next mutated.
type Handle[H any] struct {
	hypothesis  H
	fitness     float64
	hasFitness  bool
	probability float64
}

func newHandle[H any](hypothesis H) *Handle[H] {
	return &Handle[H]{hypothesis: hypothesis}
}

// Hypothesis returns the wrapped hypothesis.
func (h *Handle[H]) Hypothesis() H {
	return h.hypothesis
}

// Fitness returns the cached fitness. Undefined unless HasFitness.
func (h *Handle[H]) Fitness() float64 {
	return h.fitness
}

// HasFitness reports whether the fitness cache is valid.
func (h *Handle[H]) HasFitness() bool {
	return h.hasFitness
}

// Probability returns the selection probability from the most recent
// fitness update.
func (h *Handle[H]) Probability() float64 {
	return h.probability
}

func (h *Handle[H]) setFitness(fitness float64) {
	h.fitness = fitness
	h.hasFitness = true
}

func (h *Handle[H]) setProbability(probability float64) {
	h.probability = probability
}
