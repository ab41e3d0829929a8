package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"genitor/internal/problem"
)

// loadRunConfigFromFile reads a JSON run config. All keys are
// optional; the problem name may also come from the file.
func loadRunConfigFromFile(path string) (problem.RunConfig, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return problem.RunConfig{}, "", err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return problem.RunConfig{}, "", err
	}

	var cfg problem.RunConfig
	name := ""
	if v, ok := asString(raw["problem"]); ok {
		name = v
	}
	if v, ok := asFloat64(raw["cross_over_rate"]); ok {
		cfg.CrossOverRate = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		cfg.MutationRate = v
	}
	if v, ok := asInt(raw["generation_size"]); ok {
		cfg.GenerationSize = v
	}
	if v, ok := asInt(raw["max_generations"]); ok {
		cfg.MaxGenerations = v
	}
	if v, ok := asFloat64(raw["fitness_goal"]); ok {
		cfg.FitnessGoal = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		cfg.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		cfg.Workers = v
	}
	return cfg, name, nil
}

func loadOrDefaultRunConfig(configPath string) (problem.RunConfig, string, error) {
	if configPath == "" {
		return problem.RunConfig{}, "", nil
	}
	cfg, name, err := loadRunConfigFromFile(configPath)
	if err != nil {
		return problem.RunConfig{}, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, name, nil
}

// applyFlagOverrides copies explicitly set command-line flags over the
// file-loaded config.
func applyFlagOverrides(fs *flag.FlagSet, cfg *problem.RunConfig, crossOverRate, mutationRate float64, generationSize, maxGenerations int, fitnessGoal float64, seed int64, workers int) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cross-over-rate":
			cfg.CrossOverRate = crossOverRate
		case "mutation-rate":
			cfg.MutationRate = mutationRate
		case "generation-size":
			cfg.GenerationSize = generationSize
		case "max-generations":
			cfg.MaxGenerations = maxGenerations
		case "fitness-goal":
			cfg.FitnessGoal = fitnessGoal
		case "seed":
			cfg.Seed = seed
		case "workers":
			cfg.Workers = workers
		}
	})
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
