package model

import (
	"encoding/json"
	"time"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persistent summary of one optimization run.
// BestPayload holds the problem-specific encoding of the winning
// hypothesis; the storage layer never interprets it.
type RunRecord struct {
	VersionedRecord
	ID             string          `json:"id"`
	Problem        string          `json:"problem"`
	CrossOverRate  float64         `json:"cross_over_rate"`
	MutationRate   float64         `json:"mutation_rate"`
	GenerationSize int             `json:"generation_size"`
	Workers        int             `json:"workers"`
	Seed           int64           `json:"seed"`
	Generations    int             `json:"generations"`
	BestFitness    float64         `json:"best_fitness"`
	BestPayload    json.RawMessage `json:"best_payload,omitempty"`
	CreatedAtUTC   time.Time       `json:"created_at_utc"`
}

// ProblemSummary aggregates run outcomes per registered problem.
type ProblemSummary struct {
	VersionedRecord
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RunCount    int     `json:"run_count"`
	BestFitness float64 `json:"best_fitness"`
}
