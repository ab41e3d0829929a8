package storage

import (
	"context"

	"genitor/internal/model"
)

// Store defines transaction-like persistence operations for run archives.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveProblemSummary(ctx context.Context, summary model.ProblemSummary) error
	GetProblemSummary(ctx context.Context, name string) (model.ProblemSummary, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	Reset(ctx context.Context) error
}
