// Package platform wires the genetic engine, the problem registry,
// the run store, and the on-disk artifacts into one facade the CLI
// drives.
package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"genitor/internal/model"
	"genitor/internal/problem"
	"genitor/internal/stats"
	"genitor/internal/storage"
)

type Config struct {
	Store        storage.Store
	ArtifactsDir string
}

// Lab coordinates runs. All methods are safe for concurrent use; the
// store and the artifacts directory are the shared state.
type Lab struct {
	store        storage.Store
	artifactsDir string

	mu          sync.Mutex
	initialized bool
}

func NewLab(cfg Config) *Lab {
	return &Lab{
		store:        cfg.Store,
		artifactsDir: cfg.ArtifactsDir,
	}
}

func (l *Lab) Init(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store == nil {
		return fmt.Errorf("lab requires a store")
	}
	if err := l.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	l.initialized = true
	return nil
}

func (l *Lab) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return fmt.Errorf("lab is not initialized")
	}
	return l.store.Reset(ctx)
}

// Problems lists the names of all runnable problems.
func (l *Lab) Problems() []string {
	return problem.Names()
}

// Describe returns the description of one registered problem.
func (l *Lab) Describe(name string) (string, error) {
	p, err := problem.Lookup(name)
	if err != nil {
		return "", err
	}
	return p.Description(), nil
}

// RunProblem executes one run and archives the outcome in the store
// and, when an artifacts directory is configured, on disk. It returns
// the persisted run record.
func (l *Lab) RunProblem(ctx context.Context, name string, cfg problem.RunConfig) (model.RunRecord, error) {
	l.mu.Lock()
	initialized := l.initialized
	l.mu.Unlock()
	if !initialized {
		return model.RunRecord{}, fmt.Errorf("lab is not initialized")
	}

	p, err := problem.Lookup(name)
	if err != nil {
		return model.RunRecord{}, err
	}

	result, err := p.Run(ctx, cfg)
	if err != nil {
		return model.RunRecord{}, fmt.Errorf("run problem %s: %w", name, err)
	}

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:             uuid.NewString(),
		Problem:        name,
		CrossOverRate:  cfg.CrossOverRate,
		MutationRate:   cfg.MutationRate,
		GenerationSize: cfg.GenerationSize,
		Workers:        cfg.Workers,
		Seed:           cfg.Seed,
		Generations:    result.Generations,
		BestFitness:    result.BestFitness,
		BestPayload:    result.BestPayload,
		CreatedAtUTC:   time.Now().UTC(),
	}

	if err := l.store.SaveRun(ctx, run); err != nil {
		return model.RunRecord{}, fmt.Errorf("save run: %w", err)
	}
	if err := l.store.SaveFitnessHistory(ctx, run.ID, result.BestByGeneration); err != nil {
		return model.RunRecord{}, fmt.Errorf("save fitness history: %w", err)
	}
	if err := l.updateSummary(ctx, p, run); err != nil {
		return model.RunRecord{}, err
	}
	if l.artifactsDir != "" {
		if err := l.writeArtifacts(run, result); err != nil {
			return model.RunRecord{}, err
		}
	}

	return run, nil
}

func (l *Lab) updateSummary(ctx context.Context, p problem.Problem, run model.RunRecord) error {
	summary, ok, err := l.store.GetProblemSummary(ctx, run.Problem)
	if err != nil {
		return fmt.Errorf("get problem summary: %w", err)
	}
	if !ok {
		summary = model.ProblemSummary{
			VersionedRecord: model.VersionedRecord{
				SchemaVersion: storage.CurrentSchemaVersion,
				CodecVersion:  storage.CurrentCodecVersion,
			},
			Name:        run.Problem,
			Description: p.Description(),
		}
	}
	summary.RunCount++
	if run.BestFitness > summary.BestFitness {
		summary.BestFitness = run.BestFitness
	}
	if err := l.store.SaveProblemSummary(ctx, summary); err != nil {
		return fmt.Errorf("save problem summary: %w", err)
	}
	return nil
}

func (l *Lab) writeArtifacts(run model.RunRecord, result problem.Result) error {
	_, err := stats.WriteRunArtifacts(l.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          run.ID,
			Problem:        run.Problem,
			CrossOverRate:  run.CrossOverRate,
			MutationRate:   run.MutationRate,
			GenerationSize: run.GenerationSize,
			Seed:           run.Seed,
			Workers:        run.Workers,
		},
		BestByGeneration: result.BestByGeneration,
		FinalBestFitness: run.BestFitness,
		Generations:      run.Generations,
		BestPayload:      run.BestPayload,
	})
	if err != nil {
		return fmt.Errorf("write run artifacts: %w", err)
	}

	if err := stats.AppendRunIndex(l.artifactsDir, stats.RunIndexEntry{
		RunID:            run.ID,
		Problem:          run.Problem,
		GenerationSize:   run.GenerationSize,
		Generations:      run.Generations,
		Seed:             run.Seed,
		Workers:          run.Workers,
		FinalBestFitness: run.BestFitness,
		CreatedAtUTC:     run.CreatedAtUTC.Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("append run index: %w", err)
	}
	return nil
}

// Runs lists archived runs, newest first.
func (l *Lab) Runs(ctx context.Context) ([]model.RunRecord, error) {
	return l.store.ListRuns(ctx)
}

// Run fetches one archived run by id.
func (l *Lab) Run(ctx context.Context, runID string) (model.RunRecord, bool, error) {
	return l.store.GetRun(ctx, runID)
}

// FitnessHistory fetches the per-generation best fitness of a run.
func (l *Lab) FitnessHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	return l.store.GetFitnessHistory(ctx, runID)
}

// ProblemSummary fetches the aggregate record for one problem.
func (l *Lab) ProblemSummary(ctx context.Context, name string) (model.ProblemSummary, bool, error) {
	return l.store.GetProblemSummary(ctx, name)
}
