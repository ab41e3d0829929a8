package storage

import (
	"context"
	"testing"
	"time"

	"genitor/internal/model"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
		Problem:         "int-guessing",
		GenerationSize:  100,
		Generations:     12,
		BestFitness:     4,
		CreatedAtUTC:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if output.Problem != input.Problem || output.BestFitness != input.BestFitness {
		t.Fatalf("unexpected run: %+v", output)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := model.RunRecord{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			ID:              id,
			CreatedAtUTC:    base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Fatalf("unexpected order: %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}

func TestMemoryStoreFitnessHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []float64{0.1, 0.2, 0.3}
	if err := store.SaveFitnessHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}
	output, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted fitness history")
	}
	if len(output) != len(input) || output[2] != input[2] {
		t.Fatalf("unexpected history: %+v", output)
	}
}

func TestMemoryStoreProblemSummaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := model.ProblemSummary{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		Name:            "text-guessing",
		Description:     "guess a fixed text",
		RunCount:        2,
		BestFitness:     9,
	}
	if err := store.SaveProblemSummary(ctx, input); err != nil {
		t.Fatalf("save summary: %v", err)
	}
	output, ok, err := store.GetProblemSummary(ctx, "text-guessing")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted summary")
	}
	if output.RunCount != 2 || output.BestFitness != 9 {
		t.Fatalf("unexpected summary: %+v", output)
	}
}

func TestMemoryStoreResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, ok, err := store.GetRun(ctx, "run-1"); err != nil || ok {
		t.Fatalf("expected run gone after reset, ok=%v err=%v", ok, err)
	}
}
