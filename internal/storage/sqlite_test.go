//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"genitor/internal/model"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "genitor.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
		Problem:         "int-guessing",
		GenerationSize:  100,
		Generations:     20,
		BestFitness:     4,
		CreatedAtUTC:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.ID)
	}
	if loaded.Problem != run.Problem || loaded.BestFitness != run.BestFitness {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	if err := store.SaveFitnessHistory(ctx, run.ID, []float64{1, 2, 4}); err != nil {
		t.Fatalf("save history: %v", err)
	}
	history, ok, err := store.GetFitnessHistory(ctx, run.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok || len(history) != 3 || history[2] != 4 {
		t.Fatalf("unexpected history: ok=%v %+v", ok, history)
	}
}

func TestSQLiteStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "genitor.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b"} {
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
	if len(runs) != 2 || runs[0].ID != "run-b" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestSQLiteStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "genitor.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

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
