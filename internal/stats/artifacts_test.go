package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	runID := "run-123"
	artifacts := RunArtifacts{
		Config: RunConfig{
			RunID:          runID,
			Problem:        "int-guessing",
			CrossOverRate:  0.3,
			MutationRate:   0.1,
			GenerationSize: 100,
			MaxGenerations: 500,
			Seed:           1,
			Workers:        2,
		},
		BestByGeneration: []float64{1, 2, 4},
		FinalBestFitness: 4,
		Generations:      3,
		BestPayload:      json.RawMessage(`[0,1,2,3]`),
	}

	runDir, err := WriteRunArtifacts(baseDir, artifacts)
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	for _, file := range []string{"config.json", "fitness_history.json", "fitness_series.csv", "best_hypothesis.json"} {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected file %s: %v", file, err)
		}
	}

	exportedDir, err := ExportRunArtifacts(baseDir, runID, outDir)
	if err != nil {
		t.Fatalf("export artifacts: %v", err)
	}
	for _, file := range []string{"config.json", "fitness_history.json", "fitness_series.csv", "best_hypothesis.json"} {
		if _, err := os.Stat(filepath.Join(exportedDir, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}

	cfg, ok, err := ReadRunConfig(baseDir, runID)
	if err != nil {
		t.Fatalf("read run config: %v", err)
	}
	if !ok || cfg.Problem != "int-guessing" {
		t.Fatalf("unexpected config: ok=%v %+v", ok, cfg)
	}

	series, ok, err := ReadFitnessSeries(baseDir, runID)
	if err != nil {
		t.Fatalf("read fitness series: %v", err)
	}
	if !ok || len(series) != 3 || series[2] != 4 {
		t.Fatalf("unexpected series: ok=%v %+v", ok, series)
	}

	payload, ok, err := ReadBestPayload(baseDir, runID)
	if err != nil {
		t.Fatalf("read best payload: %v", err)
	}
	if !ok || len(payload) == 0 {
		t.Fatalf("expected best payload, ok=%v", ok)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected run id error")
	}
}

func TestRunIndexAppendListAndUpsert(t *testing.T) {
	baseDir := t.TempDir()

	err := AppendRunIndex(baseDir, RunIndexEntry{
		RunID:            "run-1",
		Problem:          "int-guessing",
		GenerationSize:   100,
		Generations:      12,
		Seed:             1,
		Workers:          2,
		FinalBestFitness: 4,
		CreatedAtUTC:     "2026-08-10T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("append run-1: %v", err)
	}
	err = AppendRunIndex(baseDir, RunIndexEntry{
		RunID:            "run-2",
		Problem:          "text-guessing",
		GenerationSize:   150,
		Generations:      80,
		Seed:             2,
		FinalBestFitness: 11,
		CreatedAtUTC:     "2026-08-11T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("append run-2: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].RunID != "run-2" {
		t.Fatalf("expected newest first, got %s", entries[0].RunID)
	}

	// Re-appending the same run id must replace, not duplicate.
	err = AppendRunIndex(baseDir, RunIndexEntry{
		RunID:            "run-1",
		Problem:          "int-guessing",
		FinalBestFitness: 5,
		CreatedAtUTC:     "2026-08-12T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("upsert run-1: %v", err)
	}
	entries, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index after upsert: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries after upsert, want 2", len(entries))
	}
	if entries[0].RunID != "run-1" || entries[0].FinalBestFitness != 5 {
		t.Fatalf("unexpected upserted head: %+v", entries[0])
	}
}

func TestListRunIndexEmptyDirectory(t *testing.T) {
	entries, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(entries))
	}
}
