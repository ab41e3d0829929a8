package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"genitor/internal/platform"
	"genitor/internal/problem"
	"genitor/internal/stats"
	"genitor/internal/storage"
)

const artifactsDir = "runs"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if err := problem.RegisterDefaults(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "best":
		return runBest(ctx, args[1:])
	case "problems":
		return runProblems(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genitor.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	lab := platform.NewLab(platform.Config{Store: store})
	if err := lab.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genitor.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	lab := platform.NewLab(platform.Config{Store: store})
	if err := lab.Init(ctx); err != nil {
		return err
	}
	if err := lab.Reset(ctx); err != nil {
		return err
	}

	fmt.Println("store reset")
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	problemName := fs.String("problem", "int-guessing", "problem to run")
	configPath := fs.String("config", "", "JSON run config path")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genitor.db", "sqlite database path")
	crossOverRate := fs.Float64("cross-over-rate", 0, "fraction of each generation from crossover")
	mutationRate := fs.Float64("mutation-rate", 0, "fraction of each generation mutated")
	generationSize := fs.Int("generation-size", 0, "population width")
	maxGenerations := fs.Int("max-generations", 0, "generation cap")
	fitnessGoal := fs.Float64("fitness-goal", 0, "stop once best fitness reaches this value")
	seed := fs.Int64("seed", 0, "random seed, 0 uses the clock")
	workers := fs.Int("workers", 0, "worker pool size, 0 runs serial")
	verbose := fs.Bool("verbose", false, "print per-generation progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, name, err := loadOrDefaultRunConfig(*configPath)
	if err != nil {
		return err
	}
	if name == "" || isFlagSet(fs, "problem") {
		name = *problemName
	}
	applyFlagOverrides(fs, &cfg, *crossOverRate, *mutationRate, *generationSize, *maxGenerations, *fitnessGoal, *seed, *workers)

	if *verbose {
		cfg.Observer = func(generation int, bestFitness float64) {
			if generation%10 == 0 {
				fmt.Printf("generation %s best=%.4f\n", humanize.Comma(int64(generation)), bestFitness)
			}
		}
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	lab := platform.NewLab(platform.Config{Store: store, ArtifactsDir: artifactsDir})
	if err := lab.Init(ctx); err != nil {
		return err
	}

	started := time.Now()
	record, err := lab.RunProblem(ctx, name, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("run %s finished problem=%s generations=%s best=%.4f elapsed=%s\n",
		record.ID, record.Problem,
		humanize.Comma(int64(record.Generations)),
		record.BestFitness,
		time.Since(started).Round(time.Millisecond))
	return nil
}

func runRuns(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	entries, err := stats.ListRunIndex(artifactsDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(entries) > *limit {
		entries = entries[:*limit]
	}

	if *jsonOut {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, entry := range entries {
		age := entry.CreatedAtUTC
		if created, err := time.Parse(time.RFC3339, entry.CreatedAtUTC); err == nil {
			age = humanize.Time(created)
		}
		fmt.Printf("%s problem=%s generations=%s best=%.4f workers=%d %s\n",
			entry.RunID, entry.Problem,
			humanize.Comma(int64(entry.Generations)),
			entry.FinalBestFitness, entry.Workers, age)
	}
	return nil
}

func runFitness(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	series, ok, err := stats.ReadFitnessSeries(artifactsDir, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no fitness series for run %s", *runID)
	}

	for i, best := range series {
		fmt.Printf("%s\t%.6f\n", humanize.Comma(int64(i+1)), best)
	}
	return nil
}

func runBest(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	payload, ok, err := stats.ReadBestPayload(artifactsDir, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no best hypothesis for run %s", *runID)
	}

	fmt.Println(string(payload))
	return nil
}

func runProblems(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, name := range problem.Names() {
		p, err := problem.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", name, p.Description())
	}
	return nil
}

func runExport(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run to export")
	outDir := fs.String("out", "exports", "export destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	dst, err := stats.ExportRunArtifacts(artifactsDir, *runID, *outDir)
	if err != nil {
		return err
	}
	fmt.Printf("exported run %s to %s\n", *runID, dst)
	return nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: genitorctl <init|reset|run|runs|fitness|best|problems|export> [flags]", msg)
}
