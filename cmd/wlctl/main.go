package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"wanglandau/internal/output"
	"wanglandau/internal/report"
	"wanglandau/internal/storage"
	"wanglandau/internal/wl"
	"wanglandau/pkg/wanglandau"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "refinements":
		return runRefinements(ctx, args[1:])
	case "dos":
		return runDos(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(reason string) error {
	return fmt.Errorf("%s\nusage: wlctl <init|run|runs|refinements|dos> [flags]", reason)
}

func openStore(kind, dbPath string) (storage.Store, func(), error) {
	store, err := storage.NewStore(kind, dbPath)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		_ = storage.CloseIfSupported(store)
	}
	return store, closer, nil
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "wanglandau.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, closeStore, err := openStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "run configuration file (json or yaml)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "wanglandau.db", "sqlite database path")
	outDir := fs.String("out", "wl_out", "directory for the DoS output files")
	runID := fs.String("run-id", "", "run identifier (minted when empty)")
	bins := fs.Int("bins", 0, "number of energy bins")
	energyMin := fs.Float64("energy-min", 0, "lower bin edge in meV/atom")
	energyMax := fs.Float64("energy-max", 0, "upper bin edge in meV/atom")
	numWindows := fs.Int("windows", 0, "number of energy windows")
	binOverlap := fs.Int("overlap", 0, "bins shared by adjacent windows")
	mcSweeps := fs.Int("sweeps", 0, "Monte Carlo sweeps per batch")
	wlF := fs.Float64("f", 0, "initial refinement factor")
	tolerance := fs.Float64("tolerance", 0, "termination threshold on f")
	flatness := fs.Float64("flatness", 0, "histogram flatness ratio")
	temperature := fs.Float64("T", 0, "temperature in K (diagnostic beta only)")
	rebase := fs.String("rebase", "", "rebase mode before averaging: abs|zero")
	numProc := fs.Int("procs", 0, "number of walkers")
	seed := fs.Int64("seed", 0, "base random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["run-id"] {
		req.RunID = *runID
	}
	if set["bins"] {
		req.Bins = *bins
	}
	if set["energy-min"] {
		req.EnergyMin = *energyMin
	}
	if set["energy-max"] {
		req.EnergyMax = *energyMax
	}
	if set["windows"] {
		req.NumWindows = *numWindows
	}
	if set["overlap"] {
		req.BinOverlap = *binOverlap
	}
	if set["sweeps"] {
		req.MCSweeps = *mcSweeps
	}
	if set["f"] {
		req.WLF = *wlF
	}
	if set["tolerance"] {
		req.Tolerance = *tolerance
	}
	if set["flatness"] {
		req.Flatness = *flatness
	}
	if set["T"] {
		req.T = *temperature
	}
	if set["rebase"] {
		req.Rebase = *rebase
	}
	if set["procs"] {
		req.NumProc = *numProc
	}
	if set["seed"] {
		req.Seed = *seed
	}
	if set["out"] {
		req.OutputDir = *outDir
	}
	if req.OutputDir == "" {
		req.OutputDir = *outDir
	}

	store, closeStore, err := openStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Init(ctx); err != nil {
		return err
	}

	writer, err := output.NewDirWriter(req.OutputDir)
	if err != nil {
		return err
	}
	reporter := report.New(os.Stdout, req.WLF, req.Tolerance)

	result, err := wanglandau.Run(ctx, req, wanglandau.RunOptions{
		Store:    store,
		Writer:   writer,
		Reporter: reporter,
	})
	if err != nil {
		var cfgErr *wl.ConfigError
		if errors.As(err, &cfgErr) {
			report.ConfigBanner(os.Stdout, cfgErr)
		}
		return err
	}

	fmt.Printf("run %s finished: refinements=%d final_f=%.6g wall=%.2fs\n",
		result.RunID, result.Refinements, result.FinalF, result.WallSeconds)
	fmt.Printf("output written to %s\n", req.OutputDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "wanglandau.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, closeStore, err := openStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Init(ctx); err != nil {
		return err
	}

	summaries, err := store.ListRunSummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	for _, summary := range summaries {
		fmt.Printf("%s bins=%d windows=%d walkers=%d refinements=%d final_f=%.6g wall=%.2fs\n",
			summary.ID, summary.Bins, summary.NumWindows, summary.NumProc,
			summary.Refinements, summary.FinalF, summary.WallSeconds)
	}
	return nil
}

func runRefinements(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("refinements", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "wanglandau.db", "sqlite database path")
	runID := fs.String("run-id", "", "run identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("refinements requires -run-id")
	}

	store, closeStore, err := openStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Init(ctx); err != nil {
		return err
	}

	diagnostics, ok, err := store.GetRefinements(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no refinements stored for run %s", *runID)
	}
	for _, d := range diagnostics {
		fmt.Printf("refinement %d: f=%.6g flatness=%.3f wall=[%.3fs %.3fs] accepted=%d\n",
			d.Refinement, d.F, d.Flatness, d.MinRoundSeconds, d.MaxRoundSeconds, d.AcceptedTrials)
	}
	return nil
}

func runDos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dos", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "wanglandau.db", "sqlite database path")
	runID := fs.String("run-id", "", "run identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("dos requires -run-id")
	}

	store, closeStore, err := openStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Init(ctx); err != nil {
		return err
	}

	snapshot, ok, err := store.GetDoS(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no DoS stored for run %s", *runID)
	}
	for bin, value := range snapshot.LogDoS {
		fmt.Printf("%.12g %.12g %.12g\n", snapshot.Edges[bin], snapshot.Edges[bin+1], value)
	}
	return nil
}
