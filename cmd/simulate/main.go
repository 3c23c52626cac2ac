package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/guischmitd/piratesim2024/internal/config"
	"github.com/guischmitd/piratesim2024/internal/logger"
	"github.com/guischmitd/piratesim2024/internal/narration"
	"github.com/guischmitd/piratesim2024/internal/worker"
	"github.com/guischmitd/piratesim2024/pkg/content"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	runs := flag.Int("runs", cfg.SimulationRuns, "number of runs to simulate")
	workers := flag.Int("workers", cfg.SimulationWorkers, "runs played in parallel")
	maxTurns := flag.Int("max-turns", cfg.SimulationTurns, "turn limit per run (0 for none)")
	seed := flag.Int64("seed", cfg.Seed, "base seed; run i sails with seed+i")
	flag.Parse()

	log := logger.Setup(cfg)
	log.Info("Starting piratesim simulation",
		"environment", cfg.Environment,
		"runs", *runs,
		"workers", *workers,
		"seed", *seed)

	bank, err := content.Open(cfg.ContentDir)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load content bank", "dir", cfg.ContentDir)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sink run.Sink
	if cfg.RedisURL != "" {
		client, err := narration.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			logger.WithError(log, err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", "error", err)
			}
		}()
		sink = narration.NewRedisSink(client, narration.DefaultTTL, log)
		log.Info("Publishing turn logs to Redis")
	}

	opts := cfg.RunOptions()
	opts.Seed = *seed
	pool := worker.New(bank, worker.Config{
		Run:      opts,
		CrewSize: cfg.CrewSize,
		MaxTurns: *maxTurns,
		Workers:  *workers,
		Sink:     sink,
	}, log)

	results, err := pool.Run(ctx, *runs)
	if err != nil {
		log.Error("Simulation stopped early", "error", err)
	}
	printReport(worker.Summarize(results))
	if err != nil {
		os.Exit(1)
	}
}

func printReport(rep worker.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Runs\t%d\n", rep.Runs)
	fmt.Fprintf(w, "Failed\t%d\n", rep.Failed)
	fmt.Fprintf(w, "Average turns\t%.1f\n", rep.AvgTurns)
	fmt.Fprintf(w, "Average gold\t%.1f\n", rep.AvgGold)
	fmt.Fprintf(w, "Best gold\t%d (seed %d)\n", rep.MaxGold, rep.BestSeed)
	fmt.Fprintf(w, "Stranded pirates\t%d\n", rep.Stranded)
	fmt.Fprintf(w, "Recruits\t%d\n", rep.Recruited)
	fmt.Fprintln(w, "\nEnd reason\tRuns")
	for _, reason := range rep.SortedReasons() {
		fmt.Fprintf(w, "%s\t%d\n", reason, rep.Reasons[reason])
	}
	_ = w.Flush()
}
