package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradeoracle/internal/console"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
)

var simulateFlags struct {
	price      float64
	target     float64
	volatility float64
	days       int
	paths      int
	drift      float64
	seed       uint64
	json       bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Estimate the probability that a price reaches a target",
	Example: "  tradeoracle simulate --price 100 --target 110 --volatility 0.3 --days 30\n" +
		"  tradeoracle simulate --price 420 --target 462 --seed 42 --json",
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.Float64Var(&simulateFlags.price, "price", 0, "Starting price (required)")
	f.Float64Var(&simulateFlags.target, "target", 0, "Target price (required)")
	f.Float64Var(&simulateFlags.volatility, "volatility", 0, "Annualized volatility as a fraction (default from config)")
	f.IntVar(&simulateFlags.days, "days", 0, "Trading days to simulate (default from config)")
	f.IntVar(&simulateFlags.paths, "paths", 0, "Number of simulated paths (default from config)")
	f.Float64Var(&simulateFlags.drift, "drift", 0, "Annualized drift (default from config)")
	f.Uint64Var(&simulateFlags.seed, "seed", 0, "Seed for reproducible draws")
	f.BoolVar(&simulateFlags.json, "json", false, "Print the result as JSON")
	_ = simulateCmd.MarkFlagRequired("price")
	_ = simulateCmd.MarkFlagRequired("target")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	sim := cfg.Simulation
	if flags.Changed("volatility") {
		sim.Volatility = simulateFlags.volatility
	}
	if flags.Changed("days") {
		sim.HorizonDays = simulateFlags.days
	}
	if flags.Changed("paths") {
		sim.Paths = simulateFlags.paths
	}
	if flags.Changed("drift") {
		sim.Drift = simulateFlags.drift
	}

	p := montecarlo.NewParams(simulateFlags.price, sim.Volatility, sim.HorizonDays)
	p.PathCount = sim.Paths
	p.Drift = sim.Drift
	p.Workers = sim.Workers
	p.Seed = sim.SeedPtr()
	if flags.Changed("seed") {
		p = p.WithSeed(simulateFlags.seed)
	}

	e, err := montecarlo.Simulate(p)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	report, err := montecarlo.Summarize(e, simulateFlags.target)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if simulateFlags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Record())
	}

	fmt.Printf("Simulated %d paths over %d days (seed %d)\n\n", report.PathCount, report.HorizonDays, e.Seed())
	console.New(os.Stdout).Probability(report.Record())
	return nil
}
