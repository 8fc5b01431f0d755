package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"fpsynth/internal/generator"
	"fpsynth/internal/model"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Path to a YAML config file")
	seed := flag.Uint64("seed", 0, "Random seed (0 = time-based)")
	browser := flag.String("browser", "", "Restrict to a single browser (chrome, firefox, safari, edge, opera)")
	device := flag.String("device", "", "Restrict to a single device type (desktop, mobile, tablet)")
	count := flag.Int("count", 1, "Number of fingerprints to generate")
	forceRegenerate := flag.Bool("force-regenerate", false, "Bypass the result cache")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fpsynth v%s (built: %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	cfg := generator.DefaultConfig()
	if *configPath != "" {
		loaded, err := generator.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	orchestrator, err := generator.NewOrchestrator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build orchestrator: %v\n", err)
		os.Exit(1)
	}

	opts := model.GenerationOptions{ForceRegenerate: *forceRegenerate}
	if *browser != "" {
		opts.Browsers = []model.BrowserConstraint{{Name: *browser}}
	}
	if *device != "" {
		opts.Devices = []string{*device}
	}

	if *count <= 1 {
		result, err := orchestrator.Generate(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
			os.Exit(1)
		}
		printResult(result)
		return
	}

	batch, err := orchestrator.GenerateBatch(*count, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch generation failed: %v\n", err)
		os.Exit(1)
	}
	printBatch(batch)
}

func printResult(result *model.GenerationResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
}

func printBatch(batch *model.BatchResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode batch: %v\n", err)
		os.Exit(1)
	}
}
