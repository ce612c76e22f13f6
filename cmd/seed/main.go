package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/tci/internal/seed"
	"github.com/okian/tci/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumModels  = 40
	defaultTopN       = 25
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 2 * time.Minute
	defaultSeed       = 42
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numModels = flag.Int("models", defaultNumModels, "Number of synthetic models to generate")
		topN      = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch back")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seedVal   = flag.Int64("seed", defaultSeed, "RNG seed for the synthetic fleet")
		verbose   = flag.Bool("verbose", false, "Log every leaderboard entry")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:   *baseURL,
		NumModels: *numModels,
		TopN:      *topN,
		Timeout:   *timeout,
		Seed:      *seedVal,
		Verbose:   *verbose,
	}

	if err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
