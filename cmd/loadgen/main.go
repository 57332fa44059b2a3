// Command loadgen drives synthetic golfers against a birdie service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/birdiedeals/birdie/internal/loadgen"
	"github.com/birdiedeals/birdie/pkg/logger"
)

// Default configuration constants.
const (
	defaultGolfers  = 1000
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 10 * time.Second
	defaultClickPct = 30
	defaultDeadline = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the service")
		golfers  = flag.Int("golfers", defaultGolfers, "Number of synthetic golfers")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent golfers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		secret   = flag.String("secret", os.Getenv("BIRDIE_JWT_SECRET"), "Token secret shared with the service")
		issuer   = flag.String("issuer", os.Getenv("BIRDIE_JWT_ISSUER"), "Token issuer")
		seed     = flag.Uint64("seed", 0, "Profile generator seed (0 = time based)")
		clickPct = flag.Int("click", defaultClickPct, "Percentage of golfers that click their top deal")
		format   = flag.String("log-format", logger.FormatConsole, "Log format: text, json or console")
		verbose  = flag.Bool("verbose", false, "Log every golfer")
	)
	flag.Parse()

	if err := logger.InitWithFormat(*format, os.Stdout); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultDeadline)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL:  *baseURL,
		Golfers:  *golfers,
		Workers:  *workers,
		Timeout:  *timeout,
		Secret:   *secret,
		Issuer:   *issuer,
		Seed:     *seed,
		ClickPct: *clickPct,
		Verbose:  *verbose,
	}
	if _, err := loadgen.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "traffic run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
