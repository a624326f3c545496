package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kesselops/healthexporter/internal/config"
	"github.com/kesselops/healthexporter/internal/logging"
	"github.com/kesselops/healthexporter/internal/metrics"
	"github.com/kesselops/healthexporter/internal/probe"
	"github.com/kesselops/healthexporter/internal/registry"
	"github.com/kesselops/healthexporter/internal/sweep"
)

// One-shot sweep for scripts and cron: prints the same exposition text the
// /metrics endpoint serves and exits 1 when any service is down. Logs go to
// stderr, so stdout stays parseable.
func main() {
	godotenv.Load(".env")

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	reg, err := registry.Load(cfg.RegistryFile, cfg.DefaultTimeout)
	if err != nil {
		logger.Fatal("registry_invalid", zap.Error(err))
	}

	runner := sweep.NewRunner(logger, probe.NewHTTPProber(logger), cfg.SweepConcurrency)
	results := runner.Run(context.Background(), reg)
	fmt.Print(metrics.Render(results, time.Now()))

	down := 0
	for _, res := range results {
		if !res.Up {
			down++
		}
	}
	if down > 0 {
		logger.Warn("sweep_degraded", zap.Int("down", down), zap.Int("services", len(results)))
		_ = logger.Sync()
		os.Exit(1)
	}
}
