package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kesselops/healthexporter/internal/config"
	"github.com/kesselops/healthexporter/internal/httpapi"
	"github.com/kesselops/healthexporter/internal/logging"
	"github.com/kesselops/healthexporter/internal/probe"
	"github.com/kesselops/healthexporter/internal/registry"
	"github.com/kesselops/healthexporter/internal/sweep"
)

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

	prober := probe.NewHTTPProber(logger)
	runner := sweep.NewRunner(logger, prober, cfg.SweepConcurrency)
	srv := httpapi.NewServer(logger, reg, runner)

	logger.Info("exporter_start",
		zap.Int("port", cfg.Port),
		zap.Int("services", reg.Len()),
		zap.Strings("monitored", reg.Names()),
		zap.String("metrics_url", fmt.Sprintf("http://localhost:%d/metrics", cfg.Port)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, cfg.Addr(), cfg.ShutdownTimeout); err != nil {
		logger.Fatal("exporter_failed", zap.Error(err))
	}
	logger.Info("exporter_stopped")
}
