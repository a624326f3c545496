package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int           // HTTP listen port for /metrics and the health endpoints
	LogDir           string        // logs directory; empty keeps logging on stderr only
	LogLevel         string        // zap level name: debug, info, warn, error
	RegistryFile     string        // optional YAML service registry; empty uses the built-in services
	DefaultTimeout   time.Duration // probe timeout for services that don't set their own
	SweepConcurrency int           // probes in flight during one sweep; 1 means sequential
	ShutdownTimeout  time.Duration // grace period for draining requests on shutdown
}

func FromEnv() Config {
	port := 9091
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			port = n
		}
	}

	// Logs (empty LOG_DIR means no file core)
	logDir := os.Getenv("LOG_DIR")

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	regFile := os.Getenv("REGISTRY_FILE")

	defaultTimeout := 5 * time.Second
	if v := os.Getenv("DEFAULT_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			defaultTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	concurrency := 1
	if v := os.Getenv("SWEEP_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrency = n
		}
	}

	shutdownTimeout := 10 * time.Second
	if v := os.Getenv("SHUTDOWN_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			shutdownTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		Port:             port,
		LogDir:           logDir,
		LogLevel:         level,
		RegistryFile:     regFile,
		DefaultTimeout:   defaultTimeout,
		SweepConcurrency: concurrency,
		ShutdownTimeout:  shutdownTimeout,
	}
}

// Addr is the bind address derived from Port, listening on all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
