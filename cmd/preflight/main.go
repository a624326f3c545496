// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/kesselops/healthexporter/internal/registry"
)

func main() {
	godotenv.Load(".env")

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		ok("PORT empty; exporter will listen on 9091")
	} else if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		fail("PORT=" + port + " is not a valid port")
	} else {
		ok("PORT=" + port)
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		if _, err := zapcore.ParseLevel(level); err != nil {
			warn("LOG_LEVEL=" + level + " is not a zap level; the exporter falls back to info")
		} else {
			ok("LOG_LEVEL=" + level)
		}
	}

	for _, name := range []string{"DEFAULT_TIMEOUT_MS", "SWEEP_CONCURRENCY", "SHUTDOWN_TIMEOUT_MS"} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n < 1 {
			warn(name + "=" + v + " is not a positive number; the default is used instead")
		} else {
			ok(name + "=" + v)
		}
	}

	regFile := strings.TrimSpace(os.Getenv("REGISTRY_FILE"))
	if regFile == "" {
		reg, err := registry.Load("", 0)
		if err != nil {
			fail("built-in registry invalid: " + err.Error())
		}
		ok(fmt.Sprintf("REGISTRY_FILE empty; using %d built-in services", reg.Len()))
	} else {
		reg, err := registry.Load(regFile, 0)
		if err != nil {
			fail("registry file rejected: " + err.Error())
		}
		ok(fmt.Sprintf("%s: %d services", regFile, reg.Len()))
		if reg.Len() == 0 {
			warn(regFile + " registers no services; /metrics will carry no series")
		}
	}

	if dir := strings.TrimSpace(os.Getenv("LOG_DIR")); dir != "" {
		ok("LOG_DIR=" + dir)
	} else {
		ok("LOG_DIR empty; logs stay on stderr")
	}

	ok("preflight passed")
}
