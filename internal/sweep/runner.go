package sweep

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kesselops/healthexporter/internal/probe"
	"github.com/kesselops/healthexporter/internal/registry"
)

// Runner probes every registered service once per call. Results always come
// back in registry order regardless of Concurrency, so the metric output is
// stable across sweeps.
type Runner struct {
	Logger      *zap.Logger
	Prober      probe.Prober
	Concurrency int
}

func NewRunner(logger *zap.Logger, p probe.Prober, concurrency int) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		Logger:      logger,
		Prober:      p,
		Concurrency: concurrency,
	}
}

// Run sweeps the registry and returns one result per service, in registry
// order. An empty registry yields an empty slice.
func (r *Runner) Run(ctx context.Context, reg *registry.Registry) []probe.HealthResult {
	svcs := reg.Services()
	results := make([]probe.HealthResult, len(svcs))
	if len(svcs) == 0 {
		return results
	}

	start := time.Now()
	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for i, svc := range svcs {
		i, svc := i, svc
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			results[i] = r.Prober.Probe(ctx, svc)
		}()
	}
	wg.Wait()

	up := 0
	for _, res := range results {
		if res.Up {
			up++
		}
	}
	r.Logger.Info("sweep_complete",
		zap.Int("services", len(svcs)),
		zap.Int("up", up),
		zap.Int("down", len(svcs)-up),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}
