package probe

import (
	"context"

	"github.com/kesselops/healthexporter/internal/registry"
)

// Cause records why a probe classified a service the way it did. The values
// match the tokens operators grep for in the logs.
type Cause string

const (
	CauseOK         Cause = "OK"
	CauseBadStatus  Cause = "BAD_STATUS"
	CauseTimeout    Cause = "TIMEOUT"
	CauseConnection Cause = "CONNECTION_ERROR"
	CauseError      Cause = "ERROR"
)

// HealthResult is the outcome of a single probe. Only Service and Up feed the
// metric output; the rest is diagnostic detail for logs and the sweep CLI.
//
// StatusCode is the final HTTP status after redirects, 0 when no response
// arrived. Err holds the failure detail for down results.
type HealthResult struct {
	Service    string
	Up         bool
	StatusCode int
	Cause      Cause
	Err        string
	LatencyMS  float64
}

// Prober runs one health check against one configured service.
type Prober interface {
	Probe(ctx context.Context, svc registry.ServiceConfig) HealthResult
}
