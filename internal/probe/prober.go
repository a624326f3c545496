package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kesselops/healthexporter/internal/registry"
)

// HTTPProber checks services over HTTP. Timeouts are enforced per service via
// the request context, so a single prober serves registries with mixed
// deadlines. Connections are not reused between probes.
type HTTPProber struct {
	log    *zap.Logger
	client *http.Client
}

// NewHTTPProber builds a prober that logs each probe outcome to log.
func NewHTTPProber(log *zap.Logger) *HTTPProber {
	if log == nil {
		log = zap.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	return &HTTPProber{
		log:    log,
		client: &http.Client{Transport: transport},
	}
}

// Probe performs one HTTP check against svc and classifies the outcome.
// Failures of any kind come back as a down result, never as a panic.
func (p *HTTPProber) Probe(ctx context.Context, svc registry.ServiceConfig) (res HealthResult) {
	res = HealthResult{Service: svc.Name}

	defer func() {
		if rec := recover(); rec != nil {
			res.Up = false
			res.Cause = CauseError
			res.Err = fmt.Sprintf("panic: %v", rec)
			p.report(res)
		}
	}()

	timeout := svc.Timeout
	if timeout <= 0 {
		timeout = registry.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	var body io.Reader
	if svc.Method == http.MethodPost && svc.Body != "" {
		body = strings.NewReader(svc.Body)
	}
	req, err := http.NewRequestWithContext(ctx, svc.Method, svc.URL, body)
	if err != nil {
		res.Cause = CauseError
		res.Err = err.Error()
		p.report(res)
		return res
	}
	if svc.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	res.LatencyMS = float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		res.Cause = classify(err)
		res.Err = err.Error()
		p.report(res)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		res.Up = true
		res.Cause = CauseOK
	} else {
		res.Cause = CauseBadStatus
	}
	p.report(res)
	return res
}

// classify maps a transport error to the cause bucket used in logs.
// Deadline errors win over connection errors: a dial that was cut off by the
// probe timeout is a TIMEOUT, not a CONNECTION_ERROR.
func classify(err error) Cause {
	if errors.Is(err, context.DeadlineExceeded) {
		return CauseTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return CauseTimeout
	}
	var (
		dnsErr  *net.DNSError
		opErr   *net.OpError
		certErr *tls.CertificateVerificationError
		recErr  tls.RecordHeaderError
	)
	switch {
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.As(err, &certErr),
		errors.As(err, &recErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return CauseConnection
	}
	return CauseError
}

// report emits the single log line each probe produces.
func (p *HTTPProber) report(res HealthResult) {
	fields := []zap.Field{
		zap.String("service", res.Service),
		zap.Float64("latency_ms", res.LatencyMS),
	}
	switch res.Cause {
	case CauseOK:
		fields = append(fields, zap.Int("status", res.StatusCode))
		p.log.Debug("probe_up", fields...)
	case CauseBadStatus:
		fields = append(fields,
			zap.String("cause", string(res.Cause)),
			zap.Int("status", res.StatusCode),
		)
		p.log.Warn("probe_down", fields...)
	case CauseTimeout, CauseConnection:
		fields = append(fields,
			zap.String("cause", string(res.Cause)),
			zap.String("error", res.Err),
		)
		p.log.Warn("probe_down", fields...)
	default:
		fields = append(fields,
			zap.String("cause", string(CauseError)),
			zap.String("error", res.Err),
		)
		p.log.Error("probe_error", fields...)
	}
}
