package registry

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// DefaultTimeout is applied to entries that do not set their own deadline.
const DefaultTimeout = 5 * time.Second

// ServiceConfig describes one downstream health endpoint. Values are fixed at
// startup and never mutated afterwards.
type ServiceConfig struct {
	Name    string
	URL     string
	Method  string        // GET or POST; empty means GET
	Body    string        // request payload, POST entries only
	Timeout time.Duration // per-probe deadline; zero means DefaultTimeout
}

// Registry is the ordered, read-only set of monitored services. Insertion
// order is preserved because it fixes the order of emitted metric lines.
// Once built it is shared by all requests without locking.
type Registry struct {
	entries []ServiceConfig
}

// New validates every entry and builds the registry. All violations are
// collected into a single error so a broken deployment reports every problem
// at once instead of one per restart.
func New(entries ...ServiceConfig) (*Registry, error) {
	out := make([]ServiceConfig, len(entries))
	copy(out, entries)

	var errs error
	seen := make(map[string]struct{}, len(out))

	for i := range out {
		e := &out[i]

		if e.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: name is empty", i))
		} else if _, dup := seen[e.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("service %q: duplicate name", e.Name))
		} else {
			seen[e.Name] = struct{}{}
		}

		if err := validateURL(e.URL); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("service %q: %w", e.Name, err))
		}

		e.Method = strings.ToUpper(e.Method)
		switch e.Method {
		case "":
			e.Method = http.MethodGet
		case http.MethodGet, http.MethodPost:
		default:
			errs = multierr.Append(errs, fmt.Errorf("service %q: method %q not supported (GET or POST)", e.Name, e.Method))
		}
		if e.Method == http.MethodGet && e.Body != "" {
			errs = multierr.Append(errs, fmt.Errorf("service %q: body is only valid with POST", e.Name))
		}

		if e.Timeout < 0 {
			errs = multierr.Append(errs, fmt.Errorf("service %q: timeout must be positive", e.Name))
		} else if e.Timeout == 0 {
			e.Timeout = DefaultTimeout
		}
	}

	if errs != nil {
		return nil, errs
	}
	return &Registry{entries: out}, nil
}

// Services returns the entries in insertion order. The slice is a copy; the
// registry itself cannot be modified through it.
func (r *Registry) Services() []ServiceConfig {
	out := make([]ServiceConfig, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of registered services.
func (r *Registry) Len() int { return len(r.entries) }

// Names returns the service names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Name)
	}
	return out
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q: must be absolute http(s)", raw)
	}
	return nil
}

// Defaults is the built-in registry used when no registry file is configured:
// the Kessel stack services this exporter was written for. Container-internal
// ports, not host-mapped ones. Timeouts are left unset so the configured
// default applies.
func Defaults() []ServiceConfig {
	return []ServiceConfig{
		{
			Name:   "relations-api",
			URL:    "http://kessel-relations-api:8000/api/authz/v1beta1/tuples",
			Method: http.MethodPost,
			Body:   `{"tuples":[]}`,
		},
		{
			Name: "inventory-api",
			URL:  "http://kessel-inventory-api:8000/api/kessel/v1/livez",
		},
		{
			Name: "rbac",
			URL:  "http://insights-rbac:8080/api/rbac/v1/status/",
		},
		{
			Name: "host-inventory",
			URL:  "http://insights-host-inventory:8080/health",
		},
	}
}
