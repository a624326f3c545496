package registry

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type fileDoc struct {
	Services []fileEntry `yaml:"services"`
}

type fileEntry struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Method  string `yaml:"method"`
	Body    string `yaml:"body"`
	Timeout string `yaml:"timeout"`
}

// LoadFile reads a registry file. The file is read once at startup; there is
// no reload mechanism.
func LoadFile(path string) ([]ServiceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	entries, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return entries, nil
}

// Parse decodes the YAML registry document, preserving entry order. An empty
// document yields an empty registry, which is valid. Timeouts accept Go
// duration strings; bare numbers are treated as seconds.
func Parse(raw []byte) ([]ServiceConfig, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	out := make([]ServiceConfig, 0, len(doc.Services))
	for _, fe := range doc.Services {
		var d time.Duration
		if fe.Timeout != "" {
			var err error
			d, err = parseTimeout(fe.Timeout)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", fe.Name, err)
			}
		}
		out = append(out, ServiceConfig{
			Name:    fe.Name,
			URL:     fe.URL,
			Method:  fe.Method,
			Body:    fe.Body,
			Timeout: d,
		})
	}
	return out, nil
}

func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("bad timeout %q", s)
}

// Load builds the registry from path when non-empty, otherwise from the
// built-in defaults. defaultTimeout fills in entries that don't set their
// own; zero keeps the package default.
func Load(path string, defaultTimeout time.Duration) (*Registry, error) {
	entries := Defaults()
	if path != "" {
		var err error
		entries, err = LoadFile(path)
		if err != nil {
			return nil, err
		}
	}
	if defaultTimeout > 0 {
		for i := range entries {
			if entries[i].Timeout == 0 {
				entries[i].Timeout = defaultTimeout
			}
		}
	}
	return New(entries...)
}
