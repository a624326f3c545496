package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_OrderAndFields(t *testing.T) {
	raw := []byte(`
services:
  - name: relations-api
    url: http://kessel-relations-api:8000/api/authz/v1beta1/tuples
    method: POST
    body: '{"tuples":[]}'
    timeout: 5s
  - name: inventory-api
    url: http://kessel-inventory-api:8000/api/kessel/v1/livez
    timeout: 750ms
  - name: rbac
    url: http://insights-rbac:8080/api/rbac/v1/status/
`)
	entries, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "relations-api" || entries[1].Name != "inventory-api" || entries[2].Name != "rbac" {
		t.Fatalf("document order not preserved: %+v", entries)
	}
	if entries[0].Method != "POST" || entries[0].Body != `{"tuples":[]}` {
		t.Fatalf("POST entry wrong: %+v", entries[0])
	}
	if entries[0].Timeout != 5*time.Second {
		t.Fatalf("want 5s timeout, got %v", entries[0].Timeout)
	}
	if entries[1].Timeout != 750*time.Millisecond {
		t.Fatalf("want 750ms timeout, got %v", entries[1].Timeout)
	}
	if entries[2].Timeout != 0 {
		t.Fatalf("absent timeout should stay zero for New to default, got %v", entries[2].Timeout)
	}
}

func TestParse_BareSecondsTimeout(t *testing.T) {
	entries, err := Parse([]byte("services:\n  - name: a\n    url: http://a/health\n    timeout: 5\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entries[0].Timeout != 5*time.Second {
		t.Fatalf("want bare 5 read as 5s, got %v", entries[0].Timeout)
	}
}

func TestParse_BadTimeout(t *testing.T) {
	_, err := Parse([]byte("services:\n  - name: a\n    url: http://a/health\n    timeout: soon\n"))
	if err == nil || !strings.Contains(err.Error(), "bad timeout") {
		t.Fatalf("want bad timeout error, got %v", err)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	entries, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("want no entries, got %d", len(entries))
	}
}

func TestParse_NotYAML(t *testing.T) {
	if _, err := Parse([]byte("services: [")); err == nil {
		t.Fatalf("want parse error, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.yaml")
	doc := "services:\n  - name: a\n    url: http://a/health\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("want error for missing file, got nil")
	}
}

func TestLoad_DefaultsWhenNoPath(t *testing.T) {
	reg, err := Load("", 2*time.Second)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.Len() != 4 {
		t.Fatalf("want built-in services, got %d", reg.Len())
	}
	for _, svc := range reg.Services() {
		if svc.Timeout != 2*time.Second {
			t.Fatalf("want configured timeout on %q, got %v", svc.Name, svc.Timeout)
		}
	}
}

func TestLoad_FileKeepsExplicitTimeouts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.yaml")
	doc := "services:\n" +
		"  - name: a\n    url: http://a/health\n    timeout: 9s\n" +
		"  - name: b\n    url: http://b/health\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	reg, err := Load(path, 3*time.Second)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	svcs := reg.Services()
	if svcs[0].Timeout != 9*time.Second {
		t.Fatalf("explicit timeout overridden: %v", svcs[0].Timeout)
	}
	if svcs[1].Timeout != 3*time.Second {
		t.Fatalf("want configured default on b, got %v", svcs[1].Timeout)
	}
}

func TestLoad_ZeroDefaultFallsBackToPackageDefault(t *testing.T) {
	reg, err := Load("", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reg.Services()[0].Timeout; got != DefaultTimeout {
		t.Fatalf("want %v, got %v", DefaultTimeout, got)
	}
}

func TestLoad_InvalidFileEntrySurfaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.yaml")
	doc := "services:\n  - name: a\n    url: not-a-url\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(path, 0); err == nil {
		t.Fatal("want validation error, got nil")
	}
}
