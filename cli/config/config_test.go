package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sluice.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `target: https://example.com/file.bin
batch_size: 40
memory_budget_mb: 512
download_dir: /var/tmp/sluice
tick_interval: 500ms
client_timeout: 15s
frozen_memory: true

adapter:
  type: webhook
  url: https://hooks.example.com/sluice
  headers:
    Authorization: Bearer token123
  timeout: 10s
  retries: 3
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "target", cfg.Target, "https://example.com/file.bin")
	if cfg.BatchSize != 40 {
		t.Errorf("batch_size = %d, want 40", cfg.BatchSize)
	}
	if cfg.MemoryBudgetMB != 512 {
		t.Errorf("memory_budget_mb = %d, want 512", cfg.MemoryBudgetMB)
	}
	assertEqual(t, "download_dir", cfg.DownloadDir, "/var/tmp/sluice")
	if cfg.TickInterval.Duration != 500*time.Millisecond {
		t.Errorf("tick_interval = %v, want 500ms", cfg.TickInterval.Duration)
	}
	if cfg.ClientTimeout.Duration != 15*time.Second {
		t.Errorf("client_timeout = %v, want 15s", cfg.ClientTimeout.Duration)
	}
	if !cfg.FrozenMemory {
		t.Error("expected frozen_memory=true")
	}

	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "https://hooks.example.com/sluice")
	if cfg.Adapter.Timeout.Duration != 10*time.Second {
		t.Errorf("adapter.timeout = %v, want 10s", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 3 {
		t.Error("expected adapter.retries=3")
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer token123" {
		t.Error("expected Authorization header")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target != "" {
		t.Errorf("expected empty target, got %q", cfg.Target)
	}
	if cfg.BatchSize != 0 {
		t.Errorf("expected zero batch_size, got %d", cfg.BatchSize)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/sluice.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeTemp(t, "tick_interval: not-a-duration\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeTemp(t, "bacth_size: 40\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad target scheme", "target: ftp://example.com/file.bin\n"},
		{"negative batch_size", "batch_size: -5\n"},
		{"negative tick_interval", "tick_interval: -1s\n"},
		{"negative client_timeout", "client_timeout: -30s\n"},
		{"unknown adapter type", "adapter:\n  type: kafka\n  url: kafka://broker\n"},
		{"negative adapter retries", "adapter:\n  type: webhook\n  url: https://hooks.example.com\n  retries: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.yaml)
			if _, err := Load(path); err == nil {
				t.Errorf("Load accepted %q", tt.yaml)
			}
		})
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SLUICE_TARGET", "https://mirror.example.com/big.iso")

	yaml := `target: ${SLUICE_TARGET}
download_dir: ${SLUICE_DIR:-downloads}
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "target", cfg.Target, "https://mirror.example.com/big.iso")
	assertEqual(t, "download_dir", cfg.DownloadDir, "downloads")
}

func TestDuration_EmptyString(t *testing.T) {
	path := writeTemp(t, `tick_interval: ""`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TickInterval.Duration != 0 {
		t.Errorf("tick_interval = %v, want 0 for empty string", cfg.TickInterval.Duration)
	}
}
