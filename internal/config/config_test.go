package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Listen != ":8080" {
		t.Errorf("Expected listen :8080, got %s", cfg.Listen)
	}
	if cfg.Executor.Interpreter != "python3" {
		t.Errorf("Expected interpreter python3, got %s", cfg.Executor.Interpreter)
	}
	if cfg.ExecutorTimeout() != 30*time.Second {
		t.Errorf("Expected 30s executor timeout, got %s", cfg.ExecutorTimeout())
	}
	if cfg.TelemetryInterval() != 5*time.Second {
		t.Errorf("Expected 5s telemetry interval, got %s", cfg.TelemetryInterval())
	}
	if cfg.Admin.Username != "admin" {
		t.Errorf("Expected admin bootstrap user, got %s", cfg.Admin.Username)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Expected defaults, got listen %s", cfg.Listen)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routerd.yaml")
	content := `listen: ":9090"
db_path: /tmp/test-router.db
executor:
  timeout_seconds: 10
telemetry:
  interval_seconds: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Expected listen :9090, got %s", cfg.Listen)
	}
	if cfg.DBPath != "/tmp/test-router.db" {
		t.Errorf("Expected overridden db path, got %s", cfg.DBPath)
	}
	if cfg.ExecutorTimeout() != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %s", cfg.ExecutorTimeout())
	}
	if cfg.TelemetryInterval() != 2*time.Second {
		t.Errorf("Expected 2s interval, got %s", cfg.TelemetryInterval())
	}
	// Untouched fields keep their defaults
	if cfg.Executor.Interpreter != "python3" {
		t.Errorf("Expected default interpreter, got %s", cfg.Executor.Interpreter)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/routerd.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestInitializeDatabase(t *testing.T) {
	dir := t.TempDir()

	cfg := NewConfig()
	cfg.DBPath = filepath.Join(dir, "data", "router.db")

	db, err := cfg.InitializeDatabase()
	if err != nil {
		t.Fatalf("InitializeDatabase failed: %v", err)
	}
	defer db.Close()

	// Migrations ran: the settings table is seeded
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM system_settings").Scan(&count); err != nil {
		t.Fatalf("failed to query settings: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 seeded settings, got %d", count)
	}

	if _, err := os.Stat(cfg.DBPath); err != nil {
		t.Errorf("Expected database file at %s: %v", cfg.DBPath, err)
	}
}

func TestExpandPath(t *testing.T) {
	cfg := NewConfig()

	if got := cfg.expandPath("/absolute/path.db"); got != "/absolute/path.db" {
		t.Errorf("Expected absolute path unchanged, got %s", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := cfg.expandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("Expected home expansion, got %s", got)
	}
}
