package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/minima/internal/board"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CurrentUser != "user-1" {
		t.Errorf("CurrentUser = %q", cfg.CurrentUser)
	}
	if cfg.MissingDue != "epoch" || cfg.Classifier().MissingDue != board.MissingDueEpoch {
		t.Errorf("MissingDue = %q", cfg.MissingDue)
	}
	if cfg.StartView != "dashboard" || !cfg.SeedDemo {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/m"}
	if cfg.Database() != filepath.Join("/tmp/m", "minima.db") {
		t.Errorf("Database() = %q", cfg.Database())
	}
	if cfg.LockPath() != filepath.Join("/tmp/m", "minima.lock") {
		t.Errorf("LockPath() = %q", cfg.LockPath())
	}
	cfg.DBPath = "/elsewhere/x.db"
	if cfg.Database() != "/elsewhere/x.db" {
		t.Errorf("explicit db_path ignored: %q", cfg.Database())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentUser != "user-1" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `current_user: user-2
missing_due: ignore
start_view: projects
seed_demo: false
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:3000"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentUser != "user-2" || cfg.StartView != "projects" || cfg.SeedDemo {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Classifier().MissingDue != board.MissingDueIgnore {
		t.Errorf("MissingDue = %q", cfg.MissingDue)
	}
	if cfg.Server.Addr != ":9090" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.DataDir != DefaultDataDir() {
		t.Errorf("unset keys should keep defaults, DataDir = %q", cfg.DataDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MINIMA_CURRENT_USER", "user-2")
	t.Setenv("MINIMA_SERVER_ADDR", "127.0.0.1:9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentUser != "user-2" {
		t.Errorf("CurrentUser = %q", cfg.CurrentUser)
	}
	if cfg.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("missing_due: sometimes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown policy")
	}

	cfg := Default()
	cfg.StartView = "reports"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "current_user: user-1") {
		t.Errorf("missing current_user in:\n%s", content)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written default should load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	if err := WriteDefault(path); err == nil {
		t.Fatal("second write should refuse to overwrite")
	}
}

func TestValidView(t *testing.T) {
	for _, v := range append([]string{LastView}, Views...) {
		if !ValidView(v) {
			t.Errorf("ValidView(%q) = false", v)
		}
	}
	if ValidView("reports") || ValidView("") {
		t.Error("unexpected view accepted")
	}
}
