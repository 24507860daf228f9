package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/premiumlens/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataPath != filepath.Join("data", "insurance.csv") {
		t.Fatalf("data_path default = %q", c.DataPath)
	}
	if c.ListenAddr != ":8501" {
		t.Fatalf("listen_addr default = %q", c.ListenAddr)
	}
	if c.FigureWidth != 400 || c.FigureHeight != 340 {
		t.Fatalf("figure size default = %dx%d", c.FigureWidth, c.FigureHeight)
	}
}

func TestSaveThenLoadRoundTripsFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	c, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.ModelPath = "/srv/models/xgb.json"
	c.FigureWidth = 512
	if err := config.Save(c, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := config.Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ModelPath != "/srv/models/xgb.json" || got.FigureWidth != 512 {
		t.Fatalf("reloaded config mismatch: %+v", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PREMIUMLENS_LISTEN_ADDR", "127.0.0.1:9000")
	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ListenAddr != "127.0.0.1:9000" {
		t.Fatalf("env override not applied: %q", c.ListenAddr)
	}
}

func TestLoadRejectsZeroFigureSize(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PREMIUMLENS_FIGURE_WIDTH", "0")
	if _, err := config.Load(""); err == nil {
		t.Fatalf("expected error for zero figure width")
	}
}

func TestLoadRejectsBadCORSOrigin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("cors_origins: [\"localhost:3000\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(p); err == nil {
		t.Fatalf("expected error for origin without scheme")
	}
}
