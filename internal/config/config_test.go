package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.X0 != -300.0 || cfg.Y0 != -450.0 || cfg.Psi0 != 1.0 {
		t.Errorf("unexpected default pose: x0=%g y0=%g psi0=%g", cfg.X0, cfg.Y0, cfg.Psi0)
	}
	if cfg.Vehicle.Mass <= 0 || cfg.Vehicle.Iz <= 0 {
		t.Error("default vehicle parameters should be positive")
	}
	if cfg.ListenAddr == "" {
		t.Error("listen address should have a default")
	}
}

func TestLoadOrDefaultEmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("empty path should not fail: %v", err)
	}
	if cfg.X0 != DefaultX0 {
		t.Errorf("expected default x0, got %g", cfg.X0)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("explicitly given but missing file should fail")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := []byte("x0: 12.5\nvehicle:\n  mass: 2000\nschedule:\n  - {t: 0, accel: 1.0, steer: 0.0}\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.X0 != 12.5 {
		t.Errorf("x0: got %g, expected 12.5", cfg.X0)
	}
	if cfg.Y0 != DefaultY0 {
		t.Errorf("y0 should keep default, got %g", cfg.Y0)
	}
	if cfg.Vehicle.Mass != 2000 {
		t.Errorf("vehicle mass: got %g, expected 2000", cfg.Vehicle.Mass)
	}
	if cfg.Vehicle.Lf != 1.152 {
		t.Errorf("unset vehicle parameter should keep default, got %g", cfg.Vehicle.Lf)
	}
	if len(cfg.Schedule) != 1 || cfg.Schedule[0].Accel != 1.0 {
		t.Errorf("unexpected schedule: %+v", cfg.Schedule)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("x0: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}

func TestInitialState(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.InitialState()

	if s.X != cfg.X0 || s.Y != cfg.Y0 || s.Psi != cfg.Psi0 {
		t.Errorf("initial pose mismatch: %+v", s)
	}
	if s.Vx != 0 || s.Vy != 0 || s.Wz != 0 || s.Acc != 0 || s.Df != 0 {
		t.Errorf("vehicle should start at rest: %+v", s)
	}
}
