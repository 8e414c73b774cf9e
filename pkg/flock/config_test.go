package flock

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v; want nil", err)
	}
	if got := cfg.SpawnPoint(); got != (geometry.Vector2D{X: 200, Y: 200}) {
		t.Errorf("SpawnPoint() = %v; want world center", got)
	}
	if got := cfg.TickPeriod(); got < 22*time.Millisecond || got > 23*time.Millisecond {
		t.Errorf("TickPeriod() = %v; want about 22ms", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.WorldWidth = 0 }},
		{"negative height", func(c *Config) { c.WorldHeight = -1 }},
		{"empty population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative population", func(c *Config) { c.PopulationSize = -3 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"zero neighbor distance", func(c *Config) { c.NeighborDistance = 0 }},
		{"negative max accel", func(c *Config) { c.MaxAccel = -0.1 }},
		{"zero max speed", func(c *Config) { c.MaxSpeed = 0 }},
		{"negative margin", func(c *Config) { c.WrapMargin = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfig_Formats(t *testing.T) {
	for _, file := range []string{"flock.json", "flock.toml", "flock.yaml"} {
		t.Run(file, func(t *testing.T) {
			cfg, err := LoadConfig(filepath.Join("testdata", file))
			if err != nil {
				t.Fatalf("LoadConfig(%s) error: %v", file, err)
			}
			if cfg.WorldWidth != 640 || cfg.WorldHeight != 480 {
				t.Errorf("world = %vx%v; want 640x480", cfg.WorldWidth, cfg.WorldHeight)
			}
			if cfg.PopulationSize != 12 {
				t.Errorf("PopulationSize = %d; want 12", cfg.PopulationSize)
			}
			if cfg.Pilot {
				t.Error("Pilot = true; want false from the file")
			}
			if cfg.Seed != 7 {
				t.Errorf("Seed = %d; want 7", cfg.Seed)
			}
			if got := cfg.SpawnPoint(); got != (geometry.Vector2D{X: 320, Y: 100}) {
				t.Errorf("SpawnPoint() = %v; want (320, 100)", got)
			}
			// untouched keys keep their defaults
			if cfg.SeparationWeight != DefaultSeparationWeight || cfg.NeighborDistance != DefaultNeighborDistance {
				t.Errorf("defaults lost: separation %v, neighbor distance %v", cfg.SeparationWeight, cfg.NeighborDistance)
			}
		})
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantInvalid bool
	}{
		{"negative width", "bad.json", `{"worldWidth": -10}`, true},
		{"fractional population", "bad.yaml", "populationSize: 2.5\n", true},
		{"unknown key", "bad.toml", "swarmSize = 10\n", true},
		{"wrong type", "bad.json", `{"pilot": "yes"}`, true},
		{"not an object", "bad.json", `[1, 2]`, true},
		{"broken json", "bad.json", `{"worldWidth": `, false},
		{"unsupported format", "flock.ini", "worldWidth=1\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig() error = nil; want an error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.wantInvalid {
				t.Errorf("errors.Is(%v, ErrInvalidConfig) = %v; want %v", err, got, tt.wantInvalid)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v; want fs.ErrNotExist", err)
	}
}
