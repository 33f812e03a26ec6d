package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vehiclesim/internal/sim"
	"github.com/san-kum/vehiclesim/internal/vehicle"
)

const (
	DefaultX0         = -300.0
	DefaultY0         = -450.0
	DefaultPsi0       = 1.0
	DefaultListenAddr = ":9560"
)

// Config is the startup configuration. Every field has a documented default;
// a missing file or missing keys never fail startup.
type Config struct {
	ListenAddr string              `yaml:"listen_addr"`
	X0         float64             `yaml:"x0"`
	Y0         float64             `yaml:"y0"`
	Psi0       float64             `yaml:"psi0"`
	Vehicle    vehicle.Parameters  `yaml:"vehicle"`
	Schedule   []sim.ScheduleEntry `yaml:"schedule"`
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		X0:         DefaultX0,
		Y0:         DefaultY0,
		Psi0:       DefaultPsi0,
		Vehicle:    vehicle.DefaultParameters(),
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault returns the defaults when no path is given, and otherwise
// loads the file. An explicitly given but unreadable file is an error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// InitialState builds the startup vehicle state: configured pose, at rest.
func (c *Config) InitialState() vehicle.State {
	return vehicle.State{X: c.X0, Y: c.Y0, Psi: c.Psi0}
}
