// Package config loads and validates the rebound.yaml configuration file.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents a rebound.yaml configuration file.
type Config struct {
	Version int     `yaml:"version" json:"version"`
	Service Service `yaml:"service" json:"service"`
	Markers Markers `yaml:"markers" json:"markers"`
	Logs    Logs    `yaml:"logs"    json:"logs"`
}

// Service identifies the target to restart.
type Service struct {
	Kind      string `yaml:"kind"                json:"kind"`                // systemd | docker | exec
	Unit      string `yaml:"unit,omitempty"      json:"unit,omitempty"`      // systemd
	Container string `yaml:"container,omitempty" json:"container,omitempty"` // docker
	Command   string `yaml:"command,omitempty"   json:"command,omitempty"`   // exec: restart command
}

// Markers holds the uncompiled start/ready patterns.
type Markers struct {
	Start string `yaml:"start" json:"start"`
	Ready string `yaml:"ready" json:"ready"`
}

// Logs selects the log source to watch for the markers.
type Logs struct {
	Source string `yaml:"source"         json:"source"` // journald | file
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Tail   int    `yaml:"tail"           json:"tail"` // pre-existing lines to include
}

// DefaultTail is how many pre-existing log lines a stream starts from,
// so a startup line emitted just before watching begins is not missed.
const DefaultTail = 2

// Default returns the built-in configuration, targeting the Agoric
// chain daemon the tool was originally written for.
func Default() *Config {
	return &Config{
		Version: 1,
		Service: Service{
			Kind: "systemd",
			Unit: "ag-chain-cosmos.service",
		},
		Markers: Markers{
			Start: `Started Agoric Cosmos daemon\.$`,
			Ready: `block-manager: block \d+ begin$`,
		},
		Logs: Logs{
			Source: "journald",
			Tail:   DefaultTail,
		},
	}
}

// Load reads and parses a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data and fills in defaults for omitted fields.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.Logs.Source == "" {
		c.Logs.Source = "journald"
	}
	if c.Logs.Tail == 0 {
		c.Logs.Tail = DefaultTail
	}
	return &c, nil
}

// Save writes the config to the given path as YAML.
func Save(c *Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the config for structural correctness.
func Validate(c *Config) []error {
	var errs []error

	if c.Version != 1 {
		errs = append(errs, fmt.Errorf("version must be 1, got %d", c.Version))
	}

	switch c.Service.Kind {
	case "systemd":
		if c.Service.Unit == "" {
			errs = append(errs, fmt.Errorf("service (systemd): unit is required"))
		}
	case "docker":
		if c.Service.Container == "" {
			errs = append(errs, fmt.Errorf("service (docker): container is required"))
		}
	case "exec":
		if c.Service.Command == "" {
			errs = append(errs, fmt.Errorf("service (exec): command is required"))
		}
	case "":
		errs = append(errs, fmt.Errorf("service: kind is required"))
	default:
		errs = append(errs, fmt.Errorf("service: unknown kind %q", c.Service.Kind))
	}

	if c.Markers.Start == "" {
		errs = append(errs, fmt.Errorf("markers: start pattern is required"))
	} else if _, err := regexp.Compile(c.Markers.Start); err != nil {
		errs = append(errs, fmt.Errorf("markers: start pattern: %v", err))
	}
	if c.Markers.Ready == "" {
		errs = append(errs, fmt.Errorf("markers: ready pattern is required"))
	} else if _, err := regexp.Compile(c.Markers.Ready); err != nil {
		errs = append(errs, fmt.Errorf("markers: ready pattern: %v", err))
	}

	switch c.Logs.Source {
	case "journald":
		if c.Service.Kind != "systemd" {
			errs = append(errs, fmt.Errorf("logs (journald): requires a systemd service"))
		}
	case "file":
		if c.Logs.File == "" {
			errs = append(errs, fmt.Errorf("logs (file): file is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("logs: unknown source %q", c.Logs.Source))
	}

	if c.Logs.Tail < 0 {
		errs = append(errs, fmt.Errorf("logs: tail must not be negative, got %d", c.Logs.Tail))
	}

	return errs
}
