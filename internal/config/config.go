// Package config loads the auto-selector's tunable constants (§6 of the
// spec) from a YAML file, following the same load/save shape as a
// kubeconfig-style context file: a missing file is not an error, and
// Save creates its parent directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Tunables holds every compile-time constant of §6, surfaced as
// configuration. Zero-value Tunables is invalid; use Defaults().
type Tunables struct {
	DataRoot string `yaml:"data_root,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`

	TCPTimeout          time.Duration `yaml:"tcp_timeout"`
	TunneledPingCeiling time.Duration `yaml:"tunneled_ping_ceiling"`
	ThroughputProbeKB   int           `yaml:"throughput_probe_kb"`
	TCPPingRepetitions  int           `yaml:"tcp_ping_repetitions"`

	FailureThreshold int           `yaml:"failure_threshold"`
	OpenWindow       time.Duration `yaml:"open_window"`
	HalfOpenGap      time.Duration `yaml:"half_open_gap"`

	WeightRTT        float64 `yaml:"weight_rtt"`
	WeightJitter     float64 `yaml:"weight_jitter"`
	WeightThroughput float64 `yaml:"weight_throughput"`
	WeightReserved   float64 `yaml:"weight_reserved"`

	FailurePenalty   float64       `yaml:"failure_penalty"`
	EWMAAlpha        float64       `yaml:"ewma_alpha"`
	StalenessDivisor time.Duration `yaml:"staleness_divisor"`
	StalenessCap     float64       `yaml:"staleness_cap"`
}

// Defaults returns the §6 tunables exactly as specified.
func Defaults() Tunables {
	return Tunables{
		DataRoot: defaultDataRoot(),
		LogLevel: "info",

		TCPTimeout:          3000 * time.Millisecond,
		TunneledPingCeiling: 5000 * time.Millisecond,
		ThroughputProbeKB:   256,
		TCPPingRepetitions:  3,

		FailureThreshold: 3,
		OpenWindow:       60000 * time.Millisecond,
		HalfOpenGap:      10000 * time.Millisecond,

		WeightRTT:        0.35,
		WeightJitter:     0.15,
		WeightThroughput: 0.25,
		WeightReserved:   0.25,

		FailurePenalty:   10000,
		EWMAAlpha:        0.3,
		StalenessDivisor: 120000 * time.Millisecond,
		StalenessCap:     10000,
	}
}

func defaultDataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "autoselect")
	}
	return filepath.Join(home, ".local", "share", "autoselect")
}

// Path returns the config file location, respecting XDG_CONFIG_HOME.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "autoselect", "tunables.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autoselect", "tunables.yaml")
}

// Load reads the tunables file over Defaults(): fields absent from the
// file keep their default, while a field the file sets explicitly (even
// to zero) takes the file's value. A missing file yields Defaults(), not
// an error.
func Load() (Tunables, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Tunables{}, fmt.Errorf("read tunables: %w", err)
	}

	t := Defaults()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tunables{}, fmt.Errorf("parse tunables: %w", err)
	}
	return t, nil
}

// Save writes t to disk, creating directories as needed.
func (t Tunables) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tunables: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write tunables: %w", err)
	}
	return nil
}
