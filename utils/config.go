package utils

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/go-torus/rules"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the simulation
type Config struct {
	Width               int     `json:"width" yaml:"width"`
	Height              int     `json:"height" yaml:"height"`
	Rule                string  `json:"rule" yaml:"rule"`
	Speed               float64 `json:"speed" yaml:"speed"` // generations per second
	SeedDensity         float64 `json:"seed_density" yaml:"seed_density"`
	RandomSeed          int64   `json:"random_seed" yaml:"random_seed"` // 0 = time based
	Pattern             string  `json:"pattern" yaml:"pattern"`         // seed with a named pattern instead of noise
	Parallel            bool    `json:"parallel" yaml:"parallel"`
	Workers             int     `json:"workers" yaml:"workers"` // 0 = one per CPU
	MaxGenerations      int     `json:"max_generations" yaml:"max_generations"`
	AutoRestart         bool    `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int     `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	AliveColor          string  `json:"alive_color" yaml:"alive_color"`
	DeadColor           string  `json:"dead_color" yaml:"dead_color"`
	StatsFile           string  `json:"stats_file" yaml:"stats_file"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               60,
		Height:              30,
		Rule:                rules.Conway,
		Speed:               1000,
		SeedDensity:         1.0 / 20,
		Parallel:            false,
		MaxGenerations:      0,
		AutoRestart:         false,
		StagnationThreshold: 5,
		AliveColor:          "#000",
		DeadColor:           "green",
	}
}

// Interval returns the delay between generations, rounded to whole milliseconds
func (c Config) Interval() time.Duration {
	if c.Speed <= 0 {
		return 0
	}
	return time.Duration(math.Round(1000/c.Speed)) * time.Millisecond
}

// Validate checks the configuration against the rule registry
func (c Config) Validate(registry *rules.Registry) error {
	if registry == nil {
		registry = rules.DefaultRegistry
	}
	switch {
	case c.Width < 0 || c.Height < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Config.Validate] dimensions %dx%d", c.Width, c.Height)
	case c.Speed <= 0:
		return errors.Wrapf(ErrInvalidConfig, "[Config.Validate] speed %v must be positive", c.Speed)
	case c.SeedDensity < 0 || c.SeedDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "[Config.Validate] seed density %v outside [0,1]", c.SeedDensity)
	case c.Workers < 0 || c.MaxGenerations < 0 || c.StagnationThreshold < 0:
		return errors.Wrap(ErrInvalidConfig, "[Config.Validate] counts must not be negative")
	}
	if _, err := registry.Lookup(c.Rule); err != nil {
		return errors.Wrap(err, "[Config.Validate]")
	}
	return nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// WriteYAML saves the configuration as YAML
func (c Config) WriteYAML(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "[Config.WriteYAML] failed to marshal config")
	}
	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "[Config.WriteYAML] failed to write file: %+v", filename)
	}
	return nil
}
