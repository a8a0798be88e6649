package react

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxIterations bounds how many reasoning steps a run may take.
	DefaultMaxIterations = 10
	// DefaultParseRetryLimit bounds consecutive malformed completions
	// before the run fails.
	DefaultParseRetryLimit = 2
)

// Config tunes a loop's bounds. The zero value of any field means "use the
// default"; negative MaxObservationChars disables truncation.
type Config struct {
	MaxIterations       int    `yaml:"max_iterations"`
	WindowSize          int    `yaml:"window_size"`
	ParseRetryLimit     int    `yaml:"parse_retry_limit"`
	RepetitionWindow    int    `yaml:"repetition_window"`
	MaxObservationChars int    `yaml:"max_observation_chars"`
	SystemPrompt        string `yaml:"system_prompt"`
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       DefaultMaxIterations,
		WindowSize:          DefaultWindowSize,
		ParseRetryLimit:     DefaultParseRetryLimit,
		RepetitionWindow:    DefaultRepetitionWindow,
		MaxObservationChars: DefaultMaxObservationChars,
	}
}

// LoadConfig reads a YAML config file. Environment variable references in
// the file are expanded before parsing; unset fields fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg.normalize(), nil
}

// normalize fills unset fields with defaults. MaxObservationChars keeps
// negative values as "truncation disabled".
func (c Config) normalize() Config {
	if c.MaxIterations < 1 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.WindowSize < 1 {
		c.WindowSize = DefaultWindowSize
	}
	if c.ParseRetryLimit < 1 {
		c.ParseRetryLimit = DefaultParseRetryLimit
	}
	if c.RepetitionWindow < 1 {
		c.RepetitionWindow = DefaultRepetitionWindow
	}
	if c.MaxObservationChars == 0 {
		c.MaxObservationChars = DefaultMaxObservationChars
	}
	return c
}
