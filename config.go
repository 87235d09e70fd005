// Package-level configuration, loaded from YAML with environment-variable
// overrides. Every knob has a default; when no config file is named, the
// defaults run with only the environment overrides applied. A named config
// file that cannot be read is an error.

package repeats

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults for every tunable.
const (
	DefaultMaxTermLen      = 100
	DefaultNBadAllowed     = 0
	DefaultHeaderSize      = 484
	DefaultEpsilon         = 0.9
	DefaultMinTermSize     = 4
	DefaultExactMatchLatch = 3
	DefaultParallelism     = 1

	// ModeString searches for plain byte strings, ModeSequence for byte
	// sequences with wildcard positions.
	ModeString   = "string"
	ModeSequence = "sequence"
)

// Config is the full tunable surface of a run.
type Config struct {
	// MaxTermLen caps term length and round count.
	MaxTermLen int `yaml:"maxTermLen"`

	// NBadAllowed is how many documents a candidate may fall short in.
	NBadAllowed int `yaml:"nBadAllowed"`

	// HeaderSize is the number of bytes skipped at the start of every
	// document.
	HeaderSize int `yaml:"headerSize"`

	// Mode selects the term flavour: "string" or "sequence".
	Mode string `yaml:"mode"`

	// Epsilon is the minimum non-wildcard fraction (sequence mode only).
	Epsilon float64 `yaml:"epsilon"`

	// MinTermSize is the length from which all-zero terms are rejected.
	MinTermSize int `yaml:"minTermSize"`

	// ExactMatchLatch is the per-round exact-match count that switches
	// exact-match reporting on.
	ExactMatchLatch int `yaml:"exactMatchLatch"`

	// PageCountPattern extracts the required repeat count from document
	// filenames.
	PageCountPattern string `yaml:"pageCountPattern"`

	// Parallelism is the number of candidate-building goroutines per
	// round.
	Parallelism int `yaml:"parallelism"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns the configuration every run starts from.
func DefaultConfig() Config {
	return Config{
		MaxTermLen:       DefaultMaxTermLen,
		NBadAllowed:      DefaultNBadAllowed,
		HeaderSize:       DefaultHeaderSize,
		Mode:             ModeString,
		Epsilon:          DefaultEpsilon,
		MinTermSize:      DefaultMinTermSize,
		ExactMatchLatch:  DefaultExactMatchLatch,
		PageCountPattern: DefaultPageCountPattern,
		Parallelism:      DefaultParallelism,
		LogLevel:         "info",
	}
}

// LoadConfig reads a YAML config file (if path is non-empty) over the
// defaults and applies REPEATS_* environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.Mode != ModeString && c.Mode != ModeSequence {
		return fmt.Errorf("invalid mode %q: want %q or %q", c.Mode, ModeString, ModeSequence)
	}
	if c.Epsilon <= 0 || c.Epsilon > 1 {
		return fmt.Errorf("invalid epsilon %v: want (0, 1]", c.Epsilon)
	}
	if c.MaxTermLen < 1 {
		return fmt.Errorf("invalid maxTermLen %d: want >= 1", c.MaxTermLen)
	}
	if c.NBadAllowed < 0 {
		return fmt.Errorf("invalid nBadAllowed %d: want >= 0", c.NBadAllowed)
	}
	if c.HeaderSize < 0 {
		return fmt.Errorf("invalid headerSize %d: want >= 0", c.HeaderSize)
	}
	return nil
}

// Options converts the engine-facing subset of the configuration.
func (c Config) Options() Options {
	return Options{
		MaxTermLen:      c.MaxTermLen,
		Epsilon:         c.Epsilon,
		Parallelism:     c.Parallelism,
		ExactMatchLatch: c.ExactMatchLatch,
		Filter:          DefaultFilter(c.MinTermSize),
	}
}

// applyEnvOverrides reads REPEATS_* environment variables over cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPEATS_MAX_TERM_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTermLen = n
		}
	}
	if v := os.Getenv("REPEATS_N_BAD_ALLOWED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NBadAllowed = n
		}
	}
	if v := os.Getenv("REPEATS_HEADER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HeaderSize = n
		}
	}
	if v := os.Getenv("REPEATS_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("REPEATS_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Epsilon = f
		}
	}
	if v := os.Getenv("REPEATS_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Parallelism = n
		}
	}
	if v := os.Getenv("REPEATS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
