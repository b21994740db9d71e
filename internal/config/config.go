// Package config loads stagegate settings from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
)

// Default configuration values.
const (
	// DefaultRoot is the project directory to validate.
	DefaultRoot = "."
	// DefaultERDPath is the ERD document path, relative to the root.
	DefaultERDPath = "erd.json"
	// DefaultOpenAPIPath is the OpenAPI contract path, relative to the root.
	DefaultOpenAPIPath = "openapi.json"
	// DefaultFormat is the report output format.
	DefaultFormat = "console"
	// DefaultColor enables colored console output.
	DefaultColor = true
	// DefaultBaselineDir is where run baselines are persisted.
	DefaultBaselineDir = ".stagegate"
	// DefaultBaselineCodec is the baseline serialization codec.
	DefaultBaselineCodec = "json"
	// DefaultLoaderConcurrency is the module text loader parallelism.
	// Zero means one goroutine per CPU.
	DefaultLoaderConcurrency = 0
)

// MaxStage is the highest pipeline stage stagegate knows how to validate.
const MaxStage = 5

// Config is the top-level configuration struct for stagegate.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Root          string              `mapstructure:"root"`
	ERDPath       string              `mapstructure:"erd"`
	OpenAPIPath   string              `mapstructure:"openapi"`
	Stages        []int               `mapstructure:"stages"`
	Format        string              `mapstructure:"format"`
	Color         bool                `mapstructure:"color"`
	Verbose       bool                `mapstructure:"verbose"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Baseline      BaselineConfig      `mapstructure:"baseline"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EngineConfig holds module graph construction knobs.
type EngineConfig struct {
	ExcludedDirs      []string `mapstructure:"excluded_dirs"`
	LoaderConcurrency int      `mapstructure:"loader_concurrency"`
	VendorFilter      bool     `mapstructure:"vendor_filter"`
}

// BaselineConfig holds baseline persistence settings for drift detection.
type BaselineConfig struct {
	Dir    string `mapstructure:"dir"`
	Codec  string `mapstructure:"codec"`
	Update bool   `mapstructure:"update"`
}

// ObservabilityConfig holds telemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	LogJSON      bool    `mapstructure:"log_json"`
	LogLevel     string  `mapstructure:"log_level"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidStage indicates a stage number outside the known range.
	ErrInvalidStage = errors.New("stages must be between 1 and 5")
	// ErrInvalidFormat indicates an unknown output format.
	ErrInvalidFormat = errors.New("format must be one of console, json, yaml, html")
	// ErrInvalidCodec indicates an unknown baseline codec.
	ErrInvalidCodec = errors.New("baseline.codec must be one of json, gob, lz4")
	// ErrInvalidConcurrency indicates a negative loader concurrency.
	ErrInvalidConcurrency = errors.New("engine.loader_concurrency must be non-negative")
	// ErrInvalidSampleRatio indicates a sampling ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	for _, stage := range c.Stages {
		if stage < 1 || stage > MaxStage {
			return fmt.Errorf("%w: got %d", ErrInvalidStage, stage)
		}
	}

	switch c.Format {
	case "console", "json", "yaml", "html":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Format)
	}

	switch c.Baseline.Codec {
	case "json", "gob", "lz4":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidCodec, c.Baseline.Codec)
	}

	if c.Engine.LoaderConcurrency < 0 {
		return ErrInvalidConcurrency
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}
