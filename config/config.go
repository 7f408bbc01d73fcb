// Package config loads SDK configuration from defaults, an optional YAML
// file, and environment variable overrides, in that precedence order.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("mehsifai.yaml").
//	    WithEnvPrefix("MEHSIFAI").
//	    Load()
package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/0xRetroDev/mehsifai-go/client"
	"github.com/0xRetroDev/mehsifai-go/internal/sched"
	"github.com/0xRetroDev/mehsifai-go/materialize"
)

// Config is the full SDK configuration.
type Config struct {
	// API configures the generation endpoint transport.
	API client.Config `yaml:"api" env:"API"`

	// Scratch configures where downloaded containers are persisted.
	Scratch materialize.Config `yaml:"scratch" env:"SCRATCH"`

	// Pipeline sizes the invocation scheduler.
	Pipeline sched.Config `yaml:"pipeline" env:"PIPELINE"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log" env:"LOG"`

	// Telemetry configures OpenTelemetry export.
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format string `yaml:"format" env:"FORMAT"`
	// OutputPaths overrides where logs go; stderr when empty.
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// Build constructs a zap logger from the config.
func (c LogConfig) Build() (*zap.Logger, error) {
	var zcfg zap.Config
	if c.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	zcfg.Level = level
	if len(c.OutputPaths) > 0 {
		zcfg.OutputPaths = c.OutputPaths
	}
	return zcfg.Build()
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	// Enabled turns OTLP export on. Off means noop providers.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// ServiceName identifies this process in traces and metrics.
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	// OTLPEndpoint is the gRPC collector address, host:port.
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var errs []string

	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url must not be empty")
	}
	if c.API.Timeout < 0 {
		errs = append(errs, "api.timeout must not be negative")
	}
	if c.Pipeline.Workers < 0 {
		errs = append(errs, "pipeline.workers must not be negative")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "telemetry.sample_rate must be between 0 and 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
