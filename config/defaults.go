package config

import (
	"github.com/0xRetroDev/mehsifai-go/client"
	"github.com/0xRetroDev/mehsifai-go/internal/sched"
	"github.com/0xRetroDev/mehsifai-go/materialize"
)

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() *Config {
	return &Config{
		API:       client.DefaultConfig(),
		Scratch:   materialize.Config{},
		Pipeline:  sched.DefaultConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultLogConfig returns default logging config.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
	}
}

// DefaultTelemetryConfig returns default telemetry config. Export is off
// until explicitly enabled.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		ServiceName:  "mehsifai",
		OTLPEndpoint: "localhost:4317",
		SampleRate:   1.0,
	}
}
