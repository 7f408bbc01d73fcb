package client

import "time"

// Config configures the MehsifAI transport client.
type Config struct {
	APIKey  string        `json:"api_key" yaml:"api_key" env:"KEY"`
	BaseURL string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`

	// RequestsPerMinute throttles prompt submissions client-side so a caller
	// can stay inside the server's burst budget. Zero disables the throttle.
	RequestsPerMinute int `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty" env:"REQUESTS_PER_MINUTE"`
}

// DefaultConfig returns default transport config.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.mehsif.ai/v1",
		Timeout: 600 * time.Second,
	}
}
