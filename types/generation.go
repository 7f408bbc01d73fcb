package types

import (
	"math"
	"time"
)

// GenerationRequest describes one prompt submission. Immutable once submitted.
type GenerationRequest struct {
	Prompt   string  `json:"prompt"`
	Variance float64 `json:"variance"`
}

// RateLimit reports the caller's remaining request budget, as returned by the
// generation endpoint alongside every result.
type RateLimit struct {
	HourlyRemaining int `json:"hourly_remaining"`
	BurstRemaining  int `json:"burst_remaining"`
}

// GenerationResult is the decoded response of a prompt submission. Produced
// once per request; never mutated.
type GenerationResult struct {
	Success     bool      `json:"success"`
	DownloadURL string    `json:"download_url"`
	RateLimit   RateLimit `json:"rate_limit"`

	// Message carries the server's failure reason when Success is false.
	// Absent on the wire for successful generations.
	Message string `json:"message,omitempty"`
}

// GenerationMetadata records what produced a materialized model. Attached to
// every model node exactly once at creation; clones get an independently
// initialized copy, never a shared reference.
type GenerationMetadata struct {
	Prompt      string    `json:"prompt"`
	Variance    float64   `json:"variance"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Clone returns an independent copy of the metadata record.
func (m *GenerationMetadata) Clone() *GenerationMetadata {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

// ClampVariance clamps v into [0, 1]. Out-of-range values are clamped
// silently rather than rejected; NaN maps to 0.
func ClampVariance(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
