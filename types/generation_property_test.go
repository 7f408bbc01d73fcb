package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Property: ClampVariance always lands in [0, 1] and is the identity on
// values already inside the range.
func TestClampVariance_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64().Draw(t, "variance")
		clamped := ClampVariance(v)

		if clamped < 0 || clamped > 1 {
			t.Fatalf("clamped value %v out of range for input %v", clamped, v)
		}
		if v >= 0 && v <= 1 && clamped != v {
			t.Fatalf("in-range value %v changed to %v", v, clamped)
		}
	})
}

func TestClampVariance_Examples(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "below range", input: -0.5, expected: 0.0},
		{name: "above range", input: 1.7, expected: 1.0},
		{name: "in range", input: 0.35, expected: 0.35},
		{name: "lower edge", input: 0.0, expected: 0.0},
		{name: "upper edge", input: 1.0, expected: 1.0},
		{name: "NaN", input: math.NaN(), expected: 0.0},
		{name: "negative infinity", input: math.Inf(-1), expected: 0.0},
		{name: "positive infinity", input: math.Inf(1), expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampVariance(tt.input))
		})
	}
}

func TestGenerationMetadata_Clone(t *testing.T) {
	t.Parallel()

	src := &GenerationMetadata{
		Prompt:      "a futuristic spaceship",
		Variance:    0.2,
		GeneratedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	clone := src.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, *src, *clone)
	assert.NotSame(t, src, clone)

	clone.Prompt = "mutated"
	assert.Equal(t, "a futuristic spaceship", src.Prompt)

	var nilMeta *GenerationMetadata
	assert.Nil(t, nilMeta.Clone())
}
