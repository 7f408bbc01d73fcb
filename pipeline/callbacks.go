package pipeline

import "github.com/0xRetroDev/mehsifai-go/scene"

// DefaultVariance is used when an invocation does not set one explicitly.
const DefaultVariance = 0.2

// Callbacks receives invocation events. All fields are optional; nil callbacks
// are skipped. For any one invocation, status callbacks arrive in submission
// order and stop before the terminal callback; exactly one of OnComplete or
// OnError fires, or neither when the invocation is cancelled.
//
// Callbacks run on the scheduler's worker goroutines. Keep them short or hand
// off to your own goroutine.
type Callbacks struct {
	// OnComplete delivers the materialized model.
	OnComplete func(model *scene.Node)

	// OnError delivers the terminal failure.
	OnError func(err error)

	// OnStatus reports a human-readable phase and a progress fraction in [0, 1].
	OnStatus func(status string, progress float64)
}

// Option adjusts a single invocation.
type Option func(*invocationOptions)

type invocationOptions struct {
	variance          float64
	defaultAppearance bool
}

func defaultInvocationOptions() invocationOptions {
	return invocationOptions{
		variance:          DefaultVariance,
		defaultAppearance: true,
	}
}

// WithVariance sets the generation variance. Values outside [0, 1] are
// clamped at submission.
func WithVariance(v float64) Option {
	return func(o *invocationOptions) { o.variance = v }
}

// WithDefaultAppearance controls whether imported materials are replaced with
// the shared flat default. On unless disabled.
func WithDefaultAppearance(enabled bool) Option {
	return func(o *invocationOptions) { o.defaultAppearance = enabled }
}
