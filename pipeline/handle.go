package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/0xRetroDev/mehsifai-go/scene"
)

// Result is the typed outcome of a finished invocation. Exactly one of Model
// and Err is set, except for cancelled invocations where Err carries the
// context error.
type Result struct {
	Model *scene.Node
	Err   error
}

// Handle tracks one in-flight generation. Safe for concurrent use.
type Handle struct {
	id     uuid.UUID
	cancel context.CancelFunc

	state atomic.Int32
	done  chan struct{}

	mu     sync.Mutex
	result Result
}

func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{
		id:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID identifies the invocation in logs and metrics.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// State returns the current lifecycle phase.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done is closed once the invocation reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result returns the outcome. Zero-valued until Done is closed.
func (h *Handle) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Cancel aborts the invocation. In-flight transport calls are interrupted.
// No terminal callback fires for a cancelled invocation. Safe to call at any
// time, including after completion, where it is a no-op.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the invocation finishes or ctx expires, returning the
// invocation's result in the former case and the context error in the latter.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// setState advances the lifecycle unless a terminal state was already
// reached. Returns false when the transition was refused.
func (h *Handle) setState(next State) bool {
	for {
		cur := h.state.Load()
		if State(cur).Terminal() {
			return false
		}
		if h.state.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// finish records the terminal state and result exactly once. The first caller
// wins; later calls report false and change nothing.
func (h *Handle) finish(terminal State, result Result) bool {
	if !h.setState(terminal) {
		return false
	}
	h.mu.Lock()
	h.result = result
	h.mu.Unlock()
	close(h.done)
	return true
}
