package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// handleRegistry tracks live invocations so Close can cancel them.
type handleRegistry struct {
	mu      sync.Mutex
	handles map[uuid.UUID]*Handle
}

func (r *handleRegistry) init() {
	r.handles = make(map[uuid.UUID]*Handle)
}

func (r *handleRegistry) add(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[h.id] = h
}

func (r *handleRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

func (r *handleRegistry) snapshot() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	return out
}
