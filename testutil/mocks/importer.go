package mocks

import (
	"context"
	"sync"

	"github.com/0xRetroDev/mehsifai-go/importer"
	"github.com/0xRetroDev/mehsifai-go/scene"
)

// MockImporter is a scripted stand-in for the model importer.
type MockImporter struct {
	mu sync.Mutex

	// Node is returned on success. Cloned per call so post-processing in one
	// invocation never bleeds into the next.
	Node *scene.Node
	Err  error

	// ImportFunc wins over the scripted fields when set.
	ImportFunc func(ctx context.Context, path string) (*scene.Node, error)

	paths []string
}

// Import implements importer.Importer.
func (m *MockImporter) Import(ctx context.Context, path string) (*scene.Node, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	fn, node, err := m.ImportFunc, m.Node, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	return node.Clone(), nil
}

// Paths returns a copy of the container paths the importer saw.
func (m *MockImporter) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Factory wraps the mock in an importer.Factory.
func (m *MockImporter) Factory() importer.Factory {
	return func() (importer.Importer, error) {
		return m, nil
	}
}

// FailingFactory returns a factory whose construction fails with err.
func FailingFactory(err error) importer.Factory {
	return func() (importer.Importer, error) {
		return nil, err
	}
}
