// Package importer defines the model-import capability used during
// materialization, plus a glTF adapter backed by github.com/qmuntal/gltf.
// The pipeline depends only on the boolean-success contract: given a path to
// a container file, an Importer either produces a scene node tree or fails.
package importer

import (
	"context"

	"github.com/0xRetroDev/mehsifai-go/scene"
)

// Importer decodes a persisted model container into a scene node tree.
type Importer interface {
	Import(ctx context.Context, path string) (*scene.Node, error)
}

// Factory constructs a fresh Importer. Every materialization builds its own
// instance, so implementations need not be safe for concurrent reuse.
type Factory func() (Importer, error)
