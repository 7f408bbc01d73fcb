package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/0xRetroDev/mehsifai-go/scene"
)

// GLTF imports glTF/GLB containers. Binary decoding is owned entirely by the
// external parser; this adapter only maps the document's node hierarchy,
// bounding volumes, and material references onto scene nodes.
type GLTF struct {
	logger *zap.Logger
}

// NewGLTF creates a glTF importer.
func NewGLTF(logger *zap.Logger) *GLTF {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &GLTF{logger: logger.With(zap.String("component", "importer"))}
}

// GLTFFactory returns a Factory producing fresh glTF importers.
func GLTFFactory(logger *zap.Logger) Factory {
	return func() (Importer, error) {
		return NewGLTF(logger), nil
	}
}

// Import decodes the container at path. Fails when the file cannot be parsed
// or yields no renderable nodes; the caller decides whether that degrades to
// a placeholder.
func (g *GLTF) Import(ctx context.Context, path string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	root := scene.NewNode(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	var rootIndices []uint32
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		rootIndices = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		rootIndices = doc.Scenes[0].Nodes
	default:
		for i := range doc.Nodes {
			rootIndices = append(rootIndices, uint32(i))
		}
	}

	for _, idx := range rootIndices {
		child, err := g.buildNode(doc, idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}

	if len(root.Renderables()) == 0 {
		return nil, errors.New("container has no renderable nodes")
	}

	g.logger.Debug("container imported",
		zap.String("path", path),
		zap.Int("renderables", len(root.Renderables())),
	)
	return root, nil
}

func (g *GLTF) buildNode(doc *gltf.Document, idx uint32) (*scene.Node, error) {
	if int(idx) >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	src := doc.Nodes[idx]

	node := scene.NewNode(src.Name)
	if node.Name == "" {
		node.Name = fmt.Sprintf("node-%d", idx)
	}
	node.Translation = [3]float64{
		float64(src.Translation[0]),
		float64(src.Translation[1]),
		float64(src.Translation[2]),
	}

	if src.Mesh != nil && int(*src.Mesh) < len(doc.Meshes) {
		mesh, material := g.buildMesh(doc, *src.Mesh)
		node.Mesh = mesh
		node.Material = material
	}

	for _, childIdx := range src.Children {
		child, err := g.buildNode(doc, childIdx)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

// buildMesh folds a glTF mesh into the single bounding volume the pipeline
// needs, taking extents from the POSITION accessor min/max that the format
// requires exporters to populate.
func (g *GLTF) buildMesh(doc *gltf.Document, idx uint32) (*scene.Mesh, *scene.Material) {
	src := doc.Meshes[idx]

	mesh := &scene.Mesh{
		Name:           src.Name,
		PrimitiveCount: len(src.Primitives),
	}
	var material *scene.Material

	haveBounds := false
	for _, prim := range src.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if ok && int(posIdx) < len(doc.Accessors) {
			acc := doc.Accessors[posIdx]
			if len(acc.Min) == 3 && len(acc.Max) == 3 {
				b := scene.Bounds{
					Min: [3]float64{float64(acc.Min[0]), float64(acc.Min[1]), float64(acc.Min[2])},
					Max: [3]float64{float64(acc.Max[0]), float64(acc.Max[1]), float64(acc.Max[2])},
				}
				if !haveBounds {
					mesh.Bounds = b
					haveBounds = true
				} else {
					mesh.Bounds = mesh.Bounds.Union(b)
				}
			}
		}

		if material == nil && prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
			material = g.buildMaterial(doc.Materials[*prim.Material])
		}
	}
	return mesh, material
}

func (g *GLTF) buildMaterial(src *gltf.Material) *scene.Material {
	m := &scene.Material{Name: src.Name, BaseColor: [4]float64{1, 1, 1, 1}}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		factor := *pbr.BaseColorFactor
		m.BaseColor = [4]float64{
			float64(factor[0]),
			float64(factor[1]),
			float64(factor[2]),
			float64(factor[3]),
		}
	}
	return m
}
