package scene

import (
	"errors"
	"math"
)

// ErrNoRenderables is returned by bounds operations on a subtree that
// carries no meshes.
var ErrNoRenderables = errors.New("scene: subtree has no renderable nodes")

// Bounds is an axis-aligned bounding box in the owning node's local space.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() [3]float64 {
	return [3]float64{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// Union returns the smallest box enclosing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	var out Bounds
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Min(b.Min[i], other.Min[i])
		out.Max[i] = math.Max(b.Max[i], other.Max[i])
	}
	return out
}

// Offset returns the box translated by t.
func (b Bounds) Offset(t [3]float64) Bounds {
	var out Bounds
	for i := 0; i < 3; i++ {
		out.Min[i] = b.Min[i] + t[i]
		out.Max[i] = b.Max[i] + t[i]
	}
	return out
}

// Mesh is the renderable payload of a node. Vertex data stays inside the
// importer's domain; the pipeline only needs the bounding volume.
type Mesh struct {
	Name           string
	Bounds         Bounds
	PrimitiveCount int
}

// Material is a material reference carried by a renderable node.
type Material struct {
	Name      string
	BaseColor [4]float64
}

// DefaultMaterial returns the shared uniform flat-white material applied when
// the importer's own materials cannot be trusted to render correctly.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "mehsifai-default",
		BaseColor: [4]float64{1, 1, 1, 1},
	}
}

// CombinedBounds computes the union of all renderable bounds in the subtree,
// expressed in root's local space. Node translations accumulate down the
// tree; rotations and scales are not modeled.
func CombinedBounds(root *Node) (Bounds, error) {
	var combined Bounds
	found := false
	accumulate(root, [3]float64{}, func(n *Node, offset [3]float64) {
		if n.Mesh == nil {
			return
		}
		b := n.Mesh.Bounds.Offset(offset)
		if !found {
			combined = b
			found = true
			return
		}
		combined = combined.Union(b)
	})
	if !found {
		return Bounds{}, ErrNoRenderables
	}
	return combined, nil
}

func accumulate(n *Node, offset [3]float64, fn func(*Node, [3]float64)) {
	for i := 0; i < 3; i++ {
		offset[i] += n.Translation[i]
	}
	fn(n, offset)
	for _, child := range n.Children {
		accumulate(child, offset, fn)
	}
}

// CenterOnOrigin translates root's children so the combined renderable volume
// is centered on root's local origin. Fails with ErrNoRenderables when there
// is nothing to center.
func CenterOnOrigin(root *Node) error {
	combined, err := CombinedBounds(root)
	if err != nil {
		return err
	}
	center := combined.Center()
	// A mesh on the root itself cannot be re-parented, shift the whole
	// subtree through the root's translation instead; children inherit it.
	if root.Mesh != nil {
		for i := 0; i < 3; i++ {
			root.Translation[i] -= center[i]
		}
		return nil
	}
	for _, child := range root.Children {
		for i := 0; i < 3; i++ {
			child.Translation[i] -= center[i]
		}
	}
	return nil
}

// ApplyMaterial replaces the material reference of every renderable node in
// the subtree with the single shared material m.
func ApplyMaterial(root *Node, m *Material) {
	for _, n := range root.Renderables() {
		n.Material = m
	}
}
