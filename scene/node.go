package scene

import "github.com/0xRetroDev/mehsifai-go/types"

// Node is a named node in the materialized scene graph. A node owns all
// children it carries; subtrees are never shared between two roots.
type Node struct {
	Name        string
	Translation [3]float64
	Mesh        *Mesh
	Material    *Material
	Children    []*Node

	// Metadata records the prompt and parameters that produced this model.
	// Set exactly once on the root, on both the import and fallback paths.
	Metadata *types.GenerationMetadata

	// Source is the path of the container file the node was imported from.
	// Only populated when the materializer is configured to keep files.
	Source string
}

// NewNode returns an empty node with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Renderables returns every node in the subtree (including n itself) that
// carries a mesh, in depth-first order.
func (n *Node) Renderables() []*Node {
	var out []*Node
	n.walk(func(node *Node) {
		if node.Mesh != nil {
			out = append(out, node)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.walk(fn)
	}
}

// Clone deep-copies the subtree rooted at n. Meshes and materials are copied
// by value and the metadata record is independently re-initialized from the
// source's values, so mutating the clone never affects the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Name:        n.Name,
		Translation: n.Translation,
		Metadata:    n.Metadata.Clone(),
		Source:      n.Source,
	}
	if n.Mesh != nil {
		mesh := *n.Mesh
		clone.Mesh = &mesh
	}
	if n.Material != nil {
		mat := *n.Material
		clone.Material = &mat
	}
	for _, child := range n.Children {
		clone.AddChild(child.Clone())
	}
	return clone
}
