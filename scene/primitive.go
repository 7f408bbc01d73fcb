package scene

// PlaceholderCube builds the deterministic fallback model: a unit cube under
// a single root node, already centered on the origin and carrying the default
// material. Returned whenever the real payload cannot be imported.
func PlaceholderCube(name string) *Node {
	root := NewNode(name)
	cube := NewNode(name + "-placeholder")
	cube.Mesh = &Mesh{
		Name: "placeholder-cube",
		Bounds: Bounds{
			Min: [3]float64{-0.5, -0.5, -0.5},
			Max: [3]float64{0.5, 0.5, 0.5},
		},
		PrimitiveCount: 1,
	}
	cube.Material = DefaultMaterial()
	root.AddChild(cube)
	return root
}
