package render

import (
	"slices"

	"github.com/taigrr/carousel/pkg/math3d"
)

// Node places a mesh in the world. Materials are indexed by face group; a
// group past the end of the slice uses the last material.
type Node struct {
	Name      string
	Mesh      MeshRenderer
	Materials []*Material
	Position  math3d.Vec3
	Rotation  math3d.Mat4
	Scale     math3d.Vec3
	Visible   bool
}

// NewNode creates a visible node at the origin with unit scale.
func NewNode(name string, mesh MeshRenderer, mats ...*Material) *Node {
	return &Node{
		Name:      name,
		Mesh:      mesh,
		Materials: mats,
		Rotation:  math3d.Identity(),
		Scale:     math3d.V3(1, 1, 1),
		Visible:   true,
	}
}

// Transform returns the node's world matrix.
func (n *Node) Transform() math3d.Mat4 {
	return math3d.Compose(n.Position, n.Rotation, n.Scale)
}

// Material returns the material for a face group, or nil if the node has none.
func (n *Node) Material(group int) *Material {
	if len(n.Materials) == 0 {
		return nil
	}
	if group < 0 || group >= len(n.Materials) {
		return n.Materials[len(n.Materials)-1]
	}
	return n.Materials[group]
}

// SetMaterials replaces every material slot.
func (n *Node) SetMaterials(mats ...*Material) {
	n.Materials = mats
}

// Point is a single screen-aligned dot, drawn after meshes with depth test
// and alpha blending.
type Point struct {
	Position math3d.Vec3
	Color    Color
	Opacity  float64
}

// Line is a world-space segment drawn over the meshes.
type Line struct {
	A, B  math3d.Vec3
	Color Color
}

// Scene is everything one frame draws: a clear color, mesh nodes, lights,
// lines and points. It has no hierarchy; nodes are placed directly in world
// space.
type Scene struct {
	Background Color
	Nodes      []*Node
	Lights     []*Light
	Lines      []Line
	Points     []Point
}

// NewScene creates an empty scene.
func NewScene(bg Color) *Scene {
	return &Scene{Background: bg}
}

// Add appends nodes.
func (s *Scene) Add(nodes ...*Node) {
	s.Nodes = append(s.Nodes, nodes...)
}

// AddLight appends a light.
func (s *Scene) AddLight(l *Light) {
	s.Lights = append(s.Lights, l)
}

// RemoveLight removes l and reports whether it was present.
func (s *Scene) RemoveLight(l *Light) bool {
	i := slices.Index(s.Lights, l)
	if i < 0 {
		return false
	}
	s.Lights = slices.Delete(s.Lights, i, i+1)
	return true
}

// LightCount returns the number of lights of the given kind.
func (s *Scene) LightCount(kind LightKind) int {
	n := 0
	for _, l := range s.Lights {
		if l.Kind == kind {
			n++
		}
	}
	return n
}
