// Package models holds triangle meshes: procedural carousel geometry and
// meshes decoded from GLB files.
package models

import (
	"math"

	"github.com/taigrr/carousel/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Front faces wind counter-clockwise.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on build/load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with a material group. Group indexes the material slice
// of whatever draws the mesh; a box has six groups, one per side.
type Face struct {
	V     [3]int // Indices into Mesh.Vertices
	Group int
}

// Hit is the result of a ray test against a mesh.
type Hit struct {
	Distance float64
	Point    math3d.Vec3 // world space
	Face     int
	Group    int
	UV       math3d.Vec2
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateSmoothNormals computes area-weighted per-vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		// unnormalized: longer cross product = bigger face = more weight
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Normalize recenters the mesh on the origin and scales it so its largest
// dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	largest := math.Max(dims.X, math.Max(dims.Y, dims.Z))
	if largest == 0 {
		return
	}
	s := size / largest
	center := m.Center()
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(center).Scale(s)
	}
	m.CalculateBounds()
}

// Intersect tests a world-space ray against the mesh placed by transform and
// returns the nearest hit. Faces behind the ray origin are ignored; when
// doubleSided is false, faces seen from behind are ignored too.
func (m *Mesh) Intersect(ray math3d.Ray, transform math3d.Mat4, doubleSided bool) (Hit, bool) {
	inv := transform.Inverse()
	local := ray.Transform(inv)

	if _, ok := local.IntersectAABB(m.BoundsMin, m.BoundsMax); !ok {
		return Hit{}, false
	}

	best := Hit{Distance: math.Inf(1)}
	found := false
	for i, f := range m.Faces {
		a := m.Vertices[f.V[0]]
		b := m.Vertices[f.V[1]]
		c := m.Vertices[f.V[2]]

		t, u, v, ok := local.IntersectTriangle(a.Position, b.Position, c.Position, !doubleSided)
		if !ok {
			continue
		}

		// distances must be compared in world space: transform can scale
		world := transform.MulVec3(local.At(t))
		d := world.Sub(ray.Origin).Len()
		if d >= best.Distance {
			continue
		}

		best = Hit{
			Distance: d,
			Point:    world,
			Face:     i,
			Group:    f.Group,
			UV:       a.UV.Scale(1 - u - v).Add(b.UV.Scale(u)).Add(c.UV.Scale(v)),
		}
		found = true
	}
	return best, found
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceGroup returns the material group of face i.
// Implements render.MeshRenderer.
func (m *Mesh) GetFaceGroup(i int) int {
	return m.Faces[i].Group
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer.
func (m *Mesh) GetBounds() (lo, hi math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
