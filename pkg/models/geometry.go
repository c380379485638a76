package models

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/carousel/pkg/math3d"
)

// Box face groups, in material order.
const (
	GroupRight = iota
	GroupLeft
	GroupTop
	GroupBottom
	GroupFront
	GroupBack
)

// NewPlane builds a width x height quad in the XY plane facing +Z, UV (0,0)
// at the bottom-left corner.
func NewPlane(width, height float64) *Mesh {
	hw, hh := width/2, height/2
	n := math3d.V3(0, 0, 1)
	m := NewMesh("plane")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(-hw, -hh, 0), Normal: n, UV: math3d.V2(0, 0)},
		{Position: math3d.V3(hw, -hh, 0), Normal: n, UV: math3d.V2(1, 0)},
		{Position: math3d.V3(hw, hh, 0), Normal: n, UV: math3d.V2(1, 1)},
		{Position: math3d.V3(-hw, hh, 0), Normal: n, UV: math3d.V2(0, 1)},
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 2, 3}},
	}
	m.CalculateBounds()
	return m
}

// NewBox builds an axis-aligned cube of the given side with one face group
// per side (GroupRight..GroupBack) so each side can carry its own texture.
func NewBox(size float64) *Mesh {
	h := size / 2
	m := NewMesh("box")

	// normal, then the in-plane axes mapping UV u and v
	sides := [6]struct{ n, u, v math3d.Vec3 }{
		GroupRight:  {math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0)},
		GroupLeft:   {math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)},
		GroupTop:    {math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
		GroupBottom: {math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},
		GroupFront:  {math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		GroupBack:   {math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0)},
	}

	for g, s := range sides {
		base := len(m.Vertices)
		center := s.n.Scale(h)
		corners := [4]struct{ du, dv float64 }{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := center.Add(s.u.Scale(c.du * h)).Add(s.v.Scale(c.dv * h))
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: p,
				Normal:   s.n,
				UV:       math3d.V2((c.du+1)/2, (c.dv+1)/2),
			})
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}, Group: g},
			Face{V: [3]int{base, base + 2, base + 3}, Group: g},
		)
	}
	m.CalculateBounds()
	return m
}

// NewSphere builds a UV sphere with outward-facing triangles. Seen from inside
// every face is a back face, so a sky dome draws it with back-face rendering.
func NewSphere(radius float64, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	m := NewMesh("sphere")

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			n := math3d.V3(
				-math.Cos(phi)*math.Sin(theta),
				math.Cos(theta),
				math.Sin(phi)*math.Sin(theta),
			)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: n.Scale(radius),
				Normal:   n,
				UV:       math3d.V2(u, 1-v),
			})
		}
	}

	row := widthSegments + 1
	for iy := range heightSegments {
		for ix := range widthSegments {
			a := iy*row + ix + 1
			b := iy*row + ix
			c := (iy+1)*row + ix
			d := (iy+1)*row + ix + 1
			if iy != 0 {
				m.Faces = append(m.Faces, Face{V: [3]int{a, b, d}})
			}
			if iy != heightSegments-1 {
				m.Faces = append(m.Faces, Face{V: [3]int{b, c, d}})
			}
		}
	}
	m.CalculateBounds()
	return m
}

// NewRock builds a lumpy low-poly sphere. The same seed always yields the
// same rock.
func NewRock(radius float64, seed uint64) *Mesh {
	m := NewSphere(radius, 6, 4)
	m.Name = "rock"
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// seam and pole vertices share a position, so jitter per position
	offsets := make(map[[3]int64]float64)
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		key := [3]int64{
			int64(math.Round(p.X * 1e6)),
			int64(math.Round(p.Y * 1e6)),
			int64(math.Round(p.Z * 1e6)),
		}
		k, ok := offsets[key]
		if !ok {
			k = 0.75 + rng.Float64()*0.5
			offsets[key] = k
		}
		m.Vertices[i].Position = p.Scale(k)
	}
	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}

// NewBird builds a small bird: a thin body along +Z with two wings whose tips
// sit above the body. Scaling the mesh on Y flaps the wings.
func NewBird(span float64) *Mesh {
	h := span / 2
	m := NewMesh("bird")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, h*0.8)},      // 0 beak
		{Position: math3d.V3(0, 0, -h*0.6)},     // 1 tail
		{Position: math3d.V3(-h, h*0.4, 0)},     // 2 left tip
		{Position: math3d.V3(h, h*0.4, 0)},      // 3 right tip
		{Position: math3d.V3(0, -h*0.1, 0)},     // 4 belly
		{Position: math3d.V3(0, h*0.05, h*0.2)}, // 5 shoulder
	}
	m.Faces = []Face{
		{V: [3]int{5, 2, 1}}, // left wing
		{V: [3]int{5, 1, 3}}, // right wing
		{V: [3]int{0, 4, 1}}, // keel
		{V: [3]int{0, 1, 5}},
	}
	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}
