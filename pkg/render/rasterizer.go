// Package render is a software renderer for terminal output: a z-buffered
// triangle rasterizer, wireframe and point drawing, an image post pass, and
// half-block output onto an ultraviolet screen.
package render

import (
	"math"

	"github.com/taigrr/carousel/pkg/math3d"
)

// MeshRenderer is the view of a mesh the rasterizer needs. models.Mesh
// implements it; keeping it an interface keeps render free of model loading.
type MeshRenderer interface {
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
	GetFaceGroup(i int) int
}

// BoundedMeshRenderer extends MeshRenderer with bounds for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (lo, hi math3d.Vec3)
}

// Stats counts work done by the last Render call.
type Stats struct {
	NodesDrawn  int
	NodesCulled int
	Triangles   int
	Points      int
}

// Rasterizer draws scenes into a framebuffer through a camera.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // row-major, NDC depth
	wire    *Wireframe
	Stats   Stats
}

// NewRasterizer creates a rasterizer bound to camera and fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera}
	r.SetTarget(fb)
	return r
}

// SetTarget switches the output framebuffer, resizing the depth buffer.
func (r *Rasterizer) SetTarget(fb *Framebuffer) {
	r.fb = fb
	r.wire = NewWireframe(r.camera, fb)
	if fb == nil {
		r.zbuffer = nil
		return
	}
	if n := fb.Width * fb.Height; cap(r.zbuffer) >= n {
		r.zbuffer = r.zbuffer[:n]
	} else {
		r.zbuffer = make([]float64, n)
	}
}

// Target returns the current framebuffer.
func (r *Rasterizer) Target() *Framebuffer {
	return r.fb
}

// ClearDepth resets the z-buffer to the far value.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	// copy-doubling
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// Render clears the target to the scene background and draws every visible
// node, then lines, then points.
func (r *Rasterizer) Render(s *Scene) {
	r.Stats = Stats{}
	if r.fb == nil || r.fb.Width == 0 || r.fb.Height == 0 {
		return
	}
	r.fb.Clear(s.Background)
	r.ClearDepth()

	frustum := r.camera.Frustum()
	for _, n := range s.Nodes {
		if !n.Visible || n.Mesh == nil {
			continue
		}
		transform := n.Transform()
		if b, ok := n.Mesh.(BoundedMeshRenderer); ok {
			lo, hi := b.GetBounds()
			if !frustum.IntersectAABB(AABB{Min: lo, Max: hi}.Transform(transform)) {
				r.Stats.NodesCulled++
				continue
			}
		}
		r.Stats.NodesDrawn++
		r.drawNode(n, transform, s.Lights)
	}

	for _, l := range s.Lines {
		r.wire.DrawLine3D(l.A, l.B, l.Color)
	}
	for _, p := range s.Points {
		r.drawPoint(p)
	}
}

// clipVertex carries everything interpolated through near-plane clipping.
type clipVertex struct {
	clip   math3d.Vec4
	world  math3d.Vec3
	normal math3d.Vec3
	uv     math3d.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float64) clipVertex {
	return clipVertex{
		clip:   a.clip.Lerp(b.clip, t),
		world:  a.world.Lerp(b.world, t),
		normal: a.normal.Lerp(b.normal, t),
		uv:     a.uv.Lerp(b.uv, t),
	}
}

// screenVertex holds a vertex transformed to screen space. Attributes that
// need perspective correction are stored pre-divided by w.
type screenVertex struct {
	X, Y  float64
	Z     float64 // NDC depth
	InvW  float64
	UVw   math3d.Vec2
	Light rgb // pre-divided by w
}

func (r *Rasterizer) drawNode(n *Node, transform math3d.Mat4, lights []*Light) {
	mesh := n.Mesh
	viewProj := r.camera.ViewProjectionMatrix()
	normalMat := transform.Inverse().Transpose()

	for i := range mesh.TriangleCount() {
		mat := n.Material(mesh.GetFaceGroup(i))
		if mat == nil {
			continue
		}
		face := mesh.GetFace(i)

		var tri [3]clipVertex
		for k := range 3 {
			pos, nrm, uv := mesh.GetVertex(face[k])
			world := transform.MulVec3(pos)
			tri[k] = clipVertex{
				clip:   viewProj.MulVec4(math3d.V4FromV3(world, 1)),
				world:  world,
				normal: normalMat.MulVec3Dir(nrm).Normalize(),
				uv:     uv,
			}
		}

		if mat.Shading == ShadingWireframe {
			r.wire.drawClippedTriangle(tri, mat.Color)
			continue
		}
		r.Stats.Triangles++
		r.drawTriangle(tri, mat, lights)
	}
}

// nearClip clips a triangle against z >= -w and returns the resulting convex
// polygon (0, 3 or 4 vertices).
func nearClip(tri [3]clipVertex) []clipVertex {
	out := make([]clipVertex, 0, 4)
	for i := range 3 {
		a, b := tri[i], tri[(i+1)%3]
		da := a.clip.Z + a.clip.W
		db := b.clip.Z + b.clip.W
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, a.lerp(b, da/(da-db)))
		}
	}
	return out
}

func (r *Rasterizer) toScreen(v clipVertex) screenVertex {
	invW := 1 / v.clip.W
	return screenVertex{
		X:    (v.clip.X*invW + 1) * 0.5 * float64(r.fb.Width),
		Y:    (1 - v.clip.Y*invW) * 0.5 * float64(r.fb.Height),
		Z:    v.clip.Z * invW,
		InvW: invW,
		UVw:  v.uv.Scale(invW),
	}
}

func (r *Rasterizer) drawTriangle(tri [3]clipVertex, mat *Material, lights []*Light) {
	poly := nearClip(tri)
	if len(poly) < 3 {
		return
	}

	sv := make([]screenVertex, len(poly))
	for i, v := range poly {
		sv[i] = r.toScreen(v)
	}

	// counter-clockwise in world space is clockwise on a y-down screen
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	front := cross < 0
	switch mat.Side {
	case SideFront:
		if !front {
			return
		}
	case SideBack:
		if front {
			return
		}
	}

	if mat.Shading == ShadingLambert {
		for i, v := range poly {
			nrm := v.normal
			if !front {
				nrm = nrm.Negate()
			}
			l := irradiance(lights, v.world, nrm)
			sv[i].Light = rgb{l.r * sv[i].InvW, l.g * sv[i].InvW, l.b * sv[i].InvW}
		}
	}

	for i := 1; i+1 < len(sv); i++ {
		r.fillTriangle(sv[0], sv[i], sv[i+1], mat)
	}
}

// edgeCoeffs returns A, B, C for edge(x, y) = A*x + B*y + C, positive on the
// left of the edge from (x0, y0) to (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// fillTriangle scans the bounding box with incrementally stepped edge
// functions and writes depth-tested, perspective-correct pixels.
func (r *Rasterizer) fillTriangle(v0, v1, v2 screenVertex, mat *Material) {
	area := (v1.X-v0.X)*(v2.Y-v0.Y) - (v1.Y-v0.Y)*(v2.X-v0.X)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	w, h := r.fb.Width, r.fb.Height
	minX := int(math.Max(0, math.Floor(min(v0.X, v1.X, v2.X))))
	maxX := int(math.Min(float64(w-1), math.Ceil(max(v0.X, v1.X, v2.X))))
	minY := int(math.Max(0, math.Floor(min(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Min(float64(h-1), math.Ceil(max(v0.Y, v1.Y, v2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	A0, B0, C0 := edgeCoeffs(v1.X, v1.Y, v2.X, v2.Y)
	A1, B1, C1 := edgeCoeffs(v2.X, v2.Y, v0.X, v0.Y)
	A2, B2, C2 := edgeCoeffs(v0.X, v0.Y, v1.X, v1.Y)
	invArea := 1 / area

	px, py := float64(minX)+0.5, float64(minY)+0.5
	e0Row := A0*px + B0*py + C0
	e1Row := A1*px + B1*py + C1
	e2Row := A2*px + B2*py + C2

	lit := mat.Shading == ShadingLambert
	for y := minY; y <= maxY; y++ {
		e0, e1, e2 := e0Row, e1Row, e2Row
		row := y * w
		for x := minX; x <= maxX; x++ {
			if e0 >= 0 && e1 >= 0 && e2 >= 0 {
				b0, b1, b2 := e0*invArea, e1*invArea, e2*invArea
				z := b0*v0.Z + b1*v1.Z + b2*v2.Z
				idx := row + x
				if z < r.zbuffer[idx] && z >= -1 {
					oneOverW := b0*v0.InvW + b1*v1.InvW + b2*v2.InvW
					u := (b0*v0.UVw.X + b1*v1.UVw.X + b2*v2.UVw.X) / oneOverW
					v := (b0*v0.UVw.Y + b1*v1.UVw.Y + b2*v2.UVw.Y) / oneOverW
					c := mat.albedo(u, v)
					if lit {
						c = shade(c, rgb{
							(b0*v0.Light.r + b1*v1.Light.r + b2*v2.Light.r) / oneOverW,
							(b0*v0.Light.g + b1*v1.Light.g + b2*v2.Light.g) / oneOverW,
							(b0*v0.Light.b + b1*v1.Light.b + b2*v2.Light.b) / oneOverW,
						})
					}
					r.zbuffer[idx] = z
					r.fb.Pixels[idx] = c
				}
			}
			e0 += A0
			e1 += A1
			e2 += A2
		}
		e0Row += B0
		e1Row += B1
		e2Row += B2
	}
}

func (r *Rasterizer) drawPoint(p Point) {
	x, y, depth, ok := r.camera.WorldToScreen(p.Position, r.fb.Width, r.fb.Height)
	if !ok || p.Opacity <= 0 {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= r.fb.Width || iy < 0 || iy >= r.fb.Height {
		return
	}
	if depth >= r.zbuffer[iy*r.fb.Width+ix] {
		return
	}
	r.Stats.Points++
	r.fb.BlendPixel(ix, iy, p.Color, p.Opacity)
}
