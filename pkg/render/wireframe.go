package render

import (
	"github.com/taigrr/carousel/pkg/math3d"
)

// Wireframe draws 3D line segments. Lines are clipped against the near plane
// in clip space and do not write depth.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a world-space segment.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	vp := w.camera.ViewProjectionMatrix()
	w.drawClip(vp.MulVec4(math3d.V4FromV3(p1, 1)), vp.MulVec4(math3d.V4FromV3(p2, 1)), color)
}

func (w *Wireframe) drawClippedTriangle(tri [3]clipVertex, color Color) {
	for i := range 3 {
		w.drawClip(tri[i].clip, tri[(i+1)%3].clip, color)
	}
}

func (w *Wireframe) drawClip(a, b math3d.Vec4, color Color) {
	if w.fb == nil {
		return
	}
	da, db := a.Z+a.W, b.Z+b.W
	if da < 0 && db < 0 {
		return
	}
	if da < 0 {
		a = a.Lerp(b, da/(da-db))
	} else if db < 0 {
		b = b.Lerp(a, db/(db-da))
	}
	if a.W <= 0 || b.W <= 0 {
		return
	}

	width, height := float64(w.fb.Width), float64(w.fb.Height)
	x0 := (a.X/a.W + 1) * 0.5 * width
	y0 := (1 - a.Y/a.W) * 0.5 * height
	x1 := (b.X/b.W + 1) * 0.5 * width
	y1 := (1 - b.Y/b.W) * 0.5 * height

	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, 0, 0, width-1, height-1)
	if !ok {
		return
	}
	w.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), color)
}

// clipLine clips a segment to the rectangle [xmin, xmax] x [ymin, ymax]
// (Liang-Barsky) so Bresenham never walks far off screen.
func clipLine(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := range 4 {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
