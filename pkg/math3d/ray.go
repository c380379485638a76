package math3d

import "math"

// rayEpsilon rejects near-parallel triangle hits and self-intersections.
const rayEpsilon = 1e-9

// Ray is a half-line from Origin along Dir. Dir is expected to be unit length
// so that hit distances are in world units.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Transform maps the ray through m. The direction is re-normalized, so
// distances returned by later tests are in the target space.
func (r Ray) Transform(m Mat4) Ray {
	return NewRay(m.MulVec3(r.Origin), m.MulVec3Dir(r.Dir))
}

// IntersectTriangle runs Möller–Trumbore against triangle (a, b, c). When
// cullBack is set, triangles whose counter-clockwise front faces away from
// the ray are skipped. It returns the hit distance and barycentric (u, v).
func (r Ray) IntersectTriangle(a, b, c Vec3, cullBack bool) (t, u, v float64, ok bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)

	if cullBack {
		if det < rayEpsilon {
			return 0, 0, 0, false
		}
	} else if math.Abs(det) < rayEpsilon {
		return 0, 0, 0, false
	}

	inv := 1 / det
	s := r.Origin.Sub(a)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = e2.Dot(q) * inv
	if t <= rayEpsilon {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// IntersectAABB returns the entry distance into the box [lo, hi] using the
// slab method. A ray starting inside the box reports t = 0.
func (r Ray) IntersectAABB(lo, hi Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	l := [3]float64{lo.X, lo.Y, lo.Z}
	h := [3]float64{hi.X, hi.Y, hi.Z}

	for i := range 3 {
		if math.Abs(d[i]) < rayEpsilon {
			if o[i] < l[i] || o[i] > h[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t0 := (l[i] - o[i]) * inv
		t1 := (h[i] - o[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = math.Max(tmin, t0)
		tmax = math.Min(tmax, t1)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// IntersectSphere returns the nearest non-negative hit distance against a
// sphere. A ray starting inside the sphere hits the far wall.
func (r Ray) IntersectSphere(center Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.LenSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
