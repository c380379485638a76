package carousel

import (
	"math"

	"github.com/taigrr/carousel/pkg/math3d"
)

// Ring geometry.
const (
	RingRadius = 3.2
	RingHeight = -4.0
	CardWidth  = 2.0
	CardHeight = 3.0

	// CardTilt leans every card inward.
	CardTilt  = -math.Pi / 12
	tiltDrift = 0.0001
)

// FocalPoint is what every card faces, below the ring center.
var FocalPoint = math3d.V3(0, -5, 0)

// SlotAngle returns the base angle of slot i of n: slots start at -π/2 and
// are evenly spaced around the circle.
func SlotAngle(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i)/float64(n)*2*math.Pi - math.Pi/2
}

// CardPose returns the position and rotation of a card at angle, facing the
// focal point and tilted by tilt about its own X axis.
func CardPose(angle, tilt float64) (math3d.Vec3, math3d.Mat4) {
	pos := math3d.Polar(RingRadius, angle, RingHeight)
	rot := math3d.LookRotation(pos, FocalPoint, math3d.Up()).Mul(math3d.RotateX(tilt))
	return pos, rot
}

// Viewport is the pixel size of the render surface.
type Viewport struct {
	Width, Height int
}

// ScreenPosition maps a world position to viewport pixels through viewProj, clamped
// to the viewport. ok is false for points behind the camera.
func ScreenPosition(world math3d.Vec3, viewProj math3d.Mat4, vp Viewport) (x, y float64, ok bool) {
	clip := viewProj.MulVec4(math3d.V4FromV3(world, 1))
	if clip.W <= 0 || vp.Width <= 0 || vp.Height <= 0 {
		return 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(vp.Width)
	y = (1 - ndc.Y) * 0.5 * float64(vp.Height)
	x = math.Max(0, math.Min(x, float64(vp.Width-1)))
	y = math.Max(0, math.Min(y, float64(vp.Height-1)))
	return x, y, true
}

// wrapAngle keeps an accumulating angle within [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
