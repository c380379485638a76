package render

import (
	"math"

	"github.com/taigrr/carousel/pkg/math3d"
)

// Camera is a perspective camera aimed at a fixed target point.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	invViewProj    math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
	invDirty       bool
}

// NewCamera creates a camera with a 75 degree vertical field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 10),
		FOV:         75 * math.Pi / 180,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
		invDirty:    true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.invalidate(true, false)
}

// LookAt aims the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.invalidate(true, false)
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect <= 0 {
		return
	}
	c.AspectRatio = aspect
	c.invalidate(false, true)
}

func (c *Camera) invalidate(view, proj bool) {
	c.viewDirty = c.viewDirty || view
	c.projDirty = c.projDirty || proj
	c.vpDirty = true
	c.invDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.up())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// up picks a world up that is not parallel to the view direction.
func (c *Camera) up() math3d.Vec3 {
	f := c.Forward()
	if math.Abs(f.Dot(math3d.Up())) > 0.999 {
		return math3d.V3(0, 0, -1)
	}
	return math3d.Up()
}

// RayFromNDC returns the world-space picking ray through normalized device
// coordinates (x right, y up, both in [-1, 1]).
func (c *Camera) RayFromNDC(x, y float64) math3d.Ray {
	vp := c.ViewProjectionMatrix()
	if c.invDirty {
		c.invViewProj = vp.Inverse()
		c.invDirty = false
	}
	near := c.invViewProj.MulVec3(math3d.V3(x, y, -1))
	far := c.invViewProj.MulVec3(math3d.V3(x, y, 1))
	return math3d.NewRay(c.Position, far.Sub(near))
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}

// PixelToNDC converts a framebuffer position to normalized device coordinates.
func PixelToNDC(px, py float64, width, height int) (x, y float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return px/float64(width)*2 - 1, -(py/float64(height))*2 + 1
}
