package render

import (
	"math"

	"github.com/taigrr/carousel/pkg/math3d"
)

// LightKind identifies the kind of light source.
type LightKind int

const (
	// LightAmbient lights every surface evenly.
	LightAmbient LightKind = iota
	// LightDirectional has no position, only a direction, like the sun.
	LightDirectional
	// LightPoint emits in all directions from Position and fades out by Range.
	LightPoint
)

// Light is a scene light. Direction points from the light toward the scene
// and is only used by directional lights.
type Light struct {
	Name      string
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  math3d.Vec3
	Direction math3d.Vec3
	Range     float64 // point lights; 0 means no falloff
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(c Color, intensity float64) *Light {
	return &Light{Name: "ambient", Kind: LightAmbient, Color: c, Intensity: intensity}
}

// NewDirectionalLight creates a directional light shining from position
// toward the origin, the way a positioned sun light is usually specified.
func NewDirectionalLight(c Color, intensity float64, from math3d.Vec3) *Light {
	return &Light{
		Name:      "directional",
		Kind:      LightDirectional,
		Color:     c,
		Intensity: intensity,
		Direction: from.Negate().Normalize(),
	}
}

// NewPointLight creates a point light.
func NewPointLight(name string, c Color, intensity float64, pos math3d.Vec3, rng float64) *Light {
	return &Light{Name: name, Kind: LightPoint, Color: c, Intensity: intensity, Position: pos, Range: rng}
}

// rgb is a linear color accumulator.
type rgb struct{ r, g, b float64 }

func (c rgb) add(o rgb) rgb { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }

func colorToRGB(c Color, scale float64) rgb {
	return rgb{float64(c.R) / 255 * scale, float64(c.G) / 255 * scale, float64(c.B) / 255 * scale}
}

// irradiance sums the light reaching a surface point with the given world
// normal.
func irradiance(lights []*Light, pos, normal math3d.Vec3) rgb {
	var sum rgb
	for _, l := range lights {
		switch l.Kind {
		case LightAmbient:
			sum = sum.add(colorToRGB(l.Color, l.Intensity))
		case LightDirectional:
			ndl := math.Max(0, normal.Dot(l.Direction.Negate()))
			sum = sum.add(colorToRGB(l.Color, l.Intensity*ndl))
		case LightPoint:
			toLight := l.Position.Sub(pos)
			dist := toLight.Len()
			if dist == 0 {
				continue
			}
			ndl := math.Max(0, normal.Dot(toLight.Scale(1/dist)))
			atten := 1.0
			if l.Range > 0 {
				atten = math.Max(0, 1-dist/l.Range)
				atten *= atten
			}
			sum = sum.add(colorToRGB(l.Color, l.Intensity*ndl*atten))
		}
	}
	return sum
}

// shade applies accumulated light to a color.
func shade(c Color, light rgb) Color {
	return Color{
		R: uint8(math.Min(255, float64(c.R)*light.r)),
		G: uint8(math.Min(255, float64(c.G)*light.g)),
		B: uint8(math.Min(255, float64(c.B)*light.b)),
		A: c.A,
	}
}
