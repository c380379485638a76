package render

// Side selects which triangle faces a material draws and picks.
type Side int

const (
	SideFront  Side = iota // counter-clockwise faces only
	SideBack               // clockwise faces only, e.g. the inside of a sky dome
	SideDouble             // both
)

// Shading selects how a material is lit.
type Shading int

const (
	ShadingUnlit     Shading = iota // color * map, lights ignored
	ShadingLambert                  // color * map * (ambient + diffuse)
	ShadingWireframe                // triangle edges in Color
)

// Material describes how a node's triangles are drawn.
type Material struct {
	Name    string
	Shading Shading
	Color   Color
	Map     *Texture // optional
	Side    Side
}

// NewBasicMaterial returns an unlit material.
func NewBasicMaterial(c Color, tex *Texture) *Material {
	return &Material{Shading: ShadingUnlit, Color: c, Map: tex}
}

// NewLambertMaterial returns a lit material.
func NewLambertMaterial(c Color, tex *Texture) *Material {
	return &Material{Shading: ShadingLambert, Color: c, Map: tex}
}

// NewWireframeMaterial returns an edge-only material.
func NewWireframeMaterial(c Color) *Material {
	return &Material{Shading: ShadingWireframe, Color: c, Side: SideDouble}
}

// WithSide returns m after setting its side. Handy in constructor chains.
func (m *Material) WithSide(s Side) *Material {
	m.Side = s
	return m
}

// albedo returns the unlit surface color at (u, v).
func (m *Material) albedo(u, v float64) Color {
	if m.Map == nil {
		return m.Color
	}
	return ModulateColor(m.Map.Sample(u, v), m.Color)
}
