package carousel

import (
	"fmt"

	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/render"
	"github.com/taigrr/carousel/pkg/ui"
)

// Mode is the visual style of the scene.
type Mode int

const (
	ModeDefault Mode = iota // unlit textures on a neutral sky
	ModeRetro               // green wireframe, birds, coordinate labels
	ModeShaded              // lit textures, sky image, rocks, particle rings, toon post pass
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeRetro:
		return "retro"
	case ModeShaded:
		return "shaded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Next returns the mode after m in the cycle.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// Mode colors.
var (
	ClearDefault = render.Hex(0xe0e0e0)
	ClearRetro   = render.Hex(0x000000)
	ClearShaded  = render.Hex(0x101828)
	RetroGreen   = render.Hex(0x00ff80)
	particleTint = render.Hex(0xffd27f)
)

// modeHooks holds the enter and exit actions of one mode. exit undoes only
// what enter added on top of the shared baseline; enter sets every attribute
// it owns.
type modeHooks struct {
	enter func(c *Controller)
	exit  func(c *Controller)
}

var modeTable = [modeCount]modeHooks{
	ModeDefault: {enter: enterDefault, exit: func(*Controller) {}},
	ModeRetro:   {enter: enterRetro, exit: exitRetro},
	ModeShaded:  {enter: enterShaded, exit: exitShaded},
}

// AdvanceMode leaves the current mode and enters the next one. Before Build
// there is nothing to restyle and the mode stays put.
func (c *Controller) AdvanceMode() Mode {
	if !c.built {
		c.logger.Debug("mode change before build ignored")
		return c.mode
	}
	return c.setMode(c.mode.Next())
}

func (c *Controller) setMode(next Mode) Mode {
	prev := c.mode
	modeTable[prev].exit(c)
	c.mode = next
	modeTable[next].enter(c)
	c.logger.Info("mode changed", "from", prev, "to", next)
	return next
}

// applySurfaces puts the mode m materials on every card and the body.
func (c *Controller) applySurfaces(m Mode) {
	for _, card := range c.cards {
		card.Node.SetMaterials(card.materials[m])
	}
	c.body.Node.SetMaterials(c.body.materials[m]...)
}

func enterDefault(c *Controller) {
	c.applySurfaces(ModeDefault)
	c.sky.Node.SetMaterials(c.sky.solid)
	c.sky.solid.Color = ClearDefault
	c.setAgents(false, false)
	c.setLabelsForMode(false)
	c.scene.Background = ClearDefault
	c.postEnabled = false
}

func enterRetro(c *Controller) {
	c.applySurfaces(ModeRetro)
	c.sky.Node.SetMaterials(c.sky.solid)
	c.sky.solid.Color = ClearRetro
	c.birdMat.Color = RetroGreen
	c.setAgents(true, false)
	c.setLabelsForMode(true)
	c.scene.Background = ClearRetro
	c.postEnabled = false
}

func exitRetro(c *Controller) {
	c.setAgents(false, false)
	c.setLabelsForMode(false)
}

func enterShaded(c *Controller) {
	c.applySurfaces(ModeShaded)
	c.sky.Node.SetMaterials(c.sky.textured)
	c.setAgents(false, true)
	c.setLabelsForMode(false)
	for _, l := range c.modeLights {
		c.scene.AddLight(l)
	}
	c.scene.Background = ClearShaded
	c.postEnabled = true
}

func exitShaded(c *Controller) {
	for _, l := range c.modeLights {
		c.scene.RemoveLight(l)
	}
	c.setAgents(false, false)
	c.particles.Reset()
	c.postEnabled = false
}

// setAgents shows or hides the birds and the rocks with their particles.
func (c *Controller) setAgents(birds, rocks bool) {
	for _, b := range c.birds {
		b.Node.Visible = birds
	}
	for _, r := range c.rocks {
		r.Node.Visible = rocks
	}
	c.particlesOn = rocks
}

// newModeLights returns the point light rig of the shaded mode.
func newModeLights() []*render.Light {
	return []*render.Light{
		render.NewPointLight("key", render.Hex(0xffb070), 1.4, math3d.V3(4, 0, 4), 20),
		render.NewPointLight("rim", render.Hex(0x70a0ff), 1.0, math3d.V3(-4, -2, -4), 20),
	}
}

// Snapshot is the mode-controlled state of the scene.
type Snapshot struct {
	Mode          Mode
	Clear         render.Color
	Lights        int
	PointLights   int
	CardShading   []render.Shading
	CardMaterials []*render.Material
	BodyMaterials []*render.Material
	SkyMaterial   *render.Material
	SkyColor      render.Color
	BirdsVisible  int
	RocksVisible  int
	Particles     bool
	LabelsShown   int
	Post          bool
}

// Snapshot captures the current mode-controlled state.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Mode:        c.mode,
		Clear:       c.scene.Background,
		Lights:      len(c.scene.Lights),
		PointLights: c.scene.LightCount(render.LightPoint),
		Particles:   c.particlesOn,
		Post:        c.postEnabled,
	}
	for _, card := range c.cards {
		m := card.Node.Material(0)
		s.CardMaterials = append(s.CardMaterials, m)
		s.CardShading = append(s.CardShading, m.Shading)
	}
	if c.body != nil {
		s.BodyMaterials = append(s.BodyMaterials, c.body.Node.Materials...)
	}
	if c.sky != nil {
		s.SkyMaterial = c.sky.Node.Material(0)
		s.SkyColor = s.SkyMaterial.Color
	}
	for _, b := range c.birds {
		if b.Node.Visible {
			s.BirdsVisible++
		}
	}
	for _, r := range c.rocks {
		if r.Node.Visible {
			s.RocksVisible++
		}
	}
	for _, l := range c.labels {
		if l.Element.Display != ui.DisplayNone {
			s.LabelsShown++
		}
	}
	return s
}
