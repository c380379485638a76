package carousel

import (
	"github.com/taigrr/carousel/pkg/render"
	"github.com/taigrr/carousel/pkg/ui"
)

// Touch is one changed touch point, in cells.
type Touch struct {
	X, Y float64
}

// PointerEvent is a pointer move, click or touch end. Coordinates are in
// terminal cells; fractions address the two pixels of a cell.
type PointerEvent struct {
	X, Y       float64
	HasPointer bool
	Touches    []Touch

	// Target is the element under the pointer when the event was
	// dispatched. When nil the controller looks it up.
	Target *ui.Element
}

// MouseAt returns a pointer event at cell coordinates (x, y).
func MouseAt(x, y float64) PointerEvent {
	return PointerEvent{X: x, Y: y, HasPointer: true}
}

// Position returns the pointer coordinates, falling back to the last changed
// touch.
func (e PointerEvent) Position() (x, y float64, ok bool) {
	if e.HasPointer {
		return e.X, e.Y, true
	}
	if n := len(e.Touches); n > 0 {
		t := e.Touches[n-1]
		return t.X, t.Y, true
	}
	return 0, 0, false
}

// HitKind says what a pick struck.
type HitKind int

const (
	HitNone HitKind = iota
	HitBody
	HitCard
)

// Hit is the result of a pick.
type Hit struct {
	Kind     HitKind
	Card     *Card
	Distance float64
}

// Pick casts a ray through cell coordinates (x, y). The central body is
// tested first and wins whenever it is struck; otherwise the nearest card
// is returned.
func (c *Controller) Pick(x, y float64) Hit {
	if !c.built || c.fb.Width == 0 || c.fb.Height == 0 {
		return Hit{}
	}
	nx, ny := render.PixelToNDC(x, y*2, c.fb.Width, c.fb.Height)
	ray := c.camera.RayFromNDC(nx, ny)

	if h, ok := c.body.mesh.Intersect(ray, c.body.Node.Transform(), false); ok {
		return Hit{Kind: HitBody, Distance: h.Distance}
	}
	best := Hit{}
	for _, card := range c.cards {
		h, ok := c.cardMesh.Intersect(ray, card.Node.Transform(), true)
		if ok && (best.Kind == HitNone || h.Distance < best.Distance) {
			best = Hit{Kind: HitCard, Card: card, Distance: h.Distance}
		}
	}
	return best
}

// acceptsPointer reports whether pointer events may reach the scene.
func (c *Controller) acceptsPointer() bool {
	return c.built && c.interactive && !c.canvas.NoPointerEvents && c.canvas.Visible()
}

func (c *Controller) target(e PointerEvent, x, y float64) *ui.Element {
	if e.Target != nil {
		return e.Target
	}
	return c.doc.ElementAt(int(x), int(y))
}

// HandleMove updates hover state for a pointer move. A pointer over anything
// drawn above the canvas counts as over nothing.
func (c *Controller) HandleMove(e PointerEvent) {
	if !c.acceptsPointer() {
		return
	}
	x, y, ok := e.Position()
	if !ok {
		return
	}
	hit := Hit{}
	if c.target(e, x, y) == c.canvas {
		hit = c.Pick(x, y)
	}

	switch hit.Kind {
	case HitBody:
		c.info.Hide()
		c.hovering = false
		c.setCursor("pointer")
	case HitCard:
		c.showInfo(hit.Card)
		c.hovering = true
		c.setCursor("pointer")
	default:
		c.info.Hide()
		c.hovering = false
		c.setCursor("default")
	}
}

// HandleClick routes a click or touch end. Clicks that land in an overlay
// are ignored before any pick; a body hit advances the mode and a card hit
// opens its project and takes pointer events away from the canvas until the
// panel is closed.
func (c *Controller) HandleClick(e PointerEvent) {
	if !c.built {
		c.logger.Debug("click before build ignored")
		return
	}
	x, y, ok := e.Position()
	if !ok {
		c.logger.Warn("unable to determine click coordinates, ignoring event")
		return
	}
	if t := c.target(e, x, y); t != nil {
		if o := t.Closest(c.overlays...); o != nil {
			c.logger.Debug("click on overlay, not picking", "overlay", o.ID, "classes", o.Classes)
			return
		}
	}
	if !c.acceptsPointer() {
		c.logger.Debug("canvas not taking pointer events, click ignored")
		return
	}

	hit := c.Pick(x, y)
	switch hit.Kind {
	case HitBody:
		c.AdvanceMode()
	case HitCard:
		c.openProject(hit.Card)
	}
}

func (c *Controller) openProject(card *Card) {
	if c.nav == nil {
		c.logger.Warn("no navigator, cannot open project", "id", card.Project.ID)
		return
	}
	c.logger.Info("card clicked", "id", card.Project.ID)
	if !c.nav.OpenProject(card.Project.ID) {
		return
	}
	c.canvas.NoPointerEvents = true
	c.info.Hide()
	c.hovering = false
	c.setCursor("default")
}

func (c *Controller) showInfo(card *Card) {
	c.info.Show()
	c.infoImage.Image = card.Texture
	c.infoText.Text = card.Project.Title + "\n\n" + card.Project.Subtitle
}

func (c *Controller) setCursor(cursor string) {
	c.canvas.Cursor = cursor
	c.doc.Cursor = cursor
}
