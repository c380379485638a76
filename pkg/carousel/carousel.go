// Package carousel is the 3D project carousel: a ring of project cards
// around a spinning cube under a sky dome, animated every frame and picked
// with the pointer. A Controller owns all of its state and is driven from a
// single goroutine.
package carousel

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/taigrr/carousel/pkg/assets"
	"github.com/taigrr/carousel/pkg/config"
	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/models"
	"github.com/taigrr/carousel/pkg/render"
	"github.com/taigrr/carousel/pkg/ui"
)

// Scene constants.
const (
	BodySize   = 2.0
	SkyRadius  = 400.0
	bodySpin   = 0.01
	skySpin    = 0.0005
	autoRotate = 0.003
	damping    = 0.1

	// maxOrbitDistance caps the camera's distance from its look-at point.
	maxOrbitDistance = 8.0
)

// BodyPosition is where the central cube sits, below the ring.
var BodyPosition = math3d.V3(0, -6.2, 0)

var (
	pageBackground = render.ColorWhite
	rockColor      = render.Hex(0x8a7f72)
)

// Navigator opens project panels. ui.Menu implements it.
type Navigator interface {
	OpenProject(id string) bool
}

// Card is one project on the ring.
type Card struct {
	Project Project
	Slot    int
	Angle   float64
	Node    *render.Node
	Texture *render.Texture // cover-fitted to the card

	materials [modeCount]*render.Material
}

// Body is the central cube.
type Body struct {
	Node         *render.Node
	SpinX, SpinY float64

	mesh      *models.Mesh
	materials [modeCount][]*render.Material
}

// Sky is the inward-facing dome around everything.
type Sky struct {
	Node *render.Node
	Spin float64

	solid    *render.Material
	textured *render.Material
}

// Label is a coordinate readout that follows a card on screen.
type Label struct {
	Element *ui.Element
	Card    *Card
}

// Options configures a Controller.
type Options struct {
	Navigator Navigator
	Fetcher   assets.Fetcher // defaults to reading files
	Logger    *log.Logger
	Seed      uint64 // agent placement
}

// Controller owns the carousel scene and everything that mutates it. It is
// not safe for concurrent use; Boot's channel is the only hand-off from
// other goroutines.
type Controller struct {
	cfg    config.Config
	doc    *ui.Document
	nav    Navigator
	opts   Options
	logger *log.Logger

	scene  *render.Scene
	camera *render.Camera
	fb     *render.Framebuffer
	rast   *render.Rasterizer
	post   *render.PostPass

	cards      []*Card
	cardMesh   *models.Mesh
	body       *Body
	sky        *Sky
	birds      []*Bird
	rocks      []*Rock
	birdMat    *render.Material
	particles  *ParticlePool
	modeLights []*render.Light
	labels     []*Label

	mode        Mode
	postEnabled bool
	particlesOn bool
	ticks       int

	rotation       float64
	targetRotation float64
	drift          float64
	hovering       bool

	profile config.Profile
	mobile  bool
	dollyZ  float64
	cols    int
	rows    int

	fade       harmonica.Spring
	opacity    float64
	opacityVel float64
	fadeTarget float64

	labelsByMode   bool
	labelsByPlayer bool // false while the menu hides them

	canvas    *ui.Element
	info      *ui.Element
	infoImage *ui.Element
	infoText  *ui.Element

	booted      bool
	boot        chan assets.Report
	built       bool
	interactive bool
	overlays    []string
}

// New creates a controller over doc. Nothing is built until Build.
func New(cfg config.Config, doc *ui.Document, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{
		cfg:            cfg,
		doc:            doc,
		nav:            opts.Navigator,
		opts:           opts,
		logger:         logger.WithPrefix("carousel"),
		scene:          render.NewScene(ClearDefault),
		camera:         render.NewCamera(),
		fb:             render.NewFramebuffer(0, 0),
		post:           render.NewPostPass(render.NewToonShader()),
		particles:      NewParticlePool(ParticleCapacity, BodyPosition),
		fade:           harmonica.NewSpring(harmonica.FPS(max(cfg.FPS, 1)), 4.0, 1.0),
		labelsByPlayer: true,
		canvas:         doc.ByID(ui.CanvasID),
	}
	c.rast = render.NewRasterizer(c.camera, c.fb)
	c.overlays = []string{"#menu", "#menu2", ".project-container", "#navWrapper", "#contact", "form"}
	for _, p := range Projects {
		c.overlays = append(c.overlays, "#"+p.ID)
	}
	c.profile, c.mobile = cfg.ProfileFor(0)
	return c
}

// Boot waits for ready (or the ready timeout), then loads the manifest. The
// returned channel delivers exactly one report. It returns nil when the
// canvas is missing, so a select on it never fires.
func (c *Controller) Boot(ctx context.Context, ready *ui.Signal) <-chan assets.Report {
	if c.canvas == nil {
		c.logger.Error("canvas not found, carousel disabled", "id", ui.CanvasID)
		return nil
	}
	if c.booted {
		c.logger.Debug("boot already started")
		return c.boot
	}
	c.booted = true
	c.boot = make(chan assets.Report, 1)

	c.canvas.Opacity = 0
	c.canvas.NoPointerEvents = true

	var progress *ui.Progress
	dialog, indicator := c.doc.ByID(ui.ProgressDialogID), c.doc.ByID(ui.ProgressIndicatorID)
	if dialog == nil || indicator == nil {
		c.logger.Warn("progress dialog not found")
	} else {
		if indicator.Progress == nil {
			indicator.Progress = &ui.Progress{}
		}
		progress = indicator.Progress
		dialog.Show()
	}

	manifest := Manifest(c.cfg.AssetRoot)
	if progress != nil {
		progress.Set(0, len(manifest))
	}
	loader := assets.NewLoader(assets.Options{
		Fetcher:     c.opts.Fetcher,
		Concurrency: c.cfg.LoadConcurrency,
		Timeout:     c.cfg.LoadTimeout,
		Logger:      c.logger,
		OnProgress: func(resolved, total int) {
			if progress != nil {
				progress.Set(resolved, total)
			}
		},
	})

	go func() {
		var timeout <-chan time.Time
		if c.cfg.ReadyTimeout > 0 {
			t := time.NewTimer(c.cfg.ReadyTimeout)
			defer t.Stop()
			timeout = t.C
		}
		select {
		case <-ready.Done():
		case <-timeout:
			c.logger.Warn("ready signal did not fire, loading anyway", "after", c.cfg.ReadyTimeout)
		case <-ctx.Done():
			return
		}
		if rep, ok := <-loader.Load(ctx, manifest); ok {
			c.boot <- rep
		}
	}()
	return c.boot
}

// Build constructs the scene from a load report. Only the first call does
// anything; it reports whether this call built the scene.
func (c *Controller) Build(rep assets.Report) bool {
	if c.built {
		c.logger.Debug("scene already built")
		return false
	}
	if c.canvas == nil {
		c.logger.Error("canvas not found, nothing to build", "id", ui.CanvasID)
		return false
	}
	c.built = true
	rng := rand.New(rand.NewPCG(c.opts.Seed, c.opts.Seed^0x5eed))

	textures := make([]*render.Texture, len(Projects))
	for i, p := range Projects {
		textures[i] = c.texture(rep, p.ID)
	}
	c.buildCards(textures)
	c.buildBody(textures)
	c.buildSky(c.texture(rep, SkyAssetID))

	c.scene.AddLight(render.NewAmbientLight(render.Hex(0x404040), 1))
	c.scene.AddLight(render.NewDirectionalLight(render.ColorWhite, 0.5, math3d.V3(0, 1, 0)))
	c.modeLights = newModeLights()

	var birdMesh *models.Mesh
	if res, ok := rep.Get(BirdAssetID); ok && !res.Fallback {
		birdMesh = res.Mesh
	}
	c.birdMat = render.NewWireframeMaterial(RetroGreen)
	c.birds = newBirds(BirdCount, birdMesh, rng, c.birdMat)
	c.rocks = newRocks(RockCount, rng, render.NewLambertMaterial(rockColor, nil))

	c.scene.Add(c.sky.Node, c.body.Node)
	for _, card := range c.cards {
		c.scene.Add(card.Node)
	}
	for _, b := range c.birds {
		c.scene.Add(b.Node)
	}
	for _, r := range c.rocks {
		c.scene.Add(r.Node)
	}
	c.buildLabels()

	c.info = c.doc.ByID(ui.CardInfoID)
	c.infoImage = c.doc.ByID(ui.InfoImageID)
	c.infoText = c.doc.ByID(ui.InfoTextID)
	c.interactive = c.info != nil && c.infoImage != nil && c.infoText != nil
	if !c.interactive {
		c.logger.Error("hover panel not found, pointer interaction disabled",
			"ids", []string{ui.CardInfoID, ui.InfoImageID, ui.InfoTextID})
	}

	c.applyProfile(c.cfg.ProfileFor(c.cols * c.cfg.CellWidth))
	c.mode = ModeDefault
	modeTable[ModeDefault].enter(c)
	c.placeCards()

	if d := c.doc.ByID(ui.ProgressDialogID); d != nil {
		d.Hide()
	}
	c.canvas.NoPointerEvents = false
	c.fadeTarget = 1

	c.logger.Info("scene built",
		"cards", len(c.cards),
		"resolved", rep.Resolved,
		"total", rep.Total,
		"timed_out", rep.TimedOut,
		"fallbacks", rep.Failed())
	return true
}

// texture returns the texture resolved for id, or the fallback.
func (c *Controller) texture(rep assets.Report, id string) *render.Texture {
	if res, ok := rep.Get(id); ok && res.Texture != nil {
		return res.Texture
	}
	c.logger.Warn("texture missing from report, using fallback", "id", id)
	return render.NewSolidTexture(assets.FallbackColor)
}

func (c *Controller) buildCards(textures []*render.Texture) {
	c.cardMesh = models.NewPlane(CardWidth, CardHeight)
	c.cards = make([]*Card, len(Projects))
	for i, p := range Projects {
		tex := textures[i].Clone()
		tex.CoverFit(CardWidth / CardHeight)
		card := &Card{Project: p, Slot: i, Angle: SlotAngle(i, len(Projects)), Texture: tex}
		card.materials = [modeCount]*render.Material{
			ModeDefault: render.NewBasicMaterial(render.ColorWhite, tex).WithSide(render.SideDouble),
			ModeRetro:   render.NewWireframeMaterial(RetroGreen),
			ModeShaded:  render.NewLambertMaterial(render.ColorWhite, tex).WithSide(render.SideDouble),
		}
		card.Node = render.NewNode(p.ID, c.cardMesh, card.materials[ModeDefault])
		c.cards[i] = card
	}
}

func (c *Controller) buildBody(textures []*render.Texture) {
	mesh := models.NewBox(BodySize)
	b := &Body{mesh: mesh}
	wire := render.NewWireframeMaterial(RetroGreen)
	for face := range 6 {
		tex := textures[face%len(textures)]
		b.materials[ModeDefault] = append(b.materials[ModeDefault], render.NewBasicMaterial(render.ColorWhite, tex))
		b.materials[ModeShaded] = append(b.materials[ModeShaded], render.NewLambertMaterial(render.ColorWhite, tex))
	}
	b.materials[ModeRetro] = []*render.Material{wire}
	b.Node = render.NewNode("body", mesh, b.materials[ModeDefault]...)
	b.Node.Position = BodyPosition
	c.body = b
}

func (c *Controller) buildSky(tex *render.Texture) {
	s := &Sky{
		solid:    render.NewBasicMaterial(ClearDefault, nil).WithSide(render.SideBack),
		textured: render.NewBasicMaterial(render.ColorWhite, tex).WithSide(render.SideBack),
	}
	s.Node = render.NewNode("sky", models.NewSphere(SkyRadius, 24, 16), s.solid)
	c.sky = s
}

func (c *Controller) buildLabels() {
	c.labels = make([]*Label, len(c.cards))
	for i, card := range c.cards {
		el := ui.NewElement("div", uuid.NewString(), "coord-label")
		el.NoPointerEvents = true
		el.Color = RetroGreen
		el.Hide()
		c.doc.Body().Append(el)
		c.labels[i] = &Label{Element: el, Card: card}
	}
}

// Resize sets the viewport to cols by rows terminal cells. Each cell is one
// pixel wide and two tall. Crossing the breakpoint switches the camera
// profile and restarts the dolly.
func (c *Controller) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	c.cols, c.rows = cols, rows
	c.fb.Resize(cols, rows*2)
	c.rast.SetTarget(c.fb)
	c.camera.SetAspectRatio(float64(cols) / float64(rows*2))
	c.doc.Layout(cols, rows)

	profile, mobile := c.cfg.ProfileFor(cols * c.cfg.CellWidth)
	if !c.built {
		c.profile, c.mobile = profile, mobile
		return
	}
	if mobile != c.mobile {
		c.logger.Info("breakpoint crossed", "mobile", mobile, "width_px", cols*c.cfg.CellWidth)
		c.applyProfile(profile, mobile)
	}
}

func (c *Controller) applyProfile(p config.Profile, mobile bool) {
	c.profile, c.mobile = p, mobile
	c.dollyZ = p.InitialZ
	c.placeCamera()
}

func (c *Controller) placeCamera() {
	look := math3d.V3(0, c.profile.LookY, 0)
	pos := math3d.V3(0, c.profile.Height, c.dollyZ)
	if d := pos.Sub(look); d.Len() > maxOrbitDistance {
		pos = look.Add(d.Normalize().Scale(maxOrbitDistance))
	}
	c.camera.SetPosition(pos)
	c.camera.LookAt(look)
}

// Built reports whether the scene has been built.
func (c *Controller) Built() bool { return c.built }

// Mode returns the active mode.
func (c *Controller) Mode() Mode { return c.mode }

// Hovering reports whether the pointer rests on a card.
func (c *Controller) Hovering() bool { return c.hovering }

// Rotation returns the displayed and target ring rotation.
func (c *Controller) Rotation() (current, target float64) { return c.rotation, c.targetRotation }

// DollyZ returns the camera's scripted distance.
func (c *Controller) DollyZ() float64 { return c.dollyZ }

// Mobile reports whether the mobile camera profile is active.
func (c *Controller) Mobile() bool { return c.mobile }

// Cards returns the ring cards in slot order.
func (c *Controller) Cards() []*Card { return c.cards }

// Camera returns the scene camera.
func (c *Controller) Camera() *render.Camera { return c.camera }

// Frame returns the framebuffer of the last tick.
func (c *Controller) Frame() *render.Framebuffer { return c.fb }

// Particles returns the particle pool.
func (c *Controller) Particles() *ParticlePool { return c.particles }

// Stats returns the rasterizer counters of the last frame.
func (c *Controller) Stats() render.Stats { return c.rast.Stats }
