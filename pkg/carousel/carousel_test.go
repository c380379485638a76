package carousel

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taigrr/carousel/pkg/assets"
	"github.com/taigrr/carousel/pkg/config"
	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/render"
	"github.com/taigrr/carousel/pkg/ui"
)

func TestSlotAngles(t *testing.T) {
	for n := 1; n <= 12; n++ {
		seen := make(map[int64]bool)
		for i := range n {
			got := SlotAngle(i, n)
			want := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("SlotAngle(%d, %d) = %v, want %v", i, n, got, want)
			}
			key := int64(math.Round(wrapAngle(got) * 1e9))
			if seen[key] {
				t.Errorf("n=%d: slot %d shares an angle", n, i)
			}
			seen[key] = true
			if i > 0 {
				if step := got - SlotAngle(i-1, n); math.Abs(step-2*math.Pi/float64(n)) > 1e-12 {
					t.Errorf("n=%d: uneven step %v", n, step)
				}
			}
		}
	}
}

func TestCardPoseFacesFocalPoint(t *testing.T) {
	for i := range 6 {
		pos, rot := CardPose(SlotAngle(i, 6), 0)
		if math.Abs(math.Hypot(pos.X, pos.Z)-RingRadius) > 1e-9 || pos.Y != RingHeight {
			t.Errorf("slot %d at %v, off the ring", i, pos)
		}
		facing := rot.MulVec3Dir(math3d.V3(0, 0, 1))
		toFocal := FocalPoint.Sub(pos).Normalize()
		if facing.Dot(toFocal) < 0.999 {
			t.Errorf("slot %d faces %v, want %v", i, facing, toFocal)
		}
	}
}

func TestScreenPosition(t *testing.T) {
	cam := render.NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.LookAt(math3d.Zero3())
	cam.SetAspectRatio(2)
	vp := Viewport{Width: 200, Height: 100}
	vpm := cam.ViewProjectionMatrix()

	tests := []struct {
		name   string
		world  math3d.Vec3
		x, y   float64
		wantOK bool
	}{
		{"center", math3d.Zero3(), 100, 50, true},
		{"clamped right", math3d.V3(1000, 0, 0), 199, 50, true},
		{"clamped top", math3d.V3(0, 1000, 0), 100, 0, true},
		{"behind", math3d.V3(0, 0, 10), 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, ok := ScreenPosition(tc.world, vpm, vp)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && (math.Abs(x-tc.x) > 1e-6 || math.Abs(y-tc.y) > 1e-6) {
				t.Errorf("ScreenPosition = (%v, %v), want (%v, %v)", x, y, tc.x, tc.y)
			}
		})
	}
}

func TestBuildOnce(t *testing.T) {
	f := newFixture(t)
	nodes := len(f.ctrl.scene.Nodes)
	lights := len(f.ctrl.scene.Lights)

	for range 3 {
		if f.ctrl.Build(assets.Report{}) {
			t.Error("second Build reported success")
		}
	}
	if len(f.ctrl.scene.Nodes) != nodes || len(f.ctrl.scene.Lights) != lights {
		t.Error("repeated Build changed the scene")
	}
	if got := len(f.doc.Query(".coord-label")); got != len(Projects) {
		t.Errorf("%d labels, want %d", got, len(Projects))
	}
	want := 1 + 1 + len(Projects) + BirdCount + RockCount
	if nodes != want {
		t.Errorf("%d nodes, want %d", nodes, want)
	}
}

func TestBuildWithFailedAsset(t *testing.T) {
	f := newFixture(t, "project3")
	card := f.ctrl.Cards()[2]
	if card.Project.ID != "project3" {
		t.Fatalf("card 2 is %s", card.Project.ID)
	}
	if got := card.Texture.Sample(0.5, 0.5); got != assets.FallbackColor {
		t.Errorf("failed card texture = %v, want fallback %v", got, assets.FallbackColor)
	}
	if got := f.ctrl.Cards()[0].Texture.Sample(0.5, 0.5); got == assets.FallbackColor {
		t.Error("healthy card shows the fallback")
	}
	if len(f.ctrl.birds) != BirdCount {
		t.Errorf("%d birds, want procedural stand-ins for the failed model", len(f.ctrl.birds))
	}
}

func TestBuildWithEmptyReport(t *testing.T) {
	doc := ui.NewPage()
	c := New(config.Default(), doc, Options{})
	c.Resize(100, 30)
	if !c.Build(assets.Report{}) {
		t.Fatal("Build failed")
	}
	for _, card := range c.Cards() {
		if card.Texture.Sample(0.5, 0.5) != assets.FallbackColor {
			t.Errorf("%s: expected the fallback texture", card.Project.ID)
		}
	}
	c.Tick()
}

func TestBuildWithoutCanvas(t *testing.T) {
	c := New(config.Default(), ui.NewDocument(), Options{})
	if c.Build(assets.Report{}) {
		t.Error("Build succeeded without a canvas")
	}
	if ch := c.Boot(context.Background(), ui.NewSignal()); ch != nil {
		t.Error("Boot returned a channel without a canvas")
	}
}

func TestBootWaitsForReady(t *testing.T) {
	cfg := config.Default()
	doc := ui.NewPage()
	c := New(cfg, doc, Options{Fetcher: solidFetcher()})
	ready := ui.NewSignal()

	ch := c.Boot(context.Background(), ready)
	if c.Boot(context.Background(), ready) != ch {
		t.Error("second Boot returned a new channel")
	}
	if doc.ByID(ui.ProgressDialogID).Display == ui.DisplayNone {
		t.Error("progress dialog hidden while loading")
	}
	select {
	case <-ch:
		t.Fatal("report delivered before ready")
	case <-time.After(50 * time.Millisecond):
	}

	for range 3 {
		ready.Fire()
	}
	var rep assets.Report
	select {
	case rep = <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no report after ready")
	}
	if rep.Total != len(Manifest(".")) {
		t.Errorf("Total = %d", rep.Total)
	}
	if !c.Build(rep) || c.Build(rep) {
		t.Error("Build should succeed exactly once")
	}
	if doc.ByID(ui.ProgressDialogID).Display != ui.DisplayNone {
		t.Error("progress dialog still shown after build")
	}
	if p := doc.ByID(ui.ProgressIndicatorID).Progress; p.Fraction() != 1 {
		t.Errorf("progress = %v, want 1", p.Fraction())
	}
	select {
	case <-ch:
		t.Error("second report delivered")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBootReadyTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.ReadyTimeout = 20 * time.Millisecond
	c := New(cfg, ui.NewPage(), Options{Fetcher: solidFetcher()})

	select {
	case rep := <-c.Boot(context.Background(), ui.NewSignal()):
		if !c.Build(rep) {
			t.Error("Build failed after ready timeout")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scene never built without a ready signal")
	}
}

func TestCanvasFadesIn(t *testing.T) {
	f := newFixture(t)
	canvas := f.doc.ByID(ui.CanvasID)
	if canvas.NoPointerEvents {
		t.Error("canvas pointer events still off after build")
	}
	prev := canvas.Opacity
	for range 120 {
		f.ctrl.Tick()
		if canvas.Opacity < prev-1e-9 {
			t.Fatalf("opacity fell from %v to %v", prev, canvas.Opacity)
		}
		prev = canvas.Opacity
	}
	if canvas.Opacity != 1 {
		t.Errorf("opacity = %v after 4s, want 1", canvas.Opacity)
	}
}

func TestDollyNeverOvershoots(t *testing.T) {
	f := newFixture(t)
	target := f.ctrl.profile.TargetZ
	prev := math.Abs(f.ctrl.DollyZ() - target)
	for range 600 {
		f.ctrl.Tick()
		z := f.ctrl.DollyZ()
		if z < target {
			t.Fatalf("z = %v overshot target %v", z, target)
		}
		d := math.Abs(z - target)
		if d > prev {
			t.Fatalf("|z - target| grew from %v to %v", prev, d)
		}
		prev = d
	}
	if prev > 1e-3 {
		t.Errorf("z still %v from target after 600 ticks", prev)
	}
}

func TestBreakpointCrossing(t *testing.T) {
	f := newFixture(t)
	if f.ctrl.Mobile() {
		t.Fatal("120 columns should be desktop")
	}
	for range 30 {
		f.ctrl.Tick()
	}
	f.ctrl.Resize(130, 40)
	if f.ctrl.DollyZ() == f.ctrl.cfg.Desktop.InitialZ {
		t.Error("resize within a class restarted the dolly")
	}

	f.ctrl.Resize(60, 40)
	if !f.ctrl.Mobile() {
		t.Fatal("60 columns should be mobile")
	}
	if f.ctrl.DollyZ() != f.ctrl.cfg.Mobile.InitialZ {
		t.Errorf("dolly = %v, want mobile initial %v", f.ctrl.DollyZ(), f.ctrl.cfg.Mobile.InitialZ)
	}
	if w, h := f.ctrl.Frame().Width, f.ctrl.Frame().Height; w != 60 || h != 80 {
		t.Errorf("frame = %dx%d, want 60x80", w, h)
	}
	// the mobile camera sits far overhead and is pulled in to orbit range
	look := math3d.V3(0, f.ctrl.cfg.Mobile.LookY, 0)
	pos := f.ctrl.Camera().Position
	if d := pos.Sub(look).Len(); d > maxOrbitDistance+1e-9 {
		t.Errorf("camera %v is %.3f from look point, want <= %v", pos, d, float64(maxOrbitDistance))
	}
	if pos.Y <= look.Y {
		t.Errorf("camera y = %v, want above look point %v", pos.Y, look.Y)
	}
}

func TestAdvanceModeBeforeBuild(t *testing.T) {
	c := New(config.Default(), ui.NewPage(), Options{})
	c.Resize(120, 40)
	if got := c.AdvanceMode(); got != ModeDefault {
		t.Errorf("AdvanceMode before Build = %v, want %v", got, ModeDefault)
	}
	if c.Built() {
		t.Error("AdvanceMode built the scene")
	}
}

func TestAutoRotationDamped(t *testing.T) {
	f := newFixture(t)
	_, t0 := f.ctrl.Rotation()
	for range 10 {
		f.ctrl.Tick()
	}
	cur, target := f.ctrl.Rotation()
	if math.Abs(target-t0-10*autoRotate) > 1e-9 {
		t.Errorf("target advanced %v, want %v", target-t0, 10*autoRotate)
	}
	if cur >= target || cur <= 0 {
		t.Errorf("current %v should trail target %v", cur, target)
	}
}

func TestLabels(t *testing.T) {
	f := newFixture(t)
	labels := f.doc.Query(".coord-label")
	for _, l := range labels {
		if _, err := uuid.Parse(l.ID); err != nil {
			t.Errorf("label id %q: %v", l.ID, err)
		}
		if l.Visible() {
			t.Error("label visible in the default mode")
		}
		if !l.NoPointerEvents {
			t.Error("label takes pointer events")
		}
	}

	f.ctrl.AdvanceMode()
	f.ctrl.Tick()
	for _, l := range labels {
		if !l.Visible() || l.Box.Empty() || !strings.Contains(l.Text, ",") {
			t.Errorf("retro label not placed: %+v %q", l.Box, l.Text)
		}
		if !l.Box.In(f.doc.Body().Box) {
			t.Errorf("label %v outside the viewport", l.Box)
		}
	}

	f.ctrl.HideLabels()
	for _, l := range labels {
		if l.Visible() {
			t.Fatal("HideLabels left a label shown")
		}
	}
	f.ctrl.ShowLabels()
	if !labels[0].Visible() {
		t.Error("ShowLabels did not restore labels in retro mode")
	}
}

func TestTickRendersScene(t *testing.T) {
	f := newFixture(t)
	for range 5 {
		f.ctrl.Tick()
	}
	s := f.ctrl.Stats()
	if s.NodesDrawn < 1+len(Projects) || s.Triangles == 0 {
		t.Errorf("stats = %+v", s)
	}
	x, y := f.cellAt(t, BodyPosition)
	fb := f.ctrl.Frame()
	if got := fb.GetPixel(int(x), int(y*2)); got == ClearDefault || got == pageBackground {
		t.Errorf("body pixel = %v, body not drawn", got)
	}
}

func BenchmarkTick(b *testing.B) {
	f := newFixture(b)
	for b.Loop() {
		f.ctrl.Tick()
	}
}

func BenchmarkTickShaded(b *testing.B) {
	f := newFixture(b)
	f.ctrl.setMode(ModeShaded)
	for b.Loop() {
		f.ctrl.Tick()
	}
}
