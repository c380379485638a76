package carousel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taigrr/carousel/pkg/assets"
	"github.com/taigrr/carousel/pkg/config"
	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/render"
	"github.com/taigrr/carousel/pkg/ui"
)

var errMissing = errors.New("missing file")

// solidFetcher resolves every texture to a solid color and fails the ids in
// fail.
func solidFetcher(fail ...string) assets.Fetcher {
	return assets.FetcherFunc(func(_ context.Context, a assets.Asset) (assets.Resource, error) {
		for _, id := range fail {
			if a.ID == id {
				return assets.Resource{}, errMissing
			}
		}
		if a.Kind == assets.KindModel {
			return assets.Resource{}, errMissing
		}
		return assets.Resource{Asset: a, Texture: render.NewSolidTexture(render.Hex(0x3366cc))}, nil
	})
}

type fixture struct {
	ctrl *Controller
	doc  *ui.Document
	menu *ui.Menu
}

// newFixture builds a controller over the default page at 120x40 cells.
func newFixture(t testing.TB, fail ...string) fixture {
	t.Helper()
	cfg := config.Default()
	cfg.LoadTimeout = 5 * time.Second

	doc := ui.NewPage()
	parts, err := ui.NewPartLoader(ui.DefaultParts, "parts", nil)
	if err != nil {
		t.Fatal(err)
	}
	parts.Load(context.Background(), doc, ui.NewSignal())

	menu := ui.NewMenu(doc, nil, nil)
	c := New(cfg, doc, Options{Navigator: menu, Fetcher: solidFetcher(fail...)})
	menu.Labels = c
	c.Resize(120, 40)

	loader := assets.NewLoader(assets.Options{Fetcher: solidFetcher(fail...)})
	rep := <-loader.Load(context.Background(), Manifest("testdata"))
	if !c.Build(rep) {
		t.Fatal("Build returned false on first call")
	}
	c.Tick()
	return fixture{ctrl: c, doc: doc, menu: menu}
}

// cellAt returns the cell coordinates under which world is drawn.
func (f fixture) cellAt(t testing.TB, world math3d.Vec3) (x, y float64) {
	t.Helper()
	vp := Viewport{Width: f.ctrl.fb.Width, Height: f.ctrl.fb.Height}
	px, py, ok := ScreenPosition(world, f.ctrl.camera.ViewProjectionMatrix(), vp)
	if !ok {
		t.Fatalf("%v is behind the camera", world)
	}
	return px, py / 2
}

// emptyCell finds a canvas cell where a pick strikes nothing.
func (f fixture) emptyCell(t testing.TB) (x, y float64) {
	t.Helper()
	canvas := f.doc.ByID(ui.CanvasID)
	for row := 2; row < f.ctrl.rows-3; row++ {
		for col := 0; col < f.ctrl.cols; col++ {
			cx, cy := float64(col)+0.5, float64(row)+0.5
			if f.doc.ElementAt(col, row) == canvas && f.ctrl.Pick(cx, cy).Kind == HitNone {
				return cx, cy
			}
		}
	}
	t.Fatal("no empty cell on screen")
	return 0, 0
}

func (f fixture) clickBody(t testing.TB) {
	t.Helper()
	x, y := f.cellAt(t, BodyPosition)
	f.ctrl.HandleClick(MouseAt(x, y))
}
