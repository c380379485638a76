package render

import (
	"testing"

	"github.com/taigrr/carousel/pkg/math3d"
)

func TestToonShaderFlatRegion(t *testing.T) {
	src := NewFramebuffer(16, 16)
	src.Clear(RGB(200, 200, 200))
	dst := NewFramebuffer(0, 0)

	NewToonShader().Apply(src, dst)

	if dst.Width != 16 || dst.Height != 16 {
		t.Fatalf("dst size = %dx%d, want 16x16", dst.Width, dst.Height)
	}
	// 200 snaps to the 170 band of four levels; no edges in a flat field
	got := dst.GetPixel(8, 8)
	if got.R < 169 || got.R > 171 {
		t.Errorf("center = %v, want the 170 band", got)
	}
}

func TestToonShaderDarkensEdges(t *testing.T) {
	src := NewFramebuffer(16, 16)
	src.Clear(ColorWhite)
	for y := range 16 {
		for x := range 8 {
			src.SetPixel(x, y, ColorBlack)
		}
	}
	dst := NewFramebuffer(16, 16)
	NewToonShader().Apply(src, dst)

	if got := dst.GetPixel(8, 8); got.R > 128 {
		t.Errorf("pixel on the edge = %v, want darkened", got)
	}
	if got := dst.GetPixel(12, 8); got.R < 250 {
		t.Errorf("pixel away from the edge = %v, want white", got)
	}
}

func TestPostPassRestoresTarget(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	s := NewScene(RGB(200, 200, 200))
	s.Add(NewNode("quad", quad(), NewBasicMaterial(red, nil)))

	NewPostPass(NewToonShader()).Render(r, s, fb)

	if r.Target() != fb {
		t.Error("rasterizer target not restored after post pass")
	}
	if got := fb.GetPixel(16, 16); got.R < 250 || got.G > 5 {
		t.Errorf("center = %v, want red through the post pass", got)
	}
}

func TestFramebufferFade(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.Clear(ColorWhite)

	fb.Fade(ColorBlack, 1)
	if fb.Pixels[0] != ColorWhite {
		t.Errorf("opacity 1 changed pixel to %v", fb.Pixels[0])
	}
	fb.Fade(ColorBlack, 0)
	if fb.Pixels[0] != ColorBlack {
		t.Errorf("opacity 0 = %v, want background", fb.Pixels[0])
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Resize(8, 2)
	if len(fb.Pixels) != 16 || fb.Width != 8 || fb.Height != 2 {
		t.Errorf("after resize: %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
}

func BenchmarkToonShader(b *testing.B) {
	r, fb := createTestRasterizer(160, 90)
	s := NewScene(RGB(16, 24, 40))
	s.Add(NewNode("quad", quad(), NewBasicMaterial(red, nil)))
	s.Nodes[0].Position = math3d.V3(0, 0, 1)
	pass := NewPostPass(NewToonShader())
	for b.Loop() {
		pass.Render(r, s, fb)
	}
}
