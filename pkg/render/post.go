package render

import (
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
)

// PostShader is a full-screen effect run over a finished frame.
type PostShader interface {
	Apply(src, dst *Framebuffer)
}

// ToonShader quantizes colors into flat bands and darkens edges found with a
// Sobel filter on the luminance.
type ToonShader struct {
	Levels int // color bands per channel; values below 2 disable banding
}

// NewToonShader returns a toon shader with four bands per channel.
func NewToonShader() *ToonShader {
	return &ToonShader{Levels: 4}
}

// Apply writes the shaded version of src into dst. src and dst may be the
// same framebuffer.
func (s *ToonShader) Apply(src, dst *Framebuffer) {
	if src.Width == 0 || src.Height == 0 {
		return
	}
	img := src.ToImage()
	edges := effect.Invert(effect.Sobel(effect.Grayscale(img)))

	if s.Levels >= 2 {
		step := 255.0 / float64(s.Levels-1)
		for i := 0; i < len(img.Pix); i += 4 {
			for c := range 3 {
				img.Pix[i+c] = posterize(img.Pix[i+c], step)
			}
		}
	}

	dst.Resize(src.Width, src.Height)
	dst.CopyFrom(blend.Multiply(img, edges))
}

func posterize(v uint8, step float64) uint8 {
	band := float64(int(float64(v)/step + 0.5))
	return uint8(min(255, band*step))
}

// PostPass renders a scene offscreen and then runs a shader into the output
// framebuffer.
type PostPass struct {
	Shader    PostShader
	offscreen *Framebuffer
}

// NewPostPass creates a pass around shader.
func NewPostPass(shader PostShader) *PostPass {
	return &PostPass{Shader: shader, offscreen: NewFramebuffer(0, 0)}
}

// Render draws s with r into an offscreen buffer, applies the shader into
// out, and restores r's target to out.
func (p *PostPass) Render(r *Rasterizer, s *Scene, out *Framebuffer) {
	p.offscreen.Resize(out.Width, out.Height)
	r.SetTarget(p.offscreen)
	r.Render(s)
	r.SetTarget(out)
	p.Shader.Apply(p.offscreen, out)
}
