package render

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"math"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/taigrr/carousel/pkg/math3d"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxTextureSize caps the longest side of decoded textures. A terminal
// framebuffer is a few hundred pixels wide; larger sources only cost memory.
const MaxTextureSize = 512

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping. UVs are transformed by
// uv*Repeat + Offset before wrapping.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // Row-major pixel data
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
	Repeat     math3d.Vec2
	Offset     math3d.Vec2
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Pixels:     make([]Color, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		FilterMode: FilterNearest,
		Repeat:     math3d.V2(1, 1),
	}
}

// NewSolidTexture returns a 1x1 texture of c. Used as the stand-in for
// images that failed to load.
func NewSolidTexture(c Color) *Texture {
	t := NewTexture(1, 1)
	t.Pixels[0] = c
	return t
}

// LoadTexture loads a texture from a PNG, JPEG or WebP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	tex, err := DecodeTexture(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes an image stream into a bilinear-filtered texture,
// downscaling it so neither side exceeds MaxTextureSize.
func DecodeTexture(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if w, h := b.Dx(), b.Dy(); w > MaxTextureSize || h > MaxTextureSize {
		scale := float64(MaxTextureSize) / float64(max(w, h))
		img = transform.Resize(img, max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale)), transform.Linear)
	}
	tex := TextureFromImage(img)
	tex.FilterMode = FilterBilinear
	return tex, nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(b)
		draw.Draw(rgba, b, img, b.Min, draw.Src)
	}

	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			tex.Pixels[y*tex.Width+x] = rgba.RGBAAt(b.Min.X+x, b.Min.Y+y)
		}
	}
	return tex
}

// Aspect returns width / height.
func (t *Texture) Aspect() float64 {
	if t.Height == 0 {
		return 1
	}
	return float64(t.Width) / float64(t.Height)
}

// CoverFit sets Repeat and Offset so the texture fills a surface of the given
// aspect ratio without distortion, cropping the overflowing axis evenly on
// both sides.
func (t *Texture) CoverFit(surfaceAspect float64) {
	t.Repeat = math3d.V2(1, 1)
	t.Offset = math3d.Vec2{}
	if surfaceAspect <= 0 {
		return
	}
	texAspect := t.Aspect()
	if texAspect > surfaceAspect {
		t.Repeat.X = surfaceAspect / texAspect
		t.Offset.X = (1 - t.Repeat.X) / 2
	} else {
		t.Repeat.Y = texAspect / surfaceAspect
		t.Offset.Y = (1 - t.Repeat.Y) / 2
	}
}

// Clone returns a copy sharing pixel data, so repeat and offset can differ
// per use.
func (t *Texture) Clone() *Texture {
	c := *t
	return &c
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at UV coordinates (0-1 range).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u = u*t.Repeat.X + t.Offset.X
	v = v*t.Repeat.Y + t.Offset.Y

	u = wrapCoord(u, t.WrapU)
	v = wrapCoord(v, t.WrapV)

	// image Y=0 at top, UV V=0 at bottom
	v = 1.0 - v

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return t.sampleNearest(u, v)
	}
}

func wrapCoord(coord float64, mode WrapMode) float64 {
	switch mode {
	case WrapRepeat:
		coord -= math.Floor(coord)
	case WrapClamp:
		coord = clamp01(coord)
	}
	return coord
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapPixelCoord(x0+1, t.Width, t.WrapU)
	y1 := wrapPixelCoord(y0+1, t.Height, t.WrapV)
	x0 = wrapPixelCoord(x0, t.Width, t.WrapU)
	y0 = wrapPixelCoord(y0, t.Height, t.WrapV)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

func wrapPixelCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	case WrapClamp:
		x = min(max(x, 0), size-1)
	}
	return x
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// ModulateColor modulates one color by another (texture * material color).
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}
