package ui

import (
	"image"
	"image/color"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints every displayed element over scr, parents before children.
// Canvas elements are skipped; the renderer owns their cells.
func (d *Document) Draw(scr uv.Screen) {
	bounds := scr.Bounds()
	var paint func(e *Element)
	paint = func(e *Element) {
		if e.Display == DisplayNone {
			return
		}
		if e != d.body && e.Tag != "canvas" {
			drawElement(scr, bounds, e)
		}
		for _, c := range e.children {
			paint(c)
		}
	}
	paint(d.body)
}

func drawElement(scr uv.Screen, bounds image.Rectangle, e *Element) {
	box := e.Box.Intersect(bounds)
	if box.Empty() {
		return
	}

	if e.Background.A > 0 {
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				scr.SetCell(x, y, &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: e.Background}})
			}
		}
	}
	if e.Image != nil {
		drawImage(scr, box, e)
	}
	if e.Progress != nil {
		drawProgress(scr, box, e)
	}
	if e.Text != "" {
		drawText(scr, box, e)
	}
}

// drawImage samples the element's texture into half-block cells.
func drawImage(scr uv.Screen, box image.Rectangle, e *Element) {
	w, h := float64(e.Box.Dx()), float64(e.Box.Dy()*2)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		py := float64(y-e.Box.Min.Y) * 2
		for x := box.Min.X; x < box.Max.X; x++ {
			u := (float64(x-e.Box.Min.X) + 0.5) / w
			top := e.Image.Sample(u, 1-(py+0.5)/h)
			bot := e.Image.Sample(u, 1-(py+1.5)/h)
			scr.SetCell(x, y, &uv.Cell{Content: "▀", Width: 1, Style: uv.Style{Fg: top, Bg: bot}})
		}
	}
}

func drawProgress(scr uv.Screen, box image.Rectangle, e *Element) {
	filled := int(e.Progress.Fraction() * float64(e.Box.Dx()))
	fg := textColor(e)
	y := box.Min.Y
	for x := box.Min.X; x < box.Max.X; x++ {
		glyph := "░"
		if x-e.Box.Min.X < filled {
			glyph = "█"
		}
		scr.SetCell(x, y, &uv.Cell{Content: glyph, Width: 1, Style: uv.Style{Fg: fg, Bg: bgAt(scr, x, y, e)}})
	}
}

func drawText(scr uv.Screen, box image.Rectangle, e *Element) {
	var attrs uint8
	if e.Bold {
		attrs = uv.AttrBold
	}
	fg := textColor(e)
	startY := e.Box.Min.Y
	if e.Progress != nil {
		startY++
	}
	for i, line := range wrapText(e.Text, e.Box.Dx()) {
		y := startY + i
		if y >= box.Max.Y {
			break
		}
		if y < box.Min.Y {
			continue
		}
		x := e.Box.Min.X
		for _, r := range line {
			if x >= box.Min.X && x < box.Max.X {
				scr.SetCell(x, y, &uv.Cell{
					Content: string(r),
					Width:   1,
					Style:   uv.Style{Fg: fg, Bg: bgAt(scr, x, y, e), Attrs: attrs},
				})
			}
			x++
		}
	}
}

func textColor(e *Element) color.Color {
	if e.Color.A == 0 {
		return color.RGBA{255, 255, 255, 255}
	}
	return e.Color
}

// bgAt keeps whatever is behind transparent elements.
func bgAt(scr uv.Screen, x, y int, e *Element) color.Color {
	if e.Background.A > 0 {
		return e.Background
	}
	if c := scr.CellAt(x, y); c != nil {
		return c.Style.Bg
	}
	return nil
}

// wrapText breaks s into lines no wider than width, splitting on spaces and
// hard-breaking words longer than a line.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			if len(line) > 0 && len(line)+1+len(w) > width {
				lines = append(lines, string(line))
				line = line[:0]
			}
			for len(w) > width {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = line[:0]
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			if len(line) > 0 {
				line = append(line, ' ')
			}
			line = append(line, w...)
		}
		lines = append(lines, string(line))
	}
	return lines
}
