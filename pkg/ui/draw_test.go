package ui

import (
	"image"
	"image/color"
	"slices"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"wraps on space", "hello world", 8, []string{"hello", "world"}},
		{"hard break", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps newlines", "a\nb", 10, []string{"a", "b"}},
		{"zero width", "abc", 0, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wrapText(tc.in, tc.width); !slices.Equal(got, tc.want) {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
		})
	}
}

func rowText(scr uv.ScreenBuffer, y, x0, x1 int) string {
	var s string
	for x := x0; x < x1; x++ {
		if c := scr.CellAt(x, y); c != nil {
			s += c.Content
		}
	}
	return s
}

func TestDrawText(t *testing.T) {
	doc := NewDocument()
	e := NewElement("div", "t")
	e.Box = image.Rect(2, 1, 12, 3)
	e.Text = "hi there"
	e.Background = color.RGBA{0, 0, 255, 255}
	doc.Body().Append(e)

	scr := uv.NewScreenBuffer(20, 5)
	doc.Draw(scr)

	if got := rowText(scr, 1, 2, 10); got != "hi there" {
		t.Errorf("row 1 = %q", got)
	}
	c := scr.CellAt(11, 2)
	if c == nil || c.Style.Bg != e.Background {
		t.Errorf("background not filled: %+v", c)
	}
	if c := scr.CellAt(0, 0); c != nil && c.Content != " " && c.Content != "" {
		t.Errorf("cell outside the box touched: %q", c.Content)
	}
}

func TestDrawSkipsHiddenAndCanvas(t *testing.T) {
	doc := NewDocument()
	canvas := NewElement("canvas", CanvasID)
	canvas.Box = image.Rect(0, 0, 10, 2)
	canvas.Text = "x"
	hidden := NewElement("div", "h")
	hidden.Box = image.Rect(0, 1, 10, 2)
	hidden.Text = "hidden"
	hidden.Hide()
	doc.Body().Append(canvas, hidden)

	scr := uv.NewScreenBuffer(10, 2)
	doc.Draw(scr)
	if got := rowText(scr, 0, 0, 1); got == "x" {
		t.Error("canvas text drawn")
	}
	if got := rowText(scr, 1, 0, 6); got == "hidden" {
		t.Error("hidden element drawn")
	}
}

func TestDrawProgress(t *testing.T) {
	doc := NewDocument()
	e := NewElement("div", ProgressIndicatorID)
	e.Box = image.Rect(0, 0, 10, 1)
	e.Progress = &Progress{}
	e.Progress.Set(3, 10)
	doc.Body().Append(e)

	scr := uv.NewScreenBuffer(10, 1)
	doc.Draw(scr)
	if got := rowText(scr, 0, 0, 10); got != "███░░░░░░░" {
		t.Errorf("progress = %q", got)
	}
}
