package ui

// Element ids the carousel relies on.
const (
	CanvasID            = "carouselCanvas"
	ProgressDialogID    = "progress-dialog"
	ProgressIndicatorID = "progress-indicator"
	CardInfoID          = "cardInfo"
	InfoImageID         = "infoImage"
	InfoTextID          = "infoText"
	GraphicID           = "hp-graphic"
)

// Placeholders spliced by the default parts.
var Placeholders = []string{"navigation", "workarchive", "aboutme", "projects", "contact"}

// NewPage builds the page skeleton: the canvas (hidden, not yet taking
// pointer events), the loading dialog, the hover panel and one empty
// placeholder per part.
func NewPage() *Document {
	doc := NewDocument()
	body := doc.Body()

	canvas := NewElement("canvas", CanvasID)
	canvas.Anchor = &Anchor{}
	canvas.Opacity = 0
	canvas.NoPointerEvents = true
	body.Append(canvas)

	graphic := NewElement("div", GraphicID)
	graphic.Anchor = &Anchor{X: 2, Y: -2, W: 24, H: 1}
	graphic.Text = "selected work, 2024-2025"
	graphic.Color = mustColor("gray")
	body.Append(graphic)

	for _, id := range Placeholders {
		ph := NewElement("div", id, "placeholder")
		ph.Anchor = &Anchor{W: 1, H: 1}
		ph.NoPointerEvents = true
		body.Append(ph)
	}

	info := NewElement("div", CardInfoID)
	info.Anchor = &Anchor{X: -32, Y: -12, W: 30, H: 10}
	info.Background = mustColor("white")
	info.Hide()
	img := NewElement("img", InfoImageID)
	img.Anchor = &Anchor{X: -31, Y: -11, W: 12, H: 8}
	text := NewElement("div", InfoTextID)
	text.Anchor = &Anchor{X: -18, Y: -11, W: 15, H: 8}
	text.Color = ToggleClosed
	info.Append(img, text)
	body.Append(info)

	dialog := NewElement("div", ProgressDialogID)
	dialog.Anchor = &Anchor{X: 2, Y: -5, W: 40, H: 2}
	dialog.Text = "loading projects"
	dialog.Color = mustColor("gray")
	dialog.Hide()
	indicator := NewElement("div", ProgressIndicatorID)
	indicator.Anchor = &Anchor{X: 2, Y: -4, W: 40, H: 1}
	indicator.Progress = &Progress{}
	indicator.Color = ToggleOpen
	dialog.Append(indicator)
	body.Append(dialog)

	return doc
}
