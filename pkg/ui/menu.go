package ui

import (
	"image/color"
	"io"

	"github.com/charmbracelet/log"
)

// Toggle colors.
var (
	ToggleOpen   = mustColor("dodgerblue")
	ToggleClosed = mustColor("black")
)

func mustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LabelToggler hides and shows the carousel's coordinate labels while a menu
// covers the scene.
type LabelToggler interface {
	HideLabels()
	ShowLabels()
}

// menuToggles pairs each navigation toggle with the panel it opens.
var menuToggles = []struct{ toggle, panel string }{
	{"mainToggle", "menu"},
	{"researchToggle", "menu2"},
	{"aboutToggle", "aboutme"},
}

// Menu drives the navigation toggles and the project panels.
type Menu struct {
	doc    *Document
	Labels LabelToggler
	logger *log.Logger
}

// NewMenu creates a menu over doc. labels may be nil.
func NewMenu(doc *Document, labels LabelToggler, logger *log.Logger) *Menu {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Menu{doc: doc, Labels: labels, logger: logger.WithPrefix("menu")}
}

// Click handles a click on el and reports whether the menu consumed it.
func (m *Menu) Click(el *Element) bool {
	if el == nil {
		return false
	}
	if box := el.Closest(".work-box"); box != nil {
		return m.OpenProject(box.Data["project-id"])
	}
	if el.Closest(".close-button") != nil {
		m.CloseProject()
		return true
	}
	for _, t := range menuToggles {
		if el.Closest("#"+t.toggle) != nil {
			m.Toggle(t.toggle, t.panel)
			return true
		}
	}
	return false
}

// Toggle opens panel if it is hidden and closes it otherwise. Other menu
// panels are closed first.
func (m *Menu) Toggle(toggleID, panelID string) {
	panel := m.doc.ByID(panelID)
	toggle := m.doc.ByID(toggleID)
	if panel == nil || toggle == nil {
		m.logger.Warn("toggle target missing", "toggle", toggleID, "panel", panelID)
		return
	}
	opening := panel.Display == DisplayNone
	m.closeMenus()
	if !opening {
		m.showLabels()
		return
	}
	panel.Show()
	toggle.Color = ToggleOpen
	m.hideLabels()
}

// Open reports whether any menu panel is displayed.
func (m *Menu) Open() bool {
	for _, t := range menuToggles {
		if p := m.doc.ByID(t.panel); p != nil && p.Display != DisplayNone {
			return true
		}
	}
	return false
}

// OpenProject shows the panel of project id and clears everything drawn
// over it. It reports false if no such panel exists.
func (m *Menu) OpenProject(id string) bool {
	target := m.doc.ByID(id)
	if id == "" || target == nil {
		m.logger.Warn("project panel not found", "id", id)
		return false
	}
	m.doc.SetDisplay(".project-container", DisplayNone)
	target.Show(DisplayFlex)
	m.closeMenus()
	if g := m.doc.ByID("hp-graphic"); g != nil {
		g.Hide()
	}
	m.doc.ScrollY = 0
	m.hideLabels()
	m.logger.Debug("project opened", "id", id)
	return true
}

// CloseProject hides every project panel and gives the pointer back to the
// canvas.
func (m *Menu) CloseProject() {
	m.doc.SetDisplay(".project-container", DisplayNone)
	if c := m.doc.ByID("carouselCanvas"); c != nil {
		c.NoPointerEvents = false
	}
	if g := m.doc.ByID("hp-graphic"); g != nil {
		g.Show()
	}
	m.showLabels()
}

func (m *Menu) closeMenus() {
	for _, t := range menuToggles {
		if p := m.doc.ByID(t.panel); p != nil {
			p.Hide()
		}
		if tg := m.doc.ByID(t.toggle); tg != nil {
			tg.Color = ToggleClosed
		}
	}
}

func (m *Menu) hideLabels() {
	if m.Labels != nil {
		m.Labels.HideLabels()
	}
}

func (m *Menu) showLabels() {
	if m.Labels != nil {
		m.Labels.ShowLabels()
	}
}
