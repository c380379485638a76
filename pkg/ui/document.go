// Package ui is the page around the carousel: a small element tree with ids,
// classes, display state and cell-space boxes, drawn over the 3D canvas.
// The carousel reads and mutates it the way a browser script treats the DOM.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/taigrr/carousel/pkg/render"
)

// Display is an element's display state.
type Display int

const (
	DisplayNone Display = iota
	DisplayBlock
	DisplayFlex
)

func (d Display) String() string {
	switch d {
	case DisplayNone:
		return "none"
	case DisplayBlock:
		return "block"
	case DisplayFlex:
		return "flex"
	default:
		return fmt.Sprintf("Display(%d)", int(d))
	}
}

// UnmarshalText parses "none", "block" or "flex".
func (d *Display) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*d = DisplayNone
	case "block", "":
		*d = DisplayBlock
	case "flex":
		*d = DisplayFlex
	default:
		return fmt.Errorf("unknown display %q", b)
	}
	return nil
}

// Element is a node of the page. Boxes are absolute, in terminal cells.
type Element struct {
	ID      string
	Tag     string
	Classes []string
	Data    map[string]string // data-* attributes

	Box        image.Rectangle
	Anchor     *Anchor // when set, Layout recomputes Box from it
	Display    Display
	Text       string
	Image      *render.Texture
	Progress   *Progress
	Color      color.RGBA // text
	Background color.RGBA // zero alpha leaves the canvas visible
	Bold       bool

	// NoPointerEvents removes the element and its subtree from hit testing.
	NoPointerEvents bool
	Opacity         float64
	Cursor          string

	parent   *Element
	children []*Element
}

// NewElement creates a visible, opaque element.
func NewElement(tag, id string, classes ...string) *Element {
	return &Element{Tag: tag, ID: id, Classes: classes, Display: DisplayBlock, Opacity: 1}
}

// Parent returns the parent element, or nil for a detached or root element.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements.
func (e *Element) Children() []*Element { return e.children }

// Append adds children at the end, detaching them from any prior parent.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		c.Remove()
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	p := e.parent
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

// ReplaceWith puts elems where e was and detaches e.
func (e *Element) ReplaceWith(elems ...*Element) {
	p := e.parent
	if p == nil {
		return
	}
	i := slices.Index(p.children, e)
	e.Remove()
	for _, c := range elems {
		c.Remove()
		c.parent = p
	}
	p.children = slices.Insert(p.children, i, elems...)
}

// HasClass reports whether e carries class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes, class)
}

// Matches tests a simple selector: "#id", ".class", "tag" or "*".
func (e *Element) Matches(selector string) bool {
	switch {
	case selector == "*":
		return true
	case strings.HasPrefix(selector, "#"):
		return e.ID == selector[1:]
	case strings.HasPrefix(selector, "."):
		return e.HasClass(selector[1:])
	default:
		return e.Tag == selector
	}
}

// Closest returns the nearest of e and its ancestors matching any selector.
func (e *Element) Closest(selectors ...string) *Element {
	for n := e; n != nil; n = n.parent {
		for _, s := range selectors {
			if n.Matches(s) {
				return n
			}
		}
	}
	return nil
}

// Show sets the display state, block if d is omitted.
func (e *Element) Show(d ...Display) {
	e.Display = DisplayBlock
	if len(d) > 0 {
		e.Display = d[0]
	}
}

// Hide sets display none.
func (e *Element) Hide() { e.Display = DisplayNone }

// Visible reports whether e and all its ancestors are displayed.
func (e *Element) Visible() bool {
	for n := e; n != nil; n = n.parent {
		if n.Display == DisplayNone {
			return false
		}
	}
	return true
}

func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// Document is the page: a body element plus viewport state.
type Document struct {
	body    *Element
	ScrollY int
	Cursor  string
}

// NewDocument creates an empty page.
func NewDocument() *Document {
	return &Document{body: NewElement("body", "")}
}

// Body returns the root element.
func (d *Document) Body() *Element { return d.body }

// Walk visits every element in tree order until fn returns false.
func (d *Document) Walk(fn func(*Element) bool) {
	d.body.walk(fn)
}

// Layout resolves every anchored element against a viewport of width by
// height cells.
func (d *Document) Layout(width, height int) {
	d.body.Box = image.Rect(0, 0, width, height)
	d.Walk(func(e *Element) bool {
		if e.Anchor != nil {
			e.Box = e.Anchor.Resolve(width, height)
		}
		return true
	})
}

// ByID returns the element with id, or nil.
func (d *Document) ByID(id string) *Element {
	var found *Element
	d.Walk(func(e *Element) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// Query returns every element matching selector, in tree order.
func (d *Document) Query(selector string) []*Element {
	var out []*Element
	d.Walk(func(e *Element) bool {
		if e.Matches(selector) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// SetDisplay sets the display state of every element matching selector.
func (d *Document) SetDisplay(selector string, disp Display) {
	for _, e := range d.Query(selector) {
		e.Display = disp
	}
}

// ElementAt returns the topmost displayed element under cell (x, y) that
// takes pointer events. Later siblings are above earlier ones and children
// above parents. The body is returned when nothing else is hit.
func (d *Document) ElementAt(x, y int) *Element {
	if hit := hitTest(d.body, image.Pt(x, y)); hit != nil {
		return hit
	}
	return d.body
}

func hitTest(e *Element, p image.Point) *Element {
	if e.Display == DisplayNone || e.NoPointerEvents {
		return nil
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		if hit := hitTest(e.children[i], p); hit != nil {
			return hit
		}
	}
	if p.In(e.Box) {
		return e
	}
	return nil
}
