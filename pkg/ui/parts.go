package ui

import (
	"context"
	"embed"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DefaultParts holds the stock page fragments.
//
//go:embed parts/*.yaml
var DefaultParts embed.FS

// Anchor positions an element relative to the viewport. Negative X or Y
// count from the right or bottom edge; a W or H of zero or less stretches to
// that edge, minus its magnitude.
type Anchor struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Resolve returns the box of a for a viewport of width by height cells.
func (a Anchor) Resolve(width, height int) image.Rectangle {
	x, y := a.X, a.Y
	if x < 0 {
		x += width
	}
	if y < 0 {
		y += height
	}
	w, h := a.W, a.H
	if w <= 0 {
		w = width - x + w
	}
	if h <= 0 {
		h = height - y + h
	}
	return image.Rect(x, y, x+max(w, 0), y+max(h, 0))
}

// ElementSpec is the YAML form of an element.
type ElementSpec struct {
	ID         string            `yaml:"id"`
	Tag        string            `yaml:"tag"`
	Class      []string          `yaml:"class"`
	Data       map[string]string `yaml:"data"`
	Box        Anchor            `yaml:"box"`
	Display    string            `yaml:"display"`
	Text       string            `yaml:"text"`
	Color      string            `yaml:"color"`
	Background string            `yaml:"background"`
	Bold       bool              `yaml:"bold"`
	Children   []ElementSpec     `yaml:"children"`
}

// Build turns the spec into an element tree.
func (s ElementSpec) Build() (*Element, error) {
	tag := s.Tag
	if tag == "" {
		tag = "div"
	}
	e := NewElement(tag, s.ID, s.Class...)
	e.Data = s.Data
	e.Text = strings.TrimSpace(s.Text)
	e.Bold = s.Bold
	anchor := s.Box
	e.Anchor = &anchor

	if err := e.Display.UnmarshalText([]byte(s.Display)); err != nil {
		return nil, fmt.Errorf("element %q: %w", s.ID, err)
	}
	var err error
	if e.Color, err = ParseColor(s.Color); err != nil {
		return nil, fmt.Errorf("element %q color: %w", s.ID, err)
	}
	if e.Background, err = ParseColor(s.Background); err != nil {
		return nil, fmt.Errorf("element %q background: %w", s.ID, err)
	}
	for _, cs := range s.Children {
		c, err := cs.Build()
		if err != nil {
			return nil, err
		}
		e.Append(c)
	}
	return e, nil
}

var namedColors = map[string]string{
	"black":      "#000000",
	"white":      "#ffffff",
	"dodgerblue": "#1e90ff",
	"gray":       "#808080",
	"lightgray":  "#d3d3d3",
}

// ParseColor parses "#rrggbb" or a few CSS color names. An empty string is
// the transparent color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "transparent" {
		return color.RGBA{}, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// Fragment is one page part: elements that replace a placeholder.
type Fragment struct {
	Path        string        `yaml:"-"`
	Placeholder string        `yaml:"placeholder"`
	Elements    []ElementSpec `yaml:"elements"`
	Err         error         `yaml:"-"`
}

// PartLoader fetches page fragments concurrently. Failed fragments are
// logged and still count toward completion.
type PartLoader struct {
	FS     fs.FS
	Paths  []string
	Logger *log.Logger
}

// NewPartLoader loads every *.yaml file of fsys (searched in dir), sorted by
// name.
func NewPartLoader(fsys fs.FS, dir string, logger *log.Logger) (*PartLoader, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PartLoader{FS: fsys, Paths: paths, Logger: logger.WithPrefix("parts")}, nil
}

// Fetch reads and decodes every fragment. The result is in Paths order and
// always has one entry per path.
func (p *PartLoader) Fetch(ctx context.Context) []Fragment {
	frags := make([]Fragment, len(p.Paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range p.Paths {
		g.Go(func() error {
			frags[i] = p.fetch(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return frags
}

func (p *PartLoader) fetch(ctx context.Context, name string) Fragment {
	frag := Fragment{Path: name}
	if err := ctx.Err(); err != nil {
		frag.Err = err
		return frag
	}
	data, err := fs.ReadFile(p.FS, name)
	if err != nil {
		frag.Err = fmt.Errorf("read part: %w", err)
		return frag
	}
	if err := yaml.Unmarshal(data, &frag); err != nil {
		frag.Err = fmt.Errorf("decode part %s: %w", name, err)
	}
	return frag
}

// Splice replaces each fragment's placeholder with its elements and returns
// the number of fragments applied. Fragments without a matching placeholder
// are appended to the body.
func (p *PartLoader) Splice(doc *Document, frags []Fragment) int {
	applied := 0
	for _, f := range frags {
		if f.Err != nil {
			p.Logger.Warn("part failed", "path", f.Path, "err", f.Err)
			continue
		}
		elems := make([]*Element, 0, len(f.Elements))
		for _, spec := range f.Elements {
			e, err := spec.Build()
			if err != nil {
				p.Logger.Warn("part element", "path", f.Path, "err", err)
				continue
			}
			elems = append(elems, e)
		}
		if ph := doc.ByID(f.Placeholder); ph != nil && f.Placeholder != "" {
			ph.ReplaceWith(elems...)
		} else {
			p.Logger.Debug("no placeholder, appending", "path", f.Path, "placeholder", f.Placeholder)
			doc.Body().Append(elems...)
		}
		applied++
	}
	p.Logger.Info("parts loaded", "applied", applied, "total", len(frags))
	return applied
}

// Load fetches, splices and then fires ready. Splicing happens on the
// calling goroutine.
func (p *PartLoader) Load(ctx context.Context, doc *Document, ready *Signal) int {
	n := p.Splice(doc, p.Fetch(ctx))
	ready.Fire()
	return n
}
