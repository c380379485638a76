// Package assets loads the carousel's textures and models concurrently and
// reports completion exactly once, on full resolution or on timeout.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/taigrr/carousel/pkg/models"
	"github.com/taigrr/carousel/pkg/render"
)

// ErrUnknownKind is returned for assets whose Kind no fetcher handles.
var ErrUnknownKind = errors.New("unknown asset kind")

// ErrTimedOut marks fallback resources for assets still outstanding when the
// load deadline passed.
var ErrTimedOut = errors.New("asset not resolved before timeout")

// FallbackColor fills the stand-in texture of a failed image.
var FallbackColor = render.Hex(0x888888)

// Kind is the type of an asset.
type Kind int

const (
	KindTexture Kind = iota
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindModel:
		return "model"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Asset is one entry of a manifest.
type Asset struct {
	ID   string
	Kind Kind
	Path string
}

// Manifest is the fixed list of assets a scene needs.
type Manifest []Asset

// Validate reports duplicate or empty ids.
func (m Manifest) Validate() error {
	seen := make(map[string]bool, len(m))
	for i, a := range m {
		if a.ID == "" {
			return fmt.Errorf("asset %d: empty id", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("asset %d: duplicate id %q", i, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

// Resource is a resolved asset: the decoded data, or a fallback.
type Resource struct {
	Asset    Asset
	Texture  *render.Texture
	Mesh     *models.Mesh
	Fallback bool
	Err      error // why the fallback was used
}

// Fallback returns the stand-in resource for a. Textures become a solid gray
// texture; models have no mesh, and the caller substitutes procedural
// geometry.
func Fallback(a Asset, err error) Resource {
	r := Resource{Asset: a, Fallback: true, Err: err}
	if a.Kind == KindTexture {
		r.Texture = render.NewSolidTexture(FallbackColor)
	}
	return r
}

// Fetcher resolves a single asset.
type Fetcher interface {
	Fetch(ctx context.Context, a Asset) (Resource, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, a Asset) (Resource, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, a Asset) (Resource, error) {
	return f(ctx, a)
}

// FileFetcher reads assets from disk. Relative paths are resolved against
// Root.
type FileFetcher struct {
	Root string
}

// Fetch decodes the file behind a.
func (f FileFetcher) Fetch(ctx context.Context, a Asset) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return Resource{}, err
	}
	path := a.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.Root, path)
	}

	switch a.Kind {
	case KindTexture:
		tex, err := render.LoadTexture(path)
		if err != nil {
			return Resource{}, fmt.Errorf("load texture %s: %w", a.ID, err)
		}
		return Resource{Asset: a, Texture: tex}, nil
	case KindModel:
		mesh, err := models.LoadGLB(path)
		if err != nil {
			return Resource{}, fmt.Errorf("load model %s: %w", a.ID, err)
		}
		return Resource{Asset: a, Mesh: mesh}, nil
	default:
		return Resource{}, fmt.Errorf("%s: %w: %v", a.ID, ErrUnknownKind, a.Kind)
	}
}
