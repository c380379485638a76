package carousel

import (
	"fmt"
	"path/filepath"

	"github.com/taigrr/carousel/pkg/assets"
)

// Project is one portfolio entry shown as a card.
type Project struct {
	ID       string
	Title    string
	Subtitle string
	Image    string // relative to the asset root
	URL      string
}

// Projects is the fixed project list, in slot order.
var Projects = []Project{
	{ID: "project1", Title: "3D Gaussian Splat", Subtitle: "2025 Project", Image: "images/cube1.png", URL: "html/project1.html"},
	{ID: "project2", Title: "Touchdesigner AI", Subtitle: "2024 Project", Image: "images/cube2.png", URL: "html/project2.html"},
	{ID: "project3", Title: "Title Example", Subtitle: "SubText", Image: "images/cube3.png", URL: "html/project3.html"},
	{ID: "project4", Title: "Title Example", Subtitle: "SubText", Image: "images/cube4.png", URL: "html/project4.html"},
	{ID: "project5", Title: "Title Example", Subtitle: "SubText", Image: "images/cube5.png", URL: "html/project5.html"},
	{ID: "project6", Title: "Title Example", Subtitle: "SubText", Image: "images/cube6.png", URL: "html/project6.html"},
}

// Asset ids beyond the per-project textures.
const (
	SkyAssetID  = "sky"
	BirdAssetID = "bird"
)

// Manifest lists every asset the scene needs, rooted at root: one texture per
// project (also used for the central body's faces), the sky texture and the
// bird model.
func Manifest(root string) assets.Manifest {
	m := make(assets.Manifest, 0, len(Projects)+2)
	for _, p := range Projects {
		m = append(m, assets.Asset{ID: p.ID, Kind: assets.KindTexture, Path: filepath.Join(root, p.Image)})
	}
	m = append(m,
		assets.Asset{ID: SkyAssetID, Kind: assets.KindTexture, Path: filepath.Join(root, "images", "sky.jpg")},
		assets.Asset{ID: BirdAssetID, Kind: assets.KindModel, Path: filepath.Join(root, "models", "bird.glb")},
	)
	return m
}

func (p Project) String() string {
	return fmt.Sprintf("%s (%s)", p.Title, p.ID)
}
