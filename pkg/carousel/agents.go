package carousel

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/models"
	"github.com/taigrr/carousel/pkg/render"
)

// Agent counts.
const (
	BirdCount = 8
	RockCount = 6
	birdSpan  = 0.6
	flapRate  = 0.25
)

// Bird circles the ring, flapping.
type Bird struct {
	Node   *render.Node
	Angle  float64
	Radius float64
	Height float64
	Speed  float64
	Phase  float64
}

// Update advances the bird one tick.
func (b *Bird) Update() {
	b.Angle = wrapAngle(b.Angle + b.Speed)
	b.Phase = wrapAngle(b.Phase + flapRate)
	pos := math3d.Polar(b.Radius, b.Angle, b.Height+0.15*math.Sin(b.Phase*0.5))
	ahead := math3d.Polar(b.Radius, b.Angle+math.Copysign(0.1, b.Speed), b.Height)
	b.Node.Position = pos
	b.Node.Rotation = math3d.LookRotation(pos, ahead, math3d.Up())
	b.Node.Scale = math3d.V3(1, 0.4+0.6*math.Abs(math.Sin(b.Phase)), 1)
}

// Rock drifts around the central body, tumbling.
type Rock struct {
	Node   *render.Node
	Angle  float64
	Radius float64
	Height float64
	Speed  float64
	Axis   math3d.Vec3
	Tumble float64
	spin   float64
}

// Update advances the rock one tick.
func (r *Rock) Update() {
	r.Angle = wrapAngle(r.Angle + r.Speed)
	r.Tumble = wrapAngle(r.Tumble + r.spin)
	r.Node.Position = math3d.Polar(r.Radius, r.Angle, r.Height)
	r.Node.Rotation = math3d.Rotate(r.Axis, r.Tumble)
}

// newBirds places n birds on orbits around the ring. mesh may be nil, in
// which case the procedural bird is used.
func newBirds(n int, mesh *models.Mesh, rng *rand.Rand, mat *render.Material) []*Bird {
	if mesh == nil {
		mesh = models.NewBird(birdSpan)
	} else {
		mesh = mesh.Clone()
		mesh.Normalize(birdSpan)
	}
	birds := make([]*Bird, n)
	for i := range birds {
		b := &Bird{
			Node:   render.NewNode("bird", mesh, mat),
			Angle:  rng.Float64() * 2 * math.Pi,
			Radius: 5 + rng.Float64()*3,
			Height: -2 + rng.Float64()*2,
			Speed:  0.004 + rng.Float64()*0.006,
			Phase:  rng.Float64() * 2 * math.Pi,
		}
		if i%2 == 1 {
			b.Speed = -b.Speed
		}
		b.Node.Visible = false
		b.Update()
		birds[i] = b
	}
	return birds
}

func newRocks(n int, rng *rand.Rand, mat *render.Material) []*Rock {
	rocks := make([]*Rock, n)
	for i := range rocks {
		r := &Rock{
			Node:   render.NewNode("rock", models.NewRock(0.35+rng.Float64()*0.3, uint64(i+1)), mat),
			Angle:  SlotAngle(i, n) + rng.Float64()*0.5,
			Radius: 5.5 + rng.Float64()*2.5,
			Height: -7 + rng.Float64()*3,
			Speed:  0.002 + rng.Float64()*0.003,
			Axis:   math3d.V3(rng.Float64()-0.5, rng.Float64()-0.5, rng.Float64()-0.5).Normalize(),
			spin:   0.005 + rng.Float64()*0.02,
		}
		if r.Axis.LenSq() == 0 {
			r.Axis = math3d.Up()
		}
		r.Node.Visible = false
		r.Update()
		rocks[i] = r
	}
	return rocks
}
