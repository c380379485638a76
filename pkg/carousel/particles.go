package carousel

import (
	"math"

	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/render"
)

// Particle ring tuning.
const (
	ParticleCapacity = 192
	ringSize         = 24
	ringInterval     = 45 // ticks between rings
	ringSpeed        = 0.04
	ringFade         = 0.008
	ringExpiry       = 6.0 // radius past which a particle dies
)

// Particle is one pooled point.
type Particle struct {
	Position math3d.Vec3
	Velocity math3d.Vec3
	Opacity  float64
	Active   bool
	born     int
}

// ParticlePool is a fixed array of particles addressed by index. It never
// grows: a spawn takes the next free slot, or recycles the oldest live one.
type ParticlePool struct {
	items  []Particle
	origin math3d.Vec3
	next   int
	clock  int
}

// NewParticlePool creates a pool of capacity slots around origin.
func NewParticlePool(capacity int, origin math3d.Vec3) *ParticlePool {
	return &ParticlePool{items: make([]Particle, capacity), origin: origin}
}

// Cap returns the fixed capacity.
func (p *ParticlePool) Cap() int { return len(p.items) }

// Active counts live particles.
func (p *ParticlePool) Active() int {
	n := 0
	for i := range p.items {
		if p.items[i].Active {
			n++
		}
	}
	return n
}

// Spawn activates a particle and returns its slot, or -1 for an empty pool.
func (p *ParticlePool) Spawn(pos, vel math3d.Vec3) int {
	if len(p.items) == 0 {
		return -1
	}
	slot := -1
	for k := range len(p.items) {
		i := (p.next + k) % len(p.items)
		if !p.items[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		slot = p.oldest()
	}
	p.items[slot] = Particle{Position: pos, Velocity: vel, Opacity: 1, Active: true, born: p.clock}
	p.next = (slot + 1) % len(p.items)
	return slot
}

func (p *ParticlePool) oldest() int {
	best := 0
	for i := range p.items {
		if p.items[i].born < p.items[best].born {
			best = i
		}
	}
	return best
}

// SpawnRing emits n particles in the XZ plane moving outward from the origin.
func (p *ParticlePool) SpawnRing(n int, speed float64) {
	for i := range n {
		a := float64(i) / float64(n) * 2 * math.Pi
		dir := math3d.V3(math.Cos(a), 0, math.Sin(a))
		p.Spawn(p.origin, dir.Scale(speed))
	}
}

// Step advances every live particle once and kills those that faded out or
// left the expiry radius.
func (p *ParticlePool) Step(fade, expiry float64) {
	p.clock++
	for i := range p.items {
		it := &p.items[i]
		if !it.Active {
			continue
		}
		it.Position = it.Position.Add(it.Velocity)
		it.Opacity -= fade
		if it.Opacity <= 0 || it.Position.Distance(p.origin) > expiry {
			it.Active = false
		}
	}
}

// Reset deactivates every particle in place.
func (p *ParticlePool) Reset() {
	for i := range p.items {
		p.items[i].Active = false
	}
	p.next = 0
}

// AppendPoints adds the live particles to pts in color c.
func (p *ParticlePool) AppendPoints(pts []render.Point, c render.Color) []render.Point {
	for i := range p.items {
		if it := p.items[i]; it.Active {
			pts = append(pts, render.Point{Position: it.Position, Color: c, Opacity: it.Opacity})
		}
	}
	return pts
}
