package carousel

import (
	"fmt"
	"image"

	"github.com/taigrr/carousel/pkg/math3d"
	"github.com/taigrr/carousel/pkg/ui"
)

// Tick advances the scene one frame and renders it into Frame. Before Build
// it only keeps the canvas blank.
func (c *Controller) Tick() {
	c.opacity, c.opacityVel = c.fade.Update(c.opacity, c.opacityVel, c.fadeTarget)
	c.opacity = min(max(c.opacity, 0), 1)
	if c.fadeTarget-c.opacity < 0.005 {
		c.opacity = c.fadeTarget
	}
	if c.canvas != nil {
		c.canvas.Opacity = c.opacity
	}
	if !c.built {
		c.render()
		return
	}

	c.stepDolly()

	if !c.hovering {
		c.targetRotation += autoRotate
	}
	c.rotation += (c.targetRotation - c.rotation) * damping
	c.drift = wrapAngle(c.drift + tiltDrift)
	c.placeCards()

	c.body.SpinX = wrapAngle(c.body.SpinX + bodySpin)
	c.body.SpinY = wrapAngle(c.body.SpinY + bodySpin)
	c.body.Node.Rotation = math3d.RotateX(c.body.SpinX).Mul(math3d.RotateY(c.body.SpinY))
	c.sky.Spin = wrapAngle(c.sky.Spin + skySpin)
	c.sky.Node.Rotation = math3d.RotateY(c.sky.Spin)

	c.stepAgents()
	c.placeLabels()
	c.render()
}

// stepDolly moves the camera a fixed fraction of the remaining distance
// toward the target, never past it.
func (c *Controller) stepDolly() {
	target := c.profile.TargetZ
	if c.dollyZ <= target {
		return
	}
	c.dollyZ -= c.profile.Rate * (c.dollyZ - target)
	if c.dollyZ < target {
		c.dollyZ = target
	}
	c.placeCamera()
}

func (c *Controller) placeCards() {
	tilt := CardTilt + c.drift
	for _, card := range c.cards {
		card.Angle = SlotAngle(card.Slot, len(c.cards)) + c.rotation
		card.Node.Position, card.Node.Rotation = CardPose(card.Angle, tilt)
	}
}

func (c *Controller) stepAgents() {
	for _, b := range c.birds {
		if b.Node.Visible {
			b.Update()
		}
	}
	for _, r := range c.rocks {
		if r.Node.Visible {
			r.Update()
		}
	}
	if !c.particlesOn {
		return
	}
	if c.ticks%ringInterval == 0 {
		c.particles.SpawnRing(ringSize, ringSpeed)
	}
	c.ticks++
	c.particles.Step(ringFade, ringExpiry)
}

// placeLabels moves every shown label next to its card's screen position.
func (c *Controller) placeLabels() {
	vp := Viewport{Width: c.fb.Width, Height: c.fb.Height}
	viewProj := c.camera.ViewProjectionMatrix()
	for _, l := range c.labels {
		if l.Element.Display == ui.DisplayNone {
			continue
		}
		p := l.Card.Node.Position
		x, y, ok := ScreenPosition(p, viewProj, vp)
		if !ok {
			l.Element.Box = image.Rectangle{}
			continue
		}
		l.Element.Text = fmt.Sprintf("%.1f,%.1f,%.1f", p.X, p.Y, p.Z)
		w := len(l.Element.Text)
		col := min(int(x), max(c.cols-w, 0))
		row := int(y) / 2
		l.Element.Box = image.Rect(col, row, col+w, row+1)
	}
}

// setLabelsForMode records whether the active mode shows labels.
func (c *Controller) setLabelsForMode(on bool) {
	c.labelsByMode = on
	c.refreshLabels()
}

// HideLabels hides the coordinate labels until ShowLabels, whatever the
// mode.
func (c *Controller) HideLabels() {
	c.labelsByPlayer = false
	c.refreshLabels()
}

// ShowLabels lets the coordinate labels show again if the mode has them.
func (c *Controller) ShowLabels() {
	c.labelsByPlayer = true
	c.refreshLabels()
}

func (c *Controller) refreshLabels() {
	show := c.labelsByMode && c.labelsByPlayer
	for _, l := range c.labels {
		if show {
			l.Element.Show()
		} else {
			l.Element.Hide()
		}
	}
	if show {
		c.placeLabels()
	}
}

func (c *Controller) render() {
	if c.fb.Width == 0 || c.fb.Height == 0 {
		return
	}
	if !c.built {
		c.fb.Clear(pageBackground)
		return
	}
	c.scene.Points = c.scene.Points[:0]
	if c.particlesOn {
		c.scene.Points = c.particles.AppendPoints(c.scene.Points, particleTint)
	}
	if c.postEnabled {
		c.post.Render(c.rast, c.scene, c.fb)
	} else {
		c.rast.Render(c.scene)
	}
	if c.opacity < 1 {
		c.fb.Fade(pageBackground, c.opacity)
	}
}
