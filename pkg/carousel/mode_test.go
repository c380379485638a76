package carousel

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/taigrr/carousel/pkg/render"
	"github.com/taigrr/carousel/pkg/ui"
)

func TestModeCycle(t *testing.T) {
	Convey("Given a built carousel in the default mode", t, func() {
		f := newFixture(t)
		c := f.ctrl
		initial := c.Snapshot()

		So(initial.Mode, ShouldEqual, ModeDefault)
		So(initial.Clear, ShouldResemble, ClearDefault)
		So(initial.PointLights, ShouldEqual, 0)
		So(initial.Lights, ShouldEqual, 2)
		So(initial.LabelsShown, ShouldEqual, 0)
		So(initial.Post, ShouldBeFalse)

		Convey("Clicking the body enters retro mode", func() {
			f.clickBody(t)
			s := c.Snapshot()

			So(s.Mode, ShouldEqual, ModeRetro)
			So(s.Clear, ShouldResemble, ClearRetro)
			So(s.SkyColor, ShouldResemble, ClearRetro)
			So(s.BirdsVisible, ShouldEqual, BirdCount)
			So(s.RocksVisible, ShouldEqual, 0)
			So(s.LabelsShown, ShouldEqual, len(Projects))
			So(s.PointLights, ShouldEqual, 0)
			for _, sh := range s.CardShading {
				So(sh, ShouldEqual, render.ShadingWireframe)
			}

			Convey("A second click enters shaded mode", func() {
				f.clickBody(t)
				s := c.Snapshot()

				So(s.Mode, ShouldEqual, ModeShaded)
				So(s.Clear, ShouldResemble, ClearShaded)
				So(s.PointLights, ShouldEqual, 2)
				So(s.BirdsVisible, ShouldEqual, 0)
				So(s.RocksVisible, ShouldEqual, RockCount)
				So(s.Particles, ShouldBeTrue)
				So(s.Post, ShouldBeTrue)
				So(s.LabelsShown, ShouldEqual, 0)
				So(s.SkyMaterial, ShouldNotEqual, initial.SkyMaterial)
				for _, sh := range s.CardShading {
					So(sh, ShouldEqual, render.ShadingLambert)
				}

				Convey("Particles stay within the pool while shaded", func() {
					for range 400 {
						c.Tick()
						So(c.Particles().Active(), ShouldBeLessThanOrEqualTo, ParticleCapacity)
					}
					So(c.Particles().Active(), ShouldBeGreaterThan, 0)
				})

				Convey("A third click restores the default snapshot", func() {
					f.clickBody(t)
					So(c.Snapshot(), ShouldResemble, initial)
					So(c.Particles().Active(), ShouldEqual, 0)
				})
			})
		})

		Convey("Many full cycles never accumulate lights", func() {
			for range 5 * int(modeCount) {
				c.AdvanceMode()
				c.Tick()
			}
			So(c.Snapshot(), ShouldResemble, initial)
		})
	})
}

func TestModeString(t *testing.T) {
	Convey("Modes have names and wrap around", t, func() {
		So(ModeDefault.String(), ShouldEqual, "default")
		So(ModeRetro.String(), ShouldEqual, "retro")
		So(ModeShaded.String(), ShouldEqual, "shaded")
		So(Mode(7).String(), ShouldEqual, "Mode(7)")
		So(ModeShaded.Next(), ShouldEqual, ModeDefault)
	})
}

func TestInteraction(t *testing.T) {
	Convey("Given a built carousel", t, func() {
		f := newFixture(t)
		c := f.ctrl
		info := f.doc.ByID(ui.CardInfoID)

		Convey("Hovering a card shows its info and freezes auto-rotation", func() {
			card := c.Cards()[0]
			x, y := f.cellAt(t, card.Node.Position)
			hit := c.Pick(x, y)
			So(hit.Kind, ShouldEqual, HitCard)

			c.HandleMove(MouseAt(x, y))
			So(c.Hovering(), ShouldBeTrue)
			So(info.Visible(), ShouldBeTrue)
			So(f.doc.ByID(ui.InfoTextID).Text, ShouldStartWith, hit.Card.Project.Title)
			So(f.doc.ByID(ui.InfoImageID).Image, ShouldEqual, hit.Card.Texture)
			So(f.doc.Cursor, ShouldEqual, "pointer")

			_, frozen := c.Rotation()
			for range 20 {
				c.Tick()
			}
			_, target := c.Rotation()
			So(target, ShouldEqual, frozen)

			Convey("and leaving resumes it", func() {
				ex, ey := f.emptyCell(t)
				c.HandleMove(MouseAt(ex, ey))
				So(c.Hovering(), ShouldBeFalse)
				So(info.Visible(), ShouldBeFalse)
				So(f.doc.Cursor, ShouldEqual, "default")
				c.Tick()
				_, after := c.Rotation()
				So(after, ShouldBeGreaterThan, frozen)
			})
		})

		Convey("Hovering the body hides the info without freezing", func() {
			x, y := f.cellAt(t, BodyPosition)
			c.HandleMove(MouseAt(x, y))
			So(c.Hovering(), ShouldBeFalse)
			So(info.Visible(), ShouldBeFalse)
			So(f.doc.Cursor, ShouldEqual, "pointer")
		})

		Convey("A touch end without pointer coordinates uses the last touch", func() {
			x, y := f.cellAt(t, BodyPosition)
			c.HandleClick(PointerEvent{Touches: []Touch{{X: 0, Y: 0}, {X: x, Y: y}}})
			So(c.Mode(), ShouldEqual, ModeRetro)
		})

		Convey("An event without coordinates is dropped", func() {
			before := c.Snapshot()
			c.HandleClick(PointerEvent{})
			So(c.Snapshot(), ShouldResemble, before)
		})

		Convey("A click inside an open project panel never picks", func() {
			So(f.menu.OpenProject("project2"), ShouldBeTrue)
			f.doc.ByID(ui.CanvasID).NoPointerEvents = false
			f.clickBody(t)
			So(c.Mode(), ShouldEqual, ModeDefault)
		})

		Convey("A click whose target is in a menu never picks", func() {
			x, y := f.cellAt(t, BodyPosition)
			item := f.doc.Query(".work-box")[0]
			c.HandleClick(PointerEvent{X: x, Y: y, HasPointer: true, Target: item})
			So(c.Mode(), ShouldEqual, ModeDefault)
		})

		Convey("Clicking a card outside the default mode opens its project", func() {
			f.clickBody(t)
			So(c.Mode(), ShouldEqual, ModeRetro)

			card := c.Cards()[3]
			x, y := f.cellAt(t, card.Node.Position)
			hit := c.Pick(x, y)
			So(hit.Kind, ShouldEqual, HitCard)
			c.HandleClick(MouseAt(x, y))

			panel := f.doc.ByID(hit.Card.Project.ID)
			So(panel.Display, ShouldEqual, ui.DisplayFlex)
			So(f.doc.ByID(ui.CanvasID).NoPointerEvents, ShouldBeTrue)
			So(c.Snapshot().LabelsShown, ShouldEqual, 0)

			Convey("and the canvas ignores the pointer until it closes", func() {
				bx, by := f.cellAt(t, BodyPosition)
				c.HandleMove(MouseAt(bx, by))
				So(f.doc.Cursor, ShouldEqual, "default")
				c.HandleClick(PointerEvent{X: bx, Y: by, HasPointer: true, Target: f.doc.ByID(ui.CanvasID)})
				So(c.Mode(), ShouldEqual, ModeRetro)

				f.menu.CloseProject()
				So(c.Snapshot().LabelsShown, ShouldEqual, len(Projects))
				f.clickBody(t)
				So(c.Mode(), ShouldEqual, ModeShaded)
			})
		})
	})
}
