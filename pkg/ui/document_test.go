package ui

import (
	"image"
	"testing"
)

func testTree() *Document {
	doc := NewDocument()
	menu := NewElement("div", "menu", "menu")
	menu.Box = image.Rect(0, 0, 10, 5)
	item := NewElement("a", "", "work-box")
	item.Box = image.Rect(1, 1, 9, 2)
	item.Data = map[string]string{"project-id": "project1"}
	menu.Append(item)
	canvas := NewElement("canvas", CanvasID)
	canvas.Box = image.Rect(0, 0, 40, 20)
	doc.Body().Append(canvas, menu)
	doc.Body().Box = image.Rect(0, 0, 40, 20)
	return doc
}

func TestMatches(t *testing.T) {
	e := NewElement("form", "contactForm", "a", "b")
	tests := []struct {
		sel  string
		want bool
	}{
		{"#contactForm", true},
		{"#other", false},
		{".a", true},
		{".b", true},
		{".c", false},
		{"form", true},
		{"div", false},
		{"*", true},
	}
	for _, tc := range tests {
		t.Run(tc.sel, func(t *testing.T) {
			if got := e.Matches(tc.sel); got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.sel, got, tc.want)
			}
		})
	}
}

func TestClosest(t *testing.T) {
	doc := testTree()
	item := doc.Query(".work-box")[0]
	if got := item.Closest("#menu"); got == nil || got.ID != "menu" {
		t.Errorf("Closest(#menu) = %v", got)
	}
	if got := item.Closest(".work-box"); got != item {
		t.Error("Closest should include the element itself")
	}
	if got := item.Closest("#contact", "form"); got != nil {
		t.Errorf("Closest(#contact, form) = %v, want nil", got)
	}
}

func TestReplaceWithKeepsOrder(t *testing.T) {
	doc := NewDocument()
	a, ph, c := NewElement("div", "a"), NewElement("div", "ph"), NewElement("div", "c")
	doc.Body().Append(a, ph, c)

	x, y := NewElement("div", "x"), NewElement("div", "y")
	ph.ReplaceWith(x, y)

	var ids []string
	for _, e := range doc.Body().Children() {
		ids = append(ids, e.ID)
	}
	want := []string{"a", "x", "y", "c"}
	if len(ids) != len(want) {
		t.Fatalf("children = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("children = %v, want %v", ids, want)
		}
	}
	if ph.Parent() != nil || x.Parent() != doc.Body() {
		t.Error("parents not updated")
	}
	if doc.ByID("ph") != nil {
		t.Error("placeholder still reachable")
	}
}

func TestVisibleFollowsAncestors(t *testing.T) {
	doc := testTree()
	item := doc.Query(".work-box")[0]
	if !item.Visible() {
		t.Fatal("item should start visible")
	}
	doc.SetDisplay("#menu", DisplayNone)
	if item.Visible() {
		t.Error("item inside a hidden menu reported visible")
	}
}

func TestElementAt(t *testing.T) {
	doc := testTree()
	tests := []struct {
		name   string
		x, y   int
		wantID string
		class  string
	}{
		{"child over parent", 2, 1, "", "work-box"},
		{"parent", 0, 4, "menu", ""},
		{"canvas below", 20, 10, CanvasID, ""},
		{"outside everything", 60, 60, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := doc.ElementAt(tc.x, tc.y)
			if tc.class != "" {
				if !got.HasClass(tc.class) {
					t.Errorf("ElementAt = %q %v, want class %q", got.ID, got.Classes, tc.class)
				}
				return
			}
			if tc.wantID == "" && got != doc.Body() {
				t.Errorf("ElementAt = %q, want body", got.ID)
			}
			if tc.wantID != "" && got.ID != tc.wantID {
				t.Errorf("ElementAt = %q, want %q", got.ID, tc.wantID)
			}
		})
	}
}

func TestElementAtSkipsHiddenAndPassive(t *testing.T) {
	doc := testTree()
	doc.ByID("menu").Hide()
	if got := doc.ElementAt(2, 1); got.ID != CanvasID {
		t.Errorf("hidden menu still hit: %q", got.ID)
	}
	doc.ByID(CanvasID).NoPointerEvents = true
	if got := doc.ElementAt(2, 1); got != doc.Body() {
		t.Errorf("canvas without pointer events hit: %q", got.ID)
	}
}

func TestLayout(t *testing.T) {
	doc := NewDocument()
	e := NewElement("div", "panel")
	e.Anchor = &Anchor{X: -10, Y: 2, W: 8, H: 0}
	doc.Body().Append(e)
	doc.Layout(80, 24)

	want := image.Rect(70, 2, 78, 24)
	if e.Box != want {
		t.Errorf("Box = %v, want %v", e.Box, want)
	}
	if doc.Body().Box != image.Rect(0, 0, 80, 24) {
		t.Errorf("body Box = %v", doc.Body().Box)
	}
}

func TestAnchorResolve(t *testing.T) {
	tests := []struct {
		name string
		a    Anchor
		want image.Rectangle
	}{
		{"fixed", Anchor{X: 1, Y: 2, W: 3, H: 4}, image.Rect(1, 2, 4, 6)},
		{"full", Anchor{}, image.Rect(0, 0, 80, 24)},
		{"from the right", Anchor{X: -10, Y: 0, W: 9, H: 1}, image.Rect(70, 0, 79, 1)},
		{"inset stretch", Anchor{X: 4, Y: 2, W: -4, H: -2}, image.Rect(4, 2, 76, 22)},
		{"too small", Anchor{X: 79, Y: 0, W: -5, H: 1}, image.Rect(79, 0, 79, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Resolve(80, 24); got != tc.want {
				t.Errorf("Resolve = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDisplayUnmarshal(t *testing.T) {
	var d Display
	for in, want := range map[string]Display{"": DisplayBlock, "none": DisplayNone, "flex": DisplayFlex} {
		if err := d.UnmarshalText([]byte(in)); err != nil || d != want {
			t.Errorf("UnmarshalText(%q) = %v, %v", in, d, err)
		}
	}
	if err := d.UnmarshalText([]byte("grid")); err == nil {
		t.Error("expected an error for grid")
	}
}
