package ui

import (
	"context"
	"testing"
	"testing/fstest"
)

func TestDefaultPartsSplice(t *testing.T) {
	doc := NewPage()
	loader, err := NewPartLoader(DefaultParts, "parts", nil)
	if err != nil {
		t.Fatal(err)
	}
	ready := NewSignal()
	n := loader.Load(context.Background(), doc, ready)

	if n != len(loader.Paths) || n == 0 {
		t.Errorf("applied %d of %d parts", n, len(loader.Paths))
	}
	if !ready.Fired() {
		t.Error("ready did not fire")
	}
	for _, id := range []string{"navWrapper", "menu", "menu2", "aboutme", "contact", "project1", "project6"} {
		if doc.ByID(id) == nil {
			t.Errorf("#%s missing after splice", id)
		}
	}
	if got := len(doc.Query(".work-box")); got != 6 {
		t.Errorf("%d work boxes, want 6", got)
	}
	if doc.ByID("navigation") != nil {
		t.Error("navigation placeholder not replaced")
	}
	if doc.ByID(CanvasID) == nil || doc.ByID(CardInfoID) == nil {
		t.Error("page skeleton lost")
	}
}

func TestPartLoaderFailuresStillComplete(t *testing.T) {
	fsys := fstest.MapFS{
		"p/good.yaml":     {Data: []byte("placeholder: slot\nelements:\n  - id: inserted\n    text: hello\n")},
		"p/broken.yaml":   {Data: []byte("elements: [")},
		"p/badcolor.yaml": {Data: []byte("elements:\n  - id: bad\n    color: notacolor\n")},
	}
	doc := NewDocument()
	doc.Body().Append(NewElement("div", "slot"))

	loader, err := NewPartLoader(fsys, "p", nil)
	if err != nil {
		t.Fatal(err)
	}
	frags := loader.Fetch(context.Background())
	if len(frags) != 3 {
		t.Fatalf("%d fragments, want one per path", len(frags))
	}

	ready := NewSignal()
	applied := loader.Load(context.Background(), doc, ready)
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if !ready.Fired() {
		t.Error("ready should fire even when a part fails")
	}
	if e := doc.ByID("inserted"); e == nil || e.Text != "hello" {
		t.Error("good part not spliced into its placeholder")
	}
	if doc.ByID("slot") != nil {
		t.Error("placeholder survived")
	}
	if doc.ByID("bad") != nil {
		t.Error("element with a bad color was inserted")
	}
}

func TestPartLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader, err := NewPartLoader(DefaultParts, "parts", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range loader.Fetch(ctx) {
		if f.Err == nil {
			t.Errorf("%s: expected a context error", f.Path)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]uint8
		wantErr bool
	}{
		{"", [4]uint8{}, false},
		{"transparent", [4]uint8{}, false},
		{"dodgerblue", [4]uint8{0x1e, 0x90, 0xff, 255}, false},
		{"#E0E0E0", [4]uint8{0xe0, 0xe0, 0xe0, 255}, false},
		{"chartreuse-ish", [4]uint8{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got := [4]uint8{c.R, c.G, c.B, c.A}; !tc.wantErr && got != tc.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
