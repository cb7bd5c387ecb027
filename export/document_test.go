package export

import (
	"reflect"
	"testing"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/shape"
)

func element(id string, x, y float64) ggedit.Element {
	return ggedit.NewElement(id, "rect", id, ggedit.KindRectangle,
		shape.List{shape.Rectangle{Width: 100, Height: 100}}, x, y)
}

func TestBuildSkipsHiddenAndKeepsOrder(t *testing.T) {
	elems := []ggedit.Element{element("a", 0, 0), element("b", 10, 10), element("c", 20, 20), element("d", 0, 0)}
	elems[1].Visible = false
	elems[3].Visible = false

	doc := Build(elems, DefaultOptions())
	var got []string
	for _, g := range doc.Groups {
		got = append(got, g.ID)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("groups = %v, want %v (N-M drawable groups)", got, want)
	}
	if doc.Background != DefaultBackground {
		t.Errorf("background = %q", doc.Background)
	}
}

func TestBuildGroupCarriesGeometryAndStyle(t *testing.T) {
	el := element("a", 30, 40)
	el.Geometry.Rotation = 45
	el.Style.Opacity = 0.5
	el.Style.BorderRadius = 12
	el.Style.Shadow = &shape.Shadow{DX: 1, DY: 2, Blur: 3, Color: "#000000"}

	doc := Build([]ggedit.Element{el}, Options{Width: 200, Height: 100})
	if doc.Background != "" {
		t.Errorf("background = %q, want none", doc.Background)
	}
	g := doc.Groups[0]
	if g.X != 30 || g.Y != 40 || g.Rotation != 45 || g.Opacity != 0.5 {
		t.Errorf("group = %+v", g)
	}
	if g.Style.Fill.Color != ggedit.DefaultFill || g.Style.StrokeWidth != ggedit.DefaultStrokeWidth {
		t.Errorf("group style = %+v", g.Style)
	}
	if g.Shadow == nil || g.Shadow == el.Style.Shadow {
		t.Error("shadow missing or aliased")
	}
	if r := g.Content[0].(shape.Rectangle); r.RX != 12 || r.RY != 12 {
		t.Errorf("border radius not applied: rx=%v ry=%v", r.RX, r.RY)
	}
	if r := el.Content[0].(shape.Rectangle); r.RX != 0 {
		t.Error("Build changed the source element")
	}
}

func TestBuildGuides(t *testing.T) {
	el := element("a", 10, 20)
	opts := Options{Width: 100, Height: 40, Grid: 20, Selected: "a"}
	doc := Build([]ggedit.Element{el}, opts)

	// 6 vertical lines (0..100) and 3 horizontal ones (0..40).
	if len(doc.Underlay) != 9 {
		t.Errorf("grid guides = %d, want 9", len(doc.Underlay))
	}
	if len(doc.Overlay) != 1 {
		t.Fatalf("overlay = %d guides, want 1", len(doc.Overlay))
	}
	sel := doc.Overlay[0]
	r := sel.Shape.(shape.Rectangle)
	if sel.X != 10 || sel.Y != 20 || r.X != -5 || r.Width != 110 || r.Height != 110 {
		t.Errorf("selection guide = %+v rect %+v", sel, r)
	}
	if !reflect.DeepEqual(sel.Dash, []float64{5, 5}) {
		t.Errorf("dash = %v", sel.Dash)
	}
}

func TestPlaybackOrder(t *testing.T) {
	el := element("a", 0, 0)
	doc := Build([]ggedit.Element{el}, Options{
		Width: 20, Height: 20, IncludeBackground: true, Background: "#000", Grid: 20, Selected: "a",
	})
	b := &mockBackend{}
	if err := doc.Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	want := []string{
		"begin", "bg #000",
		"guide line", "guide line", "guide line", "guide line",
		"group a", "draw rect", "end group",
		"guide rect", "end",
	}
	if !reflect.DeepEqual(b.calls, want) {
		t.Errorf("calls = %v\nwant    %v", b.calls, want)
	}
}

func TestFramePixels(t *testing.T) {
	w, h := Frame{Width: 800, Height: 600, Scale: 2}.Pixels()
	if w != 1600 || h != 1200 {
		t.Errorf("Pixels = %dx%d, want 1600x1200", w, h)
	}
	w, h = Frame{Width: 0.2, Height: 0.2}.Pixels()
	if w != 1 || h != 1 {
		t.Errorf("Pixels = %dx%d, want 1x1", w, h)
	}
}
