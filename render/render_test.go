package render

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"

	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/session"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestPath(t *testing.T) {
	fc := curve.FittedCurve{
		{P0: curve.Pt(0, 0), P1: curve.Pt(1, 0), P2: curve.Pt(2, 1), P3: curve.Pt(3, 1)},
		{P0: curve.Pt(3, 1), P1: curve.Pt(4, 1), P2: curve.Pt(5, 2), P3: curve.Pt(6, 2)},
	}
	p := Path(fc, curve.Translate(curve.Vec(10, 20)))
	diff(t, []gg.PathElement{
		gg.MoveTo{Point: gg.Pt(10, 20)},
		gg.CubicTo{Control1: gg.Pt(11, 20), Control2: gg.Pt(12, 21), Point: gg.Pt(13, 21)},
		gg.CubicTo{Control1: gg.Pt(14, 21), Control2: gg.Pt(15, 22), Point: gg.Pt(16, 22)},
	}, p.Elements())

	if n := len(Path(nil, curve.Identity).Elements()); n != 0 {
		t.Errorf("empty curve produced %d path elements", n)
	}
}

func TestPageRect(t *testing.T) {
	base := Placement{
		Box:        curve.Rect{X0: 10, Y0: 20, X1: 40, Y1: 30},
		PageWidth:  200,
		PageHeight: 100,
		ShiftX:     2,
		ShiftY:     3,
	}
	tests := []struct {
		rotation int
		want     curve.Rect
	}{
		{0, curve.Rect{X0: 12, Y0: 67, X1: 42, Y1: 77}},
		{90, curve.Rect{X0: 13, Y0: 82, X1: 23, Y1: 112}},
		{180, curve.Rect{X0: -22, Y0: 83, X1: 8, Y1: 93}},
		{270, curve.Rect{X0: -3, Y0: 48, X1: 7, Y1: 78}},
	}
	for _, tt := range tests {
		p := base
		p.Rotation = tt.rotation
		got, err := PageRect(p)
		if err != nil {
			t.Fatalf("rotation %d: %s", tt.rotation, err)
		}
		diff(t, tt.want, got)
	}

	p := base
	p.Rotation = 45
	if _, err := PageRect(p); !errors.Is(err, session.ErrRotation) {
		t.Errorf("got %v, want ErrRotation", err)
	}
}

func newInk(t *testing.T, c *session.Coordinator, thickness float64, color string, pts ...curve.Point) *session.Ink {
	t.Helper()
	ink := c.NewInk(0, pts[0])
	if err := ink.SetThickness(thickness); err != nil {
		t.Fatal(err)
	}
	if err := ink.SetColor(color); err != nil {
		t.Fatal(err)
	}
	if err := ink.BeginStroke(pts[0]); err != nil {
		t.Fatal(err)
	}
	if added, err := ink.EndStroke(pts[len(pts)-1]); err != nil || !added {
		t.Fatalf("EndStroke = %t, %v", added, err)
	}
	return ink
}

func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestCanvasInk(t *testing.T) {
	c := session.NewCoordinator()
	ink := newInk(t, c, 6, "#ff0000", curve.Pt(5, 25), curve.Pt(45, 25))

	cv := NewCanvas(50, 50)
	defer cv.Close()
	if err := cv.Draw(ink); err != nil {
		t.Fatal(err)
	}
	img := cv.Image()
	r, g, b, _ := img.At(25, 25).RGBA()
	if r < 0xc000 || g > 0x4000 || b > 0x4000 {
		t.Errorf("pixel on the stroke is %04x %04x %04x, want red", r, g, b)
	}
	if !isWhite(img, 25, 5) {
		t.Error("pixel away from the stroke is not background")
	}
}

func TestCanvasDot(t *testing.T) {
	c := session.NewCoordinator()
	ink := newInk(t, c, 8, "#000000", curve.Pt(10, 10), curve.Pt(10, 10))

	cv := NewCanvas(20, 20)
	defer cv.Close()
	if err := cv.Draw(ink); err != nil {
		t.Fatal(err)
	}
	if isWhite(cv.Image(), 10, 10) {
		t.Error("dot was not drawn")
	}
}

func TestCanvasTransform(t *testing.T) {
	c := session.NewCoordinator()
	ink := newInk(t, c, 2, "#000000", curve.Pt(5, 10), curve.Pt(20, 10))

	cv := NewCanvas(50, 50, WithTransform(curve.Scale(2, 2)), WithBackground("#ffffff"))
	defer cv.Close()
	if err := cv.Draw(ink); err != nil {
		t.Fatal(err)
	}
	img := cv.Image()
	if isWhite(img, 30, 20) {
		t.Error("scaled stroke was not drawn")
	}
	if !isWhite(img, 30, 10) {
		t.Error("stroke was drawn unscaled")
	}
}

func TestCanvasFreeTextOutline(t *testing.T) {
	c := session.NewCoordinator()
	ft := c.NewFreeText(0, curve.Pt(5, 5))
	ft.SetDimensions(30, 12)
	if err := ft.SetText("hello"); err != nil {
		t.Fatal(err)
	}
	c.DeactivateCurrent()

	cv := NewCanvas(50, 50)
	defer cv.Close()
	if err := cv.Draw(ft); err != nil {
		t.Fatal(err)
	}
}

func TestCanvasPNG(t *testing.T) {
	cv := NewCanvas(10, 10)
	defer cv.Close()
	var buf bytes.Buffer
	if err := cv.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG file")
	}
}
