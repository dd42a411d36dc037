// Package export turns session geometry into page space annotation records
// and writes them to PDF.
//
// Records use PDF user space: points, origin in the bottom left corner of
// the page, y growing upwards.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/render"
	"honnef.co/go/inkedit/session"
)

// ErrEmpty is returned when exporting a session without content.
var ErrEmpty = errors.New("export: empty session")

const (
	// pointsPerSegment is the number of parameter steps each Bézier segment
	// is sampled at for viewers that cannot draw curves.
	pointsPerSegment = 4
	// flatTolerance is the control polygon deviation below which a segment
	// contributes only its end point to the sampled points.
	flatTolerance = 10
)

// Page describes the page a session is exported onto.
type Page struct {
	// Width and Height are the unrotated page size in points.
	Width, Height float64
	// Scale converts overlay units to points. Zero means 1.
	Scale float64
}

func (p Page) scale() float64 {
	if p.Scale == 0 {
		return 1
	}
	return p.Scale
}

// Path is one exported ink stroke.
type Path struct {
	// Bezier holds the start point followed by two handles and an end
	// point per segment.
	Bezier []float64 `json:"bezier"`
	// Points approximates the stroke by a polyline.
	Points []float64 `json:"points"`
}

// InkRecord is an exported freehand drawing.
type InkRecord struct {
	ID        string     `json:"id"`
	PageIndex int        `json:"pageIndex"`
	Color     [3]uint8   `json:"color"`
	Thickness float64    `json:"thickness"`
	Paths     []Path     `json:"paths"`
	Rect      [4]float64 `json:"rect"`
	Rotation  int        `json:"rotation"`
}

// FreeTextRecord is an exported text box.
type FreeTextRecord struct {
	ID        string     `json:"id"`
	PageIndex int        `json:"pageIndex"`
	Color     [3]uint8   `json:"color"`
	FontSize  float64    `json:"fontSize"`
	Value     string     `json:"value"`
	Rect      [4]float64 `json:"rect"`
	Rotation  int        `json:"rotation"`
}

func color(hex string) [3]uint8 {
	c := gg.Hex(hex)
	return [3]uint8{
		uint8(math.Round(c.R * 255)),
		uint8(math.Round(c.G * 255)),
		uint8(math.Round(c.B * 255)),
	}
}

func rect(r curve.Rect) [4]float64 {
	return [4]float64{r.X0, r.Y0, r.X1, r.Y1}
}

func pageRect(g session.Geometry, page Page, shift float64) (curve.Rect, error) {
	s := page.scale()
	return render.PageRect(render.Placement{
		Box:        curve.Scale(s, s).TransformRectBoundingBox(g.Box),
		PageWidth:  page.Width,
		PageHeight: page.Height,
		Rotation:   g.Rotation,
		ShiftX:     shift,
		ShiftY:     shift,
	})
}

// Ink exports the geometry of an ink session. Coordinates are scaled to
// points, flipped to grow upwards and inset by half the line width.
func Ink(g session.Geometry, page Page) (InkRecord, error) {
	if g.Kind != session.KindInk {
		return InkRecord{}, fmt.Errorf("export: session %s is %s, not ink", g.ID, g.Kind)
	}
	if len(g.Paths) == 0 {
		return InkRecord{}, fmt.Errorf("export: session %s: %w", g.ID, ErrEmpty)
	}
	r, err := pageRect(g, page, 0)
	if err != nil {
		return InkRecord{}, err
	}

	// The flip is relative to the page edge that is at the top of the
	// rotated view.
	h := page.Height
	if g.Rotation%180 != 0 {
		h = page.Width
	}
	s := page.scale()
	pad := g.Thickness / 2
	m := curve.Affine{N0: s, N3: -s, N4: pad, N5: h - pad}

	out := InkRecord{
		ID:        g.ID,
		PageIndex: g.Page,
		Color:     color(g.Color),
		Thickness: g.Thickness,
		Paths:     make([]Path, 0, len(g.Paths)),
		Rect:      rect(r),
		Rotation:  g.Rotation,
	}
	for _, flat := range g.Paths {
		fc, err := curve.FromFlat(flat)
		if err != nil {
			return InkRecord{}, fmt.Errorf("export: session %s: %w", g.ID, err)
		}
		fc = fc.Transform(m)
		pts := fc.Flatten(pointsPerSegment, flatTolerance)
		points := make([]float64, 0, 2*len(pts))
		for _, pt := range pts {
			points = append(points, pt.X, pt.Y)
		}
		out.Paths = append(out.Paths, Path{Bezier: fc.Flat(), Points: points})
	}
	return out, nil
}

// FreeText exports the geometry of a text session. padding is the inner
// padding of the text box in points.
func FreeText(g session.Geometry, page Page, padding float64) (FreeTextRecord, error) {
	if g.Kind != session.KindFreeText {
		return FreeTextRecord{}, fmt.Errorf("export: session %s is %s, not freetext", g.ID, g.Kind)
	}
	if g.Text == "" {
		return FreeTextRecord{}, fmt.Errorf("export: session %s: %w", g.ID, ErrEmpty)
	}
	r, err := pageRect(g, page, padding)
	if err != nil {
		return FreeTextRecord{}, err
	}
	return FreeTextRecord{
		ID:        g.ID,
		PageIndex: g.Page,
		Color:     color(g.Color),
		FontSize:  g.FontSize,
		Value:     g.Text,
		Rect:      rect(r),
		Rotation:  g.Rotation,
	}, nil
}
