// Package render draws editor sessions with gg.
//
// Overlay coordinates have their origin in the top left corner of a page and
// grow downwards. [PageRect] maps a session's box to PDF user space, which
// grows upwards.
package render

import (
	"fmt"

	"github.com/gogpu/gg"

	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/session"
)

// Path returns the fitted curve transformed by m as a single gg subpath.
// An empty curve results in an empty path.
func Path(fc curve.FittedCurve, m curve.Affine) *gg.Path {
	p := gg.NewPath()
	if len(fc) == 0 {
		return p
	}
	start := fc.Start().Transform(m)
	p.MoveTo(start.X, start.Y)
	for _, c := range fc {
		c = c.Transform(m)
		p.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	}
	return p
}

// Placement describes where an annotation box sits on a page.
type Placement struct {
	// Box is the annotation's box in overlay coordinates of the unrotated
	// page.
	Box        curve.Rect
	PageWidth  float64
	PageHeight float64
	// Rotation is the page rotation the annotation was created under.
	Rotation int
	// ShiftX and ShiftY move the box, in the rotated view, before it is
	// mapped.
	ShiftX, ShiftY float64
}

// PageRect returns the rectangle in PDF user space covered by the placed
// box. It returns an error wrapping [session.ErrRotation] if the rotation is
// not one of 0, 90, 180 and 270.
func PageRect(p Placement) (curve.Rect, error) {
	box := p.Box.Abs()
	x, y := box.X0, box.Y0
	w, h := box.Width(), box.Height()
	sx, sy := p.ShiftX, p.ShiftY
	top := p.PageHeight - y

	switch p.Rotation {
	case 0:
		return curve.Rect{X0: x + sx, Y0: top - sy - h, X1: x + sx + w, Y1: top - sy}, nil
	case 90:
		return curve.Rect{X0: x + sy, Y0: top + sx, X1: x + sy + h, Y1: top + sx + w}, nil
	case 180:
		return curve.Rect{X0: x - sx - w, Y0: top + sy, X1: x - sx, Y1: top + sy + h}, nil
	case 270:
		return curve.Rect{X0: x - sy - h, Y0: top - sx - w, X1: x - sy, Y1: top - sx}, nil
	default:
		return curve.Rect{}, fmt.Errorf("page rect: %d: %w", p.Rotation, session.ErrRotation)
	}
}
