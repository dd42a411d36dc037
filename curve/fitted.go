package curve

import (
	"fmt"
	"slices"
)

// FittedCurve is a chain of cubic Béziers where each segment starts at the
// end point of the previous one.
type FittedCurve []CubicBez

// Start returns the first anchor point. The curve must not be empty.
func (fc FittedCurve) Start() Point {
	return fc[0].P0
}

// End returns the last anchor point. The curve must not be empty.
func (fc FittedCurve) End() Point {
	return fc[len(fc)-1].P3
}

// BoundingBox returns the smallest rectangle enclosing every segment, or the
// zero rectangle for an empty curve.
func (fc FittedCurve) BoundingBox() Rect {
	if len(fc) == 0 {
		return Rect{}
	}
	bbox := fc[0].BoundingBox()
	for _, c := range fc[1:] {
		bbox = bbox.Union(c.BoundingBox())
	}
	return bbox
}

func (fc FittedCurve) Transform(aff Affine) FittedCurve {
	out := make(FittedCurve, len(fc))
	for i, c := range fc {
		out[i] = c.Transform(aff)
	}
	return out
}

// Clone returns a copy of fc that shares no memory with it.
func (fc FittedCurve) Clone() FittedCurve {
	return slices.Clone(fc)
}

// IsContinuous reports whether every segment starts exactly where the
// previous one ends.
func (fc FittedCurve) IsContinuous() bool {
	for i := 1; i < len(fc); i++ {
		if fc[i-1].P3 != fc[i].P0 {
			return false
		}
	}
	return true
}

// Flat returns the anchor and handle coordinates as x, y pairs: the start
// point followed by the two handles and the end point of every segment.
func (fc FittedCurve) Flat() []float64 {
	if len(fc) == 0 {
		return nil
	}
	out := make([]float64, 0, 2+6*len(fc))
	out = append(out, fc[0].P0.X, fc[0].P0.Y)
	for _, c := range fc {
		out = append(out, c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	}
	return out
}

// FromFlat is the inverse of [FittedCurve.Flat].
func FromFlat(flat []float64) (FittedCurve, error) {
	if len(flat) == 0 {
		return nil, nil
	}
	if len(flat) < 8 || (len(flat)-2)%6 != 0 {
		return nil, fmt.Errorf("flat curve: %d coordinates, want 2+6n", len(flat))
	}
	out := make(FittedCurve, 0, (len(flat)-2)/6)
	start := Pt(flat[0], flat[1])
	for i := 2; i < len(flat); i += 6 {
		c := CubicBez{
			P0: start,
			P1: Pt(flat[i], flat[i+1]),
			P2: Pt(flat[i+2], flat[i+3]),
			P3: Pt(flat[i+4], flat[i+5]),
		}
		out = append(out, c)
		start = c.P3
	}
	return out, nil
}

// Flatten approximates fc by a polyline. Every segment contributes its
// interior samples at parameters i/n for i in [2, n), followed by its end
// point; segments whose control polygon is within tol of flat contribute only
// their end point. The first point is the start of the curve.
func (fc FittedCurve) Flatten(n int, tol float64) []Point {
	if len(fc) == 0 {
		return nil
	}
	out := []Point{fc[0].P0}
	for _, c := range fc {
		if !c.IsAlmostFlat(tol) {
			for i := 2; i < n; i++ {
				out = append(out, c.Eval(float64(i)/float64(n)))
			}
		}
		out = append(out, c.P3)
	}
	return out
}
