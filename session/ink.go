package session

import (
	"slices"

	"honnef.co/go/inkedit/curve"
)

// Ink is a freehand drawing made of one or more fitted strokes.
//
// Strokes are captured with BeginStroke, ExtendStroke and EndStroke. Ending a
// stroke fits it and records the result as one undoable edit. Undoing the
// only stroke of a drawing removes the session; redoing it brings the same
// session back.
type Ink struct {
	base

	// strokes are stored untranslated; offset is the sum of all
	// translations applied to the drawing since.
	strokes   []curve.FittedCurve
	offset    curve.Vec2
	samples   []curve.Point
	drawing   bool
	sealed    bool
	thickness float64
	color     string
	// bounds, if not empty, is the canvas that stroke end points are
	// clamped to.
	bounds curve.Rect
}

var _ Session = (*Ink)(nil)

func (s *Ink) Kind() Kind { return KindInk }

// IsEmpty reports whether the drawing has no strokes.
func (s *Ink) IsEmpty() bool { return len(s.strokes) == 0 }

// Strokes returns the fitted strokes in drawing order.
func (s *Ink) Strokes() []curve.FittedCurve {
	aff := s.placement()
	out := make([]curve.FittedCurve, len(s.strokes))
	for i, fc := range s.strokes {
		out[i] = fc.Transform(aff)
	}
	return out
}

func (s *Ink) placement() curve.Affine {
	return curve.Translate(s.offset)
}

func (s *Ink) Thickness() float64 { return s.thickness }
func (s *Ink) Color() string      { return s.color }

// IsDrawing reports whether a stroke is being captured.
func (s *Ink) IsDrawing() bool { return s.drawing }

// IsSealed reports whether the drawing has been committed and accepts no
// further strokes.
func (s *Ink) IsSealed() bool { return s.sealed }

// SetBounds sets the canvas that the final sample of each stroke is clamped
// to. An empty rectangle disables clamping.
func (s *Ink) SetBounds(r curve.Rect) {
	s.bounds = r.Abs()
}

// BeginStroke starts capturing a stroke at pt.
func (s *Ink) BeginStroke(pt curve.Point) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	if s.sealed || s.drawing {
		return ErrNotEditing
	}
	s.drawing = true
	s.samples = append(s.samples[:0], pt)
	return nil
}

// ExtendStroke adds a sample to the stroke being captured.
func (s *Ink) ExtendStroke(pt curve.Point) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	if !s.drawing {
		return ErrNotEditing
	}
	s.samples = append(s.samples, pt)
	return nil
}

// EndStroke adds the final sample, clamped to the session's bounds, fits the
// stroke and records it. It reports whether a stroke was added; malformed
// samples silently produce no stroke.
//
// A stroke whose samples all coincide becomes a single dot.
func (s *Ink) EndStroke(pt curve.Point) (bool, error) {
	if err := s.checkLive(); err != nil {
		return false, err
	}
	if !s.drawing {
		return false, ErrNotEditing
	}
	if !s.bounds.IsEmpty() && !s.bounds.Contains(pt) {
		pt = pt.Clamp(s.bounds)
	}
	samples := append(s.samples, pt)
	s.samples = s.samples[:0]
	s.drawing = false

	c := s.coord
	var fc curve.FittedCurve
	if isDot(samples) {
		fc = curve.FittedCurve{{P0: pt, P1: pt, P2: pt, P3: pt}}
	} else {
		fc = curve.Fit(samples, c.tolerance)
	}
	if len(fc) == 0 {
		c.logger().Warn("stroke dropped", "session", s.id, "samples", len(samples))
		return false, nil
	}
	// The recorded stroke must not move with later translations.
	fc = fc.Transform(curve.Translate(s.offset.Negate()))
	c.history.Record(AddStrokeOp(s, fc), true)
	return true, nil
}

// CancelStroke abandons the stroke being captured, if any.
func (s *Ink) CancelStroke() {
	s.drawing = false
	s.samples = s.samples[:0]
}

func isDot(samples []curve.Point) bool {
	for _, pt := range samples[1:] {
		if pt != samples[0] {
			return false
		}
	}
	return !samples[0].IsNaN() && !samples[0].IsInf()
}

// SetThickness changes the line width. On a committed drawing the change is
// undoable, and consecutive changes form a single undo step.
func (s *Ink) SetThickness(w float64) error {
	return s.coord.setSessionParam(s, InkThickness, w)
}

// SetColor changes the stroke color, given as "#rrggbb". On a committed
// drawing the change is undoable, and consecutive changes form a single undo
// step.
func (s *Ink) SetColor(color string) error {
	return s.coord.setSessionParam(s, InkColor, color)
}

// Commit seals the drawing. Sealed drawings accept no further strokes. A
// stroke still being captured is abandoned.
func (s *Ink) Commit() error {
	if err := s.checkLive(); err != nil {
		return err
	}
	s.CancelStroke()
	if s.IsEmpty() || s.sealed {
		return nil
	}
	s.sealed = true
	s.coord.logger().Info("ink committed", "session", s.id, "strokes", len(s.strokes))
	s.coord.notify(EventChanged, s)
	return nil
}

func (s *Ink) BoundingBox() curve.Rect {
	if s.IsEmpty() {
		return curve.Rect{X0: s.origin.X, Y0: s.origin.Y, X1: s.origin.X, Y1: s.origin.Y}
	}
	bbox := s.strokes[0].BoundingBox()
	for _, fc := range s.strokes[1:] {
		bbox = bbox.Union(fc.BoundingBox())
	}
	return bbox.Translate(s.offset)
}

func (s *Ink) Translate(dx, dy float64) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	x, y, err := ScreenToPage(dx, dy, s.rotation)
	if err != nil {
		return err
	}
	v := curve.Vec(x, y)
	s.offset = s.offset.Add(v)
	s.origin = s.origin.Translate(v)
	s.coord.notify(EventChanged, s)
	return nil
}

func (s *Ink) Geometry() Geometry {
	aff := s.placement()
	paths := make([][]float64, len(s.strokes))
	for i, fc := range s.strokes {
		paths[i] = fc.Transform(aff).Flat()
	}
	return Geometry{
		ID:        s.id,
		Kind:      KindInk,
		Page:      s.page,
		Rotation:  s.rotation,
		Box:       s.BoundingBox(),
		Color:     s.color,
		Paths:     paths,
		Thickness: s.thickness,
	}
}

func (s *Ink) clone() Session {
	out := &Ink{
		base:      s.base,
		strokes:   slices.Clone(s.strokes),
		offset:    s.offset,
		sealed:    s.sealed,
		thickness: s.thickness,
		color:     s.color,
		bounds:    s.bounds,
	}
	for i, fc := range out.strokes {
		out.strokes[i] = fc.Clone()
	}
	return out
}

func (s *Ink) applyParam(p Param, v any) {
	switch p {
	case InkThickness:
		s.thickness = v.(float64)
	case InkColor:
		s.color = v.(string)
	}
}

func (s *Ink) param(p Param) any {
	switch p {
	case InkThickness:
		return s.thickness
	case InkColor:
		return s.color
	default:
		return nil
	}
}

func (s *Ink) pushStroke(fc curve.FittedCurve) {
	s.strokes = append(s.strokes, fc)
}

func (s *Ink) popStroke() {
	s.strokes[len(s.strokes)-1] = nil
	s.strokes = s.strokes[:len(s.strokes)-1]
}
