package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"honnef.co/go/inkedit/curve"
)

// FreeText is a text box.
//
// Typing into the box with SetText is not undoable. The first Commit of a
// non-empty box records its creation, so undoing it removes the box.
type FreeText struct {
	base

	draft    string
	content  string
	fontSize float64
	color    string
	// width and height are the laid out size of the box in overlay
	// coordinates, as measured by the renderer.
	width, height float64
	wasCommitted  bool
}

var _ Session = (*FreeText)(nil)

func (s *FreeText) Kind() Kind { return KindFreeText }

// IsEmpty reports whether the draft text consists only of white space.
func (s *FreeText) IsEmpty() bool {
	return strings.TrimSpace(s.draft) == ""
}

// Text returns the committed content.
func (s *FreeText) Text() string { return s.content }

// Draft returns the text as currently typed.
func (s *FreeText) Draft() string { return s.draft }

func (s *FreeText) FontSize() float64 { return s.fontSize }
func (s *FreeText) Color() string     { return s.color }

// SetText replaces the text being typed.
func (s *FreeText) SetText(text string) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	s.draft = text
	s.coord.notify(EventChanged, s)
	return nil
}

// SetDimensions records the laid out size of the box.
func (s *FreeText) SetDimensions(width, height float64) {
	s.width = max(width, 0)
	s.height = max(height, 0)
}

// SetFontSize changes the font size. The box moves up by the growth in size
// so that its baseline stays put. On a committed box the change is undoable,
// and consecutive changes form a single undo step.
func (s *FreeText) SetFontSize(size float64) error {
	return s.coord.setSessionParam(s, FreeTextSize, size)
}

// SetColor changes the text color, given as "#rrggbb".
func (s *FreeText) SetColor(color string) error {
	return s.coord.setSessionParam(s, FreeTextColor, color)
}

// Commit stores the typed text, normalized to NFC with trailing white space
// removed. The first commit of a non-empty box records its creation in the
// history without re-applying it.
func (s *FreeText) Commit() error {
	if err := s.checkLive(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return nil
	}
	if !s.wasCommitted {
		s.wasCommitted = true
		s.coord.history.Record(addSessionOp(s), false)
		s.state = Committed
		s.coord.logger().Info("freetext committed", "session", s.id)
	}
	s.content = normalizeText(s.draft)
	s.coord.notify(EventChanged, s)
	return nil
}

func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimRightFunc(text, unicode.IsSpace))
}

func (s *FreeText) BoundingBox() curve.Rect {
	return curve.NewRectFromOrigin(s.origin, s.width, s.height)
}

func (s *FreeText) Translate(dx, dy float64) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	x, y, err := ScreenToPage(dx, dy, s.rotation)
	if err != nil {
		return err
	}
	s.origin = s.origin.Translate(curve.Vec(x, y))
	s.coord.notify(EventChanged, s)
	return nil
}

func (s *FreeText) Geometry() Geometry {
	return Geometry{
		ID:       s.id,
		Kind:     KindFreeText,
		Page:     s.page,
		Rotation: s.rotation,
		Box:      s.BoundingBox(),
		Color:    s.color,
		Text:     s.content,
		FontSize: s.fontSize,
	}
}

func (s *FreeText) clone() Session {
	out := *s
	return &out
}

func (s *FreeText) applyParam(p Param, v any) {
	switch p {
	case FreeTextSize:
		size := v.(float64)
		s.origin = s.origin.Translate(curve.Vec(0, -(size - s.fontSize)))
		s.fontSize = size
	case FreeTextColor:
		s.color = v.(string)
	}
}

func (s *FreeText) param(p Param) any {
	switch p {
	case FreeTextSize:
		return s.fontSize
	case FreeTextColor:
		return s.color
	default:
		return nil
	}
}
