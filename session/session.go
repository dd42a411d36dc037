// Package session implements annotation editor sessions and the coordinator
// that owns them.
//
// A session is one annotation being edited on a page: either a freehand
// [Ink] drawing or a [FreeText] box. Sessions are created by a
// [Coordinator], which keeps the registry of live sessions, tracks the single
// active session and the selection, and records every structural change in
// its undo history.
//
// Nothing in this package is safe for concurrent use. A Coordinator and its
// sessions belong to the goroutine handling user input.
package session

import (
	"errors"
	"fmt"

	"honnef.co/go/inkedit/curve"
)

var (
	// ErrRemoved is returned when editing a session that is no longer in its
	// coordinator's registry.
	ErrRemoved = errors.New("session: removed")
	// ErrNotEditing is returned when a stroke operation is not possible in
	// the session's current editing state.
	ErrNotEditing = errors.New("session: not editing")
	// ErrParamType is returned when a parameter value has the wrong type or
	// range.
	ErrParamType = errors.New("session: invalid parameter value")
	// ErrRotation is returned for rotations other than multiples of 90
	// degrees.
	ErrRotation = errors.New("session: invalid rotation")
)

// InvariantViolation is panicked on programmer errors, such as handing a
// session to a coordinator that did not create it.
type InvariantViolation struct {
	Msg string
}

func (v *InvariantViolation) Error() string {
	return "session: invariant violated: " + v.Msg
}

// Kind identifies the variant of a session.
type Kind int

const (
	KindInk Kind = iota + 1
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindInk:
		return "ink"
	case KindFreeText:
		return "freetext"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the lifecycle state of a session.
type State int

const (
	// Idle sessions have not been placed yet. Coordinators never hand out
	// idle sessions.
	Idle State = iota
	// Drafting sessions exist but have no undoable history yet.
	Drafting
	// Committed sessions have at least one undoable edit.
	Committed
	// Removed sessions have been detached from the registry. Only replaying
	// history can bring them back.
	Removed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drafting:
		return "drafting"
	case Committed:
		return "committed"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is an annotation being edited. The set of implementations is
// closed: *Ink and *FreeText.
type Session interface {
	// ID returns the session's identity, unique within its coordinator.
	ID() string
	Kind() Kind
	// Page returns the index of the page the session is placed on.
	Page() int
	State() State
	// IsActive reports whether the session holds its coordinator's input
	// focus.
	IsActive() bool
	IsSelected() bool
	// IsEmpty reports whether the session has no content worth keeping.
	IsEmpty() bool
	// Rotation returns the page rotation, in degrees, the session was placed
	// under.
	Rotation() int
	// Origin returns the placement point in overlay coordinates.
	Origin() curve.Point
	// BoundingBox returns the area covered by the session's content in
	// overlay coordinates.
	BoundingBox() curve.Rect
	// Translate moves the session by a screen-space displacement, which is
	// mapped to the unrotated overlay according to [Session.Rotation].
	Translate(dx, dy float64) error
	// Commit finishes editing. Committing an empty session is a no-op.
	Commit() error
	// Geometry returns the session's exportable content.
	Geometry() Geometry

	common() *base
	clone() Session
	applyParam(p Param, v any)
	param(p Param) any
}

// Geometry is the exportable content of a session.
type Geometry struct {
	ID       string
	Kind     Kind
	Page     int
	Rotation int
	// Box is the bounding box in overlay coordinates.
	Box   curve.Rect
	Color string

	// Paths holds one flat coordinate list per ink stroke: the start point
	// followed by two handles and an end point per segment.
	Paths     [][]float64
	Thickness float64

	Text     string
	FontSize float64
}

// base holds the state common to all sessions.
type base struct {
	id       string
	page     int
	rotation int
	origin   curve.Point
	state    State
	// restore is the state to return to when history replay re-attaches a
	// removed session.
	restore  State
	active   bool
	selected bool
	// seq orders sessions by creation.
	seq   uint64
	coord *Coordinator
}

func (b *base) common() *base       { return b }
func (b *base) ID() string          { return b.id }
func (b *base) Page() int           { return b.page }
func (b *base) State() State        { return b.state }
func (b *base) IsActive() bool      { return b.active }
func (b *base) IsSelected() bool    { return b.selected }
func (b *base) Rotation() int       { return b.rotation }
func (b *base) Origin() curve.Point { return b.origin }
func (b *base) removed() bool       { return b.state == Removed }

func (b *base) checkLive() error {
	if b.removed() {
		return fmt.Errorf("%s: %w", b.id, ErrRemoved)
	}
	return nil
}

// ScreenToPage maps a displacement on screen to the unrotated overlay of a
// page shown with the given rotation.
func ScreenToPage(dx, dy float64, rotation int) (float64, float64, error) {
	switch rotation {
	case 0:
		return dx, dy, nil
	case 90:
		return dy, -dx, nil
	case 180:
		return -dx, -dy, nil
	case 270:
		return -dy, dx, nil
	default:
		return 0, 0, fmt.Errorf("%d: %w", rotation, ErrRotation)
	}
}

// NormalizeRotation maps a rotation in degrees to one of 0, 90, 180 and 270.
func NormalizeRotation(rotation int) (int, error) {
	if rotation%90 != 0 {
		return 0, fmt.Errorf("%d: %w", rotation, ErrRotation)
	}
	return ((rotation % 360) + 360) % 360, nil
}
