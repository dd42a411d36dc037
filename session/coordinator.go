package session

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"honnef.co/go/inkedit"
	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/history"
)

// DefaultTolerance is the fit tolerance used for ink strokes, as a squared
// distance in overlay units.
const DefaultTolerance = 30.0

// EventType describes what happened to a session.
type EventType int

const (
	EventAdded EventType = iota + 1
	EventRemoved
	EventChanged
	EventActivated
	EventDeactivated
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventChanged:
		return "changed"
	case EventActivated:
		return "activated"
	case EventDeactivated:
		return "deactivated"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is delivered to the coordinator's listener, typically to schedule a
// redraw.
type Event struct {
	Type    EventType
	Session Session
}

// Option configures a Coordinator during creation.
//
// Example:
//
//	c := session.NewCoordinator(
//	    session.WithCapacity(50),
//	    session.WithListener(func(ev session.Event) { redraw(ev.Session) }),
//	)
type Option func(*options)

type options struct {
	capacity  int
	tolerance float64
	logger    *slog.Logger
	listener  func(Event)
	newID     func() string
}

func defaultOptions() options {
	return options{
		capacity:  history.DefaultCapacity,
		tolerance: DefaultTolerance,
		newID: func() string {
			return "inkedit-" + uuid.NewString()
		},
	}
}

// WithCapacity sets the number of undo steps kept.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithTolerance sets the maximum squared distance between a stroke sample
// and the fitted curve.
func WithTolerance(maxError float64) Option {
	return func(o *options) {
		o.tolerance = maxError
	}
}

// WithLogger sets the logger of this coordinator. By default the package-wide
// logger from [inkedit.Logger] is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithListener sets a function to be called after every change to a
// session.
func WithListener(fn func(Event)) Option {
	return func(o *options) {
		o.listener = fn
	}
}

// WithIDFunc replaces the generator of session identities. Identities must
// be unique.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// Coordinator owns the registry of sessions, the single active session, the
// selection, the clipboard and the undo history.
type Coordinator struct {
	history  *history.History
	sessions map[string]Session
	// active holds input focus. previous is the last session that lost it,
	// which toolbar changes target when nothing is active.
	active    Session
	previous  Session
	allSel    bool
	clipboard Session
	defaults  defaults
	rotations map[int]int
	seq       uint64

	tolerance float64
	log       *slog.Logger
	listener  func(Event)
	newID     func() string
}

// NewCoordinator returns a coordinator with an empty registry and history.
func NewCoordinator(opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator{
		history:   history.New(o.capacity),
		sessions:  make(map[string]Session),
		defaults:  newDefaults(),
		rotations: make(map[int]int),
		tolerance: o.tolerance,
		log:       o.logger,
		listener:  o.listener,
		newID:     o.newID,
	}
}

func (c *Coordinator) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return inkedit.Logger()
}

func (c *Coordinator) notify(t EventType, s Session) {
	if c.listener != nil {
		c.listener(Event{Type: t, Session: s})
	}
}

// own panics unless s was created by c.
func (c *Coordinator) own(s Session) *base {
	if s == nil {
		panic(&InvariantViolation{Msg: "nil session"})
	}
	b := s.common()
	if b.coord != c {
		panic(&InvariantViolation{Msg: fmt.Sprintf("session %s belongs to another coordinator", b.id)})
	}
	return b
}

// SetPageRotation sets the rotation, in degrees, under which new sessions on
// page are placed.
func (c *Coordinator) SetPageRotation(page, rotation int) error {
	r, err := NormalizeRotation(rotation)
	if err != nil {
		return err
	}
	c.rotations[page] = r
	return nil
}

func (c *Coordinator) newBase(page int, origin curve.Point) base {
	c.seq++
	return base{
		id:       c.newID(),
		page:     page,
		rotation: c.rotations[page],
		origin:   origin,
		state:    Removed,
		restore:  Drafting,
		seq:      c.seq,
		coord:    c,
	}
}

// NewInk places an empty drawing at origin on page and activates it.
func (c *Coordinator) NewInk(page int, origin curve.Point) *Ink {
	s := &Ink{
		base:      c.newBase(page, origin),
		thickness: c.defaults.thickness,
		color:     c.defaults.inkColor,
	}
	c.attach(s)
	c.Activate(s)
	return s
}

// NewFreeText places an empty text box at origin on page and activates it.
func (c *Coordinator) NewFreeText(page int, origin curve.Point) *FreeText {
	s := &FreeText{
		base:     c.newBase(page, origin),
		fontSize: c.defaults.fontSize,
		color:    c.defaults.textColor,
	}
	c.attach(s)
	c.Activate(s)
	return s
}

// attach puts a removed session back into the registry.
func (c *Coordinator) attach(s Session) {
	b := c.own(s)
	if !b.removed() {
		return
	}
	b.state = b.restore
	c.sessions[b.id] = s
	c.logger().Info("session added", "session", b.id, "kind", s.Kind(), "page", b.page)
	c.notify(EventAdded, s)
}

// detach takes a session out of the registry, dropping focus and selection.
func (c *Coordinator) detach(s Session) {
	b := c.own(s)
	if b.removed() {
		return
	}
	if ink, ok := s.(*Ink); ok {
		ink.CancelStroke()
	}
	if c.active == s {
		c.active = nil
		b.active = false
	}
	if c.previous == s {
		c.previous = nil
	}
	b.selected = false
	b.restore = b.state
	b.state = Removed
	delete(c.sessions, b.id)
	c.logger().Info("session removed", "session", b.id, "kind", s.Kind())
	c.notify(EventRemoved, s)
}

// Active returns the session holding input focus, or nil.
func (c *Coordinator) Active() Session {
	return c.active
}

// Activate gives s input focus. The previously active session loses it and
// is committed, or removed if it is empty. Activating a session clears the
// selection.
func (c *Coordinator) Activate(s Session) error {
	b := c.own(s)
	if err := b.checkLive(); err != nil {
		return err
	}
	if c.active == s {
		return nil
	}
	prev := c.active
	c.active = s
	b.active = true
	c.UnselectAll()
	c.notify(EventActivated, s)
	if prev != nil {
		c.previous = prev
		prev.common().active = false
		c.notify(EventDeactivated, prev)
		c.commitOrRemove(prev)
	}
	return nil
}

// DeactivateCurrent drops input focus. The session that held it is
// committed, or removed if it is empty.
func (c *Coordinator) DeactivateCurrent() {
	prev := c.active
	if prev == nil {
		return
	}
	c.active = nil
	c.previous = prev
	prev.common().active = false
	c.notify(EventDeactivated, prev)
	c.commitOrRemove(prev)
}

func (c *Coordinator) commitOrRemove(s Session) {
	if s.common().removed() {
		return
	}
	if s.IsEmpty() {
		c.detach(s)
		return
	}
	if err := s.Commit(); err != nil {
		c.logger().Warn("commit failed", "session", s.ID(), "err", err)
	}
}

// Delete removes s. Removing a session with content is undoable; empty
// sessions are discarded.
func (c *Coordinator) Delete(s Session) error {
	b := c.own(s)
	if err := b.checkLive(); err != nil {
		return err
	}
	if s.IsEmpty() {
		c.detach(s)
		return nil
	}
	c.history.Record(removeSessionsOp([]Session{s}), true)
	return nil
}

// DeleteSelected removes the selected sessions with content as a single
// undoable step. After [Coordinator.SelectAll] that is every session; with
// nothing selected it is the active session. It returns the number of
// sessions removed.
func (c *Coordinator) DeleteSelected() int {
	var targets []Session
	for _, s := range c.ordered(func(s Session) bool { return c.allSel || s.IsSelected() }) {
		if !s.IsEmpty() {
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 && !c.allSel && c.active != nil && !c.active.IsEmpty() {
		targets = []Session{c.active}
	}
	c.allSel = false
	if len(targets) == 0 {
		return 0
	}
	c.history.Record(removeSessionsOp(targets), true)
	return len(targets)
}

// Copy puts a copy of the active session on the clipboard. It reports
// whether there was anything to copy.
func (c *Coordinator) Copy() bool {
	if c.active == nil || c.active.IsEmpty() {
		return false
	}
	c.clipboard = c.active.clone()
	return true
}

// Cut copies the active session to the clipboard and deletes it.
func (c *Coordinator) Cut() bool {
	if !c.Copy() {
		return false
	}
	return c.Delete(c.active) == nil
}

// Paste adds a copy of the clipboard contents to page, with a new identity.
// It returns nil if the clipboard is empty.
func (c *Coordinator) Paste(page int) Session {
	if c.clipboard == nil {
		return nil
	}
	s := c.clipboard.clone()
	b := s.common()
	c.seq++
	b.id = c.newID()
	b.page = page
	b.rotation = c.rotations[page]
	b.seq = c.seq
	b.active = false
	b.selected = false
	b.state = Removed
	b.restore = Committed
	if ft, ok := s.(*FreeText); ok {
		// The paste itself records the box's creation.
		ft.wasCommitted = true
		ft.content = normalizeText(ft.draft)
	}
	c.history.Record(addSessionOp(s), true)
	return s
}

// Select adds s to the selection.
func (c *Coordinator) Select(s Session) error {
	b := c.own(s)
	if err := b.checkLive(); err != nil {
		return err
	}
	b.selected = true
	return nil
}

// SelectAll selects every session.
func (c *Coordinator) SelectAll() {
	c.allSel = true
	for _, s := range c.sessions {
		s.common().selected = true
	}
}

// UnselectAll clears the selection.
func (c *Coordinator) UnselectAll() {
	c.allSel = false
	for _, s := range c.sessions {
		s.common().selected = false
	}
}

// AllSelected reports whether [Coordinator.SelectAll] is in effect.
func (c *Coordinator) AllSelected() bool { return c.allSel }

// Undo reverts the most recent undoable edit.
func (c *Coordinator) Undo() { c.history.Undo() }

// Redo re-applies the most recently undone edit.
func (c *Coordinator) Redo() { c.history.Redo() }

// CanUndo reports whether there is an edit to undo.
func (c *Coordinator) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether there is an edit to redo.
func (c *Coordinator) CanRedo() bool { return c.history.CanRedo() }

// SetParam changes a style attribute from the toolbar. The new value applies
// to the active session, or the one that was active last, if it is of the
// matching kind, and becomes the default for new sessions.
//
// Thicknesses and font sizes are float64 or int, colors are "#rrggbb"
// strings.
func (c *Coordinator) SetParam(p Param, v any) error {
	val, err := p.validate(v)
	if err != nil {
		return err
	}
	c.defaults.set(p, val)
	target := c.active
	if target == nil {
		target = c.previous
	}
	if target != nil && !target.common().removed() && target.Kind() == p.Kind() {
		c.updateParam(target, p, val)
	}
	return nil
}

// Default returns the value new sessions receive for p.
func (c *Coordinator) Default(p Param) any {
	return c.defaults.get(p)
}

func (c *Coordinator) setSessionParam(s Session, p Param, v any) error {
	b := c.own(s)
	if err := b.checkLive(); err != nil {
		return err
	}
	val, err := p.validate(v)
	if err != nil {
		return err
	}
	c.updateParam(s, p, val)
	return nil
}

func (c *Coordinator) updateParam(s Session, p Param, val any) {
	c.logger().Debug("param changed", "session", s.ID(), "param", p, "value", val)
	if s.common().state == Committed {
		c.history.Record(SetAttributeOp(s, p, s.param(p), val), true)
		return
	}
	s.applyParam(p, val)
	c.notify(EventChanged, s)
}

// Session returns the live session with the given identity.
func (c *Coordinator) Session(id string) (Session, bool) {
	s, ok := c.sessions[id]
	return s, ok
}

// Sessions returns the live sessions on page in creation order.
func (c *Coordinator) Sessions(page int) []Session {
	return c.ordered(func(s Session) bool { return s.Page() == page })
}

// SessionAt returns the most recently created session on page whose box
// contains pt, or nil. The box of a drawing includes half its line width.
func (c *Coordinator) SessionAt(page int, pt curve.Point) Session {
	ss := c.Sessions(page)
	for i := len(ss) - 1; i >= 0; i-- {
		box := ss[i].BoundingBox()
		if ink, ok := ss[i].(*Ink); ok {
			box = box.Inflate(ink.thickness/2, ink.thickness/2)
		}
		if box.Contains(pt) {
			return ss[i]
		}
	}
	return nil
}

// All returns every live session in creation order.
func (c *Coordinator) All() []Session {
	return c.ordered(func(Session) bool { return true })
}

func (c *Coordinator) ordered(keep func(Session) bool) []Session {
	var out []Session
	for _, s := range c.sessions {
		if keep(s) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Session) int {
		return cmp.Compare(a.common().seq, b.common().seq)
	})
	return out
}

// DestroyPage ends editing on page, for example when its overlay is torn
// down: the active session on page loses focus, and empty sessions on page
// are discarded. Sessions with content stay in the registry.
func (c *Coordinator) DestroyPage(page int) {
	if c.active != nil && c.active.Page() == page {
		c.DeactivateCurrent()
	}
	for _, s := range c.Sessions(page) {
		if s.IsEmpty() {
			c.detach(s)
		}
	}
}
