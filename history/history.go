// Package history implements a bounded undo/redo log of reversible
// operations.
//
// Operations are recorded in order. Undo reverts the most recently applied
// one; Redo re-applies the next one. Recording a new operation after an undo
// discards everything that could have been redone. When the log is full the
// oldest operation is dropped and its effect becomes permanent.
//
// Consecutive operations that share a coalescing key are merged into a
// single entry, so that a continuous interaction such as dragging a slider
// produces one undo step.
package history

import "honnef.co/go/inkedit"

// DefaultCapacity is the capacity used by [New] when none is given.
const DefaultCapacity = 100

// Operation is a reversible edit.
//
// Apply and Revert must undo each other. A nil function is treated as a
// no-op. Panics raised by either function are not recovered.
type Operation struct {
	Apply  func()
	Revert func()

	// CoalesceKey, if not empty, merges this operation into the newest
	// entry when that entry has the same key. The merged entry applies the
	// new operation.
	CoalesceKey string

	// KeepUndo makes a merged entry keep the Revert of the entry it
	// replaces, so that undoing it restores the state from before the
	// first operation of the run.
	KeepUndo bool
}

// History is a ring buffer of operations with a cursor marking the most
// recently applied one.
//
// The zero value is not usable; call [New].
type History struct {
	entries []Operation
	// start is the physical index of the oldest entry.
	start int
	count int
	// pos is the logical index of the most recently applied entry, or -1
	// if no entry is applied.
	pos int
}

// New returns an empty history holding at most capacity operations. A
// capacity of zero or less selects [DefaultCapacity].
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		entries: make([]Operation, capacity),
		pos:     -1,
	}
}

func (h *History) slot(i int) int {
	return (h.start + i) % len(h.entries)
}

// Record adds op to the history. If execute is true, op is applied before
// Record returns; otherwise the caller has already brought about its effect.
func (h *History) Record(op Operation, execute bool) {
	if op.CoalesceKey != "" && h.pos >= 0 && h.pos == h.count-1 {
		prev := &h.entries[h.slot(h.pos)]
		if prev.CoalesceKey == op.CoalesceKey {
			if op.KeepUndo {
				op.Revert = prev.Revert
			}
			*prev = op
			inkedit.Logger().Debug("history: coalesced", "key", op.CoalesceKey, "len", h.count)
			if execute {
				run(op.Apply)
			}
			return
		}
	}

	// Drop everything that could have been redone.
	for i := h.pos + 1; i < h.count; i++ {
		h.entries[h.slot(i)] = Operation{}
	}
	h.count = h.pos + 1

	if h.count == len(h.entries) {
		h.entries[h.start] = Operation{}
		h.start = (h.start + 1) % len(h.entries)
		h.count--
		inkedit.Logger().Debug("history: evicted oldest entry", "cap", len(h.entries))
	}
	h.entries[h.slot(h.count)] = op
	h.count++
	h.pos = h.count - 1
	inkedit.Logger().Debug("history: recorded", "key", op.CoalesceKey, "len", h.count)

	if execute {
		run(op.Apply)
	}
}

// Undo reverts the most recently applied operation. It does nothing if no
// operation is applied.
func (h *History) Undo() {
	if h.pos < 0 {
		return
	}
	run(h.entries[h.slot(h.pos)].Revert)
	h.pos--
}

// Redo applies the operation following the most recently applied one. It
// does nothing if there is none.
func (h *History) Redo() {
	if h.pos+1 >= h.count {
		return
	}
	run(h.entries[h.slot(h.pos+1)].Apply)
	h.pos++
}

// CanUndo reports whether [History.Undo] would revert an operation.
func (h *History) CanUndo() bool { return h.pos >= 0 }

// CanRedo reports whether [History.Redo] would apply an operation.
func (h *History) CanRedo() bool { return h.pos+1 < h.count }

// Len returns the number of recorded operations, including those that have
// been undone but can still be redone.
func (h *History) Len() int { return h.count }

// Cap returns the maximum number of operations the history holds.
func (h *History) Cap() int { return len(h.entries) }

// Clear forgets all operations without applying or reverting any.
func (h *History) Clear() {
	clear(h.entries)
	h.start = 0
	h.count = 0
	h.pos = -1
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}
