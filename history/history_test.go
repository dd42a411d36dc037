package history

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// doc is a tiny data model: a list of strings that operations append to.
type doc struct {
	items []string
}

func (d *doc) push(s string) Operation {
	return Operation{
		Apply:  func() { d.items = append(d.items, s) },
		Revert: func() { d.items = d.items[:len(d.items)-1] },
	}
}

func (d *doc) snapshot() []string {
	out := make([]string, len(d.items))
	copy(out, d.items)
	return out
}

func TestRecordExecute(t *testing.T) {
	var d doc
	h := New(0)
	if h.Cap() != DefaultCapacity {
		t.Errorf("got capacity %d, want %d", h.Cap(), DefaultCapacity)
	}
	h.Record(d.push("a"), true)
	h.Record(d.push("b"), false)
	diff(t, []string{"a"}, d.snapshot())
	if !h.CanUndo() || h.CanRedo() {
		t.Errorf("CanUndo = %t, CanRedo = %t, want true, false", h.CanUndo(), h.CanRedo())
	}
}

func TestRoundTrip(t *testing.T) {
	var d doc
	h := New(10)
	for i := range 7 {
		h.Record(d.push(fmt.Sprint(i)), true)
	}
	before := d.snapshot()

	var undos int
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	if undos != 7 {
		t.Errorf("undid %d operations, want 7", undos)
	}
	diff(t, []string{}, d.snapshot())

	for range undos {
		h.Redo()
	}
	diff(t, before, d.snapshot())
	if h.CanRedo() {
		t.Error("CanRedo after redoing everything")
	}
}

func TestBoundaryNoops(t *testing.T) {
	var d doc
	h := New(3)
	h.Undo()
	h.Redo()
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history has something to undo or redo")
	}

	h.Record(d.push("a"), true)
	h.Redo()
	diff(t, []string{"a"}, d.snapshot())
	h.Undo()
	h.Undo()
	diff(t, []string{}, d.snapshot())
}

func TestRedoFromNone(t *testing.T) {
	var d doc
	h := New(3)
	h.Record(d.push("a"), true)
	h.Record(d.push("b"), true)
	h.Undo()
	h.Undo()
	h.Redo()
	diff(t, []string{"a"}, d.snapshot())
}

func TestBoundedGrowth(t *testing.T) {
	const capacity = 10
	var d doc
	h := New(capacity)
	for i := range capacity + 5 {
		h.Record(d.push(fmt.Sprint(i)), true)
	}
	if h.Len() != capacity {
		t.Errorf("got %d entries, want %d", h.Len(), capacity)
	}
	var undos int
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	if undos != capacity {
		t.Errorf("undid %d operations, want %d", undos, capacity)
	}
	// The five oldest operations became the baseline.
	diff(t, []string{"0", "1", "2", "3", "4"}, d.snapshot())
}

func TestCapacityThree(t *testing.T) {
	var d doc
	h := New(3)
	for _, s := range []string{"A", "B", "C", "D"} {
		h.Record(d.push(s), true)
	}
	h.Undo()
	h.Undo()
	h.Undo()
	diff(t, []string{"A"}, d.snapshot())
	if h.CanUndo() {
		t.Error("A is still undoable")
	}
	h.Undo()
	diff(t, []string{"A"}, d.snapshot())
}

func TestWrapAround(t *testing.T) {
	var d doc
	h := New(3)
	for i := range 8 {
		h.Record(d.push(fmt.Sprint(i)), true)
		if i == 4 {
			h.Undo()
			h.Undo()
		}
	}
	// 0..4 recorded, 4 and 3 undone and then discarded by 5.
	diff(t, []string{"0", "1", "2", "5", "6", "7"}, d.snapshot())
	for h.CanUndo() {
		h.Undo()
	}
	diff(t, []string{"0", "1", "2"}, d.snapshot())
	for h.CanRedo() {
		h.Redo()
	}
	diff(t, []string{"0", "1", "2", "5", "6", "7"}, d.snapshot())
}

func TestTruncateOnRecord(t *testing.T) {
	var d doc
	h := New(5)
	h.Record(d.push("a"), true)
	h.Record(d.push("b"), true)
	h.Undo()
	h.Record(d.push("c"), true)
	if h.CanRedo() {
		t.Error("b can still be redone")
	}
	if h.Len() != 2 {
		t.Errorf("got %d entries, want 2", h.Len())
	}
	diff(t, []string{"a", "c"}, d.snapshot())
}

func setSize(size *int, from, to int) Operation {
	return Operation{
		Apply:       func() { *size = to },
		Revert:      func() { *size = from },
		CoalesceKey: "size",
	}
}

func TestCoalesce(t *testing.T) {
	size := 5
	h := New(10)
	h.Record(setSize(&size, 5, 10), true)
	op := setSize(&size, 10, 20)
	op.KeepUndo = true
	h.Record(op, true)

	if size != 20 {
		t.Errorf("got size %d, want 20", size)
	}
	if h.Len() != 1 {
		t.Errorf("got %d entries, want 1", h.Len())
	}
	h.Undo()
	if size != 5 {
		t.Errorf("undo restored size %d, want 5", size)
	}
	h.Redo()
	if size != 20 {
		t.Errorf("redo restored size %d, want 20", size)
	}
}

func TestCoalesceWithoutKeepUndo(t *testing.T) {
	size := 5
	h := New(10)
	h.Record(setSize(&size, 5, 10), true)
	h.Record(setSize(&size, 10, 20), true)
	h.Undo()
	if size != 10 {
		t.Errorf("undo restored size %d, want 10", size)
	}
}

func TestCoalesceDifferentKeys(t *testing.T) {
	size := 5
	h := New(10)
	h.Record(setSize(&size, 5, 10), true)
	op := setSize(&size, 10, 20)
	op.CoalesceKey = "color"
	h.Record(op, true)
	if h.Len() != 2 {
		t.Errorf("got %d entries, want 2", h.Len())
	}
}

func TestCoalesceAfterUndo(t *testing.T) {
	size := 5
	h := New(10)
	h.Record(setSize(&size, 5, 10), true)
	other := setSize(&size, 10, 20)
	other.CoalesceKey = ""
	h.Record(other, true)
	h.Undo()
	if size != 10 {
		t.Fatalf("got size %d, want 10", size)
	}

	// The entry at the cursor has the same key but is not the newest one,
	// so this truncates and appends instead of replacing it.
	op := setSize(&size, 10, 30)
	op.KeepUndo = true
	h.Record(op, true)
	if h.Len() != 2 {
		t.Errorf("got %d entries, want 2", h.Len())
	}
	h.Undo()
	if size != 10 {
		t.Errorf("undo restored size %d, want 10", size)
	}
	h.Undo()
	if size != 5 {
		t.Errorf("undo restored size %d, want 5", size)
	}
}

func TestEvictedClosuresReleased(t *testing.T) {
	var d doc
	h := New(2)
	for i := range 4 {
		h.Record(d.push(fmt.Sprint(i)), true)
	}
	var live int
	for _, e := range h.entries {
		if e.Apply != nil {
			live++
		}
	}
	if live != 2 {
		t.Errorf("%d slots hold operations, want 2", live)
	}

	h.Undo()
	h.Record(d.push("x"), true)
	live = 0
	for _, e := range h.entries {
		if e.Apply != nil {
			live++
		}
	}
	if live != 2 {
		t.Errorf("%d slots hold operations after truncation, want 2", live)
	}
}

func TestNilFunctions(t *testing.T) {
	h := New(2)
	h.Record(Operation{}, true)
	h.Undo()
	h.Redo()
}

func TestClear(t *testing.T) {
	var d doc
	h := New(2)
	h.Record(d.push("a"), true)
	h.Clear()
	if h.CanUndo() || h.CanRedo() || h.Len() != 0 {
		t.Error("history not empty after Clear")
	}
	h.Record(d.push("b"), true)
	h.Undo()
	diff(t, []string{"a"}, d.snapshot())
}

func BenchmarkRecord(b *testing.B) {
	h := New(DefaultCapacity)
	op := Operation{Apply: func() {}, Revert: func() {}}
	for range b.N {
		h.Record(op, true)
	}
}
