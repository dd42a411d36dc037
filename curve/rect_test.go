package curve

import "testing"

func TestRectConstructors(t *testing.T) {
	diff(t, Rect{0, 5, 10, 20}, NewRectFromPoints(Pt(10, 5), Pt(0, 20)))
	diff(t, Rect{2, 3, 12, 8}, NewRectFromOrigin(Pt(2, 3), 10, 5))
	diff(t, Rect{-8, 3, 2, 8}, NewRectFromOrigin(Pt(2, 3), -10, 5))
}

func TestRectUnion(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	diff(t, Rect{-5, 0, 10, 12}, r.Union(Rect{-5, 2, 1, 12}))
	diff(t, Rect{0, 0, 10, 15}, r.UnionPoint(Pt(3, 15)))

	// A succession of UnionPoint calls encloses the points.
	pts := []Point{Pt(3, 1), Pt(-2, 4), Pt(7, -1)}
	acc := Rect{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, pt := range pts[1:] {
		acc = acc.UnionPoint(pt)
	}
	diff(t, Rect{-2, -1, 7, 4}, acc)
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		r     Rect
		empty bool
	}{
		{Rect{0, 0, 10, 10}, false},
		{Rect{}, true},
		{Rect{0, 0, 10, 0}, true},
		{Rect{10, 0, 0, 10}, true},
	}
	for _, tt := range tests {
		if got := tt.r.IsEmpty(); got != tt.empty {
			t.Errorf("%v.IsEmpty() = %t, want %t", tt.r, got, tt.empty)
		}
	}
}

func TestRectTranslateInflate(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	diff(t, Rect{5, -5, 15, 5}, r.Translate(Vec(5, -5)))
	diff(t, Rect{-1, -2, 11, 12}, r.Inflate(1, 2))
}
