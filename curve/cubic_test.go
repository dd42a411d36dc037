package curve

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCubicBezDeriv(t *testing.T) {
	c := CubicBez{
		Pt(0.0, 0.0),
		Pt(1.0/3.0, 0.0),
		Pt(2.0/3.0, 1.0/3.0),
		Pt(1.0, 1.0),
	}

	const n = 10
	const delta = 1e-6
	for i := range n + 1 {
		ts := float64(i) / float64(n)
		dApprox := c.Eval(ts + delta).Sub(c.Eval(ts)).Mul(1.0 / delta)
		if l := c.Deriv(ts).Sub(dApprox).Hypot(); l >= delta*10 {
			t.Errorf("Deriv(%g): got difference of %g", ts, l)
		}
		ddApprox := c.Deriv(ts + delta).Sub(c.Deriv(ts)).Mul(1.0 / delta)
		if l := c.Deriv2(ts).Sub(ddApprox).Hypot(); l >= delta*100 {
			t.Errorf("Deriv2(%g): got difference of %g", ts, l)
		}
	}
}

func TestCubicBezBoundingBox(t *testing.T) {
	c := CubicBez{Pt(0, 0), Pt(0, 30), Pt(30, 30), Pt(30, 0)}
	bbox := c.BoundingBox()
	const epsilon = 1e-9
	assertNear(t, bbox.Origin(), Pt(0, 0), epsilon)
	assertNear(t, Pt(bbox.X1, bbox.Y1), Pt(30, 22.5), epsilon)

	for i := range 101 {
		if p := c.Eval(float64(i) / 100); !bbox.Inflate(epsilon, epsilon).Contains(p) {
			t.Errorf("%s lies outside of %v", p, bbox)
		}
	}
}

func TestLine(t *testing.T) {
	c := Line(Pt(0, 0), Pt(9, 3))
	diff(t, CubicBez{Pt(0, 0), Pt(3, 1), Pt(6, 2), Pt(9, 3)}, c, cmpopts.EquateApprox(0, 1e-12))
	for i := range 11 {
		ts := float64(i) / 10
		assertNear(t, c.Eval(ts), Pt(9*ts, 3*ts), 1e-9)
	}
}

func TestCubicBezIsAlmostFlat(t *testing.T) {
	if !Line(Pt(0, 0), Pt(100, 0)).IsAlmostFlat(10) {
		t.Error("straight line is not flat")
	}
	bulge := CubicBez{Pt(0, 0), Pt(0, 50), Pt(100, 50), Pt(100, 0)}
	if bulge.IsAlmostFlat(10) {
		t.Error("bulging cubic is flat")
	}
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		c0, c1, c2 float64
		want       []float64
	}{
		{-5, 0, 1, []float64{-math.Sqrt(5), math.Sqrt(5)}},
		{5, 0, 1, []float64{}},
		{5, 1, 0, []float64{-5}},
		{0, 0, 0, []float64{0}},
		{1, 2, 1, []float64{-1}},
	}
	for _, tt := range tests {
		roots, n := SolveQuadratic(tt.c0, tt.c1, tt.c2)
		if n != len(tt.want) {
			t.Errorf("SolveQuadratic(%g, %g, %g): got %d roots, want %d", tt.c0, tt.c1, tt.c2, n, len(tt.want))
			continue
		}
		for i, want := range tt.want {
			if math.Abs(roots[i]-want) > 1e-12 {
				t.Errorf("SolveQuadratic(%g, %g, %g): root %d = %g, want %g", tt.c0, tt.c1, tt.c2, i, roots[i], want)
			}
		}
	}
}
