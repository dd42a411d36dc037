package curve

import (
	"fmt"
	"math"

	"honnef.co/go/inkedit"
)

const (
	// maxReparamIterations bounds the Newton-Raphson rounds spent on one
	// candidate cubic before it is split.
	maxReparamIterations = 20

	// distanceTableParts is the number of chords used to approximate a
	// cubic's arclength when mapping point parameters onto it.
	distanceTableParts = 10

	// maxFitDepth bounds the recursion of the fitter. Point ranges still
	// unresolved at this depth are emitted as straight segments between
	// consecutive samples, which pass through every sample exactly.
	maxFitDepth = 64
)

// InvalidInputError reports a stroke that cannot be fitted.
type InvalidInputError struct {
	// Index is the offending sample, or -1 if the stroke as a whole is
	// unusable.
	Index  int
	Reason string
}

func (err *InvalidInputError) Error() string {
	if err.Index >= 0 {
		return fmt.Sprintf("invalid stroke: sample %d: %s", err.Index, err.Reason)
	}
	return "invalid stroke: " + err.Reason
}

// CleanStroke returns a copy of points with consecutive duplicates removed.
//
// It returns an [*InvalidInputError] if a sample is NaN or infinite, or if
// fewer than two distinct samples remain.
func CleanStroke(points []Point) ([]Point, error) {
	out := make([]Point, 0, len(points))
	for i, pt := range points {
		if pt.IsNaN() || pt.IsInf() {
			return nil, &InvalidInputError{Index: i, Reason: "non-finite coordinate"}
		}
		if len(out) > 0 && out[len(out)-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	if len(out) < 2 {
		return nil, &InvalidInputError{Index: -1, Reason: fmt.Sprintf("%d distinct samples, need at least 2", len(out))}
	}
	return out, nil
}

// Fit approximates a stroke with a chain of cubic Béziers, using Schneider's
// algorithm.
//
// Each sample lies within maxError, measured as a squared distance, of the
// returned curve. Consecutive segments share their anchor points exactly.
// Degenerate strokes (fewer than two distinct samples, or non-finite
// coordinates) produce a nil curve.
//
// The result only depends on the arguments.
func Fit(points []Point, maxError float64) FittedCurve {
	pts, err := CleanStroke(points)
	if err != nil {
		inkedit.Logger().Debug("stroke not fitted", "samples", len(points), "err", err)
		return nil
	}
	n := len(pts)
	f := fitter{maxError: maxError}
	f.fitCubic(pts, pts[1].Sub(pts[0]).Normalize(), pts[n-2].Sub(pts[n-1]).Normalize(), 0)
	inkedit.Logger().Debug("stroke fitted", "samples", n, "segments", len(f.out), "maxError", maxError)
	return f.out
}

type fitter struct {
	maxError float64
	out      FittedCurve
}

// fitCubic fits points, which must hold at least two distinct consecutive
// samples, with the given unit end tangents. left points from the first
// sample into the curve and right points from the last sample into the curve.
func (f *fitter) fitCubic(points []Point, left, right Vec2, depth int) {
	if len(points) == 2 {
		dist := points[0].Distance(points[1]) / 3
		f.out = append(f.out, CubicBez{
			P0: points[0],
			P1: points[0].Translate(left.Mul(dist)),
			P2: points[1].Translate(right.Mul(dist)),
			P3: points[1],
		})
		return
	}
	if depth >= maxFitDepth {
		inkedit.Logger().Debug("fit depth exhausted", "samples", len(points))
		for i := range len(points) - 1 {
			f.out = append(f.out, Line(points[i], points[i+1]))
		}
		return
	}

	u := chordLengthParameterize(points)
	bez := generateBezier(points, u, left, right)
	maxErr, split := computeMaxError(points, bez, u)
	if maxErr == 0 || maxErr < f.maxError {
		f.out = append(f.out, bez)
		return
	}

	if maxErr < f.maxError*f.maxError {
		uPrime := u
		prevErr, prevSplit := maxErr, split
		for range maxReparamIterations {
			uPrime = reparameterize(bez, points, uPrime)
			bez = generateBezier(points, uPrime, left, right)
			// The error is measured against the chord-length parameters,
			// not the refined ones.
			maxErr, split = computeMaxError(points, bez, u)
			if maxErr < f.maxError {
				f.out = append(f.out, bez)
				return
			}
			if split == prevSplit {
				if change := maxErr / prevErr; change > 0.9999 && change < 1.0001 {
					break
				}
			}
			prevErr, prevSplit = maxErr, split
		}
	}

	// Both halves must shrink.
	split = min(max(split, 1), len(points)-2)
	center := points[split-1].Sub(points[split+1])
	if center.IsZero() {
		center = points[split-1].Sub(points[split]).Turn90()
	}
	toCenter := center.Normalize()
	f.fitCubic(points[:split+1], left, toCenter, depth+1)
	f.fitCubic(points[split:], toCenter.Negate(), right, depth+1)
}

// chordLengthParameterize assigns each sample its relative distance along
// the polyline, from 0 to 1.
func chordLengthParameterize(points []Point) []float64 {
	u := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		u[i] = u[i-1] + points[i].Distance(points[i-1])
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	return u
}

// generateBezier computes the least-squares handle lengths of the cubic
// through the end samples of points with the given tangent directions.
func generateBezier(points []Point, params []float64, left, right Vec2) CubicBez {
	first := points[0]
	last := points[len(points)-1]
	base := CubicBez{first, first, last, last}

	var c00, c01, c11, x0, x1 float64
	for i, u := range params {
		ux := 1 - u
		a0 := left.Mul(3 * u * ux * ux)
		a1 := right.Mul(3 * ux * u * u)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)
		tmp := points[i].Sub(base.Eval(u))
		x0 += a0.Dot(tmp)
		x1 += a1.Dot(tmp)
	}

	var alphaL, alphaR float64
	if det := c00*c11 - c01*c01; det != 0 {
		alphaL = (x0*c11 - x1*c01) / det
		alphaR = (c00*x1 - c01*x0) / det
	}

	segLength := first.Distance(last)
	epsilon := 1.0e-6 * segLength
	if alphaL < epsilon || alphaR < epsilon {
		// Degenerate or wrong-way handles; use the Wu/Barsky heuristic.
		alphaL = segLength / 3
		alphaR = segLength / 3
	}
	return CubicBez{
		P0: first,
		P1: first.Translate(left.Mul(alphaL)),
		P2: last.Translate(right.Mul(alphaR)),
		P3: last,
	}
}

// reparameterize runs one Newton-Raphson step per sample, moving its
// parameter towards the closest point on bez.
func reparameterize(bez CubicBez, points []Point, params []float64) []float64 {
	out := make([]float64, len(params))
	for i, u := range params {
		d := bez.Eval(u).Sub(points[i])
		d1 := bez.Deriv(u)
		d2 := bez.Deriv2(u)
		denominator := d1.Hypot2() + 2*d.Dot(d2)
		if denominator == 0 {
			out[i] = u
			continue
		}
		out[i] = u - d.Dot(d1)/denominator
	}
	return out
}

// computeMaxError returns the largest squared distance between a sample and
// its image on bez, and the index of that sample.
func computeMaxError(points []Point, bez CubicBez, params []float64) (float64, int) {
	maxDist := 0.0
	split := len(points) / 2
	table, ok := distanceTable(bez)
	for i, pt := range points {
		t := params[i]
		if ok {
			t = findT(params[i], &table)
		}
		dist := bez.Eval(t).DistanceSquared(pt)
		if math.IsNaN(dist) {
			// NaN would otherwise compare as no error at all.
			dist = math.Inf(1)
		}
		if dist > maxDist {
			maxDist = dist
			split = i
		}
	}
	return maxDist, split
}

// distanceTable samples bez at distanceTableParts+1 evenly spaced parameters
// and returns the cumulative chord length at each, relative to the total.
// It reports false if bez collapses to a point or its length is not finite.
func distanceTable(bez CubicBez) ([distanceTableParts + 1]float64, bool) {
	var table [distanceTableParts + 1]float64
	if bez.P0 == bez.P1 && bez.P1 == bez.P2 && bez.P2 == bez.P3 {
		// Eval rounds, so the chord lengths of a point need not sum to zero.
		return table, false
	}
	prev := bez.P0
	sum := 0.0
	for i := 1; i <= distanceTableParts; i++ {
		cur := bez.Eval(float64(i) / distanceTableParts)
		sum += cur.Distance(prev)
		table[i] = sum
		prev = cur
	}
	if sum == 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return table, false
	}
	for i := range table {
		table[i] /= sum
	}
	return table, true
}

// findT maps a relative distance along the curve to a curve parameter by
// interpolating in table.
func findT(param float64, table *[distanceTableParts + 1]float64) float64 {
	if param < 0 {
		return 0
	}
	if param > 1 {
		return 1
	}
	for i := 1; i <= distanceTableParts; i++ {
		if param <= table[i] {
			tMin := float64(i-1) / distanceTableParts
			tMax := float64(i) / distanceTableParts
			lenMin := table[i-1]
			lenMax := table[i]
			if lenMax == lenMin {
				return tMin
			}
			return (param-lenMin)/(lenMax-lenMin)*(tMax-tMin) + tMin
		}
	}
	return 1
}
