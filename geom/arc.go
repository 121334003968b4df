package geom

// Arc is an ordered chain of quadratic Bezier curves traversed as a single
// continuous line. The end point of each curve is expected to coincide with
// the start point of the next one; mismatched seams are the caller's
// responsibility and are neither verified nor repaired.
type Arc struct {
	Curves []*Curve

	// cumulative per-curve lengths, valid only while the entry count
	// matches the number of curves in the path
	lengths []float64
}

func NewArc(curves ...*Curve) *Arc {
	return &Arc{Curves: curves}
}

// Append adds curves to the end of the path. A stale length cache is
// detected by entry count mismatch on the next query, so no explicit
// invalidation happens here.
func (a *Arc) Append(curves ...*Curve) {
	a.Curves = append(a.Curves, curves...)
}

// Lengths returns cumulative path-level lengths, one running total per
// curve, each curve measured at the default resolution.
func (a *Arc) Lengths() []float64 {
	if len(a.lengths) == len(a.Curves) {
		return a.lengths
	}

	lengths := make([]float64, len(a.Curves))
	var total float64
	for i, c := range a.Curves {
		total += c.Length(DefaultDivisions)
		lengths[i] = total
	}
	a.lengths = lengths
	return lengths
}

// Length returns the total approximate length of the path.
func (a *Arc) Length() float64 {
	lengths := a.Lengths()
	if len(lengths) == 0 {
		return 0
	}
	return lengths[len(lengths)-1]
}

// Constellation is a discrete point sequence approximating a curve path,
// with no two consecutive coordinate-identical points.
type Constellation []Point

// Constellation samples every curve of the path at divisions+1 parameter
// values and concatenates the results, dropping a point only when it is
// coordinate-equal to the immediately preceding one. Shared endpoints
// between adjacent curves collapse; identical points that are not adjacent
// survive.
func (a *Arc) Constellation(divisions int) Constellation {
	var out Constellation
	for _, c := range a.Curves {
		for _, p := range c.SamplePoints(divisions) {
			if n := len(out); n > 0 && out[n-1] == p {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
