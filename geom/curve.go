package geom

// DefaultDivisions is the subdivision count used for arc-length tables when
// no explicit resolution is requested.
const DefaultDivisions = 128

// Curve is a single quadratic Bezier segment defined by a start point, one
// control point and an end point.
type Curve struct {
	P0, P1, P2 Point

	cache lengthCache
}

// lengthCache memoizes the cumulative chord-length table for a single
// subdivision count. A query at a different count recomputes the whole
// table; partial reuse is never attempted.
type lengthCache struct {
	divisions int
	lengths   []float64
}

func NewCurve(p0, p1, p2 Point) *Curve {
	return &Curve{P0: p0, P1: p1, P2: p2}
}

// Point evaluates the curve at native parameter t in [0, 1] using the
// quadratic Bezier formula B(t) = (1-t)^2*P0 + 2(1-t)t*P1 + t^2*P2.
func (c *Curve) Point(t float64) Point {
	mt := 1 - t
	return c.P0.Scale(mt * mt).
		Add(c.P1.Scale(2 * mt * t)).
		Add(c.P2.Scale(t * t))
}

// SamplePoints returns divisions+1 points at evenly spaced values of the
// native parameter t = 0, 1/divisions, ..., 1. A divisions of 0 degenerates
// to a single point at t = 0.
func (c *Curve) SamplePoints(divisions int) []Point {
	pts := make([]Point, divisions+1)
	pts[0] = c.Point(0)
	for i := 1; i <= divisions; i++ {
		pts[i] = c.Point(float64(i) / float64(divisions))
	}
	return pts
}

// Lengths returns the cumulative chord lengths of divisions+1 samples: the
// first entry is always 0 and the last is the total approximate arc length.
// The table is memoized on the curve and reused while the requested
// subdivision count matches the cached one.
func (c *Curve) Lengths(divisions int) []float64 {
	if c.cache.lengths != nil && c.cache.divisions == divisions {
		return c.cache.lengths
	}

	pts := c.SamplePoints(divisions)
	lengths := make([]float64, len(pts))

	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i].Dist(pts[i-1])
		lengths[i] = total
	}
	c.cache = lengthCache{divisions: divisions, lengths: lengths}
	return lengths
}

// Length returns the total approximate arc length at the given resolution.
func (c *Curve) Length(divisions int) float64 {
	lengths := c.Lengths(divisions)
	return lengths[len(lengths)-1]
}

// TAtFraction maps a uniform arc-length fraction u in [0, 1] to the
// corresponding native parameter t, so stepping u evenly produces points
// evenly spaced along the curve.
func (c *Curve) TAtFraction(u float64) float64 {
	return c.TAtLength(u * c.Length(DefaultDivisions))
}

// TAtLength maps an absolute arc-length distance to the native parameter t.
// Distances at or beyond the curve ends clamp to exactly 0 and 1.
func (c *Curve) TAtLength(dist float64) float64 {
	lengths := c.Lengths(DefaultDivisions)
	last := len(lengths) - 1

	if dist <= 0 {
		return 0
	}
	if dist >= lengths[last] {
		return 1
	}

	// Largest index whose cumulative length is <= dist.
	lo, hi := 0, last
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lengths[mid] <= dist {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lengths[lo] == dist {
		return float64(lo) / float64(last)
	}

	// Interpolate between the bracketing indices, keeping the pair in range.
	i := min(lo, last-1)
	span := lengths[i+1] - lengths[i]
	if span == 0 {
		// zero-length segment - stay at the lower bracket
		return float64(i) / float64(last)
	}
	frac := (dist - lengths[i]) / span
	return (float64(i) + frac) / float64(last)
}
