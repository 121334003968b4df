// Package geom provides quadratic Bezier curves and curve paths with
// arc-length parameterization. Sampling a path by arc length yields a
// "constellation" - a point sequence evenly spaced in geometric distance
// rather than in the curve's native (non-uniform speed) parameter.
//
// All computation is synchronous and CPU bound. Length queries memoize
// tables on the curve and path values; these caches are not safe for
// concurrent mutation. Either serialize access per instance or pre-warm
// the caches and treat instances as read-only afterwards.
package geom
