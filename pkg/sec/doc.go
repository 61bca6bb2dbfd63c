// Package sec computes the smallest enclosing circle of a planar point set.
//
// # Overview
//
// The smallest enclosing circle (SEC) of a finite set of points is the unique
// circle of minimum radius that contains every point. puncta uses it to
// measure how far a tracked particle wanders during a recording: the circle
// radius and area summarize the confinement of one trajectory.
//
// # Algorithm
//
// [Compute] implements the randomized incremental construction due to Welzl:
//
//  1. Shuffle the points. This is what makes the expected running time linear;
//     without it, inputs arriving in convex-hull order degrade to quadratic time.
//  2. Start from a zero-radius circle on the first point.
//  3. Every point found outside the working circle must lie on the boundary of
//     the new circle, so the circle is rebuilt through it over the points seen
//     so far. A second nested pass fixes two boundary points, and the final
//     pass chooses among circumcircles of three points.
//
// The circle depends only on the multiset of points, never on the shuffle;
// two runs over the same input agree up to floating-point rounding.
//
// # Degeneracy
//
// Collinear triples have no circumcircle. The determinant of the circumcenter
// formula is compared against the squared extent of the triple and near-zero
// values skip the triple instead of dividing by it. Containment tests use a
// multiplicative slack on the radius plus an absolute slack proportional to
// the bounding-box diagonal of the input, so tracks measured in micrometers
// behave the same as tracks measured in pixels. Duplicate points need no
// special handling.
//
// # Usage
//
//	pts := []sec.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}
//	c, ok := sec.Compute(pts)
//	if !ok {
//	    // no points
//	}
//	fmt.Println(c.Center, c.Radius, c.Area())
//
// # Concurrency
//
// All functions are pure and may be called concurrently on independent inputs.
// The default shuffle uses the process-wide generator from math/rand/v2, which
// is safe for concurrent use; callers needing reproducible runs pass their own
// generator through [Options].
package sec
