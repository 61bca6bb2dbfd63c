package sec

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultEpsilon is the relative containment slack: a point counts as inside
// a circle of radius r when its distance from the center is at most
// r·(1+ε) + ε·diag, where diag is the bounding-box diagonal of the input.
const DefaultEpsilon = 1e-14

// Options configures [ComputeWithOptions].
type Options struct {
	// Rand drives the initial shuffle. Nil draws a fresh PCG generator per
	// call, seeded from the process-wide source.
	// The circle does not depend on it; only the running time does.
	Rand *rand.Rand

	// Epsilon is the relative containment slack. Zero or negative values
	// select DefaultEpsilon.
	Epsilon float64

	// Validate rejects NaN and infinite coordinates with ErrNonFinite before
	// any geometry runs. Without it, non-finite input yields an unspecified
	// circle.
	Validate bool
}

// DefaultOptions returns the options used by [Compute].
func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon}
}

// Compute returns the smallest circle enclosing every point. The boolean is
// false only for an empty input, in which case no circle exists.
//
// One point yields a zero-radius circle on that point; two points yield the
// circle whose diameter is the segment between them. The input slice is not
// modified. Coordinates must be finite; use [ComputeWithOptions] with
// Validate set to have them checked.
func Compute(points []Point) (Circle, bool) {
	c, ok, _ := ComputeWithOptions(points, DefaultOptions())
	return c, ok
}

// ComputeWithOptions is [Compute] with an explicit shuffle source, tolerance,
// and optional input validation. The error is non-nil only when
// opts.Validate is set and a coordinate is not finite.
func ComputeWithOptions(points []Point, opts Options) (Circle, bool, error) {
	if opts.Validate {
		if err := Validate(points); err != nil {
			return Circle{}, false, err
		}
	}
	if len(points) == 0 {
		return Circle{}, false, nil
	}

	shuffled := make([]Point, len(points))
	copy(shuffled, points)
	shuffleRand(opts.Rand).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	eps := opts.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	t := newTolerance(shuffled, eps)

	c := Circle{Center: shuffled[0]}
	for i := 1; i < len(shuffled); i++ {
		if p := shuffled[i]; !t.inside(c, p) {
			c = t.throughOne(shuffled[:i], p)
		}
	}
	return c, true, nil
}

// shuffleRand returns r, or a new generator seeded from the global source.
func shuffleRand(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Validate returns an error wrapping ErrNonFinite for the first point with a
// NaN or infinite coordinate.
func Validate(points []Point) error {
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: point %d is (%g, %g)", ErrNonFinite, i, p.X, p.Y)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// tolerance is the containment slack for one input set.
type tolerance struct {
	rel float64
	abs float64
}

func newTolerance(points []Point, eps float64) tolerance {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return tolerance{rel: 1 + eps, abs: eps * r2.Norm(r2.Sub(hi, lo))}
}

func (t tolerance) inside(c Circle, p Point) bool {
	return r2.Norm(r2.Sub(p, c.Center)) <= c.Radius*t.rel+t.abs
}

// throughOne returns the smallest circle enclosing points with p on its
// boundary.
func (t tolerance) throughOne(points []Point, p Point) Circle {
	c := Circle{Center: p}
	for i, q := range points {
		if t.inside(c, q) {
			continue
		}
		if c.Radius == 0 {
			c = diameter(p, q)
		} else {
			c = t.throughTwo(points[:i+1], p, q)
		}
	}
	return c
}

// throughTwo returns the smallest circle enclosing points with p and q on
// its boundary.
//
// Points outside the p–q diameter circle each define a circumcircle with p
// and q. Those to the left of p→q push the center left and those to the
// right push it right; the enclosing circle on each side is the candidate
// whose center lies furthest in that direction. When both sides have a
// candidate the smaller one encloses everything.
func (t tolerance) throughTwo(points []Point, p, q Point) Circle {
	circ := diameter(p, q)
	pq := r2.Sub(q, p)
	offset := func(c Circle) float64 { return r2.Cross(pq, r2.Sub(c.Center, p)) }

	var left, right Circle
	var hasLeft, hasRight bool
	for _, r := range points {
		if t.inside(circ, r) {
			continue
		}
		c, ok := circumcircle(p, q, r)
		if !ok {
			continue
		}
		switch side := r2.Cross(pq, r2.Sub(r, p)); {
		case side > 0 && (!hasLeft || offset(c) > offset(left)):
			left, hasLeft = c, true
		case side < 0 && (!hasRight || offset(c) < offset(right)):
			right, hasRight = c, true
		}
	}

	switch {
	case !hasLeft && !hasRight:
		return circ
	case !hasLeft:
		return right
	case !hasRight:
		return left
	case left.Radius <= right.Radius:
		return left
	default:
		return right
	}
}
