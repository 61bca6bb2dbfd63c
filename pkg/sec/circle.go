package sec

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a planar coordinate pair. It is a value type with no identity
// beyond its coordinates.
type Point = r2.Vec

// Circle is a center and a non-negative radius.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Area returns π·r².
func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

// Contains reports whether p lies inside or on c, allowing the default
// relative slack of [DefaultEpsilon] on the radius.
func (c Circle) Contains(p Point) bool {
	return r2.Norm(r2.Sub(p, c.Center)) <= c.Radius*(1+DefaultEpsilon)
}

// ApproxEqual reports whether both circles have centers and radii within eps
// of each other.
func (c Circle) ApproxEqual(o Circle, eps float64) bool {
	return math.Abs(c.Center.X-o.Center.X) <= eps &&
		math.Abs(c.Center.Y-o.Center.Y) <= eps &&
		math.Abs(c.Radius-o.Radius) <= eps
}

// diameter returns the smallest circle through a and b.
func diameter(a, b Point) Circle {
	center := r2.Scale(0.5, r2.Add(a, b))
	r := max(r2.Norm(r2.Sub(a, center)), r2.Norm(r2.Sub(b, center)))
	return Circle{Center: center, Radius: r}
}

// collinearEps bounds |d| / span² below which a triple counts as collinear.
const collinearEps = 1e-12

// circumcircle returns the circle through a, b and c. It reports false when
// the points are collinear (or coincide) and the circle is undefined.
//
// Coordinates are shifted to the center of the triple's bounding box before
// evaluating the determinant formula, which keeps the squared terms small
// for tracks far from the origin.
func circumcircle(a, b, c Point) (Circle, bool) {
	ox := (min(a.X, b.X, c.X) + max(a.X, b.X, c.X)) / 2
	oy := (min(a.Y, b.Y, c.Y) + max(a.Y, b.Y, c.Y)) / 2
	ax, ay := a.X-ox, a.Y-oy
	bx, by := b.X-ox, b.Y-oy
	cx, cy := c.X-ox, c.Y-oy

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	span := max(math.Abs(ax), math.Abs(ay), math.Abs(bx), math.Abs(by), math.Abs(cx), math.Abs(cy))
	if math.Abs(d) <= collinearEps*span*span {
		return Circle{}, false
	}

	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	center := Point{
		X: ox + (a2*(by-cy)+b2*(cy-ay)+c2*(ay-by))/d,
		Y: oy + (a2*(cx-bx)+b2*(ax-cx)+c2*(bx-ax))/d,
	}
	r := max(
		r2.Norm(r2.Sub(a, center)),
		r2.Norm(r2.Sub(b, center)),
		r2.Norm(r2.Sub(c, center)),
	)
	return Circle{Center: center, Radius: r}, true
}
