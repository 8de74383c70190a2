// Package geom fits interpreted polygons into a target frame.
//
// Turtle output has no implied scale or origin. Before drawing, callers
// typically center the polygons on their bounding box, scale them so the
// box width matches the canvas, and rotate the result. [FitTransform]
// builds that affine transform and [Apply] runs it over a polygon set.
package geom

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/sprout/pkg/turtle"
)

// Bounds returns the axis-aligned box enclosing every point in polys.
// ok is false when polys contains no points.
func Bounds(polys []turtle.Polygon) (r gg.Rect, ok bool) {
	for _, poly := range polys {
		for _, p := range poly {
			if !ok {
				r = gg.Rect{Min: p, Max: p}
				ok = true
				continue
			}
			r = r.Union(gg.Rect{Min: p, Max: p})
		}
	}
	return r, ok
}

// FitTransform returns the transform that moves the center of r to the
// origin, scales uniformly so the width of r becomes size, and then rotates
// by rotation radians. A zero-width box is left unscaled.
func FitTransform(r gg.Rect, size, rotation float64) gg.Matrix {
	center := r.Min.Add(r.Max).Mul(0.5)
	scale := 1.0
	if w := r.Width(); w > 0 {
		scale = size / w
	}
	return gg.Rotate(rotation).
		Multiply(gg.Scale(scale, scale)).
		Multiply(gg.Translate(-center.X, -center.Y))
}

// Apply returns a transformed copy of polys.
func Apply(polys []turtle.Polygon, m gg.Matrix) []turtle.Polygon {
	out := make([]turtle.Polygon, len(polys))
	for i, poly := range polys {
		moved := make(turtle.Polygon, len(poly))
		for j, p := range poly {
			moved[j] = m.TransformPoint(p)
		}
		out[i] = moved
	}
	return out
}

// Fit centers, scales and rotates polys in one step. Empty input is
// returned as an empty slice.
func Fit(polys []turtle.Polygon, size, rotation float64) []turtle.Polygon {
	r, ok := Bounds(polys)
	if !ok {
		return Apply(polys, gg.Identity())
	}
	return Apply(polys, FitTransform(r, size, rotation))
}

// Area returns the unsigned shoelace area of p. Polygons with fewer than
// three points have zero area.
func Area(p turtle.Polygon) float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += a.Cross(b)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed boundary of p.
func Perimeter(p turtle.Polygon) float64 {
	if len(p) < 2 {
		return 0
	}
	var sum float64
	for i, a := range p {
		sum += a.Distance(p[(i+1)%len(p)])
	}
	return sum
}
