package turtle

import (
	"math"

	"github.com/matzehuels/sprout/pkg/errors"
)

// CheckFinite returns an INVALID_INPUT error naming the first point of
// polys that overflowed to an infinite or NaN coordinate. Runaway growth
// rates get there within a few steps.
func CheckFinite(polys []Polygon) error {
	for i, poly := range polys {
		for j, p := range poly {
			if !finite(p.X) || !finite(p.Y) {
				return nonFinite(i, j)
			}
		}
	}
	return nil
}

// CheckFinite3 is [CheckFinite] for spatial polygons.
func CheckFinite3(polys []Polygon3) error {
	for i, poly := range polys {
		for j, p := range poly {
			if !finite(float64(p.X)) || !finite(float64(p.Y)) || !finite(float64(p.Z)) {
				return nonFinite(i, j)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonFinite(poly, point int) error {
	return errors.New(errors.ErrCodeInvalidInput,
		"polygon %d point %d is not finite: parameters overflow the coordinate range", poly, point)
}
