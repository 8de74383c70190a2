package turtle

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/sprout/pkg/lsystem"
)

// Polygon is a closed boundary in the plane, in vertex order.
type Polygon []gg.Point

// Interpret runs a planar turtle over s, turning by angle radians on each
// turn symbol. The turtle starts at the origin with heading 0, so a Grow of
// length l from the start lands at (l, 0).
func Interpret(s lsystem.Sentence, angle float64) ([]Polygon, error) {
	raw, err := run[gg.Point, float64](s, plane{angle: angle})
	if err != nil {
		return nil, err
	}
	polys := make([]Polygon, len(raw))
	for i, p := range raw {
		polys[i] = Polygon(p)
	}
	return polys, nil
}

type plane struct {
	angle float64
}

func (plane) start() pose[gg.Point, float64] {
	return pose[gg.Point, float64]{}
}

func (plane) forward(p pose[gg.Point, float64], length float64) gg.Point {
	return p.pos.Add(gg.Pt(math.Cos(p.heading), math.Sin(p.heading)).Mul(length))
}

func (f plane) turn(heading float64, positive bool) float64 {
	if positive {
		return heading + f.angle
	}
	return heading - f.angle
}
