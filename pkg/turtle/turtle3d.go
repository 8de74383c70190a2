package turtle

import (
	"math"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/sprout/pkg/lsystem"
)

// Polygon3 is a closed boundary in space, in vertex order.
type Polygon3 []math32.Vector3

// InitialHeading3D is the starting rotation about the z axis used by
// [Interpret3D].
const InitialHeading3D = math.Pi / 4

var (
	zAxis     = math32.Vec3(0, 0, 1)
	direction = math32.Vec3(1, 1, 1)
)

// Interpret3D runs the single-precision spatial turtle over s. Headings are
// rotations about the z axis starting at [InitialHeading3D]; Grow moves
// along the rotated (1, 1, 1) vector scaled by the symbol's length.
func Interpret3D(s lsystem.Sentence, angle float64) ([]Polygon3, error) {
	raw, err := run[math32.Vector3, float32](s, space{angle: float32(angle)})
	if err != nil {
		return nil, err
	}
	polys := make([]Polygon3, len(raw))
	for i, p := range raw {
		polys[i] = Polygon3(p)
	}
	return polys, nil
}

type space struct {
	angle float32
}

func (space) start() pose[math32.Vector3, float32] {
	return pose[math32.Vector3, float32]{heading: InitialHeading3D}
}

func (space) forward(p pose[math32.Vector3, float32], length float64) math32.Vector3 {
	q := math32.NewQuatAxisAngle(zAxis, p.heading)
	return p.pos.Add(direction.MulQuat(q).MulScalar(float32(length)))
}

func (f space) turn(heading float32, positive bool) float32 {
	if positive {
		return heading + f.angle
	}
	return heading - f.angle
}

// Bounds3 returns the axis-aligned box enclosing every point in polys. The
// box is empty when polys has no points.
func Bounds3(polys []Polygon3) math32.Box3 {
	box := math32.B3Empty()
	for _, p := range polys {
		box.ExpandByPoints(p)
	}
	return box
}
