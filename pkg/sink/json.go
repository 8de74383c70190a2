package sink

import (
	"encoding/json"

	"github.com/matzehuels/sprout/pkg/geom"
	"github.com/matzehuels/sprout/pkg/turtle"
)

// JSONOption configures [RenderJSON] and [RenderJSON3].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	preset string
	seed   *uint64
	steps  int
	angle  float64
}

// WithJSONPreset records the preset name the parameters came from.
func WithJSONPreset(name string) JSONOption { return func(r *jsonRenderer) { r.preset = name } }

// WithJSONSeed records the seed random parameters were sampled from. A nil
// seed is omitted.
func WithJSONSeed(seed *uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONSteps records the number of rewrite steps.
func WithJSONSteps(n int) JSONOption { return func(r *jsonRenderer) { r.steps = n } }

// WithJSONAngle records the turn angle in radians.
func WithJSONAngle(a float64) JSONOption { return func(r *jsonRenderer) { r.angle = a } }

type jsonOutput struct {
	Mode     string      `json:"mode"`
	Preset   string      `json:"preset,omitempty"`
	Seed     *uint64     `json:"seed,omitempty"`
	Steps    int         `json:"steps"`
	Angle    float64     `json:"angle"`
	Bounds   *jsonBounds `json:"bounds,omitempty"`
	Polygons [][]vertex  `json:"polygons"`
}

type jsonBounds struct {
	Min vertex `json:"min"`
	Max vertex `json:"max"`
}

// vertex is a point as a bare coordinate array, [x, y] or [x, y, z].
type vertex []float64

// RenderJSON exports planar polygons as a pretty-printed JSON document:
//
//	{"mode": "2d", "steps": 3, "angle": 1.047, "bounds": {...},
//	 "polygons": [[[0, 0], [5, 0], ...], ...]}
//
// Bounds are omitted when there are no points.
func RenderJSON(polys []turtle.Polygon, opts ...JSONOption) ([]byte, error) {
	out := newOutput("2d", opts)
	for _, poly := range polys {
		pts := make([]vertex, len(poly))
		for i, p := range poly {
			pts[i] = vertex{p.X, p.Y}
		}
		out.Polygons = append(out.Polygons, pts)
	}
	if r, ok := geom.Bounds(polys); ok {
		out.Bounds = &jsonBounds{
			Min: vertex{r.Min.X, r.Min.Y},
			Max: vertex{r.Max.X, r.Max.Y},
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// RenderJSON3 is [RenderJSON] for spatial polygons; points carry three
// coordinates and the mode is "3d".
func RenderJSON3(polys []turtle.Polygon3, opts ...JSONOption) ([]byte, error) {
	out := newOutput("3d", opts)
	for _, poly := range polys {
		pts := make([]vertex, len(poly))
		for i, p := range poly {
			pts[i] = vertex{float64(p.X), float64(p.Y), float64(p.Z)}
		}
		out.Polygons = append(out.Polygons, pts)
	}
	if box := turtle.Bounds3(polys); !box.IsEmpty() {
		out.Bounds = &jsonBounds{
			Min: vertex{float64(box.Min.X), float64(box.Min.Y), float64(box.Min.Z)},
			Max: vertex{float64(box.Max.X), float64(box.Max.Y), float64(box.Max.Z)},
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func newOutput(mode string, opts []JSONOption) jsonOutput {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return jsonOutput{
		Mode:     mode,
		Preset:   r.preset,
		Seed:     r.seed,
		Steps:    r.steps,
		Angle:    r.angle,
		Polygons: [][]vertex{},
	}
}
