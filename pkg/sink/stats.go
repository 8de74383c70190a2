package sink

import (
	"encoding/json"

	"github.com/matzehuels/sprout/pkg/geom"
	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/turtle"
)

// Stats summarizes a sentence and the polygons interpreted from it.
type Stats struct {
	Symbols         int            `json:"symbols"`
	Terminals       int            `json:"terminals"`
	Kinds           map[string]int `json:"kinds"`
	MaxPoseDepth    int            `json:"max_pose_depth"`
	MaxPolygonDepth int            `json:"max_polygon_depth"`
	Polygons        int            `json:"polygons"`
	Points          int            `json:"points"`
	Area            float64        `json:"area,omitempty"`
	Perimeter       float64        `json:"perimeter,omitempty"`
}

// ComputeStats counts symbols by kind, stack depths, polygons and points.
// It works for planar and spatial polygons alike.
func ComputeStats[Poly ~[]P, P any](s lsystem.Sentence, polys []Poly) Stats {
	st := Stats{
		Symbols:   len(s),
		Terminals: s.Terminals(),
		Kinds:     make(map[string]int),
		Polygons:  len(polys),
	}
	for kind, n := range s.Counts() {
		st.Kinds[kind.String()] = n
	}
	st.MaxPoseDepth, st.MaxPolygonDepth = lsystem.Depths(s)
	for _, p := range polys {
		st.Points += len(p)
	}
	return st
}

// WithMeasures returns st with Area and Perimeter set to the totals over
// polys. Both are planar only.
func (st Stats) WithMeasures(polys []turtle.Polygon) Stats {
	st.Area, st.Perimeter = 0, 0
	for _, p := range polys {
		st.Area += geom.Area(p)
		st.Perimeter += geom.Perimeter(p)
	}
	return st
}

// RenderStats exports st as pretty-printed JSON.
func RenderStats(st Stats) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}
