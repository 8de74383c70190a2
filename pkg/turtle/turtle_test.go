package turtle

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
)

func pointCounts(polys []Polygon) []int {
	counts := make([]int, len(polys))
	for i, p := range polys {
		counts[i] = len(p)
	}
	return counts
}

func mustParse(t *testing.T, text string) lsystem.Sentence {
	t.Helper()
	s, err := lsystem.ParseSentence(text)
	if err != nil {
		t.Fatalf("ParseSentence(%q): %v", text, err)
	}
	return s
}

func near(a, b gg.Point) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestInterpretAxiom(t *testing.T) {
	polys, err := Interpret(lsystem.Axiom(), math.Pi/3)
	if err != nil {
		t.Fatal(err)
	}
	if got := pointCounts(polys); !slices.Equal(got, []int{1, 1}) {
		t.Fatalf("point counts = %v, want [1 1]", got)
	}
	for i, p := range polys {
		if p[0] != (gg.Point{}) {
			t.Errorf("polygon %d: point = %v, want origin", i, p[0])
		}
	}
}

func TestInterpretFirstGeneration(t *testing.T) {
	p := lsystem.Presets["leaf"]
	s := lsystem.New(lsystem.Axiom(), lsystem.Branching, p).Nth(1)

	polys, err := Interpret(s, p.Angle)
	if err != nil {
		t.Fatal(err)
	}
	// Each branch closes the notch polygon, then the polygon opened after
	// the side branch picks up the trailing vertex.
	if got := pointCounts(polys); !slices.Equal(got, []int{3, 2, 3, 2}) {
		t.Fatalf("point counts = %v, want [3 2 3 2]", got)
	}

	tip := gg.Pt(p.MainLength, 0)
	want := Polygon{{}, tip, tip.Add(gg.Pt(p.NotchLength, 0))}
	for i := range want {
		if !near(polys[0][i], want[i]) {
			t.Errorf("polygon 0 point %d = %v, want %v", i, polys[0][i], want[i])
		}
	}
}

func TestAngleSignConvention(t *testing.T) {
	const theta = 0.7
	tests := []struct {
		text string
		want gg.Point
	}{
		{"{+G(1, 1).}", gg.Pt(math.Cos(theta), math.Sin(theta))},
		{"{-G(1, 1).}", gg.Pt(math.Cos(-theta), math.Sin(-theta))},
		{"{G(2, 1).}", gg.Pt(2, 0)},
		{"{++--G(1, 1).}", gg.Pt(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			polys, err := Interpret(mustParse(t, tt.text), theta)
			if err != nil {
				t.Fatal(err)
			}
			if got := polys[0][0]; !near(got, tt.want) {
				t.Errorf("landed at %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPushPopRestoresPose(t *testing.T) {
	polys, err := Interpret(mustParse(t, "{[+G(1, 1)]G(1, 1).}"), math.Pi/2)
	if err != nil {
		t.Fatal(err)
	}
	if got := polys[0][0]; !near(got, gg.Pt(1, 0)) {
		t.Errorf("got %v, want (1, 0)", got)
	}
}

func TestNestedPolygons(t *testing.T) {
	polys, err := Interpret(mustParse(t, "{.G(1, 1){.}G(1, 1).}"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := pointCounts(polys); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("point counts = %v, want [1 2]", got)
	}
	if !near(polys[1][1], gg.Pt(2, 0)) {
		t.Errorf("outer polygon resumed at wrong point: %v", polys[1])
	}
}

func TestApexIsNoop(t *testing.T) {
	with, err := Interpret(mustParse(t, "{A(0, true)G(1, 1)B(3).A(1, false)}"), 1)
	if err != nil {
		t.Fatal(err)
	}
	without, err := Interpret(mustParse(t, "{G(1, 1).}"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(with[0], without[0]) {
		t.Errorf("apex symbols changed output: %v vs %v", with, without)
	}
}

func TestInterpretDeterministic(t *testing.T) {
	p := lsystem.Presets["fern"]
	s := lsystem.New(lsystem.Axiom(), lsystem.Branching, p).Nth(8)

	a, err := Interpret(s, p.Angle)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Interpret(s, p.Angle)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("polygon counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			t.Fatalf("polygon %d differs", i)
		}
	}
}

func TestOutputNotAliased(t *testing.T) {
	s := lsystem.New(lsystem.Axiom(), lsystem.Branching, lsystem.Presets["leaf"]).Nth(3)
	polys, err := Interpret(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	second := slices.Clone(polys[1])
	polys[0] = append(polys[0], gg.Pt(99, 99))
	polys[0][0] = gg.Pt(-1, -1)
	if !slices.Equal(polys[1], second) {
		t.Error("mutating one polygon changed another")
	}
}

func TestStackUnderflow(t *testing.T) {
	tests := []struct {
		text      string
		stackName string
	}{
		{"]", "pose"},
		{"[]]", "pose"},
		{"}", "buffer"},
		{"{.}.}", "buffer"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			polys, err := Interpret(mustParse(t, tt.text), 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if polys != nil {
				t.Errorf("partial output returned: %v", polys)
			}
			if !errors.Is(err, errors.ErrCodeStackUnderflow) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeStackUnderflow)
			}
			if !strings.Contains(err.Error(), tt.stackName) {
				t.Errorf("error %q does not name the %s stack", err, tt.stackName)
			}
		})
	}
}

func TestDegenerateGeometry(t *testing.T) {
	polys, err := Interpret(mustParse(t, "{.G(0, 1)+.G(-1, 1).}"), 0)
	if err != nil {
		t.Fatal(err)
	}
	want := Polygon{{}, {}, gg.Pt(-1, 0)}
	for i := range want {
		if !near(polys[0][i], want[i]) {
			t.Errorf("point %d = %v, want %v", i, polys[0][i], want[i])
		}
	}
}

func TestCheckFinite(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		wantErr  bool
	}{
		{"ordinary", "{.G(5, 1).+G(1, 1).}", false},
		{"degenerate", "{.G(0, 1)+.G(-1, 1).}", false},
		{"overflow", "{.G(1e308, 1)G(1e308, 1).}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, tt.sentence)

			polys, err := Interpret(s, math.Pi/3)
			if err != nil {
				t.Fatal(err)
			}
			err = CheckFinite(polys)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckFinite() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("CheckFinite() code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}

			polys3, err := Interpret3D(s, math.Pi/3)
			if err != nil {
				t.Fatal(err)
			}
			if err := CheckFinite3(polys3); tt.wantErr != (err != nil) {
				t.Errorf("CheckFinite3() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
