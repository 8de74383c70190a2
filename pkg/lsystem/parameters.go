package lsystem

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"
)

// Parameters is the immutable configuration threaded through every rewrite.
// The engine never mutates it.
type Parameters struct {
	MainLength         float64 `json:"main_length" toml:"main_length"`
	MainGrowthRate     float64 `json:"main_growth_rate" toml:"main_growth_rate"`
	SideLength         float64 `json:"side_length" toml:"side_length"`
	SideGrowthRate     float64 `json:"side_growth_rate" toml:"side_growth_rate"`
	NotchLength        float64 `json:"notch_length" toml:"notch_length"`
	NotchGrowthRate    float64 `json:"notch_growth_rate" toml:"notch_growth_rate"`
	PotentialDecrement float64 `json:"potential_decrement" toml:"potential_decrement"`
	// Angle is the branch angle in radians used by the turtle.
	Angle float64 `json:"angle" toml:"angle"`
}

// Presets holds the parameter sets of the leaf and plant sketches.
// Treat the values as example configuration; none of them is load-bearing.
var Presets = map[string]Parameters{
	// Slender leaf with a frozen notch and slowly widening lobes.
	"leaf": {
		MainLength:         5,
		MainGrowthRate:     1,
		SideLength:         0.6,
		SideGrowthRate:     1.06,
		NotchLength:        0,
		NotchGrowthRate:    1,
		PotentialDecrement: 0.25,
		Angle:              math.Pi / 3,
	},
	// First-generation plant constants: every segment keeps growing.
	"simple": {
		MainLength:         4,
		MainGrowthRate:     1.1,
		SideLength:         1,
		SideGrowthRate:     1.2,
		NotchLength:        1,
		NotchGrowthRate:    1,
		PotentialDecrement: 1,
		Angle:              math.Pi / 3,
	},
	"fern": {
		MainLength:         3,
		MainGrowthRate:     1.05,
		SideLength:         0.8,
		SideGrowthRate:     1.1,
		NotchLength:        0.5,
		NotchGrowthRate:    1.02,
		PotentialDecrement: 0.5,
		Angle:              math.Pi / 4,
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}

// Preset returns the named preset.
func Preset(name string) (Parameters, bool) {
	p, ok := Presets[name]
	return p, ok
}

// RandomParameters samples a parameter set in the ranges the palette
// sketches drew from, one leaf per tile. The angle is fixed at π/3.
func RandomParameters(rng *rand.Rand) Parameters {
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	return Parameters{
		MainLength:         between(1, 6),
		MainGrowthRate:     between(1, 1.1),
		SideLength:         between(0.2, 1.5),
		SideGrowthRate:     between(1, 1.25),
		NotchLength:        between(0, 1),
		NotchGrowthRate:    between(1, 1.1),
		PotentialDecrement: between(0.1, 1),
		Angle:              math.Pi / 3,
	}
}

// NewRand returns a deterministic PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
