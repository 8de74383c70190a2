// Package config loads L-system parameter files.
//
// Files are TOML. A file names a base preset and may override any of its
// parameters; every numeric field accepts either a number or an arithmetic
// expression string:
//
//	preset = "leaf"
//	steps  = 12
//	mode   = "2d"
//
//	[parameters]
//	main_length = 5
//	angle       = "pi / 3"
//
// Expressions are evaluated once at load time with pi, tau and e bound and
// the functions sqrt, sin, cos and rad available.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
)

// File is a decoded parameter file. Zero values mean "not set".
type File struct {
	Preset     string    `toml:"preset"`
	Steps      int       `toml:"steps"`
	Mode       string    `toml:"mode"`
	Fit        Expr      `toml:"fit"`
	Rotation   Expr      `toml:"rotation"`
	Parameters Overrides `toml:"parameters"`
}

// Overrides replaces individual fields of a preset's parameters.
type Overrides struct {
	MainLength         *Expr `toml:"main_length"`
	MainGrowthRate     *Expr `toml:"main_growth_rate"`
	SideLength         *Expr `toml:"side_length"`
	SideGrowthRate     *Expr `toml:"side_growth_rate"`
	NotchLength        *Expr `toml:"notch_length"`
	NotchGrowthRate    *Expr `toml:"notch_growth_rate"`
	PotentialDecrement *Expr `toml:"potential_decrement"`
	Angle              *Expr `toml:"angle"`
}

// Apply returns p with every set override applied.
func (o Overrides) Apply(p lsystem.Parameters) lsystem.Parameters {
	set := func(dst *float64, x *Expr) {
		if x != nil {
			*dst = x.Value
		}
	}
	set(&p.MainLength, o.MainLength)
	set(&p.MainGrowthRate, o.MainGrowthRate)
	set(&p.SideLength, o.SideLength)
	set(&p.SideGrowthRate, o.SideGrowthRate)
	set(&p.NotchLength, o.NotchLength)
	set(&p.NotchGrowthRate, o.NotchGrowthRate)
	set(&p.PotentialDecrement, o.PotentialDecrement)
	set(&p.Angle, o.Angle)
	return p
}

// Load reads and decodes the parameter file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open config")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a parameter file from r. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if file.Steps < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "steps must be non-negative, got %d", file.Steps)
	}
	return &file, nil
}

// ResolveParameters returns the file's preset with its overrides applied.
// fallback names the preset to use when the file does not set one.
func (f *File) ResolveParameters(fallback string) (lsystem.Parameters, error) {
	name := f.Preset
	if name == "" {
		name = fallback
	}
	base, ok := lsystem.Preset(name)
	if !ok {
		return lsystem.Parameters{}, errors.New(errors.ErrCodeInvalidPreset,
			"unknown preset %q (available: %s)", name, strings.Join(lsystem.PresetNames(), ", "))
	}
	return f.Parameters.Apply(base), nil
}
