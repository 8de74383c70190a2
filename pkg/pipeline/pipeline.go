// Package pipeline runs the derive → interpret → export pipeline shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Derive: rewrite the axiom a fixed number of times with the branching
//     rule and the chosen parameters.
//  2. Interpret: walk the sentence with the planar or spatial turtle,
//     optionally fitting the planar result into a square frame.
//  3. Export: produce artifacts in the requested formats (JSON, text,
//     stats).
//
// The engine itself never stops growing. The pipeline is the caller that
// bounds it: Options.Steps above Options.MaxSteps is rejected with
// [errors.ErrCodeStepLimit].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Preset:  "leaf",
//	    Steps:   8,
//	    Formats: []string{"json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
//
// Stages can also be run individually with [Runner.Derive],
// [Runner.Interpret] and [Runner.Export].
package pipeline

import (
	"io"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sprout/pkg/cache"
	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/sink"
	"github.com/matzehuels/sprout/pkg/turtle"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSteps is the number of rewrite steps when none is given.
	DefaultSteps = 10

	// DefaultMaxSteps bounds Steps. Sentence length grows by a constant
	// amount per main apex every step, and past a few dozen steps the
	// text and JSON outputs get unwieldy.
	DefaultMaxSteps = 24

	// DefaultPreset is the parameter preset used when neither a preset nor
	// explicit parameters are given.
	DefaultPreset = "leaf"

	// DefaultMode is the default interpretation mode.
	DefaultMode = ModePlanar

	// RuleBranching names the only rewrite rule, for cache keys.
	RuleBranching = "branching"
)

// Interpretation modes.
const (
	ModePlanar  = "2d"
	ModeSpatial = "3d"
)

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatText  = "text"
	FormatStats = "stats"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatText:  true,
	FormatStats: true,
}

// ValidModes is the set of supported interpretation modes.
var ValidModes = map[string]bool{
	ModePlanar:  true,
	ModeSpatial: true,
}

// Extensions maps each format to its output file extension.
var Extensions = map[string]string{
	FormatJSON:  ".json",
	FormatText:  ".txt",
	FormatStats: ".stats.json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Derive options
	Preset     string              `json:"preset,omitempty"`
	Parameters *lsystem.Parameters `json:"parameters,omitempty"` // replaces the preset when set
	Seed       *uint64             `json:"seed,omitempty"`       // samples random parameters instead of a preset
	Steps      int                 `json:"steps"`
	MaxSteps   int                 `json:"max_steps,omitempty"`
	Refresh    bool                `json:"refresh,omitempty"`

	// Interpret options
	Angle    float64 `json:"angle,omitempty"` // radians; 0 uses the parameters' angle
	Mode     string  `json:"mode,omitempty"`
	Fit      float64 `json:"fit,omitempty"`      // frame width; 0 keeps raw coordinates
	Rotation float64 `json:"rotation,omitempty"` // degrees, applied with Fit
	Validate bool    `json:"validate,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger            `json:"-"`
	Progress func(step, total int) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID uniquely identifies the run.
	ID string

	// Sentence is the derived sentence.
	Sentence lsystem.Sentence

	// Parameters are the resolved grammar parameters.
	Parameters lsystem.Parameters

	// Polygons holds the planar output; Polygons3 the spatial output.
	// Exactly one is set, depending on Options.Mode.
	Polygons  []turtle.Polygon
	Polygons3 []turtle.Polygon3

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	sink.Stats
	DeriveTime    time.Duration `json:"derive_time"`
	InterpretTime time.Duration `json:"interpret_time"`
	ExportTime    time.Duration `json:"export_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DeriveHit bool `json:"derive_hit"` // sentence came from cache
	ExportHit bool `json:"export_hit"` // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, joinKeys(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that an interpretation mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: %s)", mode, joinKeys(ValidModes))
	}
	return nil
}

func joinKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForDerive(); err != nil {
		return err
	}
	if err := o.ValidateForInterpret(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForDerive checks the preset, parameters and step budget.
func (o *Options) ValidateForDerive() error {
	if o.Parameters != nil {
		if err := checkFinite(*o.Parameters); err != nil {
			return err
		}
	}
	if o.Seed != nil && (o.Parameters != nil || o.Preset != "") {
		return errors.New(errors.ErrCodeInvalidInput, "seed cannot be combined with a preset or explicit parameters")
	}
	if o.Parameters == nil && o.Seed == nil {
		if o.Preset == "" {
			o.Preset = DefaultPreset
		}
		if _, ok := lsystem.Preset(o.Preset); !ok {
			return errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q (available: %s)",
				o.Preset, strings.Join(lsystem.PresetNames(), ", "))
		}
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Steps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "steps must be non-negative, got %d", o.Steps)
	}
	if o.Steps > o.MaxSteps {
		return errors.New(errors.ErrCodeStepLimit, "steps %d exceeds the limit of %d", o.Steps, o.MaxSteps)
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForInterpret checks the mode and fit settings.
func (o *Options) ValidateForInterpret() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Fit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "fit must be non-negative, got %v", o.Fit)
	}
	if o.Fit > 0 && o.Mode != ModePlanar {
		return errors.New(errors.ErrCodeInvalidInput, "fit is only supported in %s mode", ModePlanar)
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForExport checks the requested formats.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLoggerDefault()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func checkFinite(p lsystem.Parameters) error {
	fields := map[string]float64{
		"main_length":         p.MainLength,
		"main_growth_rate":    p.MainGrowthRate,
		"side_length":         p.SideLength,
		"side_growth_rate":    p.SideGrowthRate,
		"notch_length":        p.NotchLength,
		"notch_growth_rate":   p.NotchGrowthRate,
		"potential_decrement": p.PotentialDecrement,
		"angle":               p.Angle,
	}
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if v := fields[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "parameter %s must be finite, got %v", name, v)
		}
	}
	return nil
}

// ResolveParameters returns the explicit parameters, else parameters
// sampled from Seed, else the preset's. Sampling is deterministic in the
// seed, so the sentence cache key needs no extra component for it.
func (o *Options) ResolveParameters() lsystem.Parameters {
	if o.Parameters != nil {
		return *o.Parameters
	}
	if o.Seed != nil {
		return lsystem.RandomParameters(lsystem.NewRand(*o.Seed))
	}
	name := o.Preset
	if name == "" {
		name = DefaultPreset
	}
	p, _ := lsystem.Preset(name)
	return p
}

// TurnAngle returns the angle to interpret with: Angle when set, else the
// parameters' own angle.
func (o *Options) TurnAngle(p lsystem.Parameters) float64 {
	if o.Angle != 0 {
		return o.Angle
	}
	return p.Angle
}

// RotationRadians returns Rotation converted to radians.
func (o *Options) RotationRadians() float64 {
	return o.Rotation * math.Pi / 180
}

// SentenceKeyOpts returns cache key options for derivation.
func (o *Options) SentenceKeyOpts() cache.SentenceKeyOpts {
	return cache.SentenceKeyOpts{Rule: RuleBranching, Steps: o.Steps}
}

// ArtifactKeyOpts returns cache key options for one exported format.
func (o *Options) ArtifactKeyOpts(format string, angle float64) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Preset:   o.Preset,
		Seed:     o.Seed,
		Steps:    o.Steps,
		Mode:     o.Mode,
		Angle:    angle,
		Fit:      o.Fit,
		Rotation: o.Rotation,
	}
}
