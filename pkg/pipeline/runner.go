package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sprout/pkg/cache"
	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/geom"
	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/observability"
	"github.com/matzehuels/sprout/pkg/sink"
	"github.com/matzehuels/sprout/pkg/turtle"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete derive → interpret → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:         uuid.NewString(),
		Parameters: opts.ResolveParameters(),
		Artifacts:  make(map[string][]byte),
	}

	// Stage 1: Derive
	deriveStart := time.Now()
	s, hit, err := r.DeriveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Sentence = s
	result.Stats.DeriveTime = time.Since(deriveStart)
	result.CacheInfo.DeriveHit = hit

	r.Logger.Info("derived sentence",
		"steps", opts.Steps,
		"symbols", len(s),
		"cached", hit,
		"duration", result.Stats.DeriveTime)

	if opts.Validate {
		if err := lsystem.Validate(s); err != nil {
			return nil, err
		}
	}

	// Stage 2: Interpret
	interpretStart := time.Now()
	if err := r.Interpret(ctx, result, opts); err != nil {
		return nil, err
	}
	result.Stats.InterpretTime = time.Since(interpretStart)
	if opts.Mode == ModeSpatial {
		result.Stats.Stats = sink.ComputeStats(s, result.Polygons3)
	} else {
		result.Stats.Stats = sink.ComputeStats(s, result.Polygons).WithMeasures(result.Polygons)
	}

	r.Logger.Info("interpreted sentence",
		"mode", opts.Mode,
		"polygons", result.Stats.Polygons,
		"points", result.Stats.Points,
		"duration", result.Stats.InterpretTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"cached", exportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// DeriveWithCacheInfo derives the sentence for opts, consulting the cache
// first unless opts.Refresh is set. It reports whether the cache was hit.
func (r *Runner) DeriveWithCacheInfo(ctx context.Context, opts Options) (lsystem.Sentence, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForDerive(); err != nil {
		return nil, false, err
	}
	params := opts.ResolveParameters()

	paramsHash, err := cache.HashJSON(struct {
		Axiom      string             `json:"axiom"`
		Parameters lsystem.Parameters `json:"parameters"`
	}{lsystem.Axiom().String(), params})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash parameters")
	}
	key := r.Keyer.SentenceKey(paramsHash, opts.SentenceKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if s, err := lsystem.ParseSentence(string(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "sentence")
				return s, true, nil
			}
			opts.Logger.Warn("discarding unreadable cached sentence", "key", key)
		}
		observability.Cache().OnCacheMiss(ctx, "sentence")
	}

	hooks := observability.Pipeline()
	hooks.OnDeriveStart(ctx, opts.Preset, opts.Steps)
	start := time.Now()
	s, err := Derive(ctx, params, opts.Steps, opts.Progress)
	hooks.OnDeriveComplete(ctx, opts.Preset, opts.Steps, len(s), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	data := []byte(s.String())
	if err := r.Cache.Set(ctx, key, data, cache.TTLSentence); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "sentence", len(data))
	}
	return s, false, nil
}

// Derive is a convenience wrapper that calls DeriveWithCacheInfo and discards the cache hit info.
func (r *Runner) Derive(ctx context.Context, opts Options) (lsystem.Sentence, error) {
	s, _, err := r.DeriveWithCacheInfo(ctx, opts)
	return s, err
}

// Derive rewrites the canonical axiom steps times under p. ctx is checked
// between steps; progress, if non-nil, is called after each one.
func Derive(ctx context.Context, p lsystem.Parameters, steps int, progress func(step, total int)) (lsystem.Sentence, error) {
	e := lsystem.New(lsystem.Axiom(), lsystem.Branching, p)
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.Step()
		if progress != nil {
			progress(i, steps)
		}
	}
	return e.Sentence(), nil
}

// Interpret walks res.Sentence with the turtle selected by opts.Mode and
// stores the polygons on res. Planar output is fitted when opts.Fit is set.
func (r *Runner) Interpret(ctx context.Context, res *Result, opts Options) error {
	r.applyLogger(&opts)
	if err := opts.ValidateForInterpret(); err != nil {
		return err
	}
	angle := opts.TurnAngle(res.Parameters)

	hooks := observability.Pipeline()
	hooks.OnInterpretStart(ctx, opts.Mode, len(res.Sentence))
	start := time.Now()

	var (
		count int
		err   error
	)
	switch opts.Mode {
	case ModeSpatial:
		res.Polygons3, err = turtle.Interpret3D(res.Sentence, angle)
		if err == nil {
			err = turtle.CheckFinite3(res.Polygons3)
		}
		count = len(res.Polygons3)
	default:
		res.Polygons, err = turtle.Interpret(res.Sentence, angle)
		if err == nil {
			err = turtle.CheckFinite(res.Polygons)
		}
		if err == nil && opts.Fit > 0 {
			res.Polygons = geom.Fit(res.Polygons, opts.Fit, opts.RotationRadians())
		}
		count = len(res.Polygons)
	}
	hooks.OnInterpretComplete(ctx, opts.Mode, count, time.Since(start), err)
	return err
}

// ExportWithCacheInfo produces the artifacts for res, serving them from the
// cache when every requested format is present there.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForInterpret(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	angle := opts.TurnAngle(res.Parameters)
	sentenceHash := cache.Hash([]byte(res.Sentence.String()))

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sentenceHash, opts.ArtifactKeyOpts(format, angle))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Export(res, opts)
	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sentenceHash, opts.ArtifactKeyOpts(format, angle))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Export renders every format in opts.Formats from res without caching.
func Export(res *Result, opts Options) (map[string][]byte, error) {
	jsonOpts := []sink.JSONOption{
		sink.WithJSONPreset(opts.Preset),
		sink.WithJSONSeed(opts.Seed),
		sink.WithJSONSteps(opts.Steps),
		sink.WithJSONAngle(opts.TurnAngle(res.Parameters)),
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			if opts.Mode == ModeSpatial {
				data, err = sink.RenderJSON3(res.Polygons3, jsonOpts...)
			} else {
				data, err = sink.RenderJSON(res.Polygons, jsonOpts...)
			}
		case FormatText:
			data = sink.RenderText(res.Sentence)
		case FormatStats:
			data, err = sink.RenderStats(res.Stats.Stats)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// String summarizes the result for logs.
func (res *Result) String() string {
	return fmt.Sprintf("run %s: %d symbols, %d polygons, %d points",
		res.ID, res.Stats.Symbols, res.Stats.Polygons, res.Stats.Points)
}
