package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sprout/pkg/cache"
	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/geom"
	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/observability"
)

func ptr[T any](v T) *T { return &v }

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Steps: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}
	if opts.Preset != DefaultPreset {
		t.Errorf("Preset = %q, want %q", opts.Preset, DefaultPreset)
	}
	if opts.MaxSteps != DefaultMaxSteps {
		t.Errorf("MaxSteps = %d, want %d", opts.MaxSteps, DefaultMaxSteps)
	}
	if opts.Mode != DefaultMode {
		t.Errorf("Mode = %q, want %q", opts.Mode, DefaultMode)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown preset", Options{Preset: "oak"}, errors.ErrCodeInvalidPreset},
		{"negative steps", Options{Steps: -1}, errors.ErrCodeInvalidInput},
		{"default ceiling", Options{Steps: DefaultMaxSteps + 1}, errors.ErrCodeStepLimit},
		{"explicit ceiling", Options{Steps: 5, MaxSteps: 4}, errors.ErrCodeStepLimit},
		{"bad mode", Options{Mode: "4d"}, errors.ErrCodeInvalidMode},
		{"bad format", Options{Formats: []string{"svg"}}, errors.ErrCodeInvalidFormat},
		{"negative fit", Options{Fit: -1}, errors.ErrCodeInvalidInput},
		{"fit in 3d", Options{Fit: 100, Mode: ModeSpatial}, errors.ErrCodeInvalidInput},
		{"seed with preset", Options{Preset: "leaf", Seed: ptr(uint64(1))}, errors.ErrCodeInvalidInput},
		{"NaN parameter", Options{Parameters: &lsystem.Parameters{MainLength: math.NaN()}}, errors.ErrCodeInvalidInput},
		{"infinite angle", Options{Parameters: &lsystem.Parameters{Angle: math.Inf(-1)}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsExplicitParameters(t *testing.T) {
	p := lsystem.Presets["simple"]
	p.Angle = 0.5
	opts := Options{Preset: "ignored-when-parameters-set", Parameters: &p}
	if err := opts.ValidateForDerive(); err != nil {
		t.Fatalf("explicit parameters should bypass preset lookup: %v", err)
	}
	if opts.ResolveParameters() != p {
		t.Error("ResolveParameters should return the explicit parameters")
	}
	if got := opts.TurnAngle(p); got != 0.5 {
		t.Errorf("TurnAngle = %v, want parameters' angle", got)
	}
	opts.Angle = 1.25
	if got := opts.TurnAngle(p); got != 1.25 {
		t.Errorf("TurnAngle = %v, want override", got)
	}
}

func TestOptionsJSON(t *testing.T) {
	var opts Options
	body := `{"preset":"fern","steps":4,"mode":"3d","formats":["json","stats"]}`
	if err := json.Unmarshal([]byte(body), &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Preset != "fern" || opts.Steps != 4 || opts.Mode != ModeSpatial || len(opts.Formats) != 2 {
		t.Errorf("decoded options = %+v", opts)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Preset:  "leaf",
		Steps:   1,
		Formats: []string{FormatJSON, FormatText, FormatStats},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == "" {
		t.Error("result should carry a run ID")
	}
	if len(res.Sentence) != 44 {
		t.Errorf("sentence has %d symbols, want 44", len(res.Sentence))
	}
	if len(res.Polygons) != 4 || res.Polygons3 != nil {
		t.Errorf("got %d planar / %d spatial polygons", len(res.Polygons), len(res.Polygons3))
	}
	if res.Stats.Points != 10 {
		t.Errorf("Stats.Points = %d, want 10", res.Stats.Points)
	}
	for _, f := range []string{FormatJSON, FormatText, FormatStats} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatText]), "[{.G(5, 1).") {
		t.Errorf("text artifact = %q", res.Artifacts[FormatText])
	}
	if res.CacheInfo.DeriveHit || res.CacheInfo.ExportHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteSpatial(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Preset: "fern", Steps: 3, Mode: ModeSpatial})
	if err != nil {
		t.Fatal(err)
	}
	if res.Polygons != nil || len(res.Polygons3) == 0 {
		t.Fatalf("got %d planar / %d spatial polygons", len(res.Polygons), len(res.Polygons3))
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"mode": "3d"`) {
		t.Error("JSON artifact should be spatial")
	}
}

func TestExecuteFit(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Steps: 6, Fit: 200, Rotation: 90})
	if err != nil {
		t.Fatal(err)
	}
	b, ok := geom.Bounds(res.Polygons)
	if !ok {
		t.Fatal("no points")
	}
	// Fitted to width 200 then turned a quarter, so the height is 200.
	if math.Abs(b.Height()-200) > 1e-6 {
		t.Errorf("fitted height = %v, want 200", b.Height())
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Preset: "simple", Steps: 5, Formats: []string{FormatJSON, FormatStats}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DeriveHit || !second.CacheInfo.ExportHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", second.CacheInfo)
	}
	if first.Sentence.String() != second.Sentence.String() {
		t.Error("cached sentence differs from derived one")
	}
	if string(first.Artifacts[FormatJSON]) != string(second.Artifacts[FormatJSON]) {
		t.Error("cached artifact differs")
	}
	if first.ID == second.ID {
		t.Error("each run should get its own ID")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.DeriveHit {
		t.Error("Refresh should bypass the sentence cache")
	}

	opts.Refresh = false
	opts.Angle = 0.3
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !fourth.CacheInfo.DeriveHit || fourth.CacheInfo.ExportHit {
		t.Errorf("angle change: CacheInfo = %+v, want derive hit only", fourth.CacheInfo)
	}
}

func TestExecuteArtifactLabels(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	leaf := lsystem.Presets["leaf"]

	if _, err := r.Execute(ctx, Options{Preset: "leaf", Steps: 3}); err != nil {
		t.Fatal(err)
	}
	relabeled, err := r.Execute(ctx, Options{Preset: "fern", Parameters: &leaf, Steps: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !relabeled.CacheInfo.DeriveHit {
		t.Error("same parameters should share the derived sentence")
	}
	if relabeled.CacheInfo.ExportHit {
		t.Error("a different preset label must not reuse the cached export")
	}
	if !strings.Contains(string(relabeled.Artifacts[FormatJSON]), `"preset": "fern"`) {
		t.Errorf("JSON artifact carries the wrong preset:\n%s", relabeled.Artifacts[FormatJSON])
	}
}

func TestExecuteSeed(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Seed: ptr(uint64(42)), Steps: 4})
	if err != nil {
		t.Fatal(err)
	}
	if want := lsystem.RandomParameters(lsystem.NewRand(42)); first.Parameters != want {
		t.Errorf("Parameters = %+v, want %+v", first.Parameters, want)
	}
	if !strings.Contains(string(first.Artifacts[FormatJSON]), `"seed": 42`) {
		t.Errorf("JSON artifact should record the seed:\n%s", first.Artifacts[FormatJSON])
	}

	again, err := r.Execute(ctx, Options{Seed: ptr(uint64(42)), Steps: 4})
	if err != nil {
		t.Fatal(err)
	}
	if again.Sentence.String() != first.Sentence.String() {
		t.Error("the same seed should grow the same sentence")
	}

	other, err := r.Execute(ctx, Options{Seed: ptr(uint64(43)), Steps: 4})
	if err != nil {
		t.Fatal(err)
	}
	if other.Parameters == first.Parameters {
		t.Error("different seeds should sample different parameters")
	}
}

func TestExecuteOverflow(t *testing.T) {
	huge := lsystem.Parameters{
		MainLength:         1e300,
		MainGrowthRate:     1e300,
		SideLength:         1e300,
		SideGrowthRate:     1e300,
		NotchLength:        1e300,
		NotchGrowthRate:    1e300,
		PotentialDecrement: 0.25,
		Angle:              math.Pi / 3,
	}
	for _, mode := range []string{ModePlanar, ModeSpatial} {
		t.Run(mode, func(t *testing.T) {
			r := NewRunner(nil, nil, nil)
			_, err := r.Execute(context.Background(), Options{Parameters: &huge, Steps: 3, Mode: mode})
			if !errors.IsInvalidInput(err) {
				t.Errorf("err = %v, want an invalid input error", err)
			}
		})
	}
}

func TestExecuteValidate(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Steps: 4, Validate: true}); err != nil {
		t.Errorf("grammar output should validate: %v", err)
	}
}

func TestDeriveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Derive(ctx, lsystem.Presets["leaf"], 3, nil)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	s, err := Derive(ctx, lsystem.Presets["leaf"], 0, nil)
	if err != nil || s.String() != lsystem.Axiom().String() {
		t.Errorf("zero steps should return the axiom without checking ctx: %v", err)
	}
}

func TestDeriveProgress(t *testing.T) {
	var seen []int
	_, err := Derive(context.Background(), lsystem.Presets["leaf"], 3, func(step, total int) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		seen = append(seen, step)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("progress steps = %v", seen)
	}
}

func TestExportUnsupported(t *testing.T) {
	_, err := Export(&Result{}, Options{Formats: []string{"png"}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnDeriveComplete(_ context.Context, _ string, _, _ int, _ time.Duration, _ error) {
	h.add("derive")
}

func (h *recordingHooks) OnInterpretComplete(_ context.Context, _ string, _ int, _ time.Duration, _ error) {
	h.add("interpret")
}

func (h *recordingHooks) OnExportComplete(_ context.Context, _ []string, _ time.Duration, _ error) {
	h.add("export")
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.add("miss:" + keyType)
}

func TestExecuteHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Steps: 2}); err != nil {
		t.Fatal(err)
	}
	want := []string{"miss:sentence", "derive", "interpret", "miss:artifact", "export"}
	if strings.Join(h.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}
