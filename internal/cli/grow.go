package cli

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/config"
	"github.com/matzehuels/sprout/pkg/pipeline"
)

// growOpts holds the flags of the grow command that do not map directly
// onto pipeline.Options.
type growOpts struct {
	configPath string
	formats    string
	output     string
	angleDeg   float64
	seed       uint64
	noCache    bool
}

// growCommand creates the grow command that runs the full pipeline.
func (c *CLI) growCommand() *cobra.Command {
	var g growOpts
	opts := pipeline.Options{
		Steps: pipeline.DefaultSteps,
		Mode:  pipeline.DefaultMode,
	}

	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Derive, interpret and export a plant",
		Long: `Derive a sentence from the branching grammar, interpret it with the turtle
and write the requested outputs.

Parameters come from a built-in preset (--preset), from a TOML file
(--config) that names a preset and overrides individual parameters, or
are sampled from --seed. Flags given on the command line win over values
from the file.

Outputs are written to <out><ext>, where ext is .json, .txt or .stats.json.
Results are cached locally for faster subsequent runs.`,
		Example: `  sprout grow --preset leaf --steps 8 --format json,stats
  sprout grow --config fern.toml --mode 3d -o out/fern
  sprout grow --seed 7 --fit 400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(g.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if g.configPath != "" {
				if err := applyConfig(cmd, g.configPath, &opts); err != nil {
					return err
				}
			}
			if g.angleDeg != 0 {
				opts.Angle = g.angleDeg * math.Pi / 180
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &g.seed
			}
			return c.runGrow(cmd.Context(), opts, g)
		},
	}

	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "parameter preset (default "+pipeline.DefaultPreset+")")
	cmd.Flags().StringVarP(&g.configPath, "config", "c", "", "TOML parameter file")
	cmd.Flags().IntVarP(&opts.Steps, "steps", "n", opts.Steps, "rewrite steps")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", pipeline.DefaultMaxSteps, "upper bound on --steps")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "interpretation mode: 2d, 3d")
	cmd.Flags().Float64Var(&opts.Fit, "fit", 0, "scale 2d output to this width (0 keeps raw coordinates)")
	cmd.Flags().Float64Var(&opts.Rotation, "rotation", 0, "rotation in degrees applied with --fit")
	cmd.Flags().Uint64Var(&g.seed, "seed", 0, "sample random parameters from this seed instead of a preset")
	cmd.Flags().Float64Var(&g.angleDeg, "angle", 0, "turn angle in degrees (default: the preset's angle)")
	cmd.Flags().StringVarP(&g.formats, "format", "f", "", "output format(s): json (default), text, stats (comma-separated)")
	cmd.Flags().StringVarP(&g.output, "output", "o", "", "output base path (default: the preset name)")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "check stack balance before interpreting")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-derive even when cached")
	cmd.Flags().BoolVar(&g.noCache, "no-cache", false, "disable caching")

	completePresets(cmd, "preset")
	completeModes(cmd, "mode")

	return cmd
}

// applyConfig loads a parameter file into opts. Values already set by
// explicit flags are kept.
func applyConfig(cmd *cobra.Command, path string, opts *pipeline.Options) error {
	file, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	preset := file.Preset
	if flags.Changed("preset") {
		preset = opts.Preset
	}
	if preset == "" {
		preset = pipeline.DefaultPreset
	}
	file.Preset = preset
	params, err := file.ResolveParameters(pipeline.DefaultPreset)
	if err != nil {
		return err
	}
	opts.Preset = preset
	opts.Parameters = &params

	if file.Steps > 0 && !flags.Changed("steps") {
		opts.Steps = file.Steps
	}
	if file.Mode != "" && !flags.Changed("mode") {
		opts.Mode = file.Mode
	}
	if file.Fit.Set && !flags.Changed("fit") {
		opts.Fit = file.Fit.Value
	}
	if file.Rotation.Set && !flags.Changed("rotation") {
		opts.Rotation = file.Rotation.Value
	}
	return nil
}

// runName names a run after its preset, or its seed when parameters are
// sampled.
func runName(opts pipeline.Options) string {
	switch {
	case opts.Preset != "":
		return opts.Preset
	case opts.Seed != nil:
		return fmt.Sprintf("seed-%d", *opts.Seed)
	}
	return pipeline.DefaultPreset
}

// runGrow executes the pipeline and writes the artifacts.
func (c *CLI) runGrow(ctx context.Context, opts pipeline.Options, g growOpts) error {
	runner, err := c.newRunner(ctx, g.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	name := runName(opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Growing %s for %d steps...", name, opts.Steps))
	opts.Progress = func(step, total int) {
		spinner.SetMessage(fmt.Sprintf("Growing %s: step %d/%d...", name, step, total))
	}
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Grow failed")
		return fmt.Errorf("grow: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, basePath(g.output, name))
	if err != nil {
		return err
	}

	printSuccess("Grew %s", name)
	for _, p := range paths {
		printFile(p)
	}
	printGrowStats(result)
	if slices.Contains(opts.Formats, pipeline.FormatText) {
		printNewline()
		printNextStep("Check balance", appName+" validate "+outputPath(basePath(g.output, name), pipeline.FormatText))
	}
	c.Logger.Debug("run complete", "result", result.String())
	return nil
}
