package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/pipeline"
	"github.com/matzehuels/sprout/pkg/sink"
)

// interpretCommand creates the interpret command for text sentences.
func (c *CLI) interpretCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		angleDeg   float64
	)
	opts := pipeline.Options{Mode: pipeline.DefaultMode}

	cmd := &cobra.Command{
		Use:   "interpret [sentence.txt]",
		Short: "Interpret a text sentence into polygons",
		Long: `Interpret a sentence in text form, as written by 'sprout derive' or by
'sprout grow --format text', and write the polygons as JSON.

Use "-" to read the sentence from stdin. The turn angle defaults to the
angle of the selected preset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if slices.Contains(opts.Formats, pipeline.FormatText) {
				return errors.New(errors.ErrCodeInvalidFormat,
					"format %q is the input itself; interpret writes json and stats only", pipeline.FormatText)
			}
			if angleDeg != 0 {
				opts.Angle = angleDeg * math.Pi / 180
			}
			return c.runInterpret(cmd.Context(), cmd.InOrStdin(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "preset whose angle is used (default "+pipeline.DefaultPreset+")")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "interpretation mode: 2d, 3d")
	cmd.Flags().Float64Var(&angleDeg, "angle", 0, "turn angle in degrees")
	cmd.Flags().Float64Var(&opts.Fit, "fit", 0, "scale 2d output to this width (0 keeps raw coordinates)")
	cmd.Flags().Float64Var(&opts.Rotation, "rotation", 0, "rotation in degrees applied with --fit")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), stats (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")

	completePresets(cmd, "preset")
	completeModes(cmd, "mode")

	return cmd
}

func (c *CLI) runInterpret(ctx context.Context, stdin io.Reader, input string, opts pipeline.Options, output string) error {
	s, err := readSentence(stdin, input)
	if err != nil {
		return err
	}
	c.Logger.Debug("parsed sentence", "input", input, "symbols", len(s))
	st := startStage(c.Logger, "interpret")

	if err := opts.ValidateForDerive(); err != nil {
		return err
	}
	opts.Logger = c.Logger
	runner := pipeline.NewRunner(nil, nil, c.Logger)

	res := &pipeline.Result{Sentence: s, Parameters: opts.ResolveParameters()}
	if err := runner.Interpret(ctx, res, opts); err != nil {
		printError("Interpretation failed")
		return fmt.Errorf("interpret: %w", err)
	}
	if opts.Mode == pipeline.ModeSpatial {
		res.Stats.Stats = sink.ComputeStats(s, res.Polygons3)
	} else {
		res.Stats.Stats = sink.ComputeStats(s, res.Polygons).WithMeasures(res.Polygons)
	}

	artifacts, err := pipeline.Export(res, opts)
	if err != nil {
		return err
	}
	st.done("mode", opts.Mode, "polygons", res.Stats.Polygons, "points", res.Stats.Points)

	base := output
	if input == "-" && base == "" {
		base = "sentence"
	}
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, basePath(base, base))
	if err != nil {
		return err
	}

	printSuccess("Interpreted %d symbols", len(s))
	for _, p := range paths {
		printFile(p)
	}
	printStats([]string{
		fmt.Sprintf("%d polygons", res.Stats.Polygons),
		fmt.Sprintf("%d points", res.Stats.Points),
	}, false)
	return nil
}

// readSentence parses the sentence in path, or in stdin when path is "-".
func readSentence(stdin io.Reader, path string) (lsystem.Sentence, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read sentence %s", path)
	}
	return lsystem.ParseSentence(string(data))
}
