package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/pipeline"
	"github.com/matzehuels/sprout/pkg/sink"
)

// deriveCommand creates the derive command that dumps a derived sentence.
func (c *CLI) deriveCommand() *cobra.Command {
	var (
		configPath string
		output     string
		seed       uint64
		noCache    bool
	)
	opts := pipeline.Options{Steps: pipeline.DefaultSteps}

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the sentence after n rewrite steps",
		Long: `Derive a sentence from the branching grammar and print it in text form.

The text form can be fed back into 'sprout interpret' and 'sprout validate'.`,
		Example: `  sprout derive -n 3
  sprout derive --preset fern -n 6 -o fern.txt
  sprout derive --seed 7 -n 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfig(cmd, configPath, &opts); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}
			return c.runDerive(cmd.Context(), cmd.OutOrStdout(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "parameter preset (default "+pipeline.DefaultPreset+")")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML parameter file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "sample random parameters from this seed instead of a preset")
	cmd.Flags().IntVarP(&opts.Steps, "steps", "n", opts.Steps, "rewrite steps")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", pipeline.DefaultMaxSteps, "upper bound on --steps")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-derive even when cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the sentence to a file instead of stdout")

	completePresets(cmd, "preset")

	return cmd
}

func (c *CLI) runDerive(ctx context.Context, stdout io.Writer, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	st := startStage(c.Logger, "derive")
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Deriving %d steps...", opts.Steps))
	opts.Progress = func(step, total int) {
		spinner.SetMessage(fmt.Sprintf("Deriving: step %d/%d...", step, total))
	}
	spinner.Start()
	s, hit, err := runner.DeriveWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Derivation failed")
		return fmt.Errorf("derive: %w", err)
	}
	spinner.Stop()
	st.done("steps", opts.Steps, "symbols", len(s), "cached", hit)

	if output == "" {
		_, err := stdout.Write(sink.RenderText(s))
		return err
	}
	if err := os.WriteFile(output, sink.RenderText(s), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Derived sentence")
	printFile(output)
	printSentenceStats(s, hit)
	return nil
}

// printSentenceStats prints symbol counts of s on a single line.
func printSentenceStats(s lsystem.Sentence, cached bool) {
	printStats([]string{
		fmt.Sprintf("%d symbols", len(s)),
		fmt.Sprintf("%d terminals", s.Terminals()),
	}, cached)
}
