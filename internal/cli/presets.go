package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
)

// presetsCommand creates the presets command that lists built-in parameter sets.
func (c *CLI) presetsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "List built-in parameter presets",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return lsystem.PresetNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			names := lsystem.PresetNames()
			if len(args) == 1 {
				if _, ok := lsystem.Preset(args[0]); !ok {
					return errors.New(errors.ErrCodeNotFound, "unknown preset %q", args[0])
				}
				names = args
			}
			if asJSON {
				return writePresetsJSON(cmd.OutOrStdout(), names)
			}
			for i, name := range names {
				if i > 0 {
					printNewline()
				}
				printPreset(name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print presets as JSON")
	return cmd
}

func writePresetsJSON(w io.Writer, names []string) error {
	out := make(map[string]lsystem.Parameters, len(names))
	for _, name := range names {
		out[name], _ = lsystem.Preset(name)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printPreset(name string) {
	p, _ := lsystem.Preset(name)
	fmt.Println(StyleTitle.Render(name))
	printKeyValue("main", fmt.Sprintf("%g ×%g", p.MainLength, p.MainGrowthRate))
	printKeyValue("side", fmt.Sprintf("%g ×%g", p.SideLength, p.SideGrowthRate))
	printKeyValue("notch", fmt.Sprintf("%g ×%g", p.NotchLength, p.NotchGrowthRate))
	printKeyValue("decrement", fmt.Sprintf("%g", p.PotentialDecrement))
	printKeyValue("angle", fmt.Sprintf("%.4g°", p.Angle*180/math.Pi))
}
