package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sprout.

Bash:
  $ source <(sprout completion bash)

Zsh:
  $ sprout completion zsh > "${fpath[1]}/_sprout"

Fish:
  $ sprout completion fish > ~/.config/fish/completions/sprout.fish

PowerShell:
  PS> sprout completion powershell | Out-String | Invoke-Expression

Preset names are completed for 'sprout presets' and for the --preset flag.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completePresets completes the --preset flag with built-in preset names.
func completePresets(cmd *cobra.Command, flag string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lsystem.PresetNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// completeModes completes the --mode flag.
func completeModes(cmd *cobra.Command, flag string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(
		[]string{pipeline.ModePlanar, pipeline.ModeSpatial}, cobra.ShellCompDirectiveNoFileComp))
}
