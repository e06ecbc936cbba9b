package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ptplot.

Bash:
  $ source <(ptplot completion bash)

Zsh:
  $ ptplot completion zsh > "${fpath[1]}/_ptplot"

Fish:
  $ ptplot completion fish > ~/.config/fish/completions/ptplot.fish

PowerShell:
  PS> ptplot completion powershell | Out-String | Invoke-Expression

Spec flags complete to .toml, .yaml and .json files and --format to the
supported output formats.
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

// completeSpec registers file completion for --spec and, given formats,
// completion for --format.
func completeSpec(cmd *cobra.Command, formats ...string) {
	_ = cmd.RegisterFlagCompletionFunc("spec", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml", "yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
	})
	if len(formats) == 0 {
		return
	}
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	})
}
