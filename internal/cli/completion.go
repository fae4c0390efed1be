package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/palette"
	"github.com/matzehuels/cvpchart/pkg/pipeline"
	"github.com/matzehuels/cvpchart/pkg/render/styles"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cvpchart.

Flag values such as --format, --loss-mode, --scheme, --locale and --style
complete as well.

Bash:
  $ source <(cvpchart completion bash)

Zsh:
  $ cvpchart completion zsh > "${fpath[1]}/_cvpchart"

Fish:
  $ cvpchart completion fish > ~/.config/fish/completions/cvpchart.fish

PowerShell:
  PS> cvpchart completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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

	return cmd
}

// flagValues lists the fixed choices of the shared flags.
func flagValues() map[string][]string {
	locales := lo.Map(locale.Supported, func(l locale.Locale, _ int) string { return string(l) })
	return map[string][]string{
		"format":       pipeline.FormatNames(),
		"loss-mode":    {string(treemap.LossNegativeBar), string(treemap.LossSeparate)},
		"scheme":       palette.Names(),
		"locale":       locales,
		"style":        styles.Names(),
		"bep-label":    {string(treemap.LabelValue), string(treemap.LabelRatio), string(treemap.LabelBoth)},
		"bep-position": {string(treemap.LabelTop), string(treemap.LabelBottom)},
		"bep-line":     {string(treemap.LineDashed), string(treemap.LineSolid), string(treemap.LineDotted)},
	}
}

// registerFlagCompletions attaches value completions to every command in
// the tree that defines one of the shared flags.
func registerFlagCompletions(root *cobra.Command) {
	values := flagValues()
	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		for name, choices := range values {
			if cmd.Flags().Lookup(name) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp))
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}
