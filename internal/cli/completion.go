package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classgraph/pkg/store"
)

// completionCommand creates the shell completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts.

  bash:        source <(classgraph completion bash)
  zsh:         classgraph completion zsh > "${fpath[1]}/_classgraph"
  fish:        classgraph completion fish > ~/.config/fish/completions/classgraph.fish
  powershell:  classgraph completion powershell | Out-String | Invoke-Expression

Project subcommands complete stored project IDs.`,
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
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeProjectIDs offers stored project IDs for the first argument.
func (c *CLI) completeProjectIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	err := c.withStore(cmd.Context(), func(st store.Store) error {
		list, err := st.List(cmd.Context(), "")
		if err != nil {
			return err
		}
		for _, s := range list {
			if strings.HasPrefix(s.ID, toComplete) {
				ids = append(ids, s.ID+"\t"+s.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
