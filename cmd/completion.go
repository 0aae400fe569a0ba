package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts.
func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate completion scripts for your shell.

  # Bash (add to ~/.bashrc)
  eval "$(relgraph completion bash)"

  # Zsh (add to ~/.zshrc)
  eval "$(relgraph completion zsh)"

  # Fish
  relgraph completion fish | source

  # PowerShell
  relgraph completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		// Completion needs no config or logging.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				_ = root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				_ = root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				_ = root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				_ = root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}

	return cmd
}

// formatCompletion completes --format values.
func formatCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"svg", "png", "dot", "json", "html"}, cobra.ShellCompDirectiveNoFileComp
}
