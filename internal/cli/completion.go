package cli

import "github.com/spf13/cobra"

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for provflow.

To load completions:

Bash:
  $ source <(provflow completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ provflow completion bash > /etc/bash_completion.d/provflow
  # macOS:
  $ provflow completion bash > $(brew --prefix)/etc/bash_completion.d/provflow

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ provflow completion zsh > "${fpath[1]}/_provflow"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ provflow completion fish | source

  # To load completions for each session, execute once:
  $ provflow completion fish > ~/.config/fish/completions/provflow.fish

PowerShell:
  PS> provflow completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> provflow completion powershell > provflow.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}
}
