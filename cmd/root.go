package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codexsync",
	Short: "Synchronize a project codex with its upstream template",
	Long: `Codexsync keeps a project's codex artifact directory in sync with the
canonical upstream template repository, and proposes local modifications back
upstream as a version-bumped pull request.

Available commands:
  init             - Create the project configuration
  update           - Pull the latest upstream codex into this project
  suggest-changes  - Propose local codex changes upstream
  version          - Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(versionCmd)
}
