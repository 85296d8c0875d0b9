package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fork-base/codexsync/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codexsync configuration in the current directory",
	Long:  `Creates a .codexsync/config.json in the current working directory, recording the upstream template repository and codex layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}
		if config.Exists(root) {
			fmt.Print("Configuration already exists. Overwrite? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Keeping existing configuration.")
				return nil
			}
		}
		cfg, err := config.Init(root, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (upstream %s)\n", config.Path(root), cfg.UpstreamURL)
		return nil
	},
}
