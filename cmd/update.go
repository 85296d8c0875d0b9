package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fork-base/codexsync/pkg/config"
	"github.com/fork-base/codexsync/pkg/sync"
	"github.com/fork-base/codexsync/pkg/utils"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Pull the latest upstream codex into this project",
	Long: `Fetches the upstream template's codex and, if it is newer than the local
copy, backs the local codex up under .codexsync/ and replaces it with the
upstream content. Paths matched by the codex .codexignore are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := utils.GetLogger()

		res, err := sync.Update(cmd.Context(), root, cfg, logger)
		if err != nil {
			logger.LogError(err)
			return err
		}
		switch {
		case res.Fresh:
			fmt.Printf("Installed codex %s from upstream.\n", res.Remote)
		case res.Updated:
			fmt.Printf("Updated codex %s -> %s (previous copy in %s).\n", res.Local, res.Remote, res.BackupDir)
		default:
			fmt.Printf("Local codex %s is already up to date with upstream %s.\n", res.Local, res.Remote)
		}
		return nil
	},
}
