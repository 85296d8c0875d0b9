package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fork-base/codexsync/pkg/config"
	"github.com/fork-base/codexsync/pkg/sync"
	"github.com/fork-base/codexsync/pkg/ui"
	"github.com/fork-base/codexsync/pkg/utils"
	"github.com/fork-base/codexsync/pkg/workflow"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest-changes",
	Short: "Propose local codex changes upstream",
	Long: `Stages the local codex on top of the latest upstream state, classifies the
changes into a version bump, confirms the next version, and opens a pull
request against the upstream template repository.

The local codex version must not be behind upstream; run "codexsync update"
first if it is. When nothing differs from upstream the command is a no-op.`,
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

		prompter := ui.NewTerminalPrompter()

		syncer, err := sync.New(sync.Options{
			ProjectRoot: root,
			Config:      cfg,
			Body:        prompter.ReadBody,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		defer syncer.Close()

		wf, err := workflow.New(workflow.Deps{
			Upstream:  syncer,
			Project:   syncer,
			Stager:    syncer,
			Prompter:  prompter,
			Publisher: syncer,
		})
		if err != nil {
			return err
		}

		res, err := wf.Run(cmd.Context())
		if err != nil {
			logger.LogError(err)
			return err
		}

		switch res.State {
		case workflow.StateNoChangesDetected:
			fmt.Println("Local codex matches upstream; nothing to propose.")
		case workflow.StatePullRequestCreated:
			s := res.Summary
			fmt.Printf("Classified %d added, %d removed, %d modified (%d insertions, %d deletions) as a %s bump.\n",
				len(s.Added), len(s.Removed), len(s.Modified), s.Insertions, s.Deletions, res.Bump)
			fmt.Printf("Proposed codex %s -> %s\n", res.LocalVersion, res.Confirmed)
			fmt.Printf("Opened pull request: %s\n", res.PullRequestURL)
		}
		return nil
	},
}
