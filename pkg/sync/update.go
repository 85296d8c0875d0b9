package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fork-base/codexsync/pkg/codex"
	"github.com/fork-base/codexsync/pkg/config"
	"github.com/fork-base/codexsync/pkg/semver"
	"github.com/fork-base/codexsync/pkg/utils"
)

// UpdateResult reports what an update run found and did.
type UpdateResult struct {
	Local   semver.Version
	Remote  semver.Version
	Updated bool
	// Fresh is true when no local codex existed and one was installed.
	Fresh bool
	// BackupDir holds the pre-update copy of the local codex, when one was
	// taken.
	BackupDir string
}

// Update brings the local codex up to the upstream version. When local is
// already at or ahead of upstream it is a no-op. Otherwise the local codex is
// backed up under .codexsync/ and replaced with the upstream content. Paths
// matched by the local .codexignore survive the replacement.
func Update(ctx context.Context, root string, cfg *config.Config, logger *utils.Logger) (*UpdateResult, error) {
	s, err := New(Options{ProjectRoot: root, Config: cfg, Logger: logger})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	remoteDoc, err := s.FetchMetadata(ctx)
	if err != nil {
		return nil, err
	}
	remote, err := codex.ParseMetadata(remoteDoc)
	if err != nil {
		return nil, fmt.Errorf("upstream metadata: %w", err)
	}

	res := &UpdateResult{Remote: remote}
	localCodex := filepath.Join(root, cfg.CodexDir)
	upstreamCodex := filepath.Join(s.clone.Path(), cfg.CodexDir)

	localDoc, err := s.ReadMetadata()
	switch {
	case err != nil:
		// No usable local codex: install fresh, nothing to back up.
		res.Fresh = true
	default:
		local, err := codex.ParseMetadata(localDoc)
		if err != nil {
			return nil, fmt.Errorf("local metadata: %w", err)
		}
		res.Local = local
		if !semver.Less(local, remote) {
			return res, nil
		}
		res.BackupDir = filepath.Join(root, config.Dir, "backup-"+local.String())
		if err := codex.CopyDir(localCodex, res.BackupDir, nil); err != nil {
			return nil, fmt.Errorf("failed to back up codex: %w", err)
		}
		if err := codex.ClearDir(localCodex, s.ign); err != nil {
			return nil, fmt.Errorf("failed to clear codex: %w", err)
		}
	}

	if err := os.MkdirAll(localCodex, 0o755); err != nil {
		return nil, err
	}
	if err := codex.CopyDir(upstreamCodex, localCodex, s.ign); err != nil {
		return nil, fmt.Errorf("failed to install upstream codex: %w", err)
	}
	res.Updated = true
	if logger != nil {
		logger.Logf("updated codex to %s", remote)
	}
	return res, nil
}
