// Package sync implements the workflow collaborators against a real upstream:
// a shallow clone of the template repository serves as both the metadata
// source and the proposal workspace, the git binary handles branch, commit,
// and push, and the gh CLI opens the pull request.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/fork-base/codexsync/pkg/classify"
	"github.com/fork-base/codexsync/pkg/codex"
	"github.com/fork-base/codexsync/pkg/config"
	"github.com/fork-base/codexsync/pkg/git"
	"github.com/fork-base/codexsync/pkg/utils"
	"github.com/fork-base/codexsync/pkg/workflow"
	"github.com/fork-base/codexsync/pkg/workspace"
)

// Options configures a Syncer.
type Options struct {
	// ProjectRoot is the local project directory containing the codex.
	ProjectRoot string
	// Config is the loaded project configuration.
	Config *config.Config
	// Body supplies the pull-request body at publish time. Optional.
	Body func() (string, error)
	// Logger receives operational log lines. Optional.
	Logger *utils.Logger
}

// Syncer implements workflow.Upstream, workflow.Project, workflow.Stager, and
// workflow.Publisher for a single run. It lazily clones the upstream template
// once and reuses the clone as the proposal workspace; ownership of the clone
// transfers to the workflow when Stage succeeds.
type Syncer struct {
	opts   Options
	ign    *gitignore.GitIgnore
	clone  *workspace.Workspace
	owned  bool
	branch string
}

// New builds a Syncer, compiling the local codex ignore file if present.
func New(opts Options) (*Syncer, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("sync: config is required")
	}
	ign, err := codex.LoadIgnore(filepath.Join(opts.ProjectRoot, opts.Config.CodexDir))
	if err != nil {
		return nil, err
	}
	return &Syncer{opts: opts, ign: ign}, nil
}

// Close releases the upstream clone if the workflow never took ownership of
// it (for example when preflight fails before staging).
func (s *Syncer) Close() error {
	if s.clone != nil && s.owned {
		return s.clone.Release()
	}
	return nil
}

func (s *Syncer) logf(format string, v ...interface{}) {
	if s.opts.Logger != nil {
		s.opts.Logger.Logf(format, v...)
	}
}

func (s *Syncer) ensureClone(ctx context.Context) error {
	if s.clone != nil {
		return nil
	}
	ws, err := workspace.Acquire("codexsync-")
	if err != nil {
		return err
	}
	cfg := s.opts.Config
	s.logf("cloning %s (branch %s)", cfg.UpstreamURL, cfg.BaseBranch)
	if err := git.CloneShallow(ctx, cfg.UpstreamURL, cfg.BaseBranch, ws.Path()); err != nil {
		ws.Release()
		return err
	}
	s.clone = ws
	s.owned = true
	return nil
}

// FetchMetadata clones the upstream template and reads its metadata document.
func (s *Syncer) FetchMetadata(ctx context.Context) (string, error) {
	if err := s.ensureClone(ctx); err != nil {
		return "", err
	}
	path := filepath.Join(s.clone.Path(), s.opts.Config.CodexDir, s.opts.Config.MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("upstream has no %s/%s: %w", s.opts.Config.CodexDir, s.opts.Config.MetadataFile, err)
	}
	return string(data), nil
}

// ReadMetadata reads the local project's metadata document.
func (s *Syncer) ReadMetadata() (string, error) {
	path := filepath.Join(s.opts.ProjectRoot, s.opts.Config.CodexDir, s.opts.Config.MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Stage overlays the local codex content onto the upstream clone, which
// becomes the proposal workspace. The returned handle is released by the
// workflow on every exit path.
func (s *Syncer) Stage(ctx context.Context) (workflow.Workspace, error) {
	if err := s.ensureClone(ctx); err != nil {
		return nil, err
	}
	cfg := s.opts.Config
	stagedCodex := filepath.Join(s.clone.Path(), cfg.CodexDir)
	localCodex := filepath.Join(s.opts.ProjectRoot, cfg.CodexDir)

	if err := codex.ClearDir(stagedCodex, s.ign); err != nil {
		return nil, fmt.Errorf("failed to reset staged codex: %w", err)
	}
	if err := codex.CopyDir(localCodex, stagedCodex, s.ign); err != nil {
		return nil, fmt.Errorf("failed to overlay local codex: %w", err)
	}
	s.logf("staged local codex into %s", s.clone.Path())
	s.owned = false
	return s.clone, nil
}

// Summarize computes the change summary of the staged workspace against the
// upstream baseline, scoped to the codex directory.
func (s *Syncer) Summarize(ctx context.Context, ws workflow.Workspace) (classify.Summary, error) {
	return git.Summarize(ws.Path(), s.opts.Config.CodexDir, s.ign)
}

// Commit writes the rewritten metadata document into the workspace, creates
// the proposal branch, and commits all staged content atomically.
func (s *Syncer) Commit(ctx context.Context, ws workflow.Workspace, metadata string) error {
	v, err := codex.ParseMetadata(metadata)
	if err != nil {
		return err
	}
	s.branch = "codex-v" + v.String()
	if err := git.CheckoutNewBranch(ws.Path(), s.branch); err != nil {
		return err
	}
	metaPath := filepath.Join(ws.Path(), s.opts.Config.CodexDir, s.opts.Config.MetadataFile)
	if err := os.WriteFile(metaPath, []byte(metadata), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	message := fmt.Sprintf("Bump codex version to %s", v)
	if err := git.AddAllAndCommit(ws.Path(), message); err != nil {
		return err
	}
	s.logf("committed %s on %s", v, s.branch)
	return nil
}

// Publish pushes the proposal branch and opens a pull request against the
// upstream base branch, returning the pull request URL.
func (s *Syncer) Publish(ctx context.Context, ws workflow.Workspace) (string, error) {
	if s.branch == "" {
		return "", fmt.Errorf("nothing committed to publish")
	}
	if !git.HasGH() {
		return "", fmt.Errorf("the gh CLI is required to open a pull request")
	}
	if err := git.Push(ctx, ws.Path(), s.branch); err != nil {
		return "", err
	}
	body := ""
	if s.opts.Body != nil {
		var err error
		if body, err = s.opts.Body(); err != nil {
			return "", err
		}
	}
	title := "Codex v" + strings.TrimPrefix(s.branch, "codex-v")
	url, err := git.CreatePullRequest(ctx, ws.Path(), title, body, s.opts.Config.BaseBranch)
	if err != nil {
		return "", err
	}
	s.logf("opened pull request %s", url)
	return url, nil
}
