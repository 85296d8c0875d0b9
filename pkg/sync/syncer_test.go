package sync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fork-base/codexsync/pkg/codex"
	"github.com/fork-base/codexsync/pkg/config"
	"github.com/fork-base/codexsync/pkg/git"
	"github.com/fork-base/codexsync/pkg/semver"
)

func skipIfNoGit(t *testing.T) {
	t.Helper()
	if !git.IsAvailable() {
		t.Skip("git binary not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newUpstream creates a template repository with a committed codex at the
// given version.
func newUpstream(t *testing.T, version string) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "--initial-branch", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "test")
	write(t, filepath.Join(dir, "codex", "CODEX.md"), "# Codex\n\nCodex Version: "+version+"\n")
	write(t, filepath.Join(dir, "codex", "skills", "review.md"), "review guidance\n")
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-m", "codex "+version)
	return dir
}

// newProject creates a local project whose codex starts as a copy of the
// upstream codex.
func newProject(t *testing.T, upstream string) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, codex.CopyDir(filepath.Join(upstream, "codex"), filepath.Join(root, "codex"), nil))
	cfg := &config.Config{
		UpstreamURL:  upstream,
		CodexDir:     config.DefaultCodexDir,
		MetadataFile: config.DefaultMetadataFile,
		BaseBranch:   config.DefaultBaseBranch,
	}
	return root, cfg
}

func TestFetchAndReadMetadata(t *testing.T) {
	skipIfNoGit(t)

	upstream := newUpstream(t, "1.0.0")
	root, cfg := newProject(t, upstream)

	s, err := New(Options{ProjectRoot: root, Config: cfg})
	require.NoError(t, err)
	defer s.Close()

	remoteDoc, err := s.FetchMetadata(context.Background())
	require.NoError(t, err)
	remote, err := codex.ParseMetadata(remoteDoc)
	require.NoError(t, err)
	assert.Equal(t, semver.New(1, 0, 0), remote)

	localDoc, err := s.ReadMetadata()
	require.NoError(t, err)
	local, err := codex.ParseMetadata(localDoc)
	require.NoError(t, err)
	assert.Equal(t, semver.New(1, 0, 0), local)
}

func TestStageSummarizeCommit(t *testing.T) {
	skipIfNoGit(t)

	upstream := newUpstream(t, "1.0.0")
	root, cfg := newProject(t, upstream)

	// Local edits: one modified skill, one new skill.
	write(t, filepath.Join(root, "codex", "skills", "review.md"), "review guidance\nwith an extra line\n")
	write(t, filepath.Join(root, "codex", "skills", "naming.md"), "naming guidance\n")

	s, err := New(Options{ProjectRoot: root, Config: cfg})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	ws, err := s.Stage(ctx)
	require.NoError(t, err)
	defer ws.Release()

	summary, err := s.Summarize(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, []string{"skills/naming.md"}, summary.Added)
	assert.Equal(t, []string{"skills/review.md"}, summary.Modified)
	assert.Empty(t, summary.Removed)

	// Commit the proposal at the bumped version.
	doc, err := s.ReadMetadata()
	require.NoError(t, err)
	newDoc, err := codex.WriteMetadata(doc, semver.New(1, 1, 0))
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, ws, newDoc))

	branch, err := git.CurrentBranch(ws.Path())
	require.NoError(t, err)
	assert.Equal(t, "codex-v1.1.0", branch)

	staged, err := os.ReadFile(filepath.Join(ws.Path(), "codex", "CODEX.md"))
	require.NoError(t, err)
	v, err := codex.ParseMetadata(string(staged))
	require.NoError(t, err)
	assert.Equal(t, semver.New(1, 1, 0), v)
}

func TestStageIdenticalCodexIsEmpty(t *testing.T) {
	skipIfNoGit(t)

	upstream := newUpstream(t, "1.0.0")
	root, cfg := newProject(t, upstream)

	s, err := New(Options{ProjectRoot: root, Config: cfg})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	ws, err := s.Stage(ctx)
	require.NoError(t, err)
	defer ws.Release()

	summary, err := s.Summarize(ctx, ws)
	require.NoError(t, err)
	assert.True(t, summary.Empty())
}

func TestPublishWithoutCommit(t *testing.T) {
	cfg := &config.Config{
		UpstreamURL:  "https://example.invalid/template.git",
		CodexDir:     config.DefaultCodexDir,
		MetadataFile: config.DefaultMetadataFile,
		BaseBranch:   config.DefaultBaseBranch,
	}

	s, err := New(Options{ProjectRoot: t.TempDir(), Config: cfg})
	require.NoError(t, err)
	_, err = s.Publish(context.Background(), nil)
	assert.Error(t, err)
}
