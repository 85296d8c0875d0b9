package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fork-base/codexsync/pkg/classify"
	"github.com/fork-base/codexsync/pkg/codex"
	"github.com/fork-base/codexsync/pkg/semver"
)

type fakeWorkspace struct {
	released bool
}

func (f *fakeWorkspace) Path() string   { return "/tmp/fake-workspace" }
func (f *fakeWorkspace) Release() error { f.released = true; return nil }

// fakeEnv implements every collaborator interface with scripted behavior.
type fakeEnv struct {
	remoteDoc string
	remoteErr error
	localDoc  string
	localErr  error

	ws           *fakeWorkspace
	stageErr     error
	staged       bool
	summary      classify.Summary
	summarizeErr error

	decisions   []Decision
	promptCalls int

	commitErr    error
	committedDoc string
	publishErr   error
	published    bool
	url          string
}

func (f *fakeEnv) FetchMetadata(ctx context.Context) (string, error) {
	return f.remoteDoc, f.remoteErr
}

func (f *fakeEnv) ReadMetadata() (string, error) {
	return f.localDoc, f.localErr
}

func (f *fakeEnv) Stage(ctx context.Context) (Workspace, error) {
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	f.staged = true
	return f.ws, nil
}

func (f *fakeEnv) Summarize(ctx context.Context, ws Workspace) (classify.Summary, error) {
	return f.summary, f.summarizeErr
}

func (f *fakeEnv) ConfirmVersion(proposed semver.Version) (Decision, error) {
	d := f.decisions[f.promptCalls]
	f.promptCalls++
	return d, nil
}

func (f *fakeEnv) Commit(ctx context.Context, ws Workspace, metadata string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committedDoc = metadata
	return nil
}

func (f *fakeEnv) Publish(ctx context.Context, ws Workspace) (string, error) {
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.published = true
	return f.url, nil
}

func metadataDoc(version string) string {
	return "# Codex\n\nCodex Version: " + version + "\n"
}

func newEnv() *fakeEnv {
	return &fakeEnv{
		remoteDoc: metadataDoc("1.0.0"),
		localDoc:  metadataDoc("1.2.3"),
		ws:        &fakeWorkspace{},
		decisions: []Decision{{Accept: true}},
		url:       "https://example.com/upstream/pull/7",
	}
}

func run(t *testing.T, env *fakeEnv) (*Result, error) {
	t.Helper()
	wf, err := New(Deps{Upstream: env, Project: env, Stager: env, Prompter: env, Publisher: env})
	require.NoError(t, err)
	return wf.Run(context.Background())
}

func TestRunHappyPathMinorBump(t *testing.T) {
	env := newEnv()
	env.summary = classify.Summary{Added: []string{"skills/new.md"}, Insertions: 4}

	res, err := run(t, env)
	require.NoError(t, err)

	assert.Equal(t, StatePullRequestCreated, res.State)
	assert.Equal(t, classify.BumpMinor, res.Bump)
	assert.Equal(t, semver.New(1, 3, 0), res.Proposed)
	assert.Equal(t, semver.New(1, 3, 0), res.Confirmed)
	assert.Equal(t, env.url, res.PullRequestURL)
	assert.True(t, env.published)
	assert.True(t, env.ws.released)

	// The committed document carries the confirmed version, everything else
	// preserved.
	v, err := codex.ParseMetadata(env.committedDoc)
	require.NoError(t, err)
	assert.Equal(t, semver.New(1, 3, 0), v)
}

func TestRunProposesFromLocalVersion(t *testing.T) {
	env := newEnv()
	env.localDoc = metadataDoc("2.5.1")
	env.summary = classify.Summary{Modified: []string{"a.md"}, Insertions: 2, Deletions: 1}

	res, err := run(t, env)
	require.NoError(t, err)

	// Patch bump from the local version, not the remote's.
	assert.Equal(t, classify.BumpPatch, res.Bump)
	assert.Equal(t, semver.New(2, 5, 2), res.Proposed)
}

func TestRunLocalBehindUpstreamHaltsBeforeStaging(t *testing.T) {
	env := newEnv()
	env.localDoc = metadataDoc("1.0.0")
	env.remoteDoc = metadataDoc("1.1.0")

	res, err := run(t, env)
	assert.ErrorIs(t, err, ErrLocalBehindUpstream)
	assert.Equal(t, StateFailed, res.State)
	assert.False(t, env.staged, "staging must not run when local is behind")
	assert.Zero(t, env.promptCalls)
}

func TestRunEqualVersionsPassPreflight(t *testing.T) {
	env := newEnv()
	env.localDoc = metadataDoc("1.0.0")
	env.remoteDoc = metadataDoc("1.0.0")
	env.summary = classify.Summary{Modified: []string{"a.md"}, Insertions: 1}

	res, err := run(t, env)
	require.NoError(t, err)
	assert.Equal(t, StatePullRequestCreated, res.State)
}

func TestRunNoChangesShortCircuits(t *testing.T) {
	env := newEnv()
	env.summary = classify.Summary{}

	res, err := run(t, env)
	require.NoError(t, err)

	assert.Equal(t, StateNoChangesDetected, res.State)
	assert.Zero(t, env.promptCalls, "prompt must not run")
	assert.Empty(t, env.committedDoc, "commit must not run")
	assert.False(t, env.published, "publish must not run")
	assert.True(t, env.ws.released)
}

func TestRunInvalidOverrideReprompts(t *testing.T) {
	env := newEnv()
	env.summary = classify.Summary{Modified: []string{"a.md"}, Insertions: 1}
	env.decisions = []Decision{
		{Override: "1.2"},
		{Override: "1.2.x"},
		{Override: "2.0.0"},
	}

	res, err := run(t, env)
	require.NoError(t, err)

	assert.Equal(t, 3, env.promptCalls)
	assert.Equal(t, semver.New(2, 0, 0), res.Confirmed)
	v, err := codex.ParseMetadata(env.committedDoc)
	require.NoError(t, err)
	assert.Equal(t, semver.New(2, 0, 0), v)
}

func TestRunRemoteUnavailable(t *testing.T) {
	env := newEnv()
	env.remoteErr = errors.New("connection refused")

	res, err := run(t, env)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Equal(t, StateFailed, res.State)
}

func TestRunLocalMetadataMissing(t *testing.T) {
	env := newEnv()
	env.localErr = errors.New("no such file")

	res, err := run(t, env)
	assert.ErrorIs(t, err, ErrLocalMetadataMissing)
	assert.Equal(t, StateFailed, res.State)
}

func TestRunMalformedRemoteMetadata(t *testing.T) {
	env := newEnv()
	env.remoteDoc = "no marker here\n"

	res, err := run(t, env)
	assert.ErrorIs(t, err, codex.ErrMetadataMissing)
	assert.Equal(t, StateFailed, res.State)
}

func TestRunStagingFailure(t *testing.T) {
	env := newEnv()
	env.stageErr = errors.New("disk full")

	res, err := run(t, env)
	assert.ErrorIs(t, err, ErrStagingFailed)
	assert.Equal(t, StateFailed, res.State)
}

func TestRunCommitFailureReleasesWorkspace(t *testing.T) {
	env := newEnv()
	env.summary = classify.Summary{Modified: []string{"a.md"}, Insertions: 1}
	env.commitErr = errors.New("index locked")

	res, err := run(t, env)
	assert.ErrorIs(t, err, ErrCommitFailed)
	assert.Equal(t, StateFailed, res.State)
	assert.False(t, env.published)
	assert.True(t, env.ws.released)
}

func TestRunPublishFailure(t *testing.T) {
	env := newEnv()
	env.summary = classify.Summary{Modified: []string{"a.md"}, Insertions: 1}
	env.publishErr = errors.New("remote rejected push")

	res, err := run(t, env)
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Equal(t, StateFailed, res.State)
	assert.NotEmpty(t, env.committedDoc, "commit happened before publish failed")
	assert.True(t, env.ws.released)
}

func TestNewRequiresAllCollaborators(t *testing.T) {
	env := newEnv()
	_, err := New(Deps{Upstream: env, Project: env, Stager: env, Prompter: env})
	assert.Error(t, err)
}

func TestRunOnlyOnce(t *testing.T) {
	env := newEnv()
	env.summary = classify.Summary{}
	wf, err := New(Deps{Upstream: env, Project: env, Stager: env, Prompter: env, Publisher: env})
	require.NoError(t, err)

	_, err = wf.Run(context.Background())
	require.NoError(t, err)
	_, err = wf.Run(context.Background())
	assert.Error(t, err)
}

func TestStateStringsAndTerminals(t *testing.T) {
	assert.True(t, StateNoChangesDetected.Terminal())
	assert.True(t, StatePullRequestCreated.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateChangesStaged.Terminal())
	assert.Equal(t, "pull-request-created", StatePullRequestCreated.String())
}
