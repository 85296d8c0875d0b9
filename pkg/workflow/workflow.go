// Package workflow drives the codex proposal state machine: fetch both
// metadata documents, check the local version is not behind upstream, stage
// local changes into an isolated workspace, classify them into a bump
// category, confirm the next version with the operator, then commit and
// publish. All I/O happens behind collaborator interfaces; the package itself
// is pure sequencing and decision logic.
package workflow

import (
	"context"
	"fmt"

	"github.com/fork-base/codexsync/pkg/classify"
	"github.com/fork-base/codexsync/pkg/codex"
	"github.com/fork-base/codexsync/pkg/semver"
)

// Workspace is a handle to the exclusively-owned proposal workspace. It is
// released on every exit path, including failures.
type Workspace interface {
	Path() string
	Release() error
}

// Upstream supplies the canonical template's current metadata document.
type Upstream interface {
	FetchMetadata(ctx context.Context) (string, error)
}

// Project supplies the local project's metadata document.
type Project interface {
	ReadMetadata() (string, error)
}

// Stager seeds a proposal workspace from the upstream baseline, overlays the
// local codex content, and summarizes the resulting diff scoped to the codex
// directory.
type Stager interface {
	Stage(ctx context.Context) (Workspace, error)
	Summarize(ctx context.Context, ws Workspace) (classify.Summary, error)
}

// Decision is the operator's response to a proposed version: accept it as-is
// or supply a replacement version string.
type Decision struct {
	Accept   bool
	Override string
}

// Prompter asks the operator to confirm or override the proposed version. An
// invalid override makes the machine ask again rather than abort.
type Prompter interface {
	ConfirmVersion(proposed semver.Version) (Decision, error)
}

// Publisher writes the rewritten metadata document into the workspace,
// commits all staged content atomically, and publishes the proposal.
type Publisher interface {
	Commit(ctx context.Context, ws Workspace, metadata string) error
	Publish(ctx context.Context, ws Workspace) (url string, err error)
}

// Deps are the collaborators a workflow run requires. All fields are
// mandatory.
type Deps struct {
	Upstream  Upstream
	Project   Project
	Stager    Stager
	Prompter  Prompter
	Publisher Publisher
}

func (d Deps) validate() error {
	if d.Upstream == nil || d.Project == nil || d.Stager == nil || d.Prompter == nil || d.Publisher == nil {
		return fmt.Errorf("workflow requires all collaborators")
	}
	return nil
}

// Result records what a run observed and decided. Fields are populated as the
// machine advances; on failure the result reflects progress up to the failing
// transition.
type Result struct {
	State          State
	LocalVersion   semver.Version
	RemoteVersion  semver.Version
	Summary        classify.Summary
	Bump           classify.Bump
	Proposed       semver.Version
	Confirmed      semver.Version
	PullRequestURL string
}

// Workflow is a single-use, single-actor sync machine. Create one per
// invocation with New and drive it once with Run.
type Workflow struct {
	deps  Deps
	state State
	done  bool
}

// New constructs a workflow in the Initialized state.
func New(deps Deps) (*Workflow, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &Workflow{deps: deps, state: StateInitialized}, nil
}

// State returns the machine's current state.
func (w *Workflow) State() State {
	return w.state
}

// advance moves the machine forward, enforcing the edge set. A disallowed
// transition is a programming error.
func (w *Workflow) advance(to State) {
	if !allowedTransition(w.state, to) {
		panic(fmt.Sprintf("workflow: illegal transition %s -> %s", w.state, to))
	}
	w.state = to
}

// fail records a terminal failure and returns the error that caused it.
func (w *Workflow) fail(res *Result, err error) (*Result, error) {
	w.advance(StateFailed)
	res.State = w.state
	return res, err
}

// Run executes the workflow to a terminal state. It returns a nil error for
// the two success terminals (NoChangesDetected, PullRequestCreated) and the
// causing error when the machine lands in Failed. Run may be called once.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	if w.done {
		return nil, fmt.Errorf("workflow already ran to %s", w.state)
	}
	w.done = true

	res := &Result{}

	// Initialized -> Fetched: both metadata documents must be present and
	// parseable before anything else happens.
	remoteDoc, err := w.deps.Upstream.FetchMetadata(ctx)
	if err != nil {
		return w.fail(res, wrap(ErrRemoteUnavailable, err))
	}
	localDoc, err := w.deps.Project.ReadMetadata()
	if err != nil {
		return w.fail(res, wrap(ErrLocalMetadataMissing, err))
	}
	remote, err := codex.ParseMetadata(remoteDoc)
	if err != nil {
		return w.fail(res, fmt.Errorf("upstream metadata: %w", err))
	}
	local, err := codex.ParseMetadata(localDoc)
	if err != nil {
		return w.fail(res, fmt.Errorf("local metadata: %w", err))
	}
	res.LocalVersion = local
	res.RemoteVersion = remote
	w.advance(StateFetched)

	// Fetched -> PreflightChecked: proposing from a stale codex is rejected
	// outright; no staging happens.
	if semver.Less(local, remote) {
		return w.fail(res, fmt.Errorf("%w: local %s < upstream %s, run \"codexsync update\" first",
			ErrLocalBehindUpstream, local, remote))
	}
	w.advance(StatePreflightChecked)

	// PreflightChecked -> ChangesStaged.
	ws, err := w.deps.Stager.Stage(ctx)
	if err != nil {
		return w.fail(res, wrap(ErrStagingFailed, err))
	}
	defer ws.Release()

	summary, err := w.deps.Stager.Summarize(ctx, ws)
	if err != nil {
		return w.fail(res, wrap(ErrStagingFailed, err))
	}
	res.Summary = summary
	w.advance(StateChangesStaged)

	// ChangesStaged -> NoChangesDetected: nothing to propose is a successful
	// no-op; classification and planning never run.
	if summary.Empty() {
		w.advance(StateNoChangesDetected)
		res.State = w.state
		return res, nil
	}

	// ChangesStaged -> BumpDetermined.
	res.Bump = classify.Classify(summary)
	w.advance(StateBumpDetermined)

	// BumpDetermined -> VersionConfirmed: the proposal starts from the LOCAL
	// version, the one the operator is proposing from. Invalid overrides
	// re-prompt until a valid version is confirmed.
	res.Proposed = semver.Next(local, res.Bump)
	confirmed, err := w.confirmVersion(res.Proposed)
	if err != nil {
		return w.fail(res, err)
	}
	res.Confirmed = confirmed
	w.advance(StateVersionConfirmed)

	// VersionConfirmed -> Committed: the metadata rewrite happens only now,
	// after staging, classification, and confirmation all completed.
	doc, err := codex.WriteMetadata(localDoc, confirmed)
	if err != nil {
		return w.fail(res, wrap(ErrCommitFailed, err))
	}
	if err := w.deps.Publisher.Commit(ctx, ws, doc); err != nil {
		return w.fail(res, wrap(ErrCommitFailed, err))
	}
	w.advance(StateCommitted)

	// Committed -> PullRequestCreated: publish failures surface verbatim and
	// are never retried automatically.
	url, err := w.deps.Publisher.Publish(ctx, ws)
	if err != nil {
		return w.fail(res, wrap(ErrPublishFailed, err))
	}
	res.PullRequestURL = url
	w.advance(StatePullRequestCreated)
	res.State = w.state
	return res, nil
}

func (w *Workflow) confirmVersion(proposed semver.Version) (semver.Version, error) {
	for {
		decision, err := w.deps.Prompter.ConfirmVersion(proposed)
		if err != nil {
			return semver.Version{}, fmt.Errorf("version confirmation: %w", err)
		}
		if decision.Accept {
			return proposed, nil
		}
		override, err := semver.ParseOverride(decision.Override)
		if err != nil {
			// Malformed override: ask again, never abort.
			continue
		}
		return override, nil
	}
}
