package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for workflow failures. All are fatal: the machine maps each
// into the terminal Failed state and never retries. Check with errors.Is.

// ErrRemoteUnavailable is returned when the upstream metadata document cannot
// be fetched.
var ErrRemoteUnavailable = errors.New("upstream codex is unavailable")

// ErrLocalMetadataMissing is returned when the project has no readable codex
// metadata document.
var ErrLocalMetadataMissing = errors.New("local codex metadata is missing")

// ErrLocalBehindUpstream is returned when the local codex version is older
// than upstream. The operator must update before proposing changes.
var ErrLocalBehindUpstream = errors.New("local codex version is behind upstream")

// ErrStagingFailed is returned when local changes cannot be staged into the
// proposal workspace or the change summary cannot be computed.
var ErrStagingFailed = errors.New("failed to stage local changes")

// ErrCommitFailed is returned when the staged proposal cannot be committed.
var ErrCommitFailed = errors.New("failed to commit proposal")

// ErrPublishFailed is returned when the committed proposal cannot be pushed or
// the pull request cannot be opened.
var ErrPublishFailed = errors.New("failed to publish proposal")

// wrap attaches a sentinel to a collaborator error while keeping both
// checkable with errors.Is.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
