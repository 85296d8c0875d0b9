package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// HasGH reports whether the gh CLI is on PATH. Publishing a proposal requires
// it; everything up to commit works without it.
func HasGH() bool {
	_, err := exec.LookPath("gh")
	return err == nil
}

// CreatePullRequest opens a pull request for the current branch of the
// repository at dir against the given base branch. It returns the pull
// request URL printed by gh. Failures surface gh's stderr verbatim.
func CreatePullRequest(ctx context.Context, dir, title, body, base string) (string, error) {
	args := []string{"pr", "create", "--title", title, "--body", body}
	if base != "" {
		args = append(args, "--base", base)
	}
	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gh pr create failed: %s", strings.TrimSpace(string(out)))
	}
	// gh prints the PR URL as the last line of output.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1]), nil
}
