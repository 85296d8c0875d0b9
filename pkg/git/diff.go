package git

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/fork-base/codexsync/pkg/classify"
	"github.com/fork-base/codexsync/pkg/codex"
)

// Summarize computes the change summary for the repository at dir, scoped to
// the codex directory: local content overlaid on the upstream baseline, diffed
// against HEAD. File sets come from the go-git worktree status; line deltas
// from line-level diffs of HEAD blobs against worktree content. Paths in the
// summary are relative to the codex directory and sorted.
func Summarize(dir, codexDir string, ign *gitignore.GitIgnore) (classify.Summary, error) {
	var summary classify.Summary

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return summary, fmt.Errorf("failed to open workspace repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return summary, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return summary, fmt.Errorf("failed to get worktree status: %w", err)
	}
	baseline, err := headTree(repo)
	if err != nil {
		return summary, err
	}

	prefix := filepath.ToSlash(codexDir) + "/"
	for path, st := range status {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rel := strings.TrimPrefix(path, prefix)
		if codex.Excluded(ign, rel) {
			continue
		}

		switch worktreeCode(st) {
		case gogit.Untracked, gogit.Added:
			content, err := readWorktreeFile(wt, path)
			if err != nil {
				return classify.Summary{}, err
			}
			summary.Added = append(summary.Added, rel)
			summary.Insertions += countLines(content)
		case gogit.Deleted:
			old, err := blobContent(baseline, path)
			if err != nil {
				return classify.Summary{}, err
			}
			summary.Removed = append(summary.Removed, rel)
			summary.Deletions += countLines(old)
		case gogit.Modified:
			old, err := blobContent(baseline, path)
			if err != nil {
				return classify.Summary{}, err
			}
			content, err := readWorktreeFile(wt, path)
			if err != nil {
				return classify.Summary{}, err
			}
			ins, del := lineDelta(old, content)
			summary.Modified = append(summary.Modified, rel)
			summary.Insertions += ins
			summary.Deletions += del
		}
	}

	sort.Strings(summary.Added)
	sort.Strings(summary.Removed)
	sort.Strings(summary.Modified)
	return summary, nil
}

// worktreeCode picks the effective status code for an unstaged workspace.
// go-git reports untracked files in both columns; staged codes only appear if
// something ran git add, which the staging flow does not.
func worktreeCode(st *gogit.FileStatus) gogit.StatusCode {
	if st.Worktree != gogit.Unmodified {
		return st.Worktree
	}
	return st.Staging
}

func headTree(repo *gogit.Repository) (*object.Tree, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD tree: %w", err)
	}
	return tree, nil
}

func blobContent(tree *object.Tree, path string) (string, error) {
	file, err := tree.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from baseline: %w", path, err)
	}
	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s from baseline: %w", path, err)
	}
	return content, nil
}

// readWorktreeFile goes through the worktree's billy filesystem so summaries
// work for in-memory repositories as well as on-disk clones.
func readWorktreeFile(wt *gogit.Worktree, path string) (string, error) {
	data, err := util.ReadFile(wt.Filesystem, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from workspace: %w", path, err)
	}
	return string(data), nil
}

// lineDelta counts inserted and deleted lines between two file contents using
// a line-level diff.
func lineDelta(old, new string) (insertions, deletions int) {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			insertions += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			deletions += countLines(d.Text)
		}
	}
	return insertions, deletions
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
