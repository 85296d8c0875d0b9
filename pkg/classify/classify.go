// Package classify ranks a set of codex file changes into a semantic-version
// bump category. It is pure decision logic: no I/O, no logging.
package classify

// Bump is the version increment class selected for a set of changes.
type Bump int

const (
	// BumpPatch is a patch-level increment for small content edits.
	BumpPatch Bump = iota
	// BumpMinor is a minor-level increment for structural or sizeable changes.
	BumpMinor
)

// String returns the lowercase name of the bump category.
func (b Bump) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// lineChangeThreshold is the policy constant separating patch-sized content
// edits from minor-sized ones. Changes touching more than this many lines in
// total are classified as minor.
const lineChangeThreshold = 10

// Summary describes a diff between the staged proposal workspace and the
// upstream baseline, scoped to the codex directory. File paths are relative to
// the codex root. It is computed once per workflow run and read-only afterward.
type Summary struct {
	Added      []string
	Removed    []string
	Modified   []string
	Insertions int
	Deletions  int
}

// Empty reports whether the summary records no changes at all. An empty
// summary short-circuits the workflow before classification runs.
func (s Summary) Empty() bool {
	return len(s.Added) == 0 && len(s.Removed) == 0 && len(s.Modified) == 0 &&
		s.Insertions == 0 && s.Deletions == 0
}

// TotalLines returns the combined insertion and deletion count.
func (s Summary) TotalLines() int {
	return s.Insertions + s.Deletions
}

// Classify selects the bump category for a change set.
//
// Files appearing or disappearing reshape the codex and always escalate to
// minor, regardless of how small they are. Pure content edits are ranked by
// total changed lines against lineChangeThreshold. A summary with modified
// files but no recorded line delta (whitespace-only edits, for example) falls
// through to patch as the safe default.
func Classify(s Summary) Bump {
	if len(s.Added) > 0 || len(s.Removed) > 0 {
		return BumpMinor
	}
	if s.Insertions == 0 && s.Deletions == 0 {
		return BumpPatch
	}
	if s.TotalLines() > lineChangeThreshold {
		return BumpMinor
	}
	return BumpPatch
}
