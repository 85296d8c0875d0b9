package semver

import (
	"github.com/fork-base/codexsync/pkg/classify"
)

// Next computes the version a bump category proposes from the current one.
// Minor bumps reset patch to zero; patch bumps increment it. No bump category
// ever touches the major component.
func Next(current Version, b classify.Bump) Version {
	switch b {
	case classify.BumpMinor:
		return New(current.major, current.minor+1, 0)
	default:
		return New(current.major, current.minor, current.patch+1)
	}
}

// ParseOverride validates an operator-supplied replacement for a proposed
// version. It accepts exactly the strict "X.Y.Z" grammar and fails with
// ErrInvalidVersionFormat otherwise; malformed input is never corrected.
func ParseOverride(s string) (Version, error) {
	return Parse(s)
}
