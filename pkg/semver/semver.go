// Package semver implements the strict three-component version grammar used by
// codex metadata, plus comparison and bump planning.
//
// The grammar is deliberately narrower than full semantic versioning: exactly
// "<major>.<minor>.<patch>" with non-negative integers and no prerelease or
// build metadata. Parsing is backed by Masterminds/semver so numeric handling
// (leading zeros, overflow) matches the wider ecosystem.
package semver

import (
	"errors"
	"fmt"
	"regexp"

	upstream "github.com/Masterminds/semver/v3"
)

// ErrInvalidVersionFormat is returned when a version string is not three
// dot-separated non-negative integers.
var ErrInvalidVersionFormat = errors.New("invalid version format, expected MAJOR.MINOR.PATCH")

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Version is an immutable (major, minor, patch) triple. The zero value is
// version 0.0.0. Bumps produce a new Version rather than mutating.
type Version struct {
	major uint64
	minor uint64
	patch uint64
}

// New constructs a Version from its three components.
func New(major, minor, patch uint64) Version {
	return Version{major: major, minor: minor, patch: patch}
}

// Parse parses a strict "X.Y.Z" version string. Anything else, including
// partial versions like "1.2", prerelease suffixes, or non-numeric components,
// fails with ErrInvalidVersionFormat.
func Parse(s string) (Version, error) {
	if !versionPattern.MatchString(s) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, s)
	}
	v, err := upstream.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, s)
	}
	return Version{major: v.Major(), minor: v.Minor(), patch: v.Patch()}, nil
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.patch }

// String renders the canonical "X.Y.Z" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v Version) toUpstream() *upstream.Version {
	return upstream.New(v.major, v.minor, v.patch, "", "")
}

// Compare returns -1, 0, or 1 when a is less than, equal to, or greater than
// b. Components are compared with (major, minor, patch) priority, giving a
// strict total order.
func Compare(a, b Version) int {
	return a.toUpstream().Compare(b.toUpstream())
}

// Less reports whether a orders strictly before b.
func Less(a, b Version) bool {
	return Compare(a, b) < 0
}
