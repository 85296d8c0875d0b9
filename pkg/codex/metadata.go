// Package codex handles the versioned codex artifact directory: the metadata
// document carrying the codex version marker, and copying codex content with
// .codexignore filtering.
package codex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fork-base/codexsync/pkg/semver"
)

// VersionMarker is the prefix of the single metadata line carrying the codex
// version. The full line has the form "Codex Version: X.Y.Z".
const VersionMarker = "Codex Version:"

// ErrMetadataMissing is returned when a metadata document has no version
// marker line.
var ErrMetadataMissing = errors.New("metadata document has no \"Codex Version:\" line")

// ErrMalformedVersion is returned when the marker line is present but its
// value is not a valid X.Y.Z version.
var ErrMalformedVersion = errors.New("malformed codex version")

// ParseMetadata extracts the codex version from a metadata document. The
// document is plain text with a single line of the form "Codex Version:
// X.Y.Z"; all other lines are opaque.
func ParseMetadata(document string) (semver.Version, error) {
	line, ok := findMarkerLine(document)
	if !ok {
		return semver.Version{}, ErrMetadataMissing
	}
	raw := markerValue(line)
	if raw == "" {
		return semver.Version{}, fmt.Errorf("%w: empty value", ErrMalformedVersion)
	}
	v, err := semver.Parse(raw)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
	}
	return v, nil
}

// WriteMetadata returns a copy of the document with the version marker value
// replaced. Every other byte of the document is preserved, so a round trip
// through ParseMetadata yields the written version and nothing else moves.
func WriteMetadata(document string, v semver.Version) (string, error) {
	lines := strings.Split(document, "\n")
	for i, line := range lines {
		if !isMarkerLine(line) {
			continue
		}
		// Keep any leading indentation and a possible \r from CRLF endings.
		trailing := ""
		if strings.HasSuffix(line, "\r") {
			trailing = "\r"
		}
		prefix := line[:strings.Index(line, VersionMarker)+len(VersionMarker)]
		lines[i] = prefix + " " + v.String() + trailing
		return strings.Join(lines, "\n"), nil
	}
	return "", ErrMetadataMissing
}

func findMarkerLine(document string) (string, bool) {
	for _, line := range strings.Split(document, "\n") {
		if isMarkerLine(line) {
			return line, true
		}
	}
	return "", false
}

func isMarkerLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), VersionMarker)
}

func markerValue(line string) string {
	idx := strings.Index(line, VersionMarker)
	return strings.TrimSpace(line[idx+len(VersionMarker):])
}
