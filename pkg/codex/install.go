package codex

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is the optional ignore list at the codex root. Paths matching its
// patterns are excluded from staging, change summaries, and update copies.
const IgnoreFile = ".codexignore"

// DefaultMetadataFile is the default name of the versioned metadata document
// inside the codex directory.
const DefaultMetadataFile = "CODEX.md"

// LoadIgnore compiles the codex ignore file if one exists. A missing file is
// not an error; it yields a nil matcher that excludes nothing.
func LoadIgnore(codexDir string) (*gitignore.GitIgnore, error) {
	path := filepath.Join(codexDir, IgnoreFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	ign, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", IgnoreFile, err)
	}
	return ign, nil
}

// Excluded reports whether a codex-relative path is filtered out by the ignore
// matcher. The ignore file itself is always excluded so a project-local ignore
// list never shows up as a proposed addition.
func Excluded(ign *gitignore.GitIgnore, rel string) bool {
	if rel == IgnoreFile {
		return true
	}
	return ign != nil && ign.MatchesPath(rel)
}

// CopyDir copies the codex content rooted at src into dst, creating dst if
// needed. Paths excluded by the ignore matcher are skipped. File modes are
// preserved; symlinks are not followed and are skipped.
func CopyDir(src, dst string, ign *gitignore.GitIgnore) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(dst, 0o755)
		}
		if Excluded(ign, filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

// ClearDir removes every entry beneath dir without removing dir itself, so a
// seeded workspace can be re-populated from local content in place. Entries
// excluded by the ignore matcher are left alone.
func ClearDir(dir string, ign *gitignore.GitIgnore) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if Excluded(ign, entry.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
