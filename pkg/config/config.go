// Package config loads and saves the project-level codexsync configuration,
// stored as JSON under .codexsync/ in the project root.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the per-project directory holding configuration, logs, and backups.
const Dir = ".codexsync"

const fileName = "config.json"

// Defaults for a freshly initialized project.
const (
	DefaultCodexDir     = "codex"
	DefaultMetadataFile = "CODEX.md"
	DefaultBaseBranch   = "main"
)

// Config is the project-specific configuration.
type Config struct {
	UpstreamURL  string `json:"upstream_url"`
	CodexDir     string `json:"codex_dir"`
	MetadataFile string `json:"metadata_file"`
	BaseBranch   string `json:"base_branch"`
}

func (c *Config) applyDefaults() {
	if c.CodexDir == "" {
		c.CodexDir = DefaultCodexDir
	}
	if c.MetadataFile == "" {
		c.MetadataFile = DefaultMetadataFile
	}
	if c.BaseBranch == "" {
		c.BaseBranch = DefaultBaseBranch
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.UpstreamURL == "" {
		return fmt.Errorf("upstream_url is not set; run \"codexsync init\"")
	}
	return nil
}

// Path returns the config file location under the given project root.
func Path(root string) string {
	return filepath.Join(root, Dir, fileName)
}

// Load reads the project configuration from root. Missing optional fields are
// filled with defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the configuration atomically: temp file in the same directory,
// then rename.
func (c *Config) Save(root string) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", Dir, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Exists reports whether a config file is present under root.
func Exists(root string) bool {
	_, err := os.Stat(Path(root))
	return err == nil
}

// Init interactively creates a configuration at root, reading answers from in
// and writing prompts to out. Defaults are offered for everything except the
// upstream URL, which is required.
func Init(root string, in io.Reader, out io.Writer) (*Config, error) {
	reader := bufio.NewReader(in)
	cfg := &Config{}

	upstream, err := ask(reader, out, "Upstream template repository URL", "")
	if err != nil {
		return nil, err
	}
	if upstream == "" {
		return nil, fmt.Errorf("upstream URL is required")
	}
	cfg.UpstreamURL = upstream

	if cfg.CodexDir, err = ask(reader, out, "Codex directory", DefaultCodexDir); err != nil {
		return nil, err
	}
	if cfg.MetadataFile, err = ask(reader, out, "Metadata file", DefaultMetadataFile); err != nil {
		return nil, err
	}
	if cfg.BaseBranch, err = ask(reader, out, "Upstream base branch", DefaultBaseBranch); err != nil {
		return nil, err
	}

	if err := cfg.Save(root); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ask(reader *bufio.Reader, out io.Writer, prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(out, "%s: ", prompt)
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return def, nil
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}
