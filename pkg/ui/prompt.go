// Package ui implements the interactive prompts codexsync needs: version
// confirmation and pull-request body input. Prompts are pull-based readers so
// tests can drive them with scripted input.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fork-base/codexsync/pkg/semver"
	"github.com/fork-base/codexsync/pkg/workflow"
)

// Prompter reads operator decisions from in and writes prompts to out. It
// implements workflow.Prompter.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer

	// AssumeYes accepts every proposal without asking. Set for --yes runs
	// and when stdin is not a terminal.
	AssumeYes bool
}

// NewPrompter builds a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(in), out: out}
}

// NewTerminalPrompter builds a prompter over stdin/stdout, auto-accepting when
// stdin is not a TTY.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		p.AssumeYes = true
	}
	return p
}

// ConfirmVersion shows the proposed version and reads the operator's answer.
// An empty line or "y" accepts; anything else is treated as an override
// version string, validated by the workflow (which asks again on malformed
// input).
func (p *Prompter) ConfirmVersion(proposed semver.Version) (workflow.Decision, error) {
	if p.AssumeYes {
		return workflow.Decision{Accept: true}, nil
	}
	fmt.Fprintf(p.out, "Proposed codex version: %s\n", proposed)
	fmt.Fprint(p.out, "Accept, or enter a different version (X.Y.Z) [Y]: ")
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		// EOF with no pending input: accept the proposal rather than loop.
		return workflow.Decision{Accept: true}, nil
	}
	answer := strings.TrimSpace(line)
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return workflow.Decision{Accept: true}, nil
	default:
		return workflow.Decision{Override: answer}, nil
	}
}

// ReadBody collects a multi-line pull-request body, terminated by a line
// containing only "." or by EOF.
func (p *Prompter) ReadBody() (string, error) {
	if p.AssumeYes {
		return "", nil
	}
	fmt.Fprintln(p.out, "Describe the proposed changes (end with a line containing only \".\"):")
	var lines []string
	for {
		line, err := p.reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			break
		}
		if line != "" {
			lines = append(lines, trimmed)
		}
		if err != nil {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}
