// Package shell knows how to talk to the user's interactive shell: how to run
// a command string through it and how to export variables into it.
package shell

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bianoble/envsel/internal/execute"
)

// Kind is a supported shell.
type Kind string

const (
	Bash Kind = "bash"
	Zsh  Kind = "zsh"
	Fish Kind = "fish"
)

// Kinds lists every supported shell.
var Kinds = []Kind{Bash, Zsh, Fish}

// Shell is a shell kind plus the executable used to run it.
type Shell struct {
	Kind Kind
	Path string
}

// UnsupportedShellError reports a shell envsel cannot generate code for.
type UnsupportedShellError struct {
	Name string
}

func (e *UnsupportedShellError) Error() string {
	if e.Name == "" {
		return "could not detect shell: $SHELL is not set — pass --shell with one of: bash, zsh, fish"
	}
	return fmt.Sprintf("unsupported shell '%s' — must be one of: bash, zsh, fish", e.Name)
}

// ParseKind maps a shell name or path to its Kind.
func ParseKind(name string) (Kind, error) {
	base := filepath.Base(strings.TrimSpace(name))
	for _, k := range Kinds {
		if string(k) == base {
			return k, nil
		}
	}
	return "", &UnsupportedShellError{Name: name}
}

// Parse returns the shell named by kind, located on PATH. If the executable
// cannot be found the bare name is used and resolution is left to exec.
func Parse(kind string) (*Shell, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	path, err := exec.LookPath(string(k))
	if err != nil {
		path = string(k)
	}
	return &Shell{Kind: k, Path: path}, nil
}

// Detect returns the shell named by $SHELL.
func Detect() (*Shell, error) {
	path := os.Getenv("SHELL")
	if path == "" {
		return nil, &UnsupportedShellError{}
	}
	k, err := ParseKind(path)
	if err != nil {
		return nil, err
	}
	return &Shell{Kind: k, Path: path}, nil
}

func (s *Shell) String() string {
	return fmt.Sprintf("%s (%s)", s.Kind, s.Path)
}

// Command runs script through the shell with -c.
func (s *Shell) Command(script string) execute.Command {
	return execute.Command{Program: s.Path, Args: []string{"-c", script}}
}
