// Package execute runs subprocesses for value sources and side effects.
package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

// Command is a program invocation. Env holds KEY=VALUE pairs layered on top
// of the current process environment; later entries win.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// CommandError reports a command that ran but exited non-zero.
type CommandError struct {
	Program  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed with exit code %d", e.Program, e.ExitCode)
}

// Runner spawns processes.
type Runner interface {
	// Output runs cmd and returns its standard output with trailing
	// whitespace removed. Standard error is forwarded, not captured. A
	// non-zero exit is a *CommandError.
	Output(ctx context.Context, cmd Command) (string, error)

	// Run runs cmd attached to the terminal and returns its exit code. The
	// error is non-nil only if the process could not be run at all.
	Run(ctx context.Context, cmd Command) (int, error)
}

// OSRunner implements Runner with os/exec. Nil streams default to the
// process's own.
type OSRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r *OSRunner) Output(ctx context.Context, cmd Command) (string, error) {
	c := r.command(ctx, cmd)
	var stdout bytes.Buffer
	c.Stdout = &stdout

	log.Debug().Str("command", cmd.String()).Str("dir", cmd.Dir).Msg("Running command")
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandError{Program: cmd.Program, ExitCode: exitErr.ExitCode()}
		}
		return "", fmt.Errorf("running %s: %w", cmd.Program, err)
	}
	return TrimOutput(stdout.String()), nil
}

func (r *OSRunner) Run(ctx context.Context, cmd Command) (int, error) {
	c := r.command(ctx, cmd)
	c.Stdout = r.stdout()

	log.Debug().Str("command", cmd.String()).Str("dir", cmd.Dir).Msg("Running command")
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %s: %w", cmd.Program, err)
	}
	return 0, nil
}

func (r *OSRunner) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdin = r.Stdin
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return c
}

func (r *OSRunner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

// TrimOutput removes trailing whitespace, including the final newline most
// programs print. Leading whitespace is significant and kept.
func TrimOutput(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Check turns a non-zero exit code from Runner.Run into a *CommandError.
func Check(program string, code int, err error) error {
	if err != nil {
		return err
	}
	if code != 0 {
		return &CommandError{Program: program, ExitCode: code}
	}
	return nil
}
