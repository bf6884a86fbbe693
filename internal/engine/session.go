package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/environment"
	"github.com/bianoble/envsel/internal/execute"
	"github.com/bianoble/envsel/internal/kube"
)

// Session runs the export pipeline for one profile: pre-export setup,
// value resolution, post-export setup and, for Run, the command and the
// teardowns.
type Session struct {
	Shell    execute.Shell
	Runner   execute.Runner
	Resolver *environment.Resolver
}

// NewSession returns a session whose resolver runs commands with the same
// shell and runner as the side effects. kc may be nil.
func NewSession(sh execute.Shell, runner execute.Runner, kc kube.Client) *Session {
	return &Session{
		Shell:  sh,
		Runner: runner,
		Resolver: &environment.Resolver{
			Shell:  sh,
			Runner: runner,
			Kube:   kc,
		},
	}
}

// Load applies pre-export setups with no extra environment, resolves the
// profile, then applies post-export setups with the resolved environment.
func (s *Session) Load(ctx context.Context, profile *config.Profile) (*environment.Environment, error) {
	if err := execute.Apply(ctx, s.Runner, s.Shell, profile.PreExport, nil); err != nil {
		return nil, fmt.Errorf("pre-export: %w", err)
	}

	env, err := s.Resolver.Resolve(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := execute.Apply(ctx, s.Runner, s.Shell, profile.PostExport, env.Pairs()); err != nil {
		return nil, fmt.Errorf("post-export: %w", err)
	}
	return env, nil
}

// Run loads the profile, runs argv through the shell inside its
// environment, then reverts post-export effects (with the environment)
// followed by pre-export effects (without it). A non-zero exit from argv is
// an *ExitCodeError, reported after the teardowns have run.
func (s *Session) Run(ctx context.Context, profile *config.Profile, argv []string) error {
	env, err := s.Load(ctx, profile)
	if err != nil {
		return err
	}

	cmd := s.Shell.Command(strings.Join(argv, " "))
	cmd.Env = env.Pairs()
	log.Debug().Strs("argv", argv).Msg("Running command in environment")
	code, runErr := s.Runner.Run(ctx, cmd)

	if err := s.Revert(ctx, profile, env); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}
	if code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}

// Revert tears down a loaded profile in the reverse of the order Load set it
// up.
func (s *Session) Revert(ctx context.Context, profile *config.Profile, env *environment.Environment) error {
	if err := execute.Revert(ctx, s.Runner, s.Shell, profile.PostExport, env.Pairs()); err != nil {
		return fmt.Errorf("post-export: %w", err)
	}
	if err := execute.Revert(ctx, s.Runner, s.Shell, profile.PreExport, nil); err != nil {
		return fmt.Errorf("pre-export: %w", err)
	}
	return nil
}
