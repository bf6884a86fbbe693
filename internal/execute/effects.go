package execute

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bianoble/envsel/internal/config"
)

// Shell builds a Command that runs a script through the user's shell.
type Shell interface {
	Command(script string) Command
}

// Apply runs the setup half of each effect in order. env is passed to every
// command. The first failure stops the sequence.
func Apply(ctx context.Context, runner Runner, sh Shell, effects []config.SideEffect, env []string) error {
	for i, effect := range effects {
		if effect.Setup == nil {
			continue
		}
		log.Debug().Int("index", i).Str("command", effect.Setup.String()).Msg("Running setup")
		if err := runEffect(ctx, runner, sh, effect.Setup, env); err != nil {
			return fmt.Errorf("setup %s: %w", effect.Setup, err)
		}
	}
	return nil
}

// Revert runs the teardown half of each effect in reverse order, so the
// last thing set up is the first thing torn down.
func Revert(ctx context.Context, runner Runner, sh Shell, effects []config.SideEffect, env []string) error {
	for i := len(effects) - 1; i >= 0; i-- {
		effect := effects[i]
		if effect.Teardown == nil {
			continue
		}
		log.Debug().Int("index", i).Str("command", effect.Teardown.String()).Msg("Running teardown")
		if err := runEffect(ctx, runner, sh, effect.Teardown, env); err != nil {
			return fmt.Errorf("teardown %s: %w", effect.Teardown, err)
		}
	}
	return nil
}

func runEffect(ctx context.Context, runner Runner, sh Shell, c *config.SideEffectCommand, env []string) error {
	var cmd Command
	switch {
	case len(c.Native) > 0:
		cmd = Command{Program: c.Native[0], Args: c.Native[1:]}
	case c.Native != nil:
		return fmt.Errorf("empty command")
	default:
		cmd = sh.Command(c.Shell)
	}
	cmd.Env = env

	code, err := runner.Run(ctx, cmd)
	return Check(cmd.Program, code, err)
}
