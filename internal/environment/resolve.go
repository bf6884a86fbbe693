package environment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/execute"
	"github.com/bianoble/envsel/internal/kube"
)

// pathVariable is prepended to, rather than replacing, the inherited value.
const pathVariable = "PATH"

// ErrNoKubernetes is returned for a kubernetes source when the resolver has
// no cluster client.
var ErrNoKubernetes = errors.New("no kubernetes client configured")

// Resolver turns value sources into values. Zero-valued function fields
// default to the os package.
type Resolver struct {
	Shell  execute.Shell
	Runner execute.Runner
	// Kube may be nil if no profile uses kubernetes sources.
	Kube kube.Client

	ReadFile  func(name string) ([]byte, error)
	LookupEnv func(key string) (string, bool)
}

// Resolve produces the environment for an inheritance-resolved profile.
// Sources are resolved in declared order and every command sees the
// bindings resolved before it. Any failure aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, profile *config.Profile) (*Environment, error) {
	env := New()
	for variable, source := range profile.Variables.All() {
		log.Debug().Str("variable", variable).Str("source", source.String()).Msg("Resolving variable")

		value, err := r.resolveSource(ctx, source, env)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", variable, err)
		}

		if !source.Multiple.Enabled {
			r.insert(env, variable, value, source.Sensitive)
			continue
		}

		bindings, err := parseMultiple(variable, value)
		if err != nil {
			return nil, err
		}
		for name, v := range bindings.All() {
			if !source.Multiple.Includes(name) {
				log.Debug().Str("variable", name).Str("field", variable).Msg("Skipping variable not selected by multiple")
				continue
			}
			r.insert(env, name, v, source.Sensitive)
		}
	}
	return env, nil
}

func (r *Resolver) resolveSource(ctx context.Context, source config.ValueSource, env *Environment) (string, error) {
	switch k := source.Kind.(type) {
	case config.Literal:
		return k.Value, nil

	case config.File:
		data, err := r.readFile(k.Path)
		if err != nil {
			return "", &FileReadError{Path: k.Path, Err: err}
		}
		return string(data), nil

	case config.NativeCommand:
		return r.Runner.Output(ctx, execute.Command{
			Program: k.Program,
			Args:    k.Arguments,
			Dir:     k.Cwd,
			Env:     env.Pairs(),
		})

	case config.ShellCommand:
		cmd := r.Shell.Command(k.Command)
		cmd.Dir = k.Cwd
		cmd.Env = env.Pairs()
		return r.Runner.Output(ctx, cmd)

	case config.KubernetesCommand:
		if r.Kube == nil {
			return "", ErrNoKubernetes
		}
		return kube.Run(ctx, r.Kube, kube.Target{
			PodSelector: k.PodSelector,
			Namespace:   k.Namespace,
			Container:   k.Container,
		}, k.Command)

	default:
		return "", fmt.Errorf("unsupported value source %T", source.Kind)
	}
}

// insert binds name, prepending PATH values to the inherited PATH.
func (r *Resolver) insert(env *Environment, name, value string, sensitive bool) {
	if name == pathVariable {
		if current, ok := r.lookupEnv(pathVariable); ok && current != "" {
			value = value + string(filepath.ListSeparator) + current
		}
	}
	env.Set(name, ResolvedValue{Value: value, Sensitive: sensitive})
}

func (r *Resolver) readFile(name string) ([]byte, error) {
	if r.ReadFile != nil {
		return r.ReadFile(name)
	}
	return os.ReadFile(name)
}

func (r *Resolver) lookupEnv(key string) (string, bool) {
	if r.LookupEnv != nil {
		return r.LookupEnv(key)
	}
	return os.LookupEnv(key)
}
