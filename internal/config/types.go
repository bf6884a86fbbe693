package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bianoble/envsel/internal/ordered"
)

// Config is the merged set of applications loaded from one or more
// .envsel.yaml files.
type Config struct {
	Applications *ordered.Map[Name, *Application] `yaml:"applications"`
}

// Application groups related profiles, e.g. dev and prd of one service.
type Application struct {
	Profiles *ordered.Map[Name, *Profile] `yaml:"profiles"`
}

// Profile is a set of variable bindings, optionally inheriting from other
// profiles.
type Profile struct {
	// Extends lists parent profiles, lowest precedence first. Entries are
	// unique and keep declaration order.
	Extends []ProfileReference `yaml:"extends,omitempty"`

	Variables *ordered.Map[string, ValueSource] `yaml:"variables,omitempty"`

	// PreExport effects run before values are resolved; PostExport effects
	// run after, with the resolved environment.
	PreExport  []SideEffect `yaml:"pre_export,omitempty"`
	PostExport []SideEffect `yaml:"post_export,omitempty"`
}

// NewConfig returns an empty config.
func NewConfig() *Config {
	return &Config{Applications: ordered.New[Name, *Application]()}
}

// NewApplication returns an application with no profiles.
func NewApplication() *Application {
	return &Application{Profiles: ordered.New[Name, *Profile]()}
}

// NewProfile returns a profile with no parents, variables or effects.
func NewProfile() *Profile {
	return &Profile{Variables: ordered.New[string, ValueSource]()}
}

// Clone deep-copies the profile so it can be merged into another without
// aliasing slices.
func (p *Profile) Clone() *Profile {
	out := &Profile{
		Extends:    slices.Clone(p.Extends),
		Variables:  ordered.New[string, ValueSource](),
		PreExport:  cloneEffects(p.PreExport),
		PostExport: cloneEffects(p.PostExport),
	}
	for k, v := range p.Variables.All() {
		out.Variables.Set(k, v.Clone())
	}
	return out
}

// Lookup returns the profile a qualified reference points at.
func (c *Config) Lookup(ref ProfileReference) (*Profile, bool) {
	app, ok := c.Applications.Get(ref.Application)
	if !ok {
		return nil, false
	}
	return app.Profiles.Get(ref.Profile)
}

// ValueSource describes how to obtain the value of one variable.
type ValueSource struct {
	Kind ValueSourceKind

	// Sensitive values are masked in display output. Exported values are
	// never masked.
	Sensitive bool

	// Multiple treats the resolved string as a KEY=value block of bindings
	// instead of one value.
	Multiple Multiple
}

// LiteralSource builds a plain, non-sensitive literal.
func LiteralSource(value string) ValueSource {
	return ValueSource{Kind: Literal{Value: value}}
}

// Clone deep-copies the source.
func (v ValueSource) Clone() ValueSource {
	out := v
	out.Multiple.Only = slices.Clone(v.Multiple.Only)
	switch k := v.Kind.(type) {
	case NativeCommand:
		k.Arguments = slices.Clone(k.Arguments)
		out.Kind = k
	case KubernetesCommand:
		k.Command = slices.Clone(k.Command)
		out.Kind = k
	}
	return out
}

func (v ValueSource) String() string {
	if v.Kind == nil {
		return "<unset>"
	}
	return v.Kind.String()
}

// Multiple configures multi-variable loading for a value source.
type Multiple struct {
	Enabled bool
	// Only, when non-empty, restricts loading to the listed variable names.
	Only []string
}

// Includes reports whether a variable from a multi-value block is kept.
func (m Multiple) Includes(variable string) bool {
	if !m.Enabled {
		return false
	}
	return len(m.Only) == 0 || slices.Contains(m.Only, variable)
}

// ValueSourceKind is one of Literal, File, NativeCommand, ShellCommand or
// KubernetesCommand. The set is closed.
type ValueSourceKind interface {
	fmt.Stringer
	kindName() string
}

// Literal is a fixed string value.
type Literal struct {
	Value string
}

// File loads its value from a file. Path is relative to the declaring
// config file until the config is qualified.
type File struct {
	Path string
}

// NativeCommand runs a program directly, without a shell.
type NativeCommand struct {
	Program   string
	Arguments []string
	// Cwd is the working directory; empty inherits the current one.
	Cwd string
}

// ShellCommand runs through the user's shell with -c.
type ShellCommand struct {
	Command string
	Cwd     string
}

// KubernetesCommand runs a program inside a pod matching PodSelector.
type KubernetesCommand struct {
	Command     []string
	PodSelector string
	// Namespace and Container are optional; empty means the kubeconfig's
	// current namespace and the pod's default container.
	Namespace string
	Container string
}

func (Literal) kindName() string           { return "literal" }
func (File) kindName() string              { return "file" }
func (NativeCommand) kindName() string     { return "command" }
func (ShellCommand) kindName() string      { return "shell" }
func (KubernetesCommand) kindName() string { return "kubernetes" }

func (k Literal) String() string { return fmt.Sprintf("%q", k.Value) }
func (k File) String() string    { return k.Path }

func (k NativeCommand) String() string {
	return withCwd("`"+strings.Join(append([]string{k.Program}, k.Arguments...), " ")+"`", k.Cwd)
}

func (k ShellCommand) String() string {
	return withCwd("`"+k.Command+"`", k.Cwd)
}

func (k KubernetesCommand) String() string {
	s := fmt.Sprintf("`%s` in pod %s", strings.Join(k.Command, " "), k.PodSelector)
	if k.Namespace != "" {
		s += " (namespace " + k.Namespace + ")"
	}
	return s
}

func withCwd(s, cwd string) string {
	if cwd == "" {
		return s + " (current directory)"
	}
	return s + " (" + cwd + ")"
}

// SideEffect is a setup/teardown pair. Teardown runs in the mirrored position
// of setup: a pre-export setup is torn down after the environment is cleared.
// Either half may be omitted.
type SideEffect struct {
	Setup    *SideEffectCommand `yaml:"setup,omitempty"`
	Teardown *SideEffectCommand `yaml:"teardown,omitempty"`
}

// SideEffectCommand is either a shell string or a native program + arguments.
type SideEffectCommand struct {
	Shell  string
	Native []string
}

func (c *SideEffectCommand) String() string {
	if c.Shell != "" {
		return "`" + c.Shell + "`"
	}
	return "`" + strings.Join(c.Native, " ") + "`"
}

func cloneEffects(effects []SideEffect) []SideEffect {
	if effects == nil {
		return nil
	}
	out := make([]SideEffect, len(effects))
	for i, e := range effects {
		out[i] = SideEffect{Setup: cloneEffectCommand(e.Setup), Teardown: cloneEffectCommand(e.Teardown)}
	}
	return out
}

func cloneEffectCommand(c *SideEffectCommand) *SideEffectCommand {
	if c == nil {
		return nil
	}
	return &SideEffectCommand{Shell: c.Shell, Native: slices.Clone(c.Native)}
}
