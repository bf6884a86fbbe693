package config

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/envsel/internal/ordered"
)

// Value source kinds as spelled in the `type` field.
const (
	TypeLiteral    = "literal"
	TypeFile       = "file"
	TypeCommand    = "command"
	TypeShell      = "shell"
	TypeKubernetes = "kubernetes"
)

var valueSourceTypes = []string{TypeLiteral, TypeFile, TypeCommand, TypeShell, TypeKubernetes}

// checkKeys rejects mapping keys outside allowed. Nested decodes through
// custom unmarshalers do not inherit yaml.Decoder.KnownFields, so unknown
// fields are checked here instead.
func checkKeys(node *yaml.Node, what string, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", node.Line, what)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown field '%s' in %s — expected one of: %s",
				key.Line, key.Value, what, strings.Join(allowed, ", "))
		}
	}
	return nil
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "config", "applications"); err != nil {
		return err
	}
	type plain Config
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Applications == nil {
		p.Applications = ordered.New[Name, *Application]()
	}
	for name, app := range p.Applications.All() {
		if app == nil {
			p.Applications.Set(name, NewApplication())
		}
	}
	*c = Config(p)
	return nil
}

func (a *Application) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "application", "profiles"); err != nil {
		return err
	}
	type plain Application
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Profiles == nil {
		p.Profiles = ordered.New[Name, *Profile]()
	}
	for name, profile := range p.Profiles.All() {
		if profile == nil {
			p.Profiles.Set(name, NewProfile())
		}
	}
	*a = Application(p)
	return nil
}

func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "profile", "extends", "variables", "pre_export", "post_export"); err != nil {
		return err
	}
	type plain Profile
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	if out.Variables == nil {
		out.Variables = ordered.New[string, ValueSource]()
	}
	out.Extends = dedupeReferences(out.Extends)
	*p = Profile(out)
	return nil
}

func (e *SideEffect) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "side effect", "setup", "teardown"); err != nil {
		return err
	}
	type plain SideEffect
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*e = SideEffect(out)
	return nil
}

// UnmarshalYAML accepts a shell string or a [program, args...] list.
func (c *SideEffectCommand) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*c = SideEffectCommand{Shell: s}
	case yaml.SequenceNode:
		var argv []string
		if err := node.Decode(&argv); err != nil {
			return err
		}
		*c = SideEffectCommand{Native: argv}
	default:
		return fmt.Errorf("line %d: side effect command must be a string or a list", node.Line)
	}
	return nil
}

func (c SideEffectCommand) MarshalYAML() (any, error) {
	if c.Native != nil {
		return c.Native, nil
	}
	return c.Shell, nil
}

// UnmarshalYAML accepts true/false or a list of variable names.
func (m *Multiple) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return fmt.Errorf("line %d: 'multiple' must be a bool or a list of variable names", node.Line)
		}
		*m = Multiple{Enabled: enabled}
	case yaml.SequenceNode:
		var only []string
		if err := node.Decode(&only); err != nil {
			return err
		}
		*m = Multiple{Enabled: true, Only: only}
	default:
		return fmt.Errorf("line %d: 'multiple' must be a bool or a list of variable names", node.Line)
	}
	return nil
}

func (m Multiple) MarshalYAML() (any, error) {
	if len(m.Only) > 0 {
		return m.Only, nil
	}
	return m.Enabled, nil
}

// valueSourceDoc is the on-disk shape of a tagged value source. Which fields
// apply depends on Type.
type valueSourceDoc struct {
	Type        string    `yaml:"type"`
	Value       *string   `yaml:"value,omitempty"`
	Path        string    `yaml:"path,omitempty"`
	Command     yaml.Node `yaml:"command,omitempty"`
	Cwd         string    `yaml:"cwd,omitempty"`
	PodSelector string    `yaml:"pod_selector,omitempty"`
	Namespace   string    `yaml:"namespace,omitempty"`
	Container   string    `yaml:"container,omitempty"`
	Sensitive   bool      `yaml:"sensitive,omitempty"`
	Multiple    *Multiple `yaml:"multiple,omitempty"`
}

// UnmarshalYAML accepts either a bare string (a literal) or a tagged mapping.
// Kind-specific field presence is checked by Validate so that all problems in
// a document are reported together.
func (v *ValueSource) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = LiteralSource(s)
		return nil
	}

	if err := checkKeys(node, "value source",
		"type", "value", "path", "command", "cwd", "pod_selector", "namespace",
		"container", "sensitive", "multiple"); err != nil {
		return err
	}

	var doc valueSourceDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}

	out := ValueSource{Sensitive: doc.Sensitive}
	if doc.Multiple != nil {
		out.Multiple = *doc.Multiple
	}

	switch doc.Type {
	case TypeLiteral:
		lit := Literal{}
		if doc.Value != nil {
			lit.Value = *doc.Value
		}
		out.Kind = lit
	case TypeFile:
		out.Kind = File{Path: doc.Path}
	case TypeCommand:
		argv, err := decodeArgv(&doc.Command)
		if err != nil {
			return err
		}
		cmd := NativeCommand{Cwd: doc.Cwd}
		if len(argv) > 0 {
			cmd.Program, cmd.Arguments = argv[0], argv[1:]
		}
		out.Kind = cmd
	case TypeShell:
		var command string
		if !doc.Command.IsZero() {
			if err := doc.Command.Decode(&command); err != nil {
				return fmt.Errorf("line %d: shell 'command' must be a string", doc.Command.Line)
			}
		}
		out.Kind = ShellCommand{Command: command, Cwd: doc.Cwd}
	case TypeKubernetes:
		argv, err := decodeArgv(&doc.Command)
		if err != nil {
			return err
		}
		out.Kind = KubernetesCommand{
			Command:     argv,
			PodSelector: doc.PodSelector,
			Namespace:   doc.Namespace,
			Container:   doc.Container,
		}
	case "":
		return fmt.Errorf("line %d: 'type' is required — must be one of: %s", node.Line, strings.Join(valueSourceTypes, ", "))
	default:
		return fmt.Errorf("line %d: unknown value source type '%s' — must be one of: %s", node.Line, doc.Type, strings.Join(valueSourceTypes, ", "))
	}

	*v = out
	return nil
}

func decodeArgv(node *yaml.Node) ([]string, error) {
	if node.IsZero() {
		return nil, nil
	}
	var argv []string
	if err := node.Decode(&argv); err != nil {
		return nil, fmt.Errorf("line %d: 'command' must be a list of program and arguments", node.Line)
	}
	return argv, nil
}

// MarshalYAML writes bare literals as plain strings and everything else in
// tagged form.
func (v ValueSource) MarshalYAML() (any, error) {
	if lit, ok := v.Kind.(Literal); ok && !v.Sensitive && !v.Multiple.Enabled {
		return lit.Value, nil
	}

	doc := valueSourceDoc{Sensitive: v.Sensitive}
	if v.Multiple.Enabled {
		m := v.Multiple
		doc.Multiple = &m
	}

	switch k := v.Kind.(type) {
	case Literal:
		doc.Type = TypeLiteral
		doc.Value = &k.Value
	case File:
		doc.Type = TypeFile
		doc.Path = k.Path
	case NativeCommand:
		doc.Type = TypeCommand
		doc.Cwd = k.Cwd
		if err := doc.Command.Encode(append([]string{k.Program}, k.Arguments...)); err != nil {
			return nil, err
		}
	case ShellCommand:
		doc.Type = TypeShell
		doc.Cwd = k.Cwd
		if err := doc.Command.Encode(k.Command); err != nil {
			return nil, err
		}
	case KubernetesCommand:
		doc.Type = TypeKubernetes
		doc.PodSelector = k.PodSelector
		doc.Namespace = k.Namespace
		doc.Container = k.Container
		if err := doc.Command.Encode(k.Command); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("value source has no kind")
	}
	return doc, nil
}

func dedupeReferences(refs []ProfileReference) []ProfileReference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]ProfileReference, 0, len(refs))
	for _, r := range refs {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
