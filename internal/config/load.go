package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, validates and qualifies a single config file. Relative paths
// and references in the file are made absolute against its location.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Path: path, Errors: errs}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}
	Qualify(cfg, abs)

	return cfg, nil
}

// Parse decodes a config document without validating or qualifying it.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Applications == nil {
		return NewConfig(), nil
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	prefix := "config validation failed"
	if e.Path != "" {
		prefix = fmt.Sprintf("config %s validation failed", e.Path)
	}
	return fmt.Sprintf("%s:\n  - %s", prefix, strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	for appName, app := range cfg.Applications.All() {
		for profileName, profile := range app.Profiles.All() {
			prefix := fmt.Sprintf("profile '%s/%s'", appName, profileName)

			for variable, source := range profile.Variables.All() {
				errs = append(errs, validateSource(source, fmt.Sprintf("%s variable '%s'", prefix, variable))...)
			}

			for i, effect := range profile.PreExport {
				errs = append(errs, validateEffect(effect, fmt.Sprintf("%s pre_export[%d]", prefix, i))...)
			}
			for i, effect := range profile.PostExport {
				errs = append(errs, validateEffect(effect, fmt.Sprintf("%s post_export[%d]", prefix, i))...)
			}
		}
	}

	return errs
}

func validateSource(src ValueSource, prefix string) []string {
	var errs []string

	switch k := src.Kind.(type) {
	case Literal:
		// any value, including empty, is valid
	case File:
		if k.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'file' requires 'path' — add 'path: ./relative/file' to the variable definition", prefix))
		}
	case NativeCommand:
		if k.Program == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'command' requires 'command' — add 'command: [program, arg1, ...]' to the variable definition", prefix))
		}
	case ShellCommand:
		if strings.TrimSpace(k.Command) == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'shell' requires 'command' — add 'command: \"echo ...\"' to the variable definition", prefix))
		}
	case KubernetesCommand:
		if len(k.Command) == 0 {
			errs = append(errs, fmt.Sprintf("%s: type 'kubernetes' requires 'command' — add 'command: [program, arg1, ...]' to the variable definition", prefix))
		}
		if k.PodSelector == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'kubernetes' requires 'pod_selector' — add 'pod_selector: app=name' to the variable definition", prefix))
		}
	case nil:
		errs = append(errs, fmt.Sprintf("%s: value source has no type", prefix))
	}

	if src.Multiple.Enabled {
		for _, name := range src.Multiple.Only {
			if strings.TrimSpace(name) == "" {
				errs = append(errs, fmt.Sprintf("%s: 'multiple' contains an empty variable name", prefix))
			}
		}
	}

	return errs
}

func validateEffect(effect SideEffect, prefix string) []string {
	var errs []string
	if effect.Setup == nil && effect.Teardown == nil {
		errs = append(errs, fmt.Sprintf("%s: at least one of 'setup' or 'teardown' is required", prefix))
	}
	for _, c := range []*SideEffectCommand{effect.Setup, effect.Teardown} {
		if c == nil {
			continue
		}
		if c.Native != nil && len(c.Native) == 0 {
			errs = append(errs, fmt.Sprintf("%s: command list must not be empty", prefix))
		}
		if c.Native == nil && strings.TrimSpace(c.Shell) == "" {
			errs = append(errs, fmt.Sprintf("%s: shell command must not be empty", prefix))
		}
	}
	return errs
}
