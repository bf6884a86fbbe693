// Package environment resolves a profile's value sources into concrete
// variable bindings.
package environment

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/bianoble/envsel/internal/ordered"
)

// maskChar replaces each character of a sensitive value in display output.
const maskChar = "*"

// ResolvedValue is one concrete binding.
type ResolvedValue struct {
	Value     string
	Sensitive bool
}

// Display returns the value for printing: sensitive values are masked with
// one mask character per character of the real value.
func (v ResolvedValue) Display() string {
	if v.Sensitive {
		return strings.Repeat(maskChar, utf8.RuneCountInString(v.Value))
	}
	return v.Value
}

// Environment is an ordered set of resolved bindings.
type Environment struct {
	vars *ordered.Map[string, ResolvedValue]
}

// New returns an empty environment.
func New() *Environment {
	return &Environment{vars: ordered.New[string, ResolvedValue]()}
}

// Set binds name. Rebinding keeps the original position.
func (e *Environment) Set(name string, v ResolvedValue) {
	e.vars.Set(name, v)
}

func (e *Environment) Get(name string) (ResolvedValue, bool) {
	return e.vars.Get(name)
}

func (e *Environment) Len() int {
	return e.vars.Len()
}

// Names returns the variable names in binding order.
func (e *Environment) Names() []string {
	return e.vars.Keys()
}

// All iterates bindings in order.
func (e *Environment) All() iter.Seq2[string, ResolvedValue] {
	return e.vars.All()
}

// Pairs renders unmasked NAME=value pairs for a process environment.
func (e *Environment) Pairs() []string {
	if e == nil {
		return nil
	}
	pairs := make([]string, 0, e.vars.Len())
	for name, v := range e.vars.All() {
		pairs = append(pairs, name+"="+v.Value)
	}
	return pairs
}

// String renders masked "NAME = value" lines.
func (e *Environment) String() string {
	var b strings.Builder
	for name, v := range e.vars.All() {
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(v.Display())
		b.WriteString("\n")
	}
	return b.String()
}
