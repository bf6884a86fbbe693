package config

import (
	"fmt"
	"strings"
)

// UnqualifiedReferenceError means a config reached Inherit without going
// through Qualify. It indicates a bug in the caller, not a user mistake.
type UnqualifiedReferenceError struct {
	Profile   ProfileReference
	Reference ProfileReference
}

func (e *UnqualifiedReferenceError) Error() string {
	return fmt.Sprintf("profile %s extends unqualified reference %s; the config must be qualified before inheritance is resolved", e.Profile, e.Reference)
}

// InheritanceCycleError reports a loop in the extends graph. Chain starts and
// ends on the same reference.
type InheritanceCycleError struct {
	Chain []ProfileReference
}

func (e *InheritanceCycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, ref := range e.Chain {
		parts[i] = ref.String()
	}
	return "inheritance cycle detected: " + strings.Join(parts, " -> ")
}

// UnknownProfileError reports a reference to a profile that does not exist.
type UnknownProfileError struct {
	Reference ProfileReference
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown profile %s", e.Reference)
}
