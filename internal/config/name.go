package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// reservedChars cannot appear in application or profile names. Only '/' has a
// meaning today (it separates the two halves of a profile reference).
const reservedChars = `\/*?!`

// Reasons a name can be rejected. Each InvalidNameError wraps exactly one.
var (
	ErrEmptyName      = errors.New("empty string")
	ErrNameWhitespace = errors.New("contains leading/trailing whitespace")
	ErrNameReserved   = fmt.Errorf("contains one of reserved characters %s", reservedChars)
)

// InvalidNameError reports an application or profile name that failed validation.
type InvalidNameError struct {
	Name   string
	Reason error
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

func (e *InvalidNameError) Unwrap() error {
	return e.Reason
}

// Name is a validated application or profile name.
type Name string

// NewName validates s and returns it as a Name.
func NewName(s string) (Name, error) {
	if s == "" {
		return "", &InvalidNameError{Name: s, Reason: ErrEmptyName}
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return "", &InvalidNameError{Name: s, Reason: ErrNameWhitespace}
	}

	if strings.ContainsAny(s, reservedChars) {
		return "", &InvalidNameError{Name: s, Reason: ErrNameReserved}
	}

	return Name(s), nil
}

func (n Name) String() string {
	return string(n)
}

// UnmarshalYAML validates names as they are decoded.
func (n *Name) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	name, err := NewName(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*n = name
	return nil
}

// ProfileReference points at a profile, optionally within a specific
// application. Text form is "[application/]profile".
type ProfileReference struct {
	// Application is empty for an unqualified reference, which is relative to
	// the application of the profile that declares it.
	Application Name
	Profile     Name
}

// ParseProfileReference parses "profile" or "application/profile". Only the
// first '/' splits; any further '/' lands in the profile half and is rejected
// by name validation.
func ParseProfileReference(s string) (ProfileReference, error) {
	app, profile, qualified := strings.Cut(s, "/")
	if !qualified {
		name, err := NewName(s)
		if err != nil {
			return ProfileReference{}, err
		}
		return ProfileReference{Profile: name}, nil
	}

	appName, err := NewName(app)
	if err != nil {
		return ProfileReference{}, err
	}
	profileName, err := NewName(profile)
	if err != nil {
		return ProfileReference{}, err
	}
	return ProfileReference{Application: appName, Profile: profileName}, nil
}

// IsQualified reports whether the reference names its application.
func (r ProfileReference) IsQualified() bool {
	return r.Application != ""
}

func (r ProfileReference) String() string {
	if r.IsQualified() {
		return string(r.Application) + "/" + string(r.Profile)
	}
	return string(r.Profile)
}

// UnmarshalYAML parses the reference text form.
func (r *ProfileReference) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	ref, err := ParseProfileReference(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid profile reference %q: %w", node.Line, s, err)
	}
	*r = ref
	return nil
}

// MarshalYAML renders the reference text form.
func (r ProfileReference) MarshalYAML() (any, error) {
	return r.String(), nil
}
