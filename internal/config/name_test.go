package config

import (
	"errors"
	"testing"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"dev", nil},
		{"my app", nil},
		{"prd-2", nil},
		{"", ErrEmptyName},
		{" dev", ErrNameWhitespace},
		{"dev\t", ErrNameWhitespace},
		{"a/b", ErrNameReserved},
		{`a\b`, ErrNameReserved},
		{"a*", ErrNameReserved},
		{"a?", ErrNameReserved},
		{"a!", ErrNameReserved},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, err := NewName(tt.input)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("NewName(%q): %v", tt.input, err)
				}
				if name.String() != tt.input {
					t.Errorf("name = %q, want %q", name, tt.input)
				}
				return
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("NewName(%q) error = %v, want %v", tt.input, err, tt.want)
			}
			var invalid *InvalidNameError
			if !errors.As(err, &invalid) {
				t.Fatalf("error should be *InvalidNameError, got %T", err)
			}
			if invalid.Name != tt.input {
				t.Errorf("invalid.Name = %q, want %q", invalid.Name, tt.input)
			}
		})
	}
}

func TestParseProfileReference(t *testing.T) {
	tests := []struct {
		input     string
		want      ProfileReference
		qualified bool
	}{
		{"dev", ProfileReference{Profile: "dev"}, false},
		{"server/dev", ProfileReference{Application: "server", Profile: "dev"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProfileReference(tt.input)
			if err != nil {
				t.Fatalf("ParseProfileReference(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.IsQualified() != tt.qualified {
				t.Errorf("IsQualified() = %v, want %v", got.IsQualified(), tt.qualified)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestParseProfileReferenceInvalid(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmptyName},
		{"/dev", ErrEmptyName},
		{"server/", ErrEmptyName},
		{"a/b/c", ErrNameReserved},
		{"server/ dev", ErrNameWhitespace},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseProfileReference(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseProfileReference(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestProfileReferenceEquality(t *testing.T) {
	a := ProfileReference{Application: "x", Profile: "p"}
	b := ProfileReference{Application: "y", Profile: "p"}
	c := ProfileReference{Profile: "p"}
	if a == b || a == c || b == c {
		t.Error("references differing in application must not be equal")
	}
	if a != (ProfileReference{Application: "x", Profile: "p"}) {
		t.Error("identical references must be equal")
	}
}
