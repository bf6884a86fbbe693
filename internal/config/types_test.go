package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// exampleConfig exercises every value source kind and both side effect forms.
const exampleConfig = `
applications:
  server:
    profiles:
      base:
        variables:
          LOG_LEVEL: info
      dev:
        extends: [base, shared/common]
        pre_export:
          - setup: "echo up"
            teardown: "echo down"
        post_export:
          - setup: ["docker", "compose", "up", "-d"]
        variables:
          PLAIN: hello
          TOKEN: {type: literal, value: s3cr3t, sensitive: true}
          CA: {type: file, path: ./ca.pem}
          USER: {type: command, command: [whoami], cwd: ./bin}
          B64: {type: shell, command: "echo hi | base64"}
          DB:
            type: kubernetes
            command: [printenv, DB_URL]
            pod_selector: app=api
            namespace: prod
            container: main
          _: {type: shell, command: "cat .env", multiple: true}
          ONLY: {type: file, path: vars.env, multiple: [A, B]}
  shared:
    profiles:
      common:
        variables:
          REGION: eu-west-1
`

func TestConfigParseExample(t *testing.T) {
	cfg, err := Parse([]byte(exampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got, want := cfg.Applications.Keys(), []Name{"server", "shared"}; !cmp.Equal(got, want) {
		t.Errorf("applications = %v, want %v", got, want)
	}

	dev, ok := cfg.Lookup(ProfileReference{Application: "server", Profile: "dev"})
	if !ok {
		t.Fatal("server/dev not found")
	}

	wantExtends := []ProfileReference{{Profile: "base"}, {Application: "shared", Profile: "common"}}
	if diff := cmp.Diff(wantExtends, dev.Extends); diff != "" {
		t.Errorf("extends mismatch (-want +got):\n%s", diff)
	}

	wantOrder := []string{"PLAIN", "TOKEN", "CA", "USER", "B64", "DB", "_", "ONLY"}
	if diff := cmp.Diff(wantOrder, dev.Variables.Keys()); diff != "" {
		t.Errorf("variable order mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		variable string
		want     ValueSource
	}{
		{"PLAIN", LiteralSource("hello")},
		{"TOKEN", ValueSource{Kind: Literal{Value: "s3cr3t"}, Sensitive: true}},
		{"CA", ValueSource{Kind: File{Path: "./ca.pem"}}},
		{"USER", ValueSource{Kind: NativeCommand{Program: "whoami", Arguments: []string{}, Cwd: "./bin"}}},
		{"B64", ValueSource{Kind: ShellCommand{Command: "echo hi | base64"}}},
		{"DB", ValueSource{Kind: KubernetesCommand{
			Command:     []string{"printenv", "DB_URL"},
			PodSelector: "app=api",
			Namespace:   "prod",
			Container:   "main",
		}}},
		{"_", ValueSource{Kind: ShellCommand{Command: "cat .env"}, Multiple: Multiple{Enabled: true}}},
		{"ONLY", ValueSource{Kind: File{Path: "vars.env"}, Multiple: Multiple{Enabled: true, Only: []string{"A", "B"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.variable, func(t *testing.T) {
			got, ok := dev.Variables.Get(tt.variable)
			if !ok {
				t.Fatalf("variable %s missing", tt.variable)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if len(dev.PreExport) != 1 || dev.PreExport[0].Setup.Shell != "echo up" || dev.PreExport[0].Teardown.Shell != "echo down" {
		t.Errorf("pre_export = %+v", dev.PreExport)
	}
	if len(dev.PostExport) != 1 || dev.PostExport[0].Teardown != nil {
		t.Fatalf("post_export = %+v", dev.PostExport)
	}
	if diff := cmp.Diff([]string{"docker", "compose", "up", "-d"}, dev.PostExport[0].Setup.Native); diff != "" {
		t.Errorf("post_export setup mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	original, err := Parse([]byte(exampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	roundTripped, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, data)
	}

	ref := ProfileReference{Application: "server", Profile: "dev"}
	want, _ := original.Lookup(ref)
	got, ok := roundTripped.Lookup(ref)
	if !ok {
		t.Fatalf("%s lost in round trip", ref)
	}
	if diff := cmp.Diff(want.Variables.Keys(), got.Variables.Keys()); diff != "" {
		t.Errorf("variable order changed (-want +got):\n%s", diff)
	}
	for variable, source := range want.Variables.All() {
		other, _ := got.Variables.Get(variable)
		if source.String() != other.String() || source.Sensitive != other.Sensitive {
			t.Errorf("%s = %s (sensitive=%v), want %s (sensitive=%v)",
				variable, other, other.Sensitive, source, source.Sensitive)
		}
	}
	if !strings.Contains(string(data), "PLAIN: hello") {
		t.Errorf("bare literal should marshal as a plain string:\n%s", data)
	}
}

func TestConfigUnknownFieldsRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "top level",
			input: "applications: {}\nversion: 1\n",
			want:  "unknown field 'version'",
		},
		{
			name:  "profile",
			input: "applications:\n  a:\n    profiles:\n      p:\n        inherits: [x]\n",
			want:  "unknown field 'inherits'",
		},
		{
			name:  "value source",
			input: "applications:\n  a:\n    profiles:\n      p:\n        variables:\n          V: {type: file, file: x}\n",
			want:  "unknown field 'file'",
		},
		{
			name:  "unknown type",
			input: "applications:\n  a:\n    profiles:\n      p:\n        variables:\n          V: {type: http, value: x}\n",
			want:  "unknown value source type 'http'",
		},
		{
			name:  "missing type",
			input: "applications:\n  a:\n    profiles:\n      p:\n        variables:\n          V: {value: x}\n",
			want:  "'type' is required",
		},
		{
			name:  "invalid application name",
			input: "applications:\n  'a/b':\n    profiles: {}\n",
			want:  "invalid name",
		},
		{
			name:  "invalid multiple",
			input: "applications:\n  a:\n    profiles:\n      p:\n        variables:\n          V: {type: literal, value: x, multiple: maybe}\n",
			want:  "'multiple' must be a bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Applications.Len() != 0 {
		t.Errorf("applications = %d, want 0", cfg.Applications.Len())
	}
}

func TestParseNullProfile(t *testing.T) {
	cfg, err := Parse([]byte("applications:\n  a:\n    profiles:\n      empty:\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, ok := cfg.Lookup(ProfileReference{Application: "a", Profile: "empty"})
	if !ok || p == nil {
		t.Fatal("a/empty should exist")
	}
	if p.Variables.Len() != 0 {
		t.Errorf("variables = %d, want 0", p.Variables.Len())
	}
}

func TestParseDuplicateExtendsCollapsed(t *testing.T) {
	cfg, err := Parse([]byte("applications:\n  a:\n    profiles:\n      p:\n        extends: [x, y, x]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := cfg.Lookup(ProfileReference{Application: "a", Profile: "p"})
	want := []ProfileReference{{Profile: "x"}, {Profile: "y"}}
	if diff := cmp.Diff(want, p.Extends); diff != "" {
		t.Errorf("extends mismatch (-want +got):\n%s", diff)
	}
}

func TestMultipleIncludes(t *testing.T) {
	tests := []struct {
		m        Multiple
		variable string
		want     bool
	}{
		{Multiple{}, "A", false},
		{Multiple{Enabled: true}, "A", true},
		{Multiple{Enabled: true, Only: []string{"A"}}, "A", true},
		{Multiple{Enabled: true, Only: []string{"A"}}, "B", false},
	}
	for _, tt := range tests {
		if got := tt.m.Includes(tt.variable); got != tt.want {
			t.Errorf("%+v.Includes(%q) = %v, want %v", tt.m, tt.variable, got, tt.want)
		}
	}
}

func TestProfileCloneIsIndependent(t *testing.T) {
	p := NewProfile()
	p.Extends = []ProfileReference{{Application: "a", Profile: "b"}}
	p.Variables.Set("CMD", ValueSource{Kind: NativeCommand{Program: "echo", Arguments: []string{"x"}}})
	p.PreExport = []SideEffect{{Setup: &SideEffectCommand{Native: []string{"true"}}}}

	c := p.Clone()
	c.Extends[0].Profile = "changed"
	c.Variables.Set("NEW", LiteralSource("1"))
	c.PreExport[0].Setup.Native[0] = "false"

	if p.Extends[0].Profile != "b" {
		t.Error("extends aliased")
	}
	if p.Variables.Has("NEW") {
		t.Error("variables aliased")
	}
	if p.PreExport[0].Setup.Native[0] != "true" {
		t.Error("side effects aliased")
	}
}
