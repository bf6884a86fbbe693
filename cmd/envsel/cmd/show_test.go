package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func captureShow(t *testing.T, name string, args []string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	for _, c := range showCmd.Commands() {
		if c.Name() != name {
			continue
		}
		c.SetOut(&buf)
		c.SetContext(context.Background())
		defer c.SetOut(nil)
		err := c.RunE(c, args)
		return buf.String(), err
	}
	t.Fatalf("no show subcommand %q", name)
	return "", nil
}

func TestShowConfigWhole(t *testing.T) {
	withGlobals(t)

	out, err := captureShow(t, "config", nil)
	if err != nil {
		t.Fatalf("show config: %v", err)
	}

	var doc struct {
		Applications map[string]any `yaml:"applications"`
	}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(doc.Applications) != 2 {
		t.Errorf("applications = %d, want 2", len(doc.Applications))
	}
	if strings.Index(out, "server:") > strings.Index(out, "tools:") {
		t.Errorf("applications should keep declaration order:\n%s", out)
	}
}

func TestShowConfigProfile(t *testing.T) {
	withGlobals(t)

	out, err := captureShow(t, "config", []string{"server", "dev"})
	if err != nil {
		t.Fatalf("show config: %v", err)
	}
	for _, want := range []string{"LOG_LEVEL: debug", "type: literal", "sensitive: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "applications:") {
		t.Errorf("single profile output should not include the whole config:\n%s", out)
	}
}

func TestShowConfigUnknownApplication(t *testing.T) {
	withGlobals(t)

	if _, err := captureShow(t, "config", []string{"nope"}); err == nil {
		t.Fatal("expected error for unknown application")
	}
}

func TestShowEnvMasksSensitive(t *testing.T) {
	withGlobals(t)
	color.NoColor = true

	out, err := captureShow(t, "env", []string{"server", "dev"})
	if err != nil {
		t.Fatalf("show env: %v", err)
	}
	want := "LOG_LEVEL = debug\nTOKEN = ***\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestShowShell(t *testing.T) {
	withGlobals(t)
	shellName = "zsh"

	out, err := captureShow(t, "shell", nil)
	if err != nil {
		t.Fatalf("show shell: %v", err)
	}
	if !strings.HasPrefix(out, "zsh") {
		t.Errorf("got %q, want zsh", out)
	}
}
