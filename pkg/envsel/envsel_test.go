package envsel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/execute"
	"github.com/bianoble/envsel/internal/kube"
)

// writeConfig writes a small valid config and returns its path.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "token.txt"), []byte("s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, ".envsel.yaml")
	content := `applications:
  server:
    profiles:
      base:
        variables:
          REGION: eu-west-1
          LOG_LEVEL: info
      dev:
        extends: [base]
        variables:
          LOG_LEVEL: debug
          TOKEN:
            type: file
            path: token.txt
            sensitive: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

type fakeRunner struct {
	scripts []string
	code    int
}

func (r *fakeRunner) Output(_ context.Context, cmd execute.Command) (string, error) {
	r.scripts = append(r.scripts, cmd.String())
	return "", nil
}

func (r *fakeRunner) Run(_ context.Context, cmd execute.Command) (int, error) {
	r.scripts = append(r.scripts, cmd.String())
	return r.code, nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()
	client, err := New(Options{
		ConfigPath: writeConfig(t, dir),
		WorkDir:    dir,
		Shell:      "bash",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewDefaultWorkDir(t *testing.T) {
	client, err := New(Options{Shell: "bash"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wd, _ := os.Getwd()
	if client.opts.WorkDir != wd {
		t.Errorf("WorkDir = %q, want %q", client.opts.WorkDir, wd)
	}
}

func TestNewDefersShellError(t *testing.T) {
	client, err := New(Options{Shell: "tcsh"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Shell(); err == nil {
		t.Fatal("expected unsupported shell error from Shell")
	}
}

func TestClientConfig(t *testing.T) {
	client := newTestClient(t)

	cfg, err := client.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	app, ok := cfg.Applications.Get("server")
	if !ok {
		t.Fatal("application server missing")
	}
	if got := app.Profiles.Len(); got != 2 {
		t.Errorf("profiles = %d, want 2", got)
	}
}

func TestClientProfileInherits(t *testing.T) {
	client := newTestClient(t)

	p, err := client.Profile("server", "dev")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if _, ok := p.Variables.Get("REGION"); !ok {
		t.Error("REGION should be inherited from base")
	}
}

func TestClientProfileUnknown(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Profile("server", "prd")
	var unknown *config.UnknownProfileError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownProfileError", err)
	}
	if unknown.Reference.String() != "server/prd" {
		t.Errorf("reference = %q, want server/prd", unknown.Reference)
	}
}

func TestClientProfileInvalidName(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Profile("server", "a/b")
	if !errors.Is(err, config.ErrNameReserved) {
		t.Fatalf("error = %v, want ErrNameReserved", err)
	}
}

func TestClientEnvironment(t *testing.T) {
	client := newTestClient(t)

	env, err := client.Environment(context.Background(), "server", "dev")
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}

	got := env.Names()
	want := []string{"LOG_LEVEL", "TOKEN", "REGION"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("names = %v, want %v", got, want)
	}
	if v, _ := env.Get("LOG_LEVEL"); v.Value != "debug" {
		t.Errorf("LOG_LEVEL = %q, want debug", v.Value)
	}
	if v, _ := env.Get("TOKEN"); v.Value != "s3cret\n" || v.Display() != "*******" {
		t.Errorf("TOKEN = %q (display %q)", v.Value, v.Display())
	}
}

func TestClientExport(t *testing.T) {
	client := newTestClient(t)

	script, err := client.Export(context.Background(), "server", "base")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := "export 'REGION'='eu-west-1';\nexport 'LOG_LEVEL'='info';\n"
	if script != want {
		t.Errorf("got %q, want %q", script, want)
	}
}

func TestClientRunExitCode(t *testing.T) {
	client := newTestClient(t)
	r := &fakeRunner{code: 3}
	client.runner = r

	err := client.Run(context.Background(), "server", "base", []string{"false"})
	var exit *ExitCodeError
	if !errors.As(err, &exit) {
		t.Fatalf("error = %v, want *ExitCodeError", err)
	}
	if exit.Code != 3 {
		t.Errorf("code = %d, want 3", exit.Code)
	}
	if len(r.scripts) != 1 || !strings.HasSuffix(r.scripts[0], "-c false") {
		t.Errorf("scripts = %v", r.scripts)
	}
}

func TestClientRunUnsupportedShell(t *testing.T) {
	dir := t.TempDir()
	client, err := New(Options{ConfigPath: writeConfig(t, dir), Shell: "tcsh"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Run(context.Background(), "server", "base", []string{"true"}); err == nil {
		t.Fatal("expected error without a usable shell")
	}
}

func TestClientInfo(t *testing.T) {
	client := newTestClient(t)

	info, err := client.Info("1.2.3")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Version != "1.2.3" {
		t.Errorf("version = %q", info.Version)
	}
	if len(info.Applications) != 1 || info.Applications[0].Name != "server" {
		t.Errorf("applications = %+v", info.Applications)
	}
	if !strings.HasPrefix(info.Shell, "bash") {
		t.Errorf("shell = %q, want bash", info.Shell)
	}
}

func TestLazyClusterReportsConnectError(t *testing.T) {
	l := &lazyCluster{opts: kube.Options{Kubeconfig: filepath.Join(t.TempDir(), "missing")}}

	_, err := l.Pods(context.Background(), "", "app=web")
	if err == nil {
		t.Fatal("expected error for missing kubeconfig")
	}
	if _, err2 := l.Exec(context.Background(), kube.ExecRequest{}); err2 == nil || err2.Error() != err.Error() {
		t.Errorf("second call error = %v, want the cached %v", err2, err)
	}
}

func TestClientInfoConfigError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".envsel.yaml")
	if err := os.WriteFile(cfgPath, []byte("applications: [oops]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	client, err := New(Options{ConfigPath: cfgPath, Shell: "zsh"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	info, err := client.Info("dev")
	if err == nil {
		t.Fatal("expected config error")
	}
	if info == nil || !strings.HasPrefix(info.Shell, "zsh") {
		t.Errorf("info = %+v, want shell still reported", info)
	}
	if len(info.Applications) != 0 {
		t.Errorf("applications = %v, want none", info.Applications)
	}
}
