// Package envsel provides the public Go library API for envsel.
//
// envsel resolves named profiles of environment variables, declared in
// .envsel.yaml files, into concrete values and runs commands inside them.
//
// # Basic Usage
//
//	client, err := envsel.New(envsel.Options{WorkDir: "/path/to/project"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resolve a profile without touching the current process
//	env, err := client.Environment(ctx, "server", "dev")
//
//	// Run a command inside it
//	err = client.Run(ctx, "server", "dev", []string{"make", "test"})
package envsel

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/engine"
	"github.com/bianoble/envsel/internal/execute"
	"github.com/bianoble/envsel/internal/kube"
	"github.com/bianoble/envsel/internal/shell"
)

// Options configures an envsel client.
type Options struct {
	// ConfigPath is an explicit config file. When set, discovery is skipped.
	ConfigPath string

	// WorkDir is where config discovery starts. Default: the current directory.
	WorkDir string

	// SystemConfigPath and UserConfigPath override the global layer locations.
	SystemConfigPath string
	UserConfigPath   string

	// NoGlobal skips the system and user layers.
	NoGlobal bool

	// Shell is bash, zsh or fish. Default: detected from $SHELL.
	Shell string

	// Kubeconfig and KubeContext select the cluster for kubernetes sources.
	Kubeconfig  string
	KubeContext string

	// Stdin, Stdout and Stderr are handed to commands. Nil means the
	// process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Client is the main entry point for the envsel library.
type Client struct {
	opts     config.HierarchicalOptions
	shell    *shell.Shell
	shellErr error
	runner   execute.Runner
	kube     kube.Client
}

// New creates a new envsel Client. Failure to determine the shell is not
// reported here; it surfaces from the first call that needs one.
func New(opts Options) (*Client, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}

	c := &Client{
		opts: config.HierarchicalOptions{
			ConfigPath:       opts.ConfigPath,
			WorkDir:          workDir,
			SystemConfigPath: opts.SystemConfigPath,
			UserConfigPath:   opts.UserConfigPath,
			NoGlobal:         opts.NoGlobal,
		},
		runner: &execute.OSRunner{Stdin: opts.Stdin, Stdout: opts.Stdout, Stderr: opts.Stderr},
		kube: &lazyCluster{opts: kube.Options{
			Kubeconfig: opts.Kubeconfig,
			Context:    opts.KubeContext,
			Stderr:     opts.Stderr,
		}},
	}

	if opts.Shell != "" {
		c.shell, c.shellErr = shell.Parse(opts.Shell)
	} else {
		c.shell, c.shellErr = shell.Detect()
	}
	return c, nil
}

// Shell returns the shell commands run through.
func (c *Client) Shell() (*shell.Shell, error) {
	return c.shell, c.shellErr
}

// Load reads, merges and inheritance-resolves every config layer.
func (c *Client) Load() (*config.HierarchicalResult, error) {
	return config.LoadHierarchical(c.opts)
}

// Config returns the merged, inheritance-resolved config.
func (c *Client) Config() (*Config, error) {
	hr, err := c.Load()
	if err != nil {
		return nil, err
	}
	return hr.Config, nil
}

// Profile returns the inheritance-resolved profile application/profile.
func (c *Client) Profile(application, profile string) (*Profile, error) {
	ref, err := reference(application, profile)
	if err != nil {
		return nil, err
	}
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	p, ok := cfg.Lookup(ref)
	if !ok {
		return nil, &config.UnknownProfileError{Reference: ref}
	}
	return p, nil
}

// Environment runs the profile's setups and resolves its values. Setups are
// not torn down; callers that need that use Run.
func (c *Client) Environment(ctx context.Context, application, profile string) (*Environment, error) {
	p, err := c.Profile(application, profile)
	if err != nil {
		return nil, err
	}
	s, err := c.session()
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, p)
}

// Run executes argv through the shell inside the profile's environment and
// tears down its side effects afterwards. A non-zero exit is returned as an
// *ExitCodeError.
func (c *Client) Run(ctx context.Context, application, profile string, argv []string) error {
	p, err := c.Profile(application, profile)
	if err != nil {
		return err
	}
	s, err := c.session()
	if err != nil {
		return err
	}
	return s.Run(ctx, p, argv)
}

// Export resolves the profile and renders it as a script for the client's
// shell. Values are never masked.
func (c *Client) Export(ctx context.Context, application, profile string) (string, error) {
	env, err := c.Environment(ctx, application, profile)
	if err != nil {
		return "", err
	}
	return c.shell.Export(env), nil
}

// Info summarizes the config layers, applications and shell. The result is
// always usable; a config load failure leaves out the layers and
// applications and is returned alongside.
func (c *Client) Info(version string) (*InfoResult, error) {
	hr, err := c.Load()
	return engine.Info(version, hr, c.shell), err
}

func (c *Client) session() (*engine.Session, error) {
	if c.shellErr != nil {
		return nil, c.shellErr
	}
	return engine.NewSession(c.shell, c.runner, c.kube), nil
}

func reference(application, profile string) (config.ProfileReference, error) {
	app, err := config.NewName(application)
	if err != nil {
		return config.ProfileReference{}, fmt.Errorf("application: %w", err)
	}
	name, err := config.NewName(profile)
	if err != nil {
		return config.ProfileReference{}, fmt.Errorf("profile: %w", err)
	}
	return config.ProfileReference{Application: app, Profile: name}, nil
}

// lazyCluster defers reading the kubeconfig until a kubernetes source is
// actually resolved.
type lazyCluster struct {
	opts    kube.Options
	once    sync.Once
	cluster *kube.Cluster
	err     error
}

func (l *lazyCluster) connect() error {
	l.once.Do(func() {
		l.cluster, l.err = kube.NewCluster(l.opts)
	})
	return l.err
}

func (l *lazyCluster) Pods(ctx context.Context, namespace, selector string) ([]string, error) {
	if err := l.connect(); err != nil {
		return nil, err
	}
	return l.cluster.Pods(ctx, namespace, selector)
}

func (l *lazyCluster) Exec(ctx context.Context, req kube.ExecRequest) (string, error) {
	if err := l.connect(); err != nil {
		return "", err
	}
	return l.cluster.Exec(ctx, req)
}
