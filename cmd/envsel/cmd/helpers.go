package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/console"
	"github.com/bianoble/envsel/pkg/envsel"
)

// newPrompter is replaced in tests.
var newPrompter = console.NewPrompter

// setupOutput configures logging and color from the global flags. Logs go
// to stderr so they never mix with export scripts or YAML on stdout.
func setupOutput() {
	if noColor {
		console.DisableColor()
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor})

	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// newClient builds a library client from the global flags.
func newClient() (*envsel.Client, error) {
	return envsel.New(envsel.Options{
		ConfigPath:  configPath,
		NoGlobal:    noGlobal,
		Shell:       shellName,
		Kubeconfig:  kubeconfig,
		KubeContext: kubeContext,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})
}

// selectProfile returns the application and profile named by args,
// prompting for whichever is missing.
func selectProfile(client *envsel.Client, args []string) (string, string, error) {
	var application, profile string
	if len(args) > 0 {
		application = args[0]
	}
	if len(args) > 1 {
		profile = args[1]
	}
	if application != "" && profile != "" {
		return application, profile, nil
	}

	cfg, err := client.Config()
	if err != nil {
		return "", "", err
	}
	prompter := newPrompter()

	if application == "" {
		application, err = prompter.Select("application", names(cfg.Applications.Keys()))
		if err != nil {
			return "", "", err
		}
	}

	app, err := lookupApplication(cfg, application)
	if err != nil {
		return "", "", err
	}
	if profile == "" {
		profile, err = prompter.Select("profile", names(app.Profiles.Keys()))
		if err != nil {
			return "", "", err
		}
	}
	return application, profile, nil
}

func lookupApplication(cfg *config.Config, application string) (*config.Application, error) {
	name, err := config.NewName(application)
	if err != nil {
		return nil, fmt.Errorf("application: %w", err)
	}
	app, ok := cfg.Applications.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown application %s — options are: %s",
			application, strings.Join(names(cfg.Applications.Keys()), ", "))
	}
	return app, nil
}

func names(keys []config.Name) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
