package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bianoble/envsel/pkg/envsel"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath  string
	shellName   string
	sourceFile  string
	kubeconfig  string
	kubeContext string
	noGlobal    bool
	verbose     bool
	quiet       bool
	noColor     bool
)

// settings layers ENVSEL_* environment variables under the global flags.
// An explicitly passed flag always wins.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "envsel",
	Short: "Switch between predefined sets of environment variables",
	Long: `envsel selects between named profiles of environment variables. Profiles
are declared in .envsel.yaml files, can inherit from each other, and can load
values from literals, files, local commands, your shell, or commands run
inside Kubernetes pods.

Use 'envsel set' (through the shell hook) to modify the current shell, or
'envsel run' to run a single command inside a profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applySettings()
		setupOutput()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("envsel %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to config file (default: discover .envsel.yaml files)")
	pf.StringVarP(&shellName, "shell", "s", "", "shell type: bash, zsh or fish (default: from $SHELL)")
	pf.StringVar(&sourceFile, "source-file", "", "file to write the export script to (passed by the shell hook)")
	pf.StringVar(&kubeconfig, "kubeconfig", "", "path to kubeconfig for kubernetes sources")
	pf.StringVar(&kubeContext, "kube-context", "", "kubeconfig context for kubernetes sources")
	pf.BoolVar(&noGlobal, "no-global", false, "skip system and user config files")
	pf.BoolVarP(&verbose, "verbose", "v", false, "detailed output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "minimal output (errors only)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	_ = pf.MarkHidden("source-file")

	settings.SetEnvPrefix("ENVSEL")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindPFlags(pf)

	rootCmd.AddCommand(versionCmd)
}

// applySettings copies flag values, with environment fallbacks, back into
// the flag variables.
func applySettings() {
	configPath = settings.GetString("config")
	shellName = settings.GetString("shell")
	sourceFile = settings.GetString("source-file")
	kubeconfig = settings.GetString("kubeconfig")
	kubeContext = settings.GetString("kube-context")
	noGlobal = settings.GetBool("no-global")
	verbose = settings.GetBool("verbose")
	quiet = settings.GetBool("quiet")
	noColor = settings.GetBool("no-color")
}

// Execute runs the root command. A command's non-zero exit code is returned
// without printing; the caller exits with it.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		var exit *envsel.ExitCodeError
		if !errors.As(err, &exit) {
			errorf("%v", err)
		}
		return err
	}
	return nil
}
