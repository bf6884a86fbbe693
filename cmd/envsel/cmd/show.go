package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var variableName = color.New(color.FgCyan).SprintFunc()

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print configuration and environment information",
}

var showConfigCmd = &cobra.Command{
	Use:   "config [application] [profile]",
	Short: "Print the merged configuration as YAML",
	Long: `Prints the configuration after all config files are merged and inheritance
is resolved. With no arguments the whole config is printed; with an
application, only that application; with both, only that profile.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		cfg, err := client.Config()
		if err != nil {
			return err
		}

		var out any = cfg
		if len(args) > 0 {
			app, err := lookupApplication(cfg, args[0])
			if err != nil {
				return err
			}
			out = app
		}
		if len(args) > 1 {
			out, err = client.Profile(args[0], args[1])
			if err != nil {
				return err
			}
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	},
}

var showEnvCmd = &cobra.Command{
	Use:   "env [application] [profile]",
	Short: "Print a profile's resolved variables",
	Long: `Resolves a profile and prints each variable with its value. Sensitive values
are masked. Pre- and post-export setup commands run as they do for 'set'.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		application, profile, err := selectProfile(client, args)
		if err != nil {
			return err
		}
		env, err := client.Environment(cmd.Context(), application, profile)
		if err != nil {
			return err
		}
		for name, v := range env.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", variableName(name), v.Display())
		}
		return nil
	},
}

var showShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Print the shell in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		sh, err := client.Shell()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sh)
		return nil
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd, showEnvCmd, showShellCmd)
	rootCmd.AddCommand(showCmd)
}
