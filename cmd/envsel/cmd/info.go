package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about envsel configuration and shell",
	Long: `Displays the envsel version, the detected shell, every config file that was
considered and whether it was loaded, and the applications and profiles they
define.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		result, err := client.Info(version)
		if err != nil {
			errorf("%v", err)
		}

		fmt.Printf("envsel %s\n", result.Version)
		shell := result.Shell
		if shell == "" {
			shell = "unknown (set $SHELL or pass --shell)"
		}
		fmt.Printf("  shell:  %s\n", shell)

		if len(result.ConfigChain) > 0 {
			fmt.Println("  config chain:")
			for _, layer := range result.ConfigChain {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Printf("    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		}

		if len(result.Applications) > 0 {
			fmt.Println("\nApplications:")
			for _, app := range result.Applications {
				fmt.Printf("  %-15s %s\n", app.Name, strings.Join(app.Profiles, ", "))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
