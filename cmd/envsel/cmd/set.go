package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/envsel/internal/console"
	"github.com/bianoble/envsel/internal/fileutil"
)

var errNoSourceFile = errors.New("--source-file is required — 'set' must run through the shell hook, see 'envsel hook'")

var setCmd = &cobra.Command{
	Use:   "set [application] [profile]",
	Short: "Export a profile into the current shell",
	Long: `Resolves a profile and writes an export script for the current shell to the
file given by --source-file. The shell hook installed by 'envsel hook' passes
a temporary file and sources it afterwards, so the variables land in the
calling shell.

If the application or profile is omitted, you are prompted to choose one.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sourceFile == "" {
			console.Hint(os.Stderr, "Add this to your shell startup file: eval \"$(envsel hook)\"")
			return errNoSourceFile
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		sh, err := client.Shell()
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
		if err := fileutil.WriteAtomic(sourceFile, []byte(sh.Export(env)), 0o600); err != nil {
			return fmt.Errorf("writing export script: %w", err)
		}

		detail("wrote %d variables to %s", env.Len(), sourceFile)
		if !quiet {
			fmt.Println("The following variables will be set:")
			fmt.Print(env.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
