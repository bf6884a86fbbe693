package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var hookName string

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Print the shell hook that lets 'set' modify your shell",
	Long: `Prints a shell function that wraps envsel. The function passes a temporary
--source-file to every invocation and sources it afterwards, which is how
'envsel set' changes variables in the calling shell.

Add one of these to your shell startup file:

  bash/zsh:  eval "$(envsel hook)"
  fish:      envsel hook --shell fish | source`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		sh, err := client.Shell()
		if err != nil {
			return err
		}
		fmt.Print(sh.Hook(hookName))
		return nil
	},
}

func init() {
	hookCmd.Flags().StringVar(&hookName, "name", "envsel", "name of the wrapper function (must match the binary on PATH)")
	rootCmd.AddCommand(hookCmd)
}
