package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:     "run [application] [profile] -- command...",
	Aliases: []string{"r"},
	Short:   "Run a command inside a profile's environment",
	Long: `Runs a command through your shell with a profile's variables set, then tears
down the profile's side effects. The command follows '--' and may be several
words; it is joined with spaces and passed to the shell, so aliases and shell
syntax work.

The exit code of the command becomes the exit code of envsel.`,
	Args: func(cmd *cobra.Command, args []string) error {
		dash := cmd.ArgsLenAtDash()
		if dash < 0 || dash == len(args) {
			return errors.New("missing command — pass it after '--', e.g. envsel run app profile -- make test")
		}
		if dash > 2 {
			return fmt.Errorf("expected at most 2 arguments before '--', got %d", dash)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dash := cmd.ArgsLenAtDash()
		selection, command := args[:dash], args[dash:]

		client, err := newClient()
		if err != nil {
			return err
		}
		application, profile, err := selectProfile(client, selection)
		if err != nil {
			return err
		}

		// The terminal delivers interrupts to the child too. Catch them here
		// so envsel outlives the child and the teardowns still run.
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)

		detail("running %v in %s/%s", command, application, profile)
		return client.Run(cmd.Context(), application, profile, command)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
