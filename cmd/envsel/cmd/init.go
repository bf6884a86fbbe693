package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/fileutil"
)

var initForce bool

// initTemplate is the default .envsel.yaml scaffold. It declares one working
// application and shows every value source kind in comments.
const initTemplate = `# envsel configuration
# Docs: https://github.com/bianoble/envsel
applications:
  server:
    profiles:
      base:
        variables:
          LOG_LEVEL: info
          SERVICE_NAME: server
      dev:
        extends: [base]
        variables:
          LOG_LEVEL: debug
          API_URL: http://localhost:3000
      # prd:
      #   extends: [base]
      #   variables:
      #     API_URL: https://api.example.com
      #
      #     # Read a file relative to this config
      #     TLS_CERT:
      #       type: file
      #       path: ./certs/prd.pem
      #
      #     # Run a program (no shell)
      #     GIT_SHA:
      #       type: command
      #       command: [git, rev-parse, HEAD]
      #
      #     # Run through your shell
      #     HOSTNAME_UPPER:
      #       type: shell
      #       command: hostname | tr a-z A-Z
      #
      #     # Run inside a pod; output is KEY=value lines
      #     DB_CREDENTIALS:
      #       type: kubernetes
      #       command: [cat, /run/secrets/db.env]
      #       pod_selector: app=api
      #       namespace: production
      #       sensitive: true
      #       multiple: [DB_USER, DB_PASSWORD]
      #   pre_export:
      #     - setup: kubectl config use-context prd
      #       teardown: kubectl config use-context dev
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter .envsel.yaml configuration",
	Long: `Creates a .envsel.yaml file in the current directory (or at --config) with a
small working profile and commented examples of every value source type.

Use --force to overwrite an existing configuration file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if outPath == "" {
			outPath = config.FileName
		}
		abs, err := filepath.Abs(outPath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		outPath = abs

		write := fileutil.WriteNew
		if initForce {
			write = fileutil.WriteAtomic
		}
		if err := write(outPath, []byte(initTemplate), 0o644); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Edit the file to describe your applications and profiles")
		info("  2. Add 'eval \"$(envsel hook)\"' to your shell startup file")
		info("  3. Run 'envsel set server dev'")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
