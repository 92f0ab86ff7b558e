package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/bountybridge/internal/app"
)

var configureNonInteractive bool

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Create or edit the configuration document",
	Long: `Create the configuration document, or edit an existing one.

When editing, every program is reconciled: pick the trackers it keeps by
index, optionally delete dropped trackers, and link further ones.

Secrets are only written to the document with --non-interactive, since
later runs cannot ask for them.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().BoolVar(&configureNonInteractive, "non-interactive", false, "Store secrets in the document for unattended runs")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	mode := modeFor(configureNonInteractive)
	if mode.PersistSecrets() {
		logWarning("Secrets will be stored in clear in %s", paths().ConfigFile)
	}

	_, err := app.Default.Session(mode).Run(cmd.Context())
	return err
}
