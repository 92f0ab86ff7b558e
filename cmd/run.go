package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/bountybridge/internal/app"
	"github.com/firefly-engineering/bountybridge/internal/importer"
)

var (
	runNonInteractive bool
	runDryRun         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Import new reports into their trackers",
	Long: `Import every report not yet imported into the trackers of its program.

Imported reports are recorded in the ledger under --state-dir, so running
again only picks up new reports. --dry-run prints the rendered issues
without creating them.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runNonInteractive, "non-interactive", false, "Read secrets from the document instead of asking")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Render issues without creating them")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	tree, err := connectTree(cmd.Context(), modeFor(runNonInteractive))
	if err != nil {
		return err
	}

	im := &importer.Importer{
		Tree:   tree,
		Ledger: app.Default.Ledger(),
		DryRun: runDryRun,
		Out:    cmd.OutOrStdout(),
	}
	res, err := im.Run(cmd.Context())
	if err != nil {
		return err
	}

	if runDryRun {
		logInfo("%d issues rendered, %d already imported", res.Rendered, res.Skipped)
		return nil
	}
	if res.Created == 0 {
		logInfo("No new reports (%d already imported)", res.Skipped)
		return nil
	}
	logSuccess("%d issues created, %d already imported", res.Created, res.Skipped)
	return nil
}
