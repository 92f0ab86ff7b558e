package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyNonInteractive bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check credentials, projects and programs of the configuration",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyNonInteractive, "non-interactive", false, "Read secrets from the document instead of asking")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	tree, err := connectTree(cmd.Context(), modeFor(verifyNonInteractive))
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), tree.Summary())
	logSuccess("Configuration %s is valid", paths().ConfigFile)
	return nil
}
