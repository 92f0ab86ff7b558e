package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/bountybridge/internal/app"
	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configFile string
	stateDir   string
)

var rootCmd = &cobra.Command{
	Use:   "bountybridge",
	Short: "Import bug bounty reports into issue trackers",
	Long: `bountybridge imports vulnerability reports from a bug bounty platform
into one or more issue trackers.

Each program of a platform account is linked to trackers:
  - GitHub, GitLab and Jira are built in
  - Further tracker types can be provided by plugins
  - Issue titles and bodies are rendered from per-tracker templates`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)

		flags := cmd.Flags()
		if flags.Changed("config") || flags.Changed("state-dir") {
			p := paths()
			file, dir := p.ConfigFile, p.StateDir
			if flags.Changed("config") {
				file = configFile
			}
			if flags.Changed("state-dir") {
				dir = stateDir
			}
			app.Default.Paths = config.NewPaths(file, dir)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigFile, "Configuration document (YAML, or TOML with a .toml extension)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", config.DefaultStateDir, "Directory holding the import ledger")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
