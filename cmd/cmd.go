// Package cmd defines the command-line interface for commpulse.
package cmd

import (
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("host", contract.DefaultHost, "GitHub host for the GraphQL API")
	rootCmd.PersistentFlags().StringSlice("repos", nil, "Repositories to track as owner/name, comma separated")
	rootCmd.PersistentFlags().String("maintainers-file", contract.DefaultMaintainersFile, "Path to the maintainers registry (JSON or YAML)")
	rootCmd.PersistentFlags().Int("lookback-months", contract.DefaultLookbackMonths, "Months of recent activity used to rank contributors")
	rootCmd.PersistentFlags().Int("top-users", schema.DefaultTopUsers, "Number of most active community users to keep")
	rootCmd.PersistentFlags().String("history-dir", contract.DefaultHistoryDir, "Directory holding daily snapshots")
	rootCmd.PersistentFlags().Int("workers", 0, "Repositories fetched concurrently (0 = all at once)")
	rootCmd.PersistentFlags().Duration("page-delay", contract.DefaultPageDelay, "Pause between GraphQL pages")
	rootCmd.PersistentFlags().Duration("request-timeout", contract.DefaultRequestTimeout, "Timeout of a single GraphQL request")
	rootCmd.PersistentFlags().Int("max-retries", contract.DefaultMaxRetries, "Retries for transient transport failures")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Fetch from GitHub even when today's snapshot exists")
	rootCmd.PersistentFlags().Bool("ignore-cache", false, "Alias of --no-cache")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all persistent flags of historyCmd to Viper
	historyCmd.PersistentFlags().Int("days", contract.DefaultHistoryDays, "Number of most recent days to show (0 = all)")
	historyCmd.PersistentFlags().String("repo", "", "Only show snapshots of this repository label (owner/name or aggregate)")
	if err := viper.BindPFlags(historyCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding history flags", err)
	}

	// Bind all flags of dashboardCmd to Viper
	dashboardCmd.Flags().String("open", "yes", "Open the dashboard in a browser (yes/no/true/false/1/0)")
	if err := viper.BindPFlags(dashboardCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dashboard flags", err)
	}
}
