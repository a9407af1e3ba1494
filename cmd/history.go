package cmd

import (
	"github.com/huangsam/commpulse/core"
	"github.com/spf13/cobra"
)

// historyCmd focused on the snapshot history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the daily snapshot history.",
	Long: `Inspect the daily snapshots stored by previous collections.

Only the latest snapshot of each day and repository is shown.

Subcommands:
  list   - Print the daily series (default)
  status - Show statistics about the history directory
  export - Write the daily series to Parquet files

Examples:
  # Last week of the aggregate
  commpulse history --days 7 --repo aggregate

  # Check what is stored
  commpulse history status`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runWith(core.ExecuteHistory, "Cannot list history"),
}

// historyListCmd prints the daily series.
var historyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Print the daily snapshot series",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runWith(core.ExecuteHistory, "Cannot list history"),
}

// historyStatusCmd shows history statistics.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show history directory statistics",
	Long: `Display the history directory, the number of snapshot files, the
repositories tracked and the range of stored dates.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runWith(core.ExecuteHistoryStatus, "Cannot get history status"),
}

// historyExportCmd exports the history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the daily history to Parquet files",
	Long: `Write the daily snapshot series to two Parquet files:
  <output-file>.snapshots.parquet - one row per day and repository
  <output-file>.top_users.parquet - one row per ranked user per snapshot

Examples:
  commpulse history export --output-file metrics`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runWith(core.ExecuteHistoryExport, "Cannot export history"),
}
