package cmd

import (
	"github.com/huangsam/commpulse/core"
	"github.com/spf13/cobra"
)

// collectCmd fetches community metrics and stores today's snapshots.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect community metrics and store today's snapshots.",
	Long: `Fetch community metrics for every configured repository and print a report.

For each repository commpulse counts:
- Discussion upvotes and comments
- Community pull requests, open and merged
- Community issues, open and closed
- The most active community users over the lookback window

A snapshot is saved per repository, plus an aggregate when several repositories
are tracked. A second run on the same day reuses the stored snapshot unless
--no-cache is given. Inside GitHub Actions the metrics are also published as
step outputs and a job summary.

Examples:
  # Collect the default repository
  GH_TOKEN=... commpulse collect

  # Track several repositories and keep the JSON report
  commpulse collect --repos containers/podman,podman-desktop/podman-desktop --output json --output-file report.json

  # Ignore today's snapshots and fetch again
  commpulse collect --no-cache`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runWith(core.ExecuteCollect, "Cannot collect community metrics"),
}
