package cmd

import (
	"github.com/huangsam/commpulse/core"
	"github.com/spf13/cobra"
)

// dashboardCmd renders the snapshot history as an HTML page.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the snapshot history as an HTML dashboard.",
	Long: `Build a self-contained HTML dashboard from the daily snapshot history.

The page charts open pull requests and issues, merge and close rates, and
follower counts per repository, with the aggregate shown first.

Examples:
  # Write dashboard.html and open it
  commpulse dashboard

  # Write somewhere else without opening a browser
  commpulse dashboard --output-file site/index.html --open no`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runWith(core.ExecuteDashboard, "Cannot render dashboard"),
}
