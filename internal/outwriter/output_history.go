package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// historyCSVHeader is the header of the CSV history, one row per daily snapshot.
var historyCSVHeader = []string{
	"date",
	"repo_label",
	"timestamp",
	"total_upvotes",
	"total_comments",
	"open_prs",
	"total_prs",
	"merged_prs",
	"pr_merge_rate",
	"open_issues",
	"closed_issues",
	"total_issues",
	"issue_close_rate",
	"bluesky_followers",
	"top_user",
}

// WriteHistory outputs the daily snapshot series, dispatching based on the output format configured.
func WriteHistory(daily []schema.Snapshot, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if daily == nil {
			daily = []schema.Snapshot{}
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, daily)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, daily)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, daily)
		}, "Wrote table")
	}
	return nil
}

// writeHistoryTable generates and writes the human-readable history table.
func writeHistoryTable(w io.Writer, daily []schema.Snapshot) error {
	if len(daily) == 0 {
		_, err := fmt.Fprintln(w, "No snapshot history found. Run `commpulse collect` first.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Repository", "Upvotes", "Comments", "Open PRs", "Merge Rate", "Open Issues", "Close Rate", "Top User"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	dates := make(map[string]struct{})
	for _, s := range daily {
		m := s.Metrics
		dates[s.Date] = struct{}{}
		data = append(data, []string{
			s.Date,
			schema.DisplayLabel(s.RepoLabel),
			formatCount(m.Discussions.TotalUpvotes),
			formatCount(m.Discussions.TotalComments),
			formatCount(m.PullRequests.Open),
			formatRate(m.PullRequests.MergeRate),
			formatCount(m.Issues.Open),
			formatRate(m.Issues.CloseRate),
			topUsername(s.TopActiveUsers),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d snapshots across %d days\n", len(daily), len(dates))
	return err
}

// writeHistoryCSV writes one row per daily snapshot.
func writeHistoryCSV(w io.Writer, daily []schema.Snapshot) error {
	return writeCSVWithHeader(w, historyCSVHeader, func(cw *csv.Writer) error {
		for _, s := range daily {
			m := s.Metrics
			rec := []string{
				s.Date,
				s.RepoLabel,
				s.Timestamp.UTC().Format(contract.DateTimeFormat),
				strconv.Itoa(m.Discussions.TotalUpvotes),
				strconv.Itoa(m.Discussions.TotalComments),
				strconv.Itoa(m.PullRequests.Open),
				strconv.Itoa(m.PullRequests.Total),
				strconv.Itoa(m.PullRequests.Merged),
				string(m.PullRequests.MergeRate),
				strconv.Itoa(m.Issues.Open),
				strconv.Itoa(m.Issues.Closed),
				strconv.Itoa(m.Issues.Total),
				string(m.Issues.CloseRate),
				strconv.Itoa(m.Social.Bluesky()),
				topUsername(s.TopActiveUsers),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
