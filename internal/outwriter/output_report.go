package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ScoringLegend explains how activity points are awarded.
const ScoringLegend = "📝 Scoring: PR created = 3pts, Issue created = 2pts, Comment = 1pt"

// textWriter remembers the first write error so long text sections
// can be written without checking every line.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// WriteReport outputs a collection report, dispatching based on the output format configured.
func WriteReport(report schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg)
		}, "Wrote report")
	}
	return nil
}

// writeReportText renders every repository, then the aggregate and the social followers.
func writeReportText(w io.Writer, report schema.Report, cfg *contract.Config) error {
	for _, repo := range report.Repos {
		if err := writeRepoText(w, repo, cfg); err != nil {
			return err
		}
	}
	if report.Aggregate != nil {
		if err := writeRepoText(w, *report.Aggregate, cfg); err != nil {
			return err
		}
	}

	out := &textWriter{w: w}
	writeSocialText(out, report.Social)
	out.printf("\n   %s\n", ScoringLegend)
	return out.err
}

// writeRepoText renders the metrics table, rates, top users and open pull requests of one report.
func writeRepoText(w io.Writer, repo schema.RepoReport, cfg *contract.Config) error {
	title := schema.DisplayLabel(repo.Label)
	if repo.FromCache {
		title += " (cached)"
	}
	if _, err := fmt.Fprintf(w, "\n📊 Community Metrics: %s\n", contract.HeaderColor.Sprint(title)); err != nil {
		return err
	}
	if err := writeMetricsTable(w, repo); err != nil {
		return err
	}

	out := &textWriter{w: w}
	out.printf("\n📈 Rates:\n")
	out.printf("   Community PR Merge Rate: %s %s\n",
		formatRate(repo.Rates.PRMergeRate), contract.GetColorLabel(repo.Rates.PRMergeRate.Float()))
	out.printf("   Community Issue Resolution Rate: %s %s\n",
		formatRate(repo.Rates.IssueCloseRate), contract.GetColorLabel(repo.Rates.IssueCloseRate.Float()))

	writeTopUsersText(out, repo.TopActiveUsers, cfg.LookbackMonths)
	writeOpenPRsText(out, repo.Metrics.OpenCommunityPRs, GetMaxTitleWidth(cfg))
	return out.err
}

// writeMetricsTable renders the counts of one report as a two-column table.
func writeMetricsTable(w io.Writer, repo schema.RepoReport) error {
	m := repo.Metrics
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"👍 Total Upvotes", formatCount(m.TotalUpvotes)},
		{"💬 Total Comments", formatCount(m.TotalComments)},
		{"Open Community PRs", formatCount(len(m.OpenCommunityPRs))},
		{"All-time Community PRs", formatCount(m.TotalCommunityPRs)},
		{"Merged Community PRs", formatCount(m.TotalMergedCommunityPRs)},
		{"Open Community Issues", formatCount(m.OpenCommunityIssues)},
		{"Closed Community Issues", formatCount(m.ClosedCommunityIssues)},
		{"All-time Community Issues", formatCount(m.TotalCommunityIssues)},
		{"⭐ Stars", formatCount(repo.Metadata.Stars)},
		{"🍴 Forks", formatCount(repo.Metadata.Forks)},
		{"👀 Watchers", formatCount(repo.Metadata.Watchers)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// lookbackPhrase returns "Last Month" or "Last 3 Months".
func lookbackPhrase(months int) string {
	if months <= 1 {
		return "Last Month"
	}
	return fmt.Sprintf("Last %d Months", months)
}

// writeTopUsersText lists the ranking as "1. @user (N points)" with the activity breakdown.
func writeTopUsersText(out *textWriter, users []schema.UserActivity, lookbackMonths int) {
	if len(users) == 0 {
		return
	}
	out.printf("\n🌟 Top %d Most Active Community Users (%s):\n", len(users), lookbackPhrase(lookbackMonths))
	for i, u := range users {
		out.printf("%d. @%s (%d points)\n", i+1, u.Username, u.Total)
		out.printf("   %s\n", activityBreakdown(u))
	}
}

// newestFirst returns a copy of prs sorted by creation time, newest first.
func newestFirst(prs []schema.PRSummary) []schema.PRSummary {
	sorted := make([]schema.PRSummary, len(prs))
	copy(sorted, prs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// writeOpenPRsText lists open community pull requests, newest first.
func writeOpenPRsText(out *textWriter, prs []schema.PRSummary, titleWidth int) {
	if len(prs) == 0 {
		return
	}
	out.printf("\n🚀 Current Open Community Pull Requests:\n")
	for i, pr := range newestFirst(prs) {
		out.printf("%d. #%d - %s by @%s (%s)\n", i+1, pr.Number,
			contract.TruncateText(pr.Title, titleWidth), pr.Author, pr.CreatedAt.Format(schema.DateFormat))
		out.printf("   %s\n", pr.URL)
	}
}

// writeSocialText lists the follower count of every tracked platform.
func writeSocialText(out *textWriter, social *schema.SocialMetrics) {
	if social == nil {
		return
	}
	rows := []struct {
		name  string
		count *int
	}{
		{"☁️  Bluesky", social.BlueskyFollowers},
		{"🐘 Mastodon", social.MastodonFollowers},
		{"💼 LinkedIn", social.LinkedInFollowers},
		{"🐦 X/Twitter", social.TwitterFollowers},
	}
	out.printf("\n🌐 Social Followers:\n")
	for _, r := range rows {
		if r.count != nil {
			out.printf("   %s: %s\n", r.name, formatCount(*r.count))
		}
	}
}

// reportCSVHeader is the header of the CSV report, one row per repository.
var reportCSVHeader = []string{
	"repo_label",
	"from_cache",
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
	"stars",
	"forks",
	"watchers",
	"top_user",
}

// writeReportCSV writes one row per repository, followed by the aggregate.
func writeReportCSV(w io.Writer, report schema.Report) error {
	rows := report.Repos
	if report.Aggregate != nil {
		rows = append(rows[:len(rows):len(rows)], *report.Aggregate)
	}
	return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			m := r.Metrics
			rec := []string{
				r.Label,
				strconv.FormatBool(r.FromCache),
				strconv.Itoa(m.TotalUpvotes),
				strconv.Itoa(m.TotalComments),
				strconv.Itoa(len(m.OpenCommunityPRs)),
				strconv.Itoa(m.TotalCommunityPRs),
				strconv.Itoa(m.TotalMergedCommunityPRs),
				string(r.Rates.PRMergeRate),
				strconv.Itoa(m.OpenCommunityIssues),
				strconv.Itoa(m.ClosedCommunityIssues),
				strconv.Itoa(m.TotalCommunityIssues),
				string(r.Rates.IssueCloseRate),
				strconv.Itoa(r.Metadata.Stars),
				strconv.Itoa(r.Metadata.Forks),
				strconv.Itoa(r.Metadata.Watchers),
				topUsername(r.TopActiveUsers),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
