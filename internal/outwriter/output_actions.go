package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/commpulse/schema"
)

// maxSummaryPRs caps the open pull requests listed in the job summary.
const maxSummaryPRs = 10

// Environment variables set by the GitHub Actions runner.
const (
	EnvGitHubActions     = "GITHUB_ACTIONS"
	EnvGitHubOutput      = "GITHUB_OUTPUT"
	EnvGitHubStepSummary = "GITHUB_STEP_SUMMARY"
)

// actionOutput is one step output.
type actionOutput struct {
	key   string
	value string
}

// actionOutputs returns the step outputs of a report summary, in a stable order.
func actionOutputs(r *schema.RepoReport) []actionOutput {
	m := r.Metrics
	return []actionOutput{
		{"upvotes", strconv.Itoa(m.TotalUpvotes)},
		{"comments", strconv.Itoa(m.TotalComments)},
		{"open_community_prs", strconv.Itoa(len(m.OpenCommunityPRs))},
		{"total_community_prs", strconv.Itoa(m.TotalCommunityPRs)},
		{"merged_community_prs", strconv.Itoa(m.TotalMergedCommunityPRs)},
		{"open_community_issues", strconv.Itoa(m.OpenCommunityIssues)},
		{"closed_community_issues", strconv.Itoa(m.ClosedCommunityIssues)},
		{"total_community_issues", strconv.Itoa(m.TotalCommunityIssues)},
		{"pr_merge_rate", string(r.Rates.PRMergeRate)},
		{"issue_resolution_rate", string(r.Rates.IssueCloseRate)},
		{"top_active_users_count", strconv.Itoa(len(r.TopActiveUsers))},
	}
}

// WriteGitHubActions publishes step outputs and a job summary when running under GitHub Actions.
// Outputs go to the GITHUB_OUTPUT file, or to commands as legacy set-output lines when
// that file is not provided. It is a no-op outside of GitHub Actions.
func WriteGitHubActions(report schema.Report, getenv func(string) string, commands io.Writer) error {
	if getenv(EnvGitHubActions) == "" {
		return nil
	}
	summary := report.Summary()
	if summary == nil {
		return nil
	}

	outputs := actionOutputs(summary)
	if path := getenv(EnvGitHubOutput); path != "" {
		if err := appendToFile(path, func(w io.Writer) error {
			for _, o := range outputs {
				if _, err := fmt.Fprintf(w, "%s=%s\n", o.key, o.value); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to write step outputs: %w", err)
		}
	} else {
		for _, o := range outputs {
			if _, err := fmt.Fprintf(commands, "::set-output name=%s::%s\n", o.key, o.value); err != nil {
				return err
			}
		}
	}

	if path := getenv(EnvGitHubStepSummary); path != "" {
		if err := appendToFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, JobSummary(report))
			return err
		}); err != nil {
			return fmt.Errorf("failed to write job summary: %w", err)
		}
	}
	return nil
}

// appendToFile opens path for appending, creating it if needed.
func appendToFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// JobSummary renders the markdown job summary of a report.
func JobSummary(report schema.Report) string {
	summary := report.Summary()
	if summary == nil {
		return ""
	}
	m := summary.Metrics
	var b strings.Builder

	b.WriteString("## 📊 Community Metrics\n\n")
	if summary.Label == schema.AggregateLabel {
		fmt.Fprintf(&b, "Totals across %d repositories.\n\n", len(report.Repos))
	} else {
		fmt.Fprintf(&b, "Repository: `%s`\n\n", summary.Label)
	}

	b.WriteString("| Metric | Value |\n|---|---|\n")
	rows := []actionOutput{
		{"👍 Total Upvotes", formatCount(m.TotalUpvotes)},
		{"💬 Total Comments", formatCount(m.TotalComments)},
		{"🔄 Open Community PRs", formatCount(len(m.OpenCommunityPRs))},
		{"📈 All-time Community PRs", formatCount(m.TotalCommunityPRs)},
		{"✅ Merged Community PRs", formatCount(m.TotalMergedCommunityPRs)},
		{"🎯 PR Merge Rate", formatRate(summary.Rates.PRMergeRate)},
		{"🔓 Open Community Issues", formatCount(m.OpenCommunityIssues)},
		{"✅ Closed Community Issues", formatCount(m.ClosedCommunityIssues)},
		{"📊 All-time Community Issues", formatCount(m.TotalCommunityIssues)},
		{"🎯 Issue Resolution Rate", formatRate(summary.Rates.IssueCloseRate)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.key, r.value)
	}

	if len(report.Repos) > 1 {
		b.WriteString("\n### 📦 Repositories\n\n")
		b.WriteString("| Repository | Open PRs | PR Merge Rate | Open Issues | Issue Resolution Rate |\n|---|---|---|---|---|\n")
		for _, r := range report.Repos {
			fmt.Fprintf(&b, "| %s | %d | %s | %d | %s |\n", r.Label,
				len(r.Metrics.OpenCommunityPRs), formatRate(r.Rates.PRMergeRate),
				r.Metrics.OpenCommunityIssues, formatRate(r.Rates.IssueCloseRate))
		}
	}

	if len(summary.TopActiveUsers) > 0 {
		b.WriteString("\n### 🌟 Top Active Community Users\n\n")
		for i, u := range summary.TopActiveUsers {
			fmt.Fprintf(&b, "%d. **@%s** (%d points) - %s\n", i+1, u.Username, u.Total, activityBreakdown(u))
		}
		fmt.Fprintf(&b, "\n*%s*\n", strings.TrimPrefix(ScoringLegend, "📝 "))
	}

	if prs := m.OpenCommunityPRs; len(prs) > 0 {
		b.WriteString("\n### 🚀 Current Open Community Pull Requests\n\n")
		sorted := newestFirst(prs)
		for _, pr := range sorted[:min(len(sorted), maxSummaryPRs)] {
			fmt.Fprintf(&b, "- [#%d %s](%s) by @%s (%s)\n", pr.Number, pr.Title, pr.URL, pr.Author, pr.CreatedAt.Format(schema.DateFormat))
		}
		if len(sorted) > maxSummaryPRs {
			fmt.Fprintf(&b, "\n*...and %d more*\n", len(sorted)-maxSummaryPRs)
		}
	}

	fmt.Fprintf(&b, "\n*Last updated: %s*\n", report.GeneratedAt.UTC().Format(time.RFC3339))
	return b.String()
}
