package core

import (
	"time"

	"github.com/huangsam/commpulse/core/algo"
	"github.com/huangsam/commpulse/schema"
)

// ReportFromResult builds the presentation model of a fetch result, deriving its rates.
func ReportFromResult(label string, result schema.RepoResult) schema.RepoReport {
	return schema.RepoReport{
		Label:          label,
		Metrics:        result.Metrics,
		Rates:          algo.RatesFor(result.Metrics),
		TopActiveUsers: nonNilUsers(result.TopActiveUsers),
		Metadata:       result.Metadata,
		FromCache:      result.FromCache,
	}
}

// BuildSnapshot converts a report into the persisted snapshot shape.
// The ranking is stored as-is, so it holds at most the configured number of top users.
func BuildSnapshot(report schema.RepoReport, social *schema.SocialMetrics, ts time.Time, runID string) schema.Snapshot {
	m := report.Metrics
	metadata := report.Metadata
	prs := m.OpenCommunityPRs
	if prs == nil {
		prs = []schema.PRSummary{}
	}
	issues := m.OpenCommunityIssuesList
	if issues == nil {
		issues = []schema.IssueSummary{}
	}

	return schema.Snapshot{
		Timestamp: ts,
		Date:      ts.UTC().Format(schema.DateFormat),
		RepoLabel: report.Label,
		RunID:     runID,
		Metrics: schema.SnapshotMetrics{
			Discussions: schema.DiscussionStats{
				TotalUpvotes:  m.TotalUpvotes,
				TotalComments: m.TotalComments,
			},
			PullRequests: schema.PullRequestStats{
				Open:      len(prs),
				Total:     m.TotalCommunityPRs,
				Merged:    m.TotalMergedCommunityPRs,
				MergeRate: report.Rates.PRMergeRate,
				OpenPRs:   prs,
			},
			Issues: schema.IssueStats{
				Open:       m.OpenCommunityIssues,
				Closed:     m.ClosedCommunityIssues,
				Total:      m.TotalCommunityIssues,
				CloseRate:  report.Rates.IssueCloseRate,
				OpenIssues: issues,
			},
			Social:     social,
			Repository: &metadata,
		},
		TopActiveUsers: nonNilUsers(report.TopActiveUsers),
	}
}

// ResultFromSnapshot rebuilds the fetch result a snapshot was saved from.
// Open counts come from the stored totals, not from the length of the stored lists.
func ResultFromSnapshot(repo schema.RepoID, snap schema.Snapshot) schema.RepoResult {
	m := snap.Metrics
	result := schema.RepoResult{
		Repo: repo,
		Metrics: schema.RepoMetrics{
			TotalUpvotes:            m.Discussions.TotalUpvotes,
			TotalComments:           m.Discussions.TotalComments,
			OpenCommunityPRs:        m.PullRequests.OpenPRs,
			TotalCommunityPRs:       m.PullRequests.Total,
			TotalMergedCommunityPRs: m.PullRequests.Merged,
			OpenCommunityIssuesList: m.Issues.OpenIssues,
			OpenCommunityIssues:     m.Issues.Open,
			ClosedCommunityIssues:   m.Issues.Closed,
			TotalCommunityIssues:    m.Issues.Total,
		},
		TopActiveUsers: nonNilUsers(snap.TopActiveUsers),
		FromCache:      true,
	}
	if result.Metrics.OpenCommunityPRs == nil {
		result.Metrics.OpenCommunityPRs = []schema.PRSummary{}
	}
	if result.Metrics.OpenCommunityIssuesList == nil {
		result.Metrics.OpenCommunityIssuesList = []schema.IssueSummary{}
	}
	if m.Repository != nil {
		result.Metadata = *m.Repository
	}
	return result
}

// ReportFromSnapshot builds the presentation model of a stored snapshot.
// Stored rates are kept; rates missing from older snapshots are recomputed.
func ReportFromSnapshot(snap schema.Snapshot) schema.RepoReport {
	report := ReportFromResult(snap.RepoLabel, ResultFromSnapshot(schema.RepoID{}, snap))
	if r := snap.Metrics.PullRequests.MergeRate; r != "" {
		report.Rates.PRMergeRate = r
	}
	if r := snap.Metrics.Issues.CloseRate; r != "" {
		report.Rates.IssueCloseRate = r
	}
	return report
}

func nonNilUsers(users []schema.UserActivity) []schema.UserActivity {
	if users == nil {
		return []schema.UserActivity{}
	}
	return users
}
