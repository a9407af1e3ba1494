// Package agg has aggregation logic for per-repository community metrics.
package agg

import (
	"github.com/huangsam/commpulse/core/algo"
	"github.com/huangsam/commpulse/schema"
)

// Aggregate sums the metrics of several repositories.
// Numeric fields are added, open lists are concatenated in input order, and
// the top users are merged by username before being re-ranked and cut to limit.
//
// Only each repository's own top users are merged, so someone ranked below the
// cut in every repository cannot appear in the aggregate even with a large
// combined total.
func Aggregate(results []schema.RepoResult, limit int) schema.AggregateResult {
	var out schema.AggregateResult
	out.Metrics.OpenCommunityPRs = make([]schema.PRSummary, 0)
	out.Metrics.OpenCommunityIssuesList = make([]schema.IssueSummary, 0)
	lists := make([][]schema.UserActivity, 0, len(results))

	for _, r := range results {
		out.Metrics = addMetrics(out.Metrics, r.Metrics)
		out.Metadata.Stars += r.Metadata.Stars
		out.Metadata.Forks += r.Metadata.Forks
		out.Metadata.Watchers += r.Metadata.Watchers
		lists = append(lists, r.TopActiveUsers)
	}

	out.TopActiveUsers = algo.RankUsers(algo.MergeUsers(lists...), limit)
	return out
}

// addMetrics returns the element-wise sum of two RepoMetrics.
func addMetrics(a, b schema.RepoMetrics) schema.RepoMetrics {
	return schema.RepoMetrics{
		TotalUpvotes:            a.TotalUpvotes + b.TotalUpvotes,
		TotalComments:           a.TotalComments + b.TotalComments,
		OpenCommunityPRs:        append(a.OpenCommunityPRs, b.OpenCommunityPRs...),
		TotalCommunityPRs:       a.TotalCommunityPRs + b.TotalCommunityPRs,
		TotalMergedCommunityPRs: a.TotalMergedCommunityPRs + b.TotalMergedCommunityPRs,
		OpenCommunityIssuesList: append(a.OpenCommunityIssuesList, b.OpenCommunityIssuesList...),
		OpenCommunityIssues:     a.OpenCommunityIssues + b.OpenCommunityIssues,
		ClosedCommunityIssues:   a.ClosedCommunityIssues + b.ClosedCommunityIssues,
		TotalCommunityIssues:    a.TotalCommunityIssues + b.TotalCommunityIssues,
	}
}
