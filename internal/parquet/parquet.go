// Package parquet provides data structures and functions for exporting commpulse
// snapshot history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/commpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// SnapshotRow is one daily snapshot flattened into columns.
type SnapshotRow struct {
	// Date is the YYYY-MM-DD collection date
	Date string `parquet:"date,snappy"`

	// RepoLabel is owner/name, or "aggregate" for the cross-repository totals
	RepoLabel string `parquet:"repo_label,snappy"`

	// Timestamp is when the snapshot was taken (stored as TIMESTAMP with nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// RunID groups the snapshots written by one collection run (nullable)
	RunID *string `parquet:"run_id,optional,snappy"`

	TotalUpvotes  int32 `parquet:"total_upvotes,snappy"`
	TotalComments int32 `parquet:"total_comments,snappy"`

	OpenPRs     int32   `parquet:"open_prs,snappy"`
	TotalPRs    int32   `parquet:"total_prs,snappy"`
	MergedPRs   int32   `parquet:"merged_prs,snappy"`
	PRMergeRate float64 `parquet:"pr_merge_rate,snappy"`

	OpenIssues     int32   `parquet:"open_issues,snappy"`
	ClosedIssues   int32   `parquet:"closed_issues,snappy"`
	TotalIssues    int32   `parquet:"total_issues,snappy"`
	IssueCloseRate float64 `parquet:"issue_close_rate,snappy"`

	// Repository popularity (nullable when the snapshot predates it)
	Stars    *int32 `parquet:"stars,optional,snappy"`
	Forks    *int32 `parquet:"forks,optional,snappy"`
	Watchers *int32 `parquet:"watchers,optional,snappy"`

	// Social followers (nullable when the platform is not tracked)
	BlueskyFollowers  *int32 `parquet:"bluesky_followers,optional,snappy"`
	MastodonFollowers *int32 `parquet:"mastodon_followers,optional,snappy"`
	LinkedInFollowers *int32 `parquet:"linkedin_followers,optional,snappy"`
	TwitterFollowers  *int32 `parquet:"twitter_followers,optional,snappy"`
}

// TopUserRow is one entry of a snapshot's most-active ranking.
type TopUserRow struct {
	Date      string `parquet:"date,snappy"`
	RepoLabel string `parquet:"repo_label,snappy"`

	// Rank starts at 1
	Rank int32 `parquet:"rank,snappy"`

	Username string `parquet:"username,snappy"`
	PRs      int32  `parquet:"prs,snappy"`
	Issues   int32  `parquet:"issues,snappy"`
	Comments int32  `parquet:"comments,snappy"`
	Total    int32  `parquet:"total,snappy"`
}

// WriteSnapshotsParquet writes snapshot rows to a Parquet file.
func WriteSnapshotsParquet(data []SnapshotRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteTopUsersParquet writes top user rows to a Parquet file.
func WriteTopUsersParquet(data []TopUserRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes rows with a schema inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSnapshots flattens snapshots into SnapshotRow values.
func ConvertSnapshots(snapshots []schema.Snapshot) []SnapshotRow {
	result := make([]SnapshotRow, len(snapshots))
	for i, snap := range snapshots {
		m := snap.Metrics
		row := SnapshotRow{
			Date:           snap.Date,
			RepoLabel:      snap.RepoLabel,
			Timestamp:      snap.Timestamp,
			TotalUpvotes:   int32(m.Discussions.TotalUpvotes),
			TotalComments:  int32(m.Discussions.TotalComments),
			OpenPRs:        int32(m.PullRequests.Open),
			TotalPRs:       int32(m.PullRequests.Total),
			MergedPRs:      int32(m.PullRequests.Merged),
			PRMergeRate:    m.PullRequests.MergeRate.Float(),
			OpenIssues:     int32(m.Issues.Open),
			ClosedIssues:   int32(m.Issues.Closed),
			TotalIssues:    int32(m.Issues.Total),
			IssueCloseRate: m.Issues.CloseRate.Float(),
		}
		if snap.RunID != "" {
			runID := snap.RunID
			row.RunID = &runID
		}
		if repo := m.Repository; repo != nil {
			row.Stars = int32Ptr(&repo.Stars)
			row.Forks = int32Ptr(&repo.Forks)
			row.Watchers = int32Ptr(&repo.Watchers)
		}
		if social := m.Social; social != nil {
			row.BlueskyFollowers = int32Ptr(social.BlueskyFollowers)
			row.MastodonFollowers = int32Ptr(social.MastodonFollowers)
			row.LinkedInFollowers = int32Ptr(social.LinkedInFollowers)
			row.TwitterFollowers = int32Ptr(social.TwitterFollowers)
		}
		result[i] = row
	}
	return result
}

// ConvertTopUsers flattens every snapshot's ranking into TopUserRow values.
func ConvertTopUsers(snapshots []schema.Snapshot) []TopUserRow {
	var result []TopUserRow
	for _, snap := range snapshots {
		for rank, u := range snap.TopActiveUsers {
			result = append(result, TopUserRow{
				Date:      snap.Date,
				RepoLabel: snap.RepoLabel,
				Rank:      int32(rank + 1),
				Username:  u.Username,
				PRs:       int32(u.PRs),
				Issues:    int32(u.Issues),
				Comments:  int32(u.Comments),
				Total:     int32(u.Total),
			})
		}
	}
	return result
}

func int32Ptr(n *int) *int32 {
	if n == nil {
		return nil
	}
	v := int32(*n)
	return &v
}
