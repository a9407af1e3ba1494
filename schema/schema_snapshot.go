package schema

import "time"

// DateFormat is the layout of Snapshot.Date and of snapshot filenames.
const DateFormat = "2006-01-02"

// Snapshot is the persisted record of one collection run for one repoLabel.
type Snapshot struct {
	Timestamp      time.Time       `json:"timestamp"`
	Date           string          `json:"date"`
	RepoLabel      string          `json:"repoLabel"`
	RunID          string          `json:"runId,omitempty"`
	Metrics        SnapshotMetrics `json:"metrics"`
	TopActiveUsers []UserActivity  `json:"topActiveUsers"`
}

// SnapshotMetrics groups the stored metrics by entity.
type SnapshotMetrics struct {
	Discussions  DiscussionStats  `json:"discussions"`
	PullRequests PullRequestStats `json:"pullRequests"`
	Issues       IssueStats       `json:"issues"`
	Social       *SocialMetrics   `json:"social,omitempty"`
	Repository   *RepoMetadata    `json:"repository,omitempty"`
}

// DiscussionStats is the stored shape of discussion engagement.
type DiscussionStats struct {
	TotalUpvotes  int `json:"totalUpvotes"`
	TotalComments int `json:"totalComments"`
}

// PullRequestStats is the stored shape of community pull request counts.
type PullRequestStats struct {
	Open      int         `json:"open"`
	Total     int         `json:"total"`
	Merged    int         `json:"merged"`
	MergeRate Rate        `json:"mergeRate"`
	OpenPRs   []PRSummary `json:"openPRs"`
}

// IssueStats is the stored shape of community issue counts.
type IssueStats struct {
	Open       int            `json:"open"`
	Closed     int            `json:"closed"`
	Total      int            `json:"total"`
	CloseRate  Rate           `json:"closeRate"`
	OpenIssues []IssueSummary `json:"openIssues"`
}

// DisplayLabel returns the human-facing name of a repoLabel.
func DisplayLabel(label string) string {
	if label == AggregateLabel {
		return AggregateDisplayName
	}
	return label
}
