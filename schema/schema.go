// Package schema has models and constants for all parts of commpulse.
package schema

import (
	"fmt"
	"time"
)

// RepoID identifies a GitHub repository.
type RepoID struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the owner/name form of the repository.
func (r RepoID) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Label returns the repoLabel used for snapshots of this repository.
func (r RepoID) Label() string {
	return r.String()
}

// PRSummary is the stored projection of an open pull request.
type PRSummary struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// IssueSummary is the stored projection of an open issue.
type IssueSummary struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	Assignees []string  `json:"assignees"`
	Labels    []string  `json:"labels"`
}

// RepoMetrics holds the community counts for one repository and one collection run.
// TotalCommunityIssues always equals OpenCommunityIssues + ClosedCommunityIssues.
type RepoMetrics struct {
	TotalUpvotes  int `json:"totalUpvotes"`
	TotalComments int `json:"totalComments"`

	OpenCommunityPRs        []PRSummary `json:"openCommunityPRs"`
	TotalCommunityPRs       int         `json:"totalCommunityPRs"`
	TotalMergedCommunityPRs int         `json:"totalMergedCommunityPRs"`

	OpenCommunityIssuesList []IssueSummary `json:"openCommunityIssuesList"`
	OpenCommunityIssues     int            `json:"openCommunityIssues"`
	ClosedCommunityIssues   int            `json:"closedCommunityIssues"`
	TotalCommunityIssues    int            `json:"totalCommunityIssues"`
}

// UserActivity is the activity score of one community contributor.
type UserActivity struct {
	Username string `json:"username"`
	PRs      int    `json:"prs"`
	Issues   int    `json:"issues"`
	Comments int    `json:"comments"`
	Total    int    `json:"total"`
}

// Rates holds the derived percentages of a RepoMetrics.
type Rates struct {
	PRMergeRate    Rate `json:"prMergeRate"`
	IssueCloseRate Rate `json:"issueCloseRate"`
}

// RepoMetadata holds repository popularity counters.
type RepoMetadata struct {
	Stars    int `json:"stars"`
	Forks    int `json:"forks"`
	Watchers int `json:"watchers"`
}

// SocialMetrics holds follower counts for each configured platform.
type SocialMetrics struct {
	BlueskyFollowers  *int `json:"blueskyFollowers,omitempty"`
	MastodonFollowers *int `json:"mastodonFollowers,omitempty"`
	LinkedInFollowers *int `json:"linkedinFollowers,omitempty"`
	TwitterFollowers  *int `json:"twitterFollowers,omitempty"`
}

// Bluesky returns the Bluesky follower count or 0.
func (s *SocialMetrics) Bluesky() int {
	if s == nil || s.BlueskyFollowers == nil {
		return 0
	}
	return *s.BlueskyFollowers
}

// RepoResult is the in-memory outcome of fetching one repository.
type RepoResult struct {
	Repo           RepoID
	Metrics        RepoMetrics
	TopActiveUsers []UserActivity
	Metadata       RepoMetadata
	FromCache      bool
}

// AggregateResult is the cross-repository sum of several RepoResult values.
type AggregateResult struct {
	Metrics        RepoMetrics
	TopActiveUsers []UserActivity
	Metadata       RepoMetadata
}
