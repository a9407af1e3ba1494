package fetch

import (
	"context"

	"github.com/huangsam/commpulse/internal/ghclient"
	"github.com/huangsam/commpulse/schema"
)

// DiscussionTotals holds the discussion engagement of a repository.
type DiscussionTotals struct {
	TotalUpvotes  int
	TotalComments int
}

// PRTotals holds all-time community pull request counts.
type PRTotals struct {
	Total  int
	Merged int
}

// IssueTotals holds all-time community issue counts. Total is Open + Closed.
type IssueTotals struct {
	Open   int
	Closed int
	Total  int
}

// Discussions sums upvote reactions and comments over every discussion.
// These totals cover everyone, maintainers included.
func (f *Fetcher) Discussions(ctx context.Context, repo schema.RepoID) (DiscussionTotals, error) {
	var totals DiscussionTotals
	_, err := ghclient.Paginate(ctx, f.client, ghclient.DiscussionsQuery, repo, func(nodes []discussionNode) ghclient.Step {
		for _, d := range nodes {
			totals.TotalComments += d.Comments.TotalCount
			for _, r := range d.Reactions.Nodes {
				if _, ok := schema.UpvoteReactions[r.Content]; ok {
					totals.TotalUpvotes++
				}
			}
		}
		return ghclient.Step{Count: len(nodes)}
	})
	return totals, err
}

// AllTimePRs counts every community pull request and how many were merged.
func (f *Fetcher) AllTimePRs(ctx context.Context, repo schema.RepoID) (PRTotals, error) {
	var totals PRTotals
	_, err := ghclient.Paginate(ctx, f.client, ghclient.AllPRsQuery, repo, func(nodes []stateNode) ghclient.Step {
		count := 0
		for _, pr := range nodes {
			if !f.community.IsCommunity(pr.Author.login()) {
				continue
			}
			count++
			totals.Total++
			if pr.State == schema.MergedState {
				totals.Merged++
			}
		}
		return ghclient.Step{Count: count}
	}, ghclient.WithProgress(repo.String()+" all-time community PRs"))
	return totals, err
}

// AllTimeIssues counts every community issue by state.
func (f *Fetcher) AllTimeIssues(ctx context.Context, repo schema.RepoID) (IssueTotals, error) {
	var totals IssueTotals
	_, err := ghclient.Paginate(ctx, f.client, ghclient.AllIssuesQuery, repo, func(nodes []stateNode) ghclient.Step {
		count := 0
		for _, issue := range nodes {
			if !f.community.IsCommunity(issue.Author.login()) {
				continue
			}
			switch issue.State {
			case schema.OpenState:
				totals.Open++
			case schema.ClosedState:
				totals.Closed++
			default:
				continue
			}
			count++
		}
		return ghclient.Step{Count: count}
	}, ghclient.WithProgress(repo.String()+" all-time community issues"))
	totals.Total = totals.Open + totals.Closed
	return totals, err
}

// OpenCommunityPRs lists every open pull request authored by the community.
func (f *Fetcher) OpenCommunityPRs(ctx context.Context, repo schema.RepoID) ([]schema.PRSummary, error) {
	prs := make([]schema.PRSummary, 0)
	_, err := ghclient.Paginate(ctx, f.client, ghclient.OpenPRsQuery, repo, func(nodes []openPRNode) ghclient.Step {
		before := len(prs)
		for _, pr := range nodes {
			if f.community.IsCommunity(pr.Author.login()) {
				prs = append(prs, pr.summary())
			}
		}
		return ghclient.Step{Count: len(prs) - before}
	})
	return prs, err
}

// OpenCommunityIssues lists every open issue authored by the community.
func (f *Fetcher) OpenCommunityIssues(ctx context.Context, repo schema.RepoID) ([]schema.IssueSummary, error) {
	issues := make([]schema.IssueSummary, 0)
	_, err := ghclient.Paginate(ctx, f.client, ghclient.OpenIssuesQuery, repo, func(nodes []openIssueNode) ghclient.Step {
		before := len(issues)
		for _, issue := range nodes {
			if f.community.IsCommunity(issue.Author.login()) {
				issues = append(issues, issue.summary())
			}
		}
		return ghclient.Step{Count: len(issues) - before}
	})
	return issues, err
}
