// Package fetch turns GitHub GraphQL connections into community metrics.
//
// Every fetcher applies the community filter before counting, so maintainer
// and bot activity never shows up in a statistic.
package fetch

import (
	"context"
	"time"

	"github.com/huangsam/commpulse/core/algo"
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/ghclient"
	"github.com/huangsam/commpulse/schema"
	"golang.org/x/sync/errgroup"
)

// Options configures a Fetcher.
type Options struct {
	LookbackMonths int              // Recent activity window, in calendar months
	TopUsers       int              // Size of the most-active ranking
	Now            func() time.Time // Clock override, defaults to time.Now
}

// Fetcher runs the per-entity fetches for a repository.
type Fetcher struct {
	client         *ghclient.Client
	community      contract.Classifier
	lookbackMonths int
	topUsers       int
	now            func() time.Time
}

var _ contract.RepoFetcher = &Fetcher{} // Compile-time check

// New creates a Fetcher. Zero option values fall back to the defaults.
func New(client *ghclient.Client, community contract.Classifier, opts Options) *Fetcher {
	f := &Fetcher{
		client:         client,
		community:      community,
		lookbackMonths: opts.LookbackMonths,
		topUsers:       opts.TopUsers,
		now:            opts.Now,
	}
	if f.lookbackMonths <= 0 {
		f.lookbackMonths = contract.DefaultLookbackMonths
	}
	if f.topUsers <= 0 {
		f.topUsers = schema.DefaultTopUsers
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// FetchRepo runs every entity fetch for repo concurrently and assembles the result.
// Pagination inside each fetch stays sequential. Any required fetch failing
// fails the whole repository; repository metadata degrades to zeros instead.
func (f *Fetcher) FetchRepo(ctx context.Context, repo schema.RepoID) (schema.RepoResult, error) {
	var (
		discussions DiscussionTotals
		prs         PRTotals
		issues      IssueTotals
		openPRs     []schema.PRSummary
		openIssues  []schema.IssueSummary
		topUsers    []schema.UserActivity
		metadata    schema.RepoMetadata
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		discussions, err = f.Discussions(gCtx, repo)
		return err
	})
	g.Go(func() (err error) {
		prs, err = f.AllTimePRs(gCtx, repo)
		return err
	})
	g.Go(func() (err error) {
		openPRs, err = f.OpenCommunityPRs(gCtx, repo)
		return err
	})
	g.Go(func() (err error) {
		issues, err = f.AllTimeIssues(gCtx, repo)
		return err
	})
	g.Go(func() (err error) {
		openIssues, err = f.OpenCommunityIssues(gCtx, repo)
		return err
	})
	g.Go(func() (err error) {
		topUsers, err = f.RecentActivity(gCtx, repo)
		return err
	})
	g.Go(func() error {
		metadata = f.RepositoryMetadata(gCtx, repo)
		return nil
	})
	if err := g.Wait(); err != nil {
		return schema.RepoResult{}, err
	}

	return schema.RepoResult{
		Repo: repo,
		Metrics: schema.RepoMetrics{
			TotalUpvotes:            discussions.TotalUpvotes,
			TotalComments:           discussions.TotalComments,
			OpenCommunityPRs:        openPRs,
			TotalCommunityPRs:       prs.Total,
			TotalMergedCommunityPRs: prs.Merged,
			OpenCommunityIssuesList: openIssues,
			OpenCommunityIssues:     issues.Open,
			ClosedCommunityIssues:   issues.Closed,
			TotalCommunityIssues:    issues.Total,
		},
		TopActiveUsers: topUsers,
		Metadata:       metadata,
	}, nil
}

// RepositoryMetadata fetches stars, forks and watchers. Failures are logged
// and reported as zeros so they never block the community metrics.
func (f *Fetcher) RepositoryMetadata(ctx context.Context, repo schema.RepoID) schema.RepoMetadata {
	var data repositoryData
	if err := f.client.Query(ctx, ghclient.RepositoryQuery, repo, &data); err != nil {
		contract.LogWarn("Failed to fetch repository metadata for "+repo.String(), err)
		return schema.RepoMetadata{}
	}
	if data.Repository == nil {
		return schema.RepoMetadata{}
	}
	return schema.RepoMetadata{
		Stars:    data.Repository.StargazerCount,
		Forks:    data.Repository.ForkCount,
		Watchers: data.Repository.Watchers.TotalCount,
	}
}

// RecentActivity scores community users over the lookback window.
// Recent PRs earn their author PR points, recent issues earn issue points,
// and in-window comments on recent PRs, issues and discussions earn comment points.
func (f *Fetcher) RecentActivity(ctx context.Context, repo schema.RepoID) ([]schema.UserActivity, error) {
	cutoff := contract.LookbackCutoff(f.now(), f.lookbackMonths)
	tally := algo.NewActivityTally()

	scans := []struct {
		query  ghclient.QueryName
		label  string
		credit func(login string)
	}{
		{ghclient.RecentPRsQuery, "recent PR activity", tally.AddPR},
		{ghclient.RecentIssuesQuery, "recent issue activity", tally.AddIssue},
		{ghclient.RecentDiscussionsQuery, "recent discussion activity", nil}, // Comments only
	}

	for _, s := range scans {
		q, err := ghclient.Lookup(s.query)
		if err != nil {
			return nil, err
		}
		label := repo.String() + " " + s.label
		w := newWindow(label, cutoff, q)

		visit := func(n recentNode) {
			if login := n.Author.login(); s.credit != nil && f.community.IsCommunity(login) {
				s.credit(login)
			}
			for _, c := range n.Comments.Nodes {
				if login := c.Author.login(); w.contains(c.CreatedAt) && f.community.IsCommunity(login) {
					tally.AddComment(login)
				}
			}
		}
		reduce := func(nodes []recentNode) ghclient.Step {
			return scan(w, nodes, func(n recentNode) time.Time { return n.CreatedAt }, visit)
		}
		if _, err := ghclient.Paginate(ctx, f.client, s.query, repo, reduce, ghclient.WithProgress(label)); err != nil {
			return nil, err
		}
	}

	return algo.RankUsers(tally.Users(), f.topUsers), nil
}
