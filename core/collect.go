package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/commpulse/core/agg"
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/fetch"
	"github.com/huangsam/commpulse/internal/fetch/social"
	"github.com/huangsam/commpulse/internal/ghclient"
	"github.com/huangsam/commpulse/internal/iocache"
	"github.com/huangsam/commpulse/internal/maintainers"
	"github.com/huangsam/commpulse/schema"
	"golang.org/x/sync/errgroup"
)

// Deps holds the collaborators of a collection run.
type Deps struct {
	Fetcher  contract.RepoFetcher
	Social   contract.SocialFetcher
	Store    contract.SnapshotStore
	Registry contract.MaintainerRegistry
	Now      func() time.Time
	NewRunID func() string
}

// NewDeps wires the production collaborators for cfg.
func NewDeps(cfg *contract.Config) (*Deps, error) {
	if err := contract.RequireToken(cfg); err != nil {
		return nil, err
	}
	client, err := ghclient.New(ghclient.Options{
		Token:      cfg.Token,
		Host:       cfg.Host,
		Timeout:    cfg.RequestTimeout,
		PageDelay:  cfg.PageDelay,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}
	registry := maintainers.NewRegistry(cfg.MaintainersFile)
	return &Deps{
		Fetcher: fetch.New(client, registry, fetch.Options{
			LookbackMonths: cfg.LookbackMonths,
			TopUsers:       cfg.TopUsers,
		}),
		Social:   social.New(),
		Store:    iocache.NewFileStore(cfg.HistoryDir),
		Registry: registry,
		Now:      time.Now,
		NewRunID: uuid.NewString,
	}, nil
}

// repoOutcome is what one worker produces for one repository.
type repoOutcome struct {
	result schema.RepoResult
	cached *schema.Snapshot
}

// CollectResults fetches or reuses metrics for every configured repository,
// saves fresh snapshots and returns the report to render.
func CollectResults(ctx context.Context, cfg *contract.Config, deps *Deps) (schema.Report, error) {
	if len(cfg.Repos) == 0 {
		return schema.Report{}, fmt.Errorf("no repositories configured")
	}
	now, runID := deps.clock(), deps.runID()

	var (
		wg      sync.WaitGroup
		socials *schema.SocialMetrics
	)
	if deps.Social != nil && cfg.Social.Enabled() {
		wg.Go(func() {
			socials = deps.Social.Fetch(ctx, cfg.Social)
		})
	}

	outcomes, err := collectRepos(ctx, cfg, deps)
	wg.Wait()
	if err != nil {
		return schema.Report{}, err
	}

	report := schema.Report{GeneratedAt: now, RunID: runID, Social: socials}
	results := make([]schema.RepoResult, 0, len(outcomes))
	anyFresh := false
	for _, o := range outcomes {
		results = append(results, o.result)
		if o.cached != nil {
			report.Repos = append(report.Repos, ReportFromSnapshot(*o.cached))
			continue
		}
		anyFresh = true
		repoReport := ReportFromResult(o.result.Repo.Label(), o.result)
		if err := saveSnapshot(deps.Store, BuildSnapshot(repoReport, socials, now, runID)); err != nil {
			return schema.Report{}, err
		}
		report.Repos = append(report.Repos, repoReport)
	}

	if len(results) > 1 {
		aggregate, err := collectAggregate(cfg, deps, results, anyFresh, socials, now, runID)
		if err != nil {
			return schema.Report{}, err
		}
		report.Aggregate = &aggregate
	}
	return report, nil
}

// collectRepos fans out over the repositories, bounded by cfg.Workers.
// Results keep the configured repository order.
func collectRepos(ctx context.Context, cfg *contract.Config, deps *Deps) ([]repoOutcome, error) {
	outcomes := make([]repoOutcome, len(cfg.Repos))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, repo := range cfg.Repos {
		g.Go(func() error {
			outcome, err := collectRepo(ctx, cfg, deps, repo)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func collectRepo(ctx context.Context, cfg *contract.Config, deps *Deps, repo schema.RepoID) (repoOutcome, error) {
	label := repo.Label()
	if !cfg.NoCache {
		snap, ok, err := deps.Store.FindToday(label)
		switch {
		case err != nil:
			contract.LogWarn(fmt.Sprintf("Failed to read cached snapshot for %s", label), err)
		case ok:
			contract.LogInfo("📦 Using cached snapshot for %s", label)
			return repoOutcome{result: ResultFromSnapshot(repo, snap), cached: &snap}, nil
		}
	}

	contract.LogInfo("🔍 Fetching community metrics for %s...", label)
	result, err := deps.Fetcher.FetchRepo(ctx, repo)
	if err != nil {
		return repoOutcome{}, fmt.Errorf("failed to fetch %s: %w", label, err)
	}
	return repoOutcome{result: result}, nil
}

// collectAggregate sums the per-repository results. The aggregate snapshot is
// refreshed whenever a repository was fetched, or when none exists for today.
func collectAggregate(cfg *contract.Config, deps *Deps, results []schema.RepoResult, anyFresh bool, socials *schema.SocialMetrics, now time.Time, runID string) (schema.RepoReport, error) {
	limit := cfg.TopUsers
	if limit <= 0 {
		limit = schema.DefaultTopUsers
	}
	summed := agg.Aggregate(results, limit)
	report := ReportFromResult(schema.AggregateLabel, schema.RepoResult{
		Metrics:        summed.Metrics,
		TopActiveUsers: summed.TopActiveUsers,
		Metadata:       summed.Metadata,
	})
	report.FromCache = !anyFresh

	save := anyFresh
	if !save {
		_, ok, err := deps.Store.FindToday(schema.AggregateLabel)
		if err != nil {
			contract.LogWarn("Failed to read cached aggregate snapshot", err)
		}
		save = !ok
	}
	if save {
		if err := saveSnapshot(deps.Store, BuildSnapshot(report, socials, now, runID)); err != nil {
			return schema.RepoReport{}, err
		}
	}
	return report, nil
}

func saveSnapshot(store contract.SnapshotStore, snap schema.Snapshot) error {
	path, err := store.Save(snap)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.RepoLabel, err)
	}
	contract.LogInfo("💾 Saved snapshot to %s", path)
	return nil
}

func (d *Deps) clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Deps) runID() string {
	if d.NewRunID == nil {
		return uuid.NewString()
	}
	return d.NewRunID()
}
