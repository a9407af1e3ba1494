// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/commpulse/schema"
)

// GraphQLDoer executes a single GraphQL request.
// The go-gh *api.GraphQLClient satisfies it, so tests can swap the transport out.
type GraphQLDoer interface {
	DoWithContext(ctx context.Context, query string, variables map[string]any, response any) error
}

// Classifier decides whether a login belongs to the community.
type Classifier interface {
	IsCommunity(login string) bool
}

// MaintainerRegistry is a Classifier backed by a reloadable list of known logins.
type MaintainerRegistry interface {
	Classifier

	// Reload re-reads the registry source, replacing the cached contents.
	Reload() error

	// Logins returns every known maintainer, bot and emeritus login.
	Logins() []string
}

// RepoFetcher fetches all metrics for one repository.
type RepoFetcher interface {
	FetchRepo(ctx context.Context, repo schema.RepoID) (schema.RepoResult, error)
}

// SocialFetcher fetches follower counts. Failures degrade to zero values,
// so there is no error return. A nil result means nothing is configured.
type SocialFetcher interface {
	Fetch(ctx context.Context, cfg SocialConfig) *schema.SocialMetrics
}

// SnapshotStore defines the interface for snapshot persistence.
// This allows mocking the store for testing.
type SnapshotStore interface {
	// FindToday returns today's snapshot for a repoLabel, if one was saved.
	FindToday(label string) (schema.Snapshot, bool, error)

	// Save writes a snapshot, replacing any earlier one for the same date and repoLabel.
	Save(snapshot schema.Snapshot) (string, error)

	// LoadAll returns every readable snapshot in no particular order.
	LoadAll() ([]schema.Snapshot, error)

	// Daily returns the latest snapshot per date and repoLabel, oldest first.
	Daily() ([]schema.Snapshot, error)

	// Recent returns the daily series restricted to the last N distinct dates.
	Recent(days int) ([]schema.Snapshot, error)

	// Status returns information about the store
	Status() (schema.HistoryStatus, error)
}

// ReportWriter renders reports, history and dashboards.
// This allows mocking the output layer for testing.
type ReportWriter interface {
	// WriteReport renders a collection report and publishes CI outputs.
	WriteReport(report schema.Report, cfg *Config) error

	// WriteHistory renders a daily snapshot series.
	WriteHistory(daily []schema.Snapshot, cfg *Config) error

	// WriteHistoryStatus prints information about the history directory.
	WriteHistoryStatus(status schema.HistoryStatus)

	// WriteDashboard writes the HTML dashboard and returns its path.
	WriteDashboard(daily []schema.Snapshot, cfg *Config, now time.Time) (string, error)
}
