package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/fetch"
	"github.com/huangsam/commpulse/internal/iocache"
	"github.com/huangsam/commpulse/internal/outwriter"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteCollectRequiresToken(t *testing.T) {
	cfg := &contract.Config{Repos: []schema.RepoID{{Owner: "o", Name: "r"}}}
	err := ExecuteCollect(context.Background(), cfg)
	assert.ErrorIs(t, err, contract.ErrMissingToken)
}

func TestRunCollect(t *testing.T) {
	repo := schema.RepoID{Owner: "o", Name: "r"}
	cfg := &contract.Config{Repos: []schema.RepoID{repo}, NoCache: true}

	fetcher := &fetch.MockRepoFetcher{}
	fetcher.On("FetchRepo", mock.Anything, repo).Return(sampleResult("o", "r"), nil)
	store := &iocache.MockSnapshotStore{}
	store.On("Save", mock.Anything).Return("path", nil)

	writer := &outwriter.MockReportWriter{}
	writer.On("WriteReport", mock.MatchedBy(func(r schema.Report) bool {
		return len(r.Repos) == 1 && r.Repos[0].Label == "o/r"
	}), cfg).Return(nil).Once()

	require.NoError(t, RunCollect(context.Background(), cfg, testDeps(fetcher, store), writer))
	writer.AssertExpectations(t)
}

func TestRunCollectWriterError(t *testing.T) {
	repo := schema.RepoID{Owner: "o", Name: "r"}
	cfg := &contract.Config{Repos: []schema.RepoID{repo}, NoCache: true}

	fetcher := &fetch.MockRepoFetcher{}
	fetcher.On("FetchRepo", mock.Anything, repo).Return(sampleResult("o", "r"), nil)
	store := &iocache.MockSnapshotStore{}
	store.On("Save", mock.Anything).Return("path", nil)
	writer := &outwriter.MockReportWriter{}
	writer.On("WriteReport", mock.Anything, cfg).Return(errors.New("broken pipe"))

	err := RunCollect(context.Background(), cfg, testDeps(fetcher, store), writer)
	assert.EqualError(t, err, "broken pipe")
}

func TestRunDashboard(t *testing.T) {
	cfg := &contract.Config{}
	daily := []schema.Snapshot{{Date: "2025-03-15", RepoLabel: "o/r"}}

	store := &iocache.MockSnapshotStore{}
	store.On("Daily").Return(daily, nil).Once()
	writer := &outwriter.MockReportWriter{}
	writer.On("WriteDashboard", daily, cfg, testNow).Return(contract.DefaultDashboardFile, nil).Once()

	path, err := RunDashboard(cfg, store, writer, testNow)
	require.NoError(t, err)
	assert.Equal(t, contract.DefaultDashboardFile, path)
	writer.AssertExpectations(t)
}

func TestRunDashboardStoreError(t *testing.T) {
	store := &iocache.MockSnapshotStore{}
	store.On("Daily").Return(nil, errors.New("no access"))

	_, err := RunDashboard(&contract.Config{}, store, &outwriter.MockReportWriter{}, testNow)
	assert.EqualError(t, err, "no access")
}

func TestRunHistory(t *testing.T) {
	recent := []schema.Snapshot{
		{Date: "2025-03-14", RepoLabel: "o/r"},
		{Date: "2025-03-14", RepoLabel: schema.AggregateLabel},
		{Date: "2025-03-15", RepoLabel: "o/r"},
	}

	tests := []struct {
		name   string
		filter string
		want   []schema.Snapshot
	}{
		{"all labels", "", recent},
		{"one repository", "o/r", []schema.Snapshot{recent[0], recent[2]}},
		{"aggregate", schema.AggregateLabel, []schema.Snapshot{recent[1]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{HistoryDays: 7, RepoFilter: tt.filter}
			store := &iocache.MockSnapshotStore{}
			store.On("Recent", 7).Return(recent, nil).Once()
			writer := &outwriter.MockReportWriter{}
			writer.On("WriteHistory", tt.want, cfg).Return(nil).Once()

			require.NoError(t, RunHistory(cfg, store, writer))
			store.AssertExpectations(t)
			writer.AssertExpectations(t)
		})
	}
}

func TestRunHistoryStatus(t *testing.T) {
	status := schema.HistoryStatus{Dir: "data/history", Exists: true}
	store := &iocache.MockSnapshotStore{}
	store.On("Status").Return(status, nil)
	writer := &outwriter.MockReportWriter{}
	writer.On("WriteHistoryStatus", status).Once()

	require.NoError(t, RunHistoryStatus(store, writer))
	writer.AssertExpectations(t)
}

func TestExecuteHistoryExport(t *testing.T) {
	t.Run("requires an output file", func(t *testing.T) {
		err := ExecuteHistoryExport(context.Background(), &contract.Config{HistoryDir: t.TempDir()})
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("empty history", func(t *testing.T) {
		cfg := &contract.Config{HistoryDir: t.TempDir(), OutputFile: filepath.Join(t.TempDir(), "export")}
		err := ExecuteHistoryExport(context.Background(), cfg)
		assert.ErrorContains(t, err, "no snapshot history found")
	})
}
