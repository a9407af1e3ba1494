// Package core has the orchestration logic for collecting, storing and
// reporting community metrics.
package core

import (
	"context"
	"os"
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/iocache"
	"github.com/huangsam/commpulse/internal/outwriter"
	"github.com/huangsam/commpulse/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteCollect runs a collection and renders the report.
// It serves as the main entry point for the 'collect' mode.
func ExecuteCollect(ctx context.Context, cfg *contract.Config) error {
	deps, err := NewDeps(cfg)
	if err != nil {
		return err
	}
	return RunCollect(ctx, cfg, deps, outwriter.NewOutWriter())
}

// Collect wires the production collaborators and runs one collection without rendering it.
func Collect(ctx context.Context, cfg *contract.Config) (schema.Report, error) {
	deps, err := NewDeps(cfg)
	if err != nil {
		return schema.Report{}, err
	}
	return CollectResults(ctx, cfg, deps)
}

// RunCollect collects with deps and hands the report to the writer.
func RunCollect(ctx context.Context, cfg *contract.Config, deps *Deps, w contract.ReportWriter) error {
	start := time.Now()
	report, err := CollectResults(ctx, cfg, deps)
	if err != nil {
		return err
	}
	if err := w.WriteReport(report, cfg); err != nil {
		return err
	}
	contract.LogInfo("✅ Collected %s in %s", contract.Pluralize(len(report.Repos), "repo"), time.Since(start).Round(time.Millisecond))
	return nil
}

// ExecuteDashboard renders the daily history as an HTML dashboard.
func ExecuteDashboard(_ context.Context, cfg *contract.Config) error {
	_, err := RunDashboard(cfg, iocache.NewFileStore(cfg.HistoryDir), outwriter.NewOutWriter(), time.Now())
	return err
}

// RunDashboard loads the daily series from store and writes the dashboard.
// It returns the path of the written file.
func RunDashboard(cfg *contract.Config, store contract.SnapshotStore, w contract.ReportWriter, now time.Time) (string, error) {
	daily, err := store.Daily()
	if err != nil {
		return "", err
	}
	return w.WriteDashboard(daily, cfg, now)
}

// ExecuteHistory prints the recent daily series.
func ExecuteHistory(_ context.Context, cfg *contract.Config) error {
	return RunHistory(cfg, iocache.NewFileStore(cfg.HistoryDir), outwriter.NewOutWriter())
}

// RunHistory loads the last cfg.HistoryDays days, optionally narrowed to one repoLabel.
func RunHistory(cfg *contract.Config, store contract.SnapshotStore, w contract.ReportWriter) error {
	recent, err := store.Recent(cfg.HistoryDays)
	if err != nil {
		return err
	}
	return w.WriteHistory(iocache.FilterLabel(recent, cfg.RepoFilter), cfg)
}

// ExecuteHistoryStatus prints information about the history directory.
func ExecuteHistoryStatus(_ context.Context, cfg *contract.Config) error {
	return RunHistoryStatus(iocache.NewFileStore(cfg.HistoryDir), outwriter.NewOutWriter())
}

// RunHistoryStatus prints the status of store.
func RunHistoryStatus(store contract.SnapshotStore, w contract.ReportWriter) error {
	status, err := store.Status()
	if err != nil {
		return err
	}
	w.WriteHistoryStatus(status)
	return nil
}

// ExecuteHistoryExport writes every daily snapshot as Parquet.
func ExecuteHistoryExport(_ context.Context, cfg *contract.Config) error {
	return iocache.ExportHistory(os.Stdout, iocache.NewFileStore(cfg.HistoryDir), cfg.OutputFile)
}
