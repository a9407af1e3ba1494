// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cli/go-gh/v2/pkg/browser"
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/iocache"
	"github.com/huangsam/commpulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	browse func(url string) error
}

var _ contract.ReportWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer bound to the process environment.
func NewOutWriter() *OutWriter {
	return &OutWriter{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		browse: browser.New("", os.Stdout, os.Stderr).Browse,
	}
}

// WriteReport prints a collection report using the configured output format,
// then publishes GitHub Actions outputs when running in CI.
func (ow *OutWriter) WriteReport(report schema.Report, cfg *contract.Config) error {
	if err := WriteReport(report, cfg); err != nil {
		return err
	}
	return WriteGitHubActions(report, ow.getenv, ow.commandWriter(cfg))
}

// commandWriter is where legacy workflow commands go. Machine-readable
// reports printed to stdout keep stdout to themselves.
func (ow *OutWriter) commandWriter(cfg *contract.Config) io.Writer {
	if (cfg.Output == schema.JSONOut || cfg.Output == schema.CSVOut) && cfg.OutputFile == "" {
		return ow.stderr
	}
	return ow.stdout
}

// WriteHistory prints the daily snapshot series using the configured output format.
func (ow *OutWriter) WriteHistory(daily []schema.Snapshot, cfg *contract.Config) error {
	return WriteHistory(daily, cfg)
}

// WriteHistoryStatus prints the state of the history directory.
func (ow *OutWriter) WriteHistoryStatus(status schema.HistoryStatus) {
	iocache.PrintHistoryStatus(ow.stdout, status)
}

// WriteDashboard renders the dashboard to cfg.OutputFile, or to the default
// dashboard file, and opens it when requested. It returns the written path.
func (ow *OutWriter) WriteDashboard(daily []schema.Snapshot, cfg *contract.Config, now time.Time) (string, error) {
	path := cfg.OutputFile
	if path == "" {
		path = contract.DefaultDashboardFile
	}
	if err := WriteDashboard(daily, path, now); err != nil {
		return "", err
	}
	if cfg.OpenBrowser {
		if err := ow.OpenInBrowser(path); err != nil {
			contract.LogWarn("Failed to open dashboard in browser", err)
		}
	}
	return path, nil
}

// OpenInBrowser opens a local file with the user's browser.
func (ow *OutWriter) OpenInBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.stderr, "🌐 Opening %s in browser...\n", abs)
	return ow.browse("file://" + filepath.ToSlash(abs))
}
