package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

func intPtr(n int) *int {
	return &n
}

func sampleRepo(label string, fromCache bool) schema.RepoReport {
	return schema.RepoReport{
		Label: label,
		Metrics: schema.RepoMetrics{
			TotalUpvotes:  12,
			TotalComments: 40,
			OpenCommunityPRs: []schema.PRSummary{
				{Number: 12, Title: "Add tray menu", Author: "bob", URL: "https://github.com/o/r/pull/12", CreatedAt: testNow.AddDate(0, 0, -3)},
				{Number: 13, Title: "Fix crash on startup", Author: "carol", URL: "https://github.com/o/r/pull/13", CreatedAt: testNow.AddDate(0, 0, -1)},
			},
			TotalCommunityPRs:       10,
			TotalMergedCommunityPRs: 6,
			OpenCommunityIssuesList: []schema.IssueSummary{},
			OpenCommunityIssues:     1,
			ClosedCommunityIssues:   3,
			TotalCommunityIssues:    4,
		},
		Rates: schema.Rates{PRMergeRate: "60.0", IssueCloseRate: "75.0"},
		TopActiveUsers: []schema.UserActivity{
			{Username: "bob", PRs: 2, Issues: 1, Comments: 3, Total: 11},
			{Username: "carol", Comments: 1, Total: 1},
		},
		Metadata:  schema.RepoMetadata{Stars: 5000, Forks: 400, Watchers: 60},
		FromCache: fromCache,
	}
}

func sampleReport() schema.Report {
	agg := sampleRepo(schema.AggregateLabel, false)
	return schema.Report{
		GeneratedAt: testNow,
		RunID:       "run-1",
		Repos: []schema.RepoReport{
			sampleRepo("podman-desktop/podman-desktop", false),
			sampleRepo("containers/podman", true),
		},
		Aggregate: &agg,
		Social:    &schema.SocialMetrics{BlueskyFollowers: intPtr(1523), MastodonFollowers: intPtr(0)},
	}
}

func TestWriteReportText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Width: 200, LookbackMonths: 1}

	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, sampleReport(), cfg))
	out := buf.String()

	assert.Contains(t, out, "📊 Community Metrics: podman-desktop/podman-desktop")
	assert.Contains(t, out, "containers/podman (cached)")
	assert.Contains(t, out, "All Repositories")
	assert.Contains(t, out, "5,000")
	assert.Contains(t, out, "Community PR Merge Rate: 60.0%")
	assert.Contains(t, out, "Community Issue Resolution Rate: 75.0%")
	assert.Contains(t, out, "🌟 Top 2 Most Active Community Users (Last Month):")
	assert.Contains(t, out, "1. @bob (11 points)\n   2 PRs, 1 issue, 3 comments\n")
	assert.Contains(t, out, "2. @carol (1 points)\n   1 comment\n")
	assert.Contains(t, out, "☁️  Bluesky: 1,523")
	assert.Contains(t, out, "🐘 Mastodon: 0")
	assert.NotContains(t, out, "LinkedIn")
	assert.True(t, strings.HasSuffix(out, ScoringLegend+"\n"))

	newer := strings.Index(out, "1. #13 - Fix crash on startup by @carol (2025-03-14)")
	older := strings.Index(out, "2. #12 - Add tray menu by @bob (2025-03-12)")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older, "open PRs are listed newest first")
}

func TestWriteReportTextTruncatesTitles(t *testing.T) {
	report := schema.Report{Repos: []schema.RepoReport{sampleRepo("o/r", false)}}
	report.Repos[0].Metrics.OpenCommunityPRs[0].Title = strings.Repeat("x", 150)
	cfg := &contract.Config{Width: 80, LookbackMonths: 3}

	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, report, cfg))

	width := GetMaxTitleWidth(cfg)
	assert.Contains(t, buf.String(), strings.Repeat("x", width-3)+"... by @bob")
	assert.NotContains(t, buf.String(), strings.Repeat("x", width-2))
	assert.Contains(t, buf.String(), "(Last 3 Months)")
}

func TestWriteReportTextWithoutSocial(t *testing.T) {
	report := schema.Report{Repos: []schema.RepoReport{sampleRepo("o/r", false)}}
	report.Repos[0].TopActiveUsers = nil
	report.Repos[0].Metrics.OpenCommunityPRs = nil

	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, report, &contract.Config{Width: 80}))

	out := buf.String()
	assert.NotContains(t, out, "Social Followers")
	assert.NotContains(t, out, "Most Active")
	assert.NotContains(t, out, "Open Community Pull Requests")
}

func TestWriteReportJSON(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "report.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: outputFile}
	report := sampleReport()

	require.NoError(t, WriteReport(report, cfg))

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var decoded schema.Report
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, report, decoded)
}

func TestWriteReportCSV(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "report.csv")
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: outputFile}

	require.NoError(t, WriteReport(sampleReport(), cfg))

	f, err := os.Open(outputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 2 repos + aggregate

	assert.Equal(t, reportCSVHeader, records[0])
	assert.Equal(t, []string{
		"podman-desktop/podman-desktop", "false", "12", "40", "2", "10", "6", "60.0",
		"1", "3", "4", "75.0", "5000", "400", "60", "bob",
	}, records[1])
	assert.Equal(t, "true", records[2][1])
	assert.Equal(t, schema.AggregateLabel, records[3][0])
}

func TestWriteReportCSVDoesNotMutateRepos(t *testing.T) {
	report := sampleReport()
	report.Repos = report.Repos[:1:2]

	var buf bytes.Buffer
	require.NoError(t, writeReportCSV(&buf, report))

	assert.Len(t, report.Repos, 1)
	assert.Equal(t, "containers/podman", report.Repos[:2][1].Label)
}

func TestWriteReportInvalidPath(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(t.TempDir(), "missing", "out.json")}
	err := WriteReport(sampleReport(), cfg)
	assert.ErrorContains(t, err, "error writing JSON output")
}

func TestLookbackPhrase(t *testing.T) {
	assert.Equal(t, "Last Month", lookbackPhrase(0))
	assert.Equal(t, "Last Month", lookbackPhrase(1))
	assert.Equal(t, "Last 6 Months", lookbackPhrase(6))
}
