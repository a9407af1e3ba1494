package outwriter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestWriteGitHubActionsOutsideCI(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, WriteGitHubActions(sampleReport(), envOf(nil), &stdout))
	assert.Empty(t, stdout.String())
}

func TestWriteGitHubActionsOutputFile(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "output")
	summaryPath := filepath.Join(dir, "summary.md")
	require.NoError(t, os.WriteFile(summaryPath, []byte("previous step\n"), 0o644))

	var stdout bytes.Buffer
	env := envOf(map[string]string{
		EnvGitHubActions:     "true",
		EnvGitHubOutput:      outputPath,
		EnvGitHubStepSummary: summaryPath,
	})
	require.NoError(t, WriteGitHubActions(sampleReport(), env, &stdout))
	assert.Empty(t, stdout.String(), "outputs go to the GITHUB_OUTPUT file")

	outputs, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"upvotes=12",
		"comments=40",
		"open_community_prs=2",
		"total_community_prs=10",
		"merged_community_prs=6",
		"open_community_issues=1",
		"closed_community_issues=3",
		"total_community_issues=4",
		"pr_merge_rate=60.0",
		"issue_resolution_rate=75.0",
		"top_active_users_count=2",
	}, "\n")+"\n", string(outputs))

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(summary), "previous step\n## 📊 Community Metrics"), "the summary is appended")
}

func TestWriteGitHubActionsLegacyOutputs(t *testing.T) {
	report := schema.Report{Repos: []schema.RepoReport{sampleRepo("o/r", false)}}
	report.Repos[0].Rates = schema.Rates{PRMergeRate: schema.ZeroRate, IssueCloseRate: schema.ZeroRate}

	var stdout bytes.Buffer
	require.NoError(t, WriteGitHubActions(report, envOf(map[string]string{EnvGitHubActions: "true"}), &stdout))

	out := stdout.String()
	assert.Contains(t, out, "::set-output name=upvotes::12\n")
	assert.Contains(t, out, "::set-output name=pr_merge_rate::0\n")
	assert.Equal(t, 11, strings.Count(out, "::set-output"))
}

func TestWriteGitHubActionsEmptyReport(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, WriteGitHubActions(schema.Report{}, envOf(map[string]string{EnvGitHubActions: "true"}), &stdout))
	assert.Empty(t, stdout.String())
}

func TestWriteGitHubActionsUnwritableOutput(t *testing.T) {
	env := envOf(map[string]string{
		EnvGitHubActions: "true",
		EnvGitHubOutput:  filepath.Join(t.TempDir(), "missing", "output"),
	})
	err := WriteGitHubActions(sampleReport(), env, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to write step outputs")
}

func TestJobSummary(t *testing.T) {
	t.Run("aggregate", func(t *testing.T) {
		summary := JobSummary(sampleReport())

		assert.Contains(t, summary, "Totals across 2 repositories.")
		assert.Contains(t, summary, "| 🎯 PR Merge Rate | 60.0% |")
		assert.Contains(t, summary, "### 📦 Repositories")
		assert.Contains(t, summary, "| containers/podman | 2 | 60.0% | 1 | 75.0% |")
		assert.Contains(t, summary, "1. **@bob** (11 points) - 2 PRs, 1 issue, 3 comments")
		assert.Contains(t, summary, "*Scoring: PR created = 3pts, Issue created = 2pts, Comment = 1pt*")
		assert.Contains(t, summary, "- [#13 Fix crash on startup](https://github.com/o/r/pull/13) by @carol (2025-03-14)")
		assert.Contains(t, summary, "*Last updated: 2025-03-15T09:30:00Z*")
		assert.NotContains(t, summary, "more*")
	})

	t.Run("single repository with many open PRs", func(t *testing.T) {
		repo := sampleRepo("o/r", false)
		repo.Metrics.OpenCommunityPRs = nil
		for i := range 13 {
			repo.Metrics.OpenCommunityPRs = append(repo.Metrics.OpenCommunityPRs, schema.PRSummary{
				Number: i + 1, Title: fmt.Sprintf("PR %d", i+1), Author: "bob", CreatedAt: testNow.AddDate(0, 0, -i),
			})
		}
		summary := JobSummary(schema.Report{GeneratedAt: testNow, Repos: []schema.RepoReport{repo}})

		assert.Contains(t, summary, "Repository: `o/r`")
		assert.NotContains(t, summary, "### 📦 Repositories")
		assert.Equal(t, maxSummaryPRs, strings.Count(summary, "- [#"))
		assert.Contains(t, summary, "[#1 PR 1]")
		assert.NotContains(t, summary, "[#11 PR 11]")
		assert.Contains(t, summary, "*...and 3 more*")
	})

	t.Run("empty report", func(t *testing.T) {
		assert.Empty(t, JobSummary(schema.Report{}))
	})
}
