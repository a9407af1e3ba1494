package outwriter

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/huangsam/commpulse/schema"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var dashboardTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// dashboardLatest backs the stat cards and the open item modal.
type dashboardLatest struct {
	Date       string                `json:"date"`
	OpenPRs    int                   `json:"openPRs"`
	OpenIssues int                   `json:"openIssues"`
	MergeRate  schema.Rate           `json:"mergeRate"`
	CloseRate  schema.Rate           `json:"closeRate"`
	Bluesky    int                   `json:"bluesky"`
	PRs        []schema.PRSummary    `json:"prs"`
	Issues     []schema.IssueSummary `json:"issues"`
}

// dashboardSeries is the chart data of one repoLabel, oldest first.
type dashboardSeries struct {
	Label      string          `json:"label"`
	Name       string          `json:"name"`
	Dates      []string        `json:"dates"`
	OpenPRs    []int           `json:"openPRs"`
	OpenIssues []int           `json:"openIssues"`
	Upvotes    []int           `json:"upvotes"`
	Comments   []int           `json:"comments"`
	MergeRates []float64       `json:"mergeRates"`
	CloseRates []float64       `json:"closeRates"`
	Bluesky    []int           `json:"bluesky"`
	Latest     dashboardLatest `json:"latest"`
}

// dashboardPage is the template model.
type dashboardPage struct {
	GeneratedAt string
	Series      []dashboardSeries
	First       dashboardSeries
	HasSocial   bool
}

// buildDashboardSeries groups a daily series by repoLabel. The aggregate comes first,
// followed by the repositories in alphabetical order.
func buildDashboardSeries(daily []schema.Snapshot) []dashboardSeries {
	byLabel := make(map[string][]schema.Snapshot)
	for _, s := range daily {
		byLabel[s.RepoLabel] = append(byLabel[s.RepoLabel], s)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if (labels[i] == schema.AggregateLabel) != (labels[j] == schema.AggregateLabel) {
			return labels[i] == schema.AggregateLabel
		}
		return labels[i] < labels[j]
	})

	series := make([]dashboardSeries, 0, len(labels))
	for _, label := range labels {
		snaps := byLabel[label]
		sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Date < snaps[j].Date })

		s := dashboardSeries{Label: label, Name: schema.DisplayLabel(label)}
		for _, snap := range snaps {
			m := snap.Metrics
			s.Dates = append(s.Dates, snap.Date)
			s.OpenPRs = append(s.OpenPRs, m.PullRequests.Open)
			s.OpenIssues = append(s.OpenIssues, m.Issues.Open)
			s.Upvotes = append(s.Upvotes, m.Discussions.TotalUpvotes)
			s.Comments = append(s.Comments, m.Discussions.TotalComments)
			s.MergeRates = append(s.MergeRates, m.PullRequests.MergeRate.Float())
			s.CloseRates = append(s.CloseRates, m.Issues.CloseRate.Float())
			s.Bluesky = append(s.Bluesky, m.Social.Bluesky())
		}

		last := snaps[len(snaps)-1].Metrics
		s.Latest = dashboardLatest{
			Date:       snaps[len(snaps)-1].Date,
			OpenPRs:    last.PullRequests.Open,
			OpenIssues: last.Issues.Open,
			MergeRate:  last.PullRequests.MergeRate,
			CloseRate:  last.Issues.CloseRate,
			Bluesky:    last.Social.Bluesky(),
			PRs:        newestFirst(last.PullRequests.OpenPRs),
			Issues:     last.Issues.OpenIssues,
		}
		if s.Latest.Issues == nil {
			s.Latest.Issues = []schema.IssueSummary{}
		}
		series = append(series, s)
	}
	return series
}

// hasSocial reports whether any snapshot carries Bluesky followers.
func hasSocial(series []dashboardSeries) bool {
	for _, s := range series {
		for _, n := range s.Bluesky {
			if n > 0 {
				return true
			}
		}
	}
	return false
}

// renderDashboard writes the dashboard page, or the empty-state page when there is no history.
func renderDashboard(w io.Writer, daily []schema.Snapshot, now time.Time) error {
	if len(daily) == 0 {
		return dashboardTemplates.ExecuteTemplate(w, "empty.html.tmpl", nil)
	}
	series := buildDashboardSeries(daily)
	page := dashboardPage{
		GeneratedAt: now.UTC().Format("2006-01-02 15:04:05 UTC"),
		Series:      series,
		First:       series[0],
		HasSocial:   hasSocial(series),
	}
	if err := dashboardTemplates.ExecuteTemplate(w, "dashboard.html.tmpl", page); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

// WriteDashboard renders the daily snapshot series as a self-contained HTML page at outputFile.
func WriteDashboard(daily []schema.Snapshot, outputFile string, now time.Time) error {
	return writeWithFile(outputFile, func(w io.Writer) error {
		return renderDashboard(w, daily, now)
	}, "Wrote dashboard")
}
