package schema

import "time"

// RepoReport is the presentation model of one repository or of the aggregate.
type RepoReport struct {
	Label          string         `json:"label"`
	Metrics        RepoMetrics    `json:"metrics"`
	Rates          Rates          `json:"rates"`
	TopActiveUsers []UserActivity `json:"topActiveUsers"`
	Metadata       RepoMetadata   `json:"repository"`
	FromCache      bool           `json:"fromCache"`
}

// Report is what the reporters render after a collection run.
type Report struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	RunID       string         `json:"runId"`
	Repos       []RepoReport   `json:"repos"`
	Aggregate   *RepoReport    `json:"aggregate,omitempty"`
	Social      *SocialMetrics `json:"social,omitempty"`
}

// Summary returns the aggregate when present, otherwise the single repository.
// It returns nil for an empty report.
func (r *Report) Summary() *RepoReport {
	if r.Aggregate != nil {
		return r.Aggregate
	}
	if len(r.Repos) > 0 {
		return &r.Repos[0]
	}
	return nil
}
