// Package algo has the scoring, ranking and rate arithmetic of commpulse.
package algo

import (
	"strconv"

	"github.com/huangsam/commpulse/schema"
)

// ScoreUser returns the weighted activity total.
func ScoreUser(prs, issues, comments int) int {
	return prs*schema.PRPoints + issues*schema.IssuePoints + comments*schema.CommentPoints
}

// CalculateRate returns 100*part/total with one decimal, or "0" when total is 0.
func CalculateRate(part, total int) schema.Rate {
	if total <= 0 {
		return schema.ZeroRate
	}
	return schema.Rate(strconv.FormatFloat(float64(part)*100/float64(total), 'f', 1, 64))
}

// RatesFor derives the merge and close rates of a RepoMetrics.
func RatesFor(m schema.RepoMetrics) schema.Rates {
	return schema.Rates{
		PRMergeRate:    CalculateRate(m.TotalMergedCommunityPRs, m.TotalCommunityPRs),
		IssueCloseRate: CalculateRate(m.ClosedCommunityIssues, m.TotalCommunityIssues),
	}
}

// ActivityTally accumulates points per user. The zero value is not usable;
// call NewActivityTally.
type ActivityTally struct {
	order []string
	users map[string]*schema.UserActivity
}

// NewActivityTally returns an empty tally.
func NewActivityTally() *ActivityTally {
	return &ActivityTally{users: make(map[string]*schema.UserActivity)}
}

func (t *ActivityTally) entry(username string) *schema.UserActivity {
	u, ok := t.users[username]
	if !ok {
		u = &schema.UserActivity{Username: username}
		t.users[username] = u
		t.order = append(t.order, username)
	}
	return u
}

// AddPR credits one pull request to username.
func (t *ActivityTally) AddPR(username string) {
	u := t.entry(username)
	u.PRs++
	u.Total += schema.PRPoints
}

// AddIssue credits one issue to username.
func (t *ActivityTally) AddIssue(username string) {
	u := t.entry(username)
	u.Issues++
	u.Total += schema.IssuePoints
}

// AddComment credits one comment to username.
func (t *ActivityTally) AddComment(username string) {
	u := t.entry(username)
	u.Comments++
	u.Total += schema.CommentPoints
}

// Users returns every tallied user in first-seen order.
func (t *ActivityTally) Users() []schema.UserActivity {
	out := make([]schema.UserActivity, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.users[name])
	}
	return out
}

// Len returns the number of distinct users.
func (t *ActivityTally) Len() int {
	return len(t.order)
}
