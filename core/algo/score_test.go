package algo

import (
	"testing"

	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestCalculateRate(t *testing.T) {
	tests := []struct {
		name     string
		part     int
		total    int
		expected schema.Rate
	}{
		{"zero over zero", 0, 0, "0"},
		{"half", 5, 10, "50.0"},
		{"third rounds to one decimal", 1, 3, "33.3"},
		{"two thirds rounds up", 2, 3, "66.7"},
		{"merged six of ten", 6, 10, "60.0"},
		{"all", 4, 4, "100.0"},
		{"none of some", 0, 7, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateRate(tt.part, tt.total))
		})
	}
}

func TestRatesFor(t *testing.T) {
	rates := RatesFor(schema.RepoMetrics{
		TotalCommunityPRs:       10,
		TotalMergedCommunityPRs: 6,
		OpenCommunityIssues:     1,
		ClosedCommunityIssues:   3,
		TotalCommunityIssues:    4,
	})
	assert.Equal(t, schema.Rate("60.0"), rates.PRMergeRate)
	assert.Equal(t, schema.Rate("75.0"), rates.IssueCloseRate)

	empty := RatesFor(schema.RepoMetrics{})
	assert.Equal(t, schema.ZeroRate, empty.PRMergeRate)
	assert.Equal(t, schema.ZeroRate, empty.IssueCloseRate)
}

func TestScoreUser(t *testing.T) {
	assert.Equal(t, 11, ScoreUser(2, 1, 3))
	assert.Equal(t, 0, ScoreUser(0, 0, 0))
	assert.Equal(t, 3, ScoreUser(1, 0, 0))
}

func TestActivityTally(t *testing.T) {
	tally := NewActivityTally()
	tally.AddComment("bob")
	tally.AddPR("alice")
	tally.AddPR("alice")
	tally.AddIssue("alice")
	tally.AddComment("alice")
	tally.AddComment("alice")
	tally.AddComment("alice")

	users := tally.Users()
	assert.Equal(t, 2, tally.Len())
	assert.Equal(t, []schema.UserActivity{
		{Username: "bob", Comments: 1, Total: 1},
		{Username: "alice", PRs: 2, Issues: 1, Comments: 3, Total: 11},
	}, users)
	assert.Equal(t, ScoreUser(2, 1, 3), users[1].Total)
}
