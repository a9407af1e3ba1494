package algo

import (
	"sort"

	"github.com/huangsam/commpulse/schema"
)

// RankUsers sorts users by total points in descending order and returns the
// top 'limit' users. Ties keep their input order. If limit is greater than
// the number of users, all users are returned in sorted order.
func RankUsers(users []schema.UserActivity, limit int) []schema.UserActivity {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Total > users[j].Total
	})
	if limit >= 0 && len(users) > limit {
		return users[:limit]
	}
	return users
}

// MergeUsers combines activity lists by username, summing every field.
// Users keep the position of their first appearance, so a following stable
// sort breaks ties by input order.
func MergeUsers(lists ...[]schema.UserActivity) []schema.UserActivity {
	merged := make([]schema.UserActivity, 0)
	index := make(map[string]int)
	for _, list := range lists {
		for _, u := range list {
			i, ok := index[u.Username]
			if !ok {
				index[u.Username] = len(merged)
				merged = append(merged, u)
				continue
			}
			merged[i].PRs += u.PRs
			merged[i].Issues += u.Issues
			merged[i].Comments += u.Comments
			merged[i].Total += u.Total
		}
	}
	return merged
}
