package fetch

import (
	"time"

	"github.com/huangsam/commpulse/schema"
)

// actor is a GraphQL author. It is nil for deleted ("ghost") accounts.
type actor struct {
	Login string `json:"login"`
}

func (a *actor) login() string {
	if a == nil {
		return ""
	}
	return a.Login
}

type discussionNode struct {
	Reactions struct {
		TotalCount int `json:"totalCount"`
		Nodes      []struct {
			Content schema.ReactionContent `json:"content"`
		} `json:"nodes"`
	} `json:"reactions"`
	Comments struct {
		TotalCount int `json:"totalCount"`
	} `json:"comments"`
}

// stateNode is the shape of AllPRs and AllIssues nodes.
type stateNode struct {
	Author    *actor           `json:"author"`
	State     schema.ItemState `json:"state"`
	CreatedAt time.Time        `json:"createdAt"`
}

type openPRNode struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *actor    `json:"author"`
}

func (n openPRNode) summary() schema.PRSummary {
	return schema.PRSummary{
		Number:    n.Number,
		Title:     n.Title,
		Author:    n.Author.login(),
		URL:       n.URL,
		CreatedAt: n.CreatedAt,
	}
}

type openIssueNode struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *actor    `json:"author"`
	Assignees struct {
		Nodes []actor `json:"nodes"`
	} `json:"assignees"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
}

func (n openIssueNode) summary() schema.IssueSummary {
	assignees := make([]string, 0, len(n.Assignees.Nodes))
	for _, a := range n.Assignees.Nodes {
		assignees = append(assignees, a.Login)
	}
	labels := make([]string, 0, len(n.Labels.Nodes))
	for _, l := range n.Labels.Nodes {
		labels = append(labels, l.Name)
	}
	return schema.IssueSummary{
		Number:    n.Number,
		Title:     n.Title,
		Author:    n.Author.login(),
		URL:       n.URL,
		CreatedAt: n.CreatedAt,
		Assignees: assignees,
		Labels:    labels,
	}
}

// recentNode is a PR, issue or discussion from a Recent* query.
type recentNode struct {
	Author    *actor    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Comments  struct {
		Nodes []commentNode `json:"nodes"`
	} `json:"comments"`
}

type commentNode struct {
	Author    *actor    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type repositoryData struct {
	Repository *struct {
		StargazerCount int `json:"stargazerCount"`
		ForkCount      int `json:"forkCount"`
		Watchers       struct {
			TotalCount int `json:"totalCount"`
		} `json:"watchers"`
	} `json:"repository"`
}
