package ghclient

import "fmt"

// QueryName identifies a registered GraphQL query.
type QueryName string

// All registered queries.
const (
	DiscussionsQuery       QueryName = "Discussions"
	OpenPRsQuery           QueryName = "OpenPRs"
	AllPRsQuery            QueryName = "AllPRs"
	OpenIssuesQuery        QueryName = "OpenIssues"
	AllIssuesQuery         QueryName = "AllIssues"
	RecentPRsQuery         QueryName = "RecentPRs"
	RecentIssuesQuery      QueryName = "RecentIssues"
	RecentDiscussionsQuery QueryName = "RecentDiscussions"
	RepositoryQuery        QueryName = "Repository"
)

// Query describes one GraphQL document and where its paginated connection lives.
type Query struct {
	Name     QueryName
	Document string

	// ConnectionPath locates the {nodes, pageInfo} object under "data".
	// It is empty for one-shot queries.
	ConnectionPath []string

	// Ordered marks queries that return nodes newest first. Windowed
	// reducers may stop paginating early only on Ordered queries.
	Ordered bool
}

// Paginated reports whether the query has a cursor connection.
func (q Query) Paginated() bool {
	return len(q.ConnectionPath) > 0
}

const authorAndCommentsFields = `
        author { login }
        createdAt
        comments(first: 100) {
          nodes {
            author { login }
            createdAt
          }
        }`

var registry = map[QueryName]Query{
	DiscussionsQuery: {
		Name:           DiscussionsQuery,
		ConnectionPath: []string{"repository", "discussions"},
		Document: `query Discussions($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    discussions(first: 100, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        reactions(first: 100) {
          totalCount
          nodes { content }
        }
        comments { totalCount }
      }
    }
  }
}`,
	},
	OpenPRsQuery: {
		Name:           OpenPRsQuery,
		ConnectionPath: []string{"repository", "pullRequests"},
		Document: `query OpenPRs($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequests(first: 100, after: $after, states: OPEN) {
      pageInfo { hasNextPage endCursor }
      nodes {
        number
        title
        url
        createdAt
        author { login }
      }
    }
  }
}`,
	},
	AllPRsQuery: {
		Name:           AllPRsQuery,
		ConnectionPath: []string{"repository", "pullRequests"},
		Document: `query AllPRs($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequests(first: 100, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        author { login }
        state
        createdAt
      }
    }
  }
}`,
	},
	OpenIssuesQuery: {
		Name:           OpenIssuesQuery,
		ConnectionPath: []string{"repository", "issues"},
		Document: `query OpenIssues($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    issues(first: 100, after: $after, states: OPEN) {
      pageInfo { hasNextPage endCursor }
      nodes {
        number
        title
        url
        createdAt
        author { login }
        assignees(first: 10) { nodes { login } }
        labels(first: 10) { nodes { name } }
      }
    }
  }
}`,
	},
	AllIssuesQuery: {
		Name:           AllIssuesQuery,
		ConnectionPath: []string{"repository", "issues"},
		Document: `query AllIssues($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    issues(first: 100, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        author { login }
        state
        createdAt
      }
    }
  }
}`,
	},
	RecentPRsQuery: {
		Name:           RecentPRsQuery,
		ConnectionPath: []string{"repository", "pullRequests"},
		Ordered:        true,
		Document: `query RecentPRs($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequests(first: 100, after: $after, orderBy: {field: CREATED_AT, direction: DESC}) {
      pageInfo { hasNextPage endCursor }
      nodes {` + authorAndCommentsFields + `
      }
    }
  }
}`,
	},
	RecentIssuesQuery: {
		Name:           RecentIssuesQuery,
		ConnectionPath: []string{"repository", "issues"},
		Ordered:        true,
		Document: `query RecentIssues($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    issues(first: 100, after: $after, orderBy: {field: CREATED_AT, direction: DESC}) {
      pageInfo { hasNextPage endCursor }
      nodes {` + authorAndCommentsFields + `
      }
    }
  }
}`,
	},
	RecentDiscussionsQuery: {
		Name:           RecentDiscussionsQuery,
		ConnectionPath: []string{"repository", "discussions"},
		Ordered:        true,
		Document: `query RecentDiscussions($owner: String!, $name: String!, $after: String) {
  repository(owner: $owner, name: $name) {
    discussions(first: 100, after: $after, orderBy: {field: CREATED_AT, direction: DESC}) {
      pageInfo { hasNextPage endCursor }
      nodes {` + authorAndCommentsFields + `
      }
    }
  }
}`,
	},
	RepositoryQuery: {
		Name: RepositoryQuery,
		Document: `query Repository($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    stargazerCount
    forkCount
    watchers { totalCount }
  }
}`,
	},
}

// Lookup returns the registered query with the given name.
func Lookup(name QueryName) (Query, error) {
	q, ok := registry[name]
	if !ok {
		return Query{}, fmt.Errorf("unknown query %q", name)
	}
	return q, nil
}
