package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ReactionContent represents a GitHub reaction kind.
	ReactionContent string

	// ItemState represents the state of a pull request or issue.
	ItemState string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// Activity points awarded per community contribution.
const (
	PRPoints      = 3
	IssuePoints   = 2
	CommentPoints = 1
)

// DefaultTopUsers is how many active users are kept in every ranking.
const DefaultTopUsers = 5

// AggregateLabel is the repoLabel used for cross-repository snapshots.
const AggregateLabel = "aggregate"

// AggregateDisplayName is how AggregateLabel is presented to people.
const AggregateDisplayName = "All Repositories"

// Reaction kinds that count as upvotes on a discussion.
const (
	ThumbsUpReaction ReactionContent = "THUMBS_UP"
	HeartReaction    ReactionContent = "HEART"
	HoorayReaction   ReactionContent = "HOORAY"
	RocketReaction   ReactionContent = "ROCKET"
)

// All item states we care about.
const (
	OpenState   ItemState = "OPEN"
	ClosedState ItemState = "CLOSED"
	MergedState ItemState = "MERGED"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// UpvoteReactions lists all reactions counted as discussion upvotes.
var UpvoteReactions = map[ReactionContent]struct{}{
	ThumbsUpReaction: {},
	HeartReaction:    {},
	HoorayReaction:   {},
	RocketReaction:   {},
}
