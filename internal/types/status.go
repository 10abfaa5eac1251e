package types

// Status tracks whether a stored row is live or soft deleted
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)
