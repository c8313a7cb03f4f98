package constants

// Context keys set by the auth middleware
const (
	ContextKeyUserID      = "user_id"
	ContextKeyUser        = "user"
	ContextKeyTokenDigest = "token_digest"
)

// Pagination defaults for task listings
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// DashboardRecentLimit is the number of tasks shown in the dashboard feed
const DashboardRecentLimit = 5
