package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "tracker_session"
	ContextKeyUserID  = "user_id"
	ContextKeyRequest = "request_id"
	ContextKeyProject = "project"
	HeaderRequestID   = "X-Request-ID"
)

// Progress bounds
const (
	MinProgress = 0
	MaxProgress = 100
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Timeouts
const (
	DefaultRequestTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	SessionMaxAge          = 86400 * 7
)
