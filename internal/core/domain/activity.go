package domain

import "time"

// ActivityType enumerates audited authentication actions.
type ActivityType string

const (
	ActivityRegister     ActivityType = "auth.register"
	ActivityLoginSuccess ActivityType = "auth.login.success"
	ActivityLoginFailure ActivityType = "auth.login.failure"
)

// ActivityEvent is a single entry of the authentication audit trail.
type ActivityEvent struct {
	Type       ActivityType
	Username   string
	Success    bool
	Reason     string // optional, failures only
	OccurredAt time.Time
}
