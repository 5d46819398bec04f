package domain

import "time"

// AuthEventType names the operation an audit event was produced by.
type AuthEventType string

const (
	EventSignup  AuthEventType = "signup"
	EventLogin   AuthEventType = "login"
	EventLogout  AuthEventType = "logout"
	EventRefresh AuthEventType = "refresh"
)

// AuthEvent is an entry of the authentication audit trail.
type AuthEvent struct {
	Type       AuthEventType
	UserID     string
	Username   string
	Success    bool
	Reason     string // failure reason, empty on success
	OccurredAt time.Time
}

// Result labels the outcome of the event for metrics and logs.
func (e AuthEvent) Result() string {
	if e.Success {
		return "success"
	}
	return "failure"
}
