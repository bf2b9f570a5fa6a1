package domain

import "time"

// AuditAction names a session transition or an admin action.
type AuditAction string

const (
	ActionLogin         AuditAction = "login"
	ActionLoginFailed   AuditAction = "login_failed"
	ActionLogout        AuditAction = "logout"
	ActionRevoked       AuditAction = "revoked"
	ActionUserCreated   AuditAction = "user_created"
	ActionPasswordReset AuditAction = "password_reset"
	ActionUserUpdated   AuditAction = "user_updated"
	ActionUserDeleted   AuditAction = "user_deleted"
)

// AuditEvent is one entry of the console audit trail.
type AuditEvent struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Username  string      `json:"username,omitempty"`
	Action    AuditAction `json:"action"`
	Detail    string      `json:"detail,omitempty"`
	At        time.Time   `json:"at"`
}
