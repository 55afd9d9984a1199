package models

import "time"

// Session pairs an opaque id (handed to clients as the refresh token) with the
// externally issued bearer token it was created for.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	TokenID      string    `json:"-"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
}

// AccountLockout tracks consecutive failed logins for one user.
type AccountLockout struct {
	UserID         string    `json:"user_id"`
	FailedAttempts int       `json:"failed_attempts"`
	LockedUntil    time.Time `json:"locked_until,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SecurityEvent is an append-only audit row. Never mutated or deleted.
type SecurityEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	EventType string    `json:"event_type"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
