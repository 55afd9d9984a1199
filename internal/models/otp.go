package models

import "time"

const (
	OTPTypeTwoFA         = "2fa"
	OTPTypePasswordReset = "password_reset"
)

// OTP is a single-use emailed code. Only the bcrypt hash is stored; the plain
// code exists just long enough to be mailed.
type OTP struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

// TwoFactorAuth records whether email 2FA is enabled for a user.
type TwoFactorAuth struct {
	UserID    string    `json:"user_id"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
