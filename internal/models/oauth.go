package models

import "time"

const OAuthProviderGoogle = "google"

// OAuthState binds an authorization request to its callback (CSRF protection).
// Consumed exactly once.
type OAuthState struct {
	State       string    `json:"state"`
	Provider    string    `json:"provider"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
