package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"banthub/internal/config"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Client talks to the hosted auth and storage REST APIs. It is constructed once
// in app.Run and injected into the services that need it.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

// AuthUser is the provider's view of an account, as returned by the token and
// signup endpoints.
type AuthUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
	UserMetadata     struct {
		Name      string `json:"name"`
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
		Picture   string `json:"picture"`
	} `json:"user_metadata"`
}

// AuthSession is a provider-issued token plus the account it belongs to.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

func NewClient(cfg config.SupabaseConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// SignUp creates an account on the provider and returns its session.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*AuthSession, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	var session AuthSession
	if err := c.postJSON(ctx, "/auth/v1/signup", c.anonKey, payload, &session); err != nil {
		return nil, err
	}
	if session.User.ID == "" {
		return nil, errors.New("signup returned no user")
	}
	return &session, nil
}

// PasswordGrant verifies a password against the provider's token endpoint.
// There is no local password verification anywhere in this codebase.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*AuthSession, error) {
	payload := map[string]string{"email": email, "password": password}
	var session AuthSession
	err := c.postJSON(ctx, "/auth/v1/token?grant_type=password", c.anonKey, payload, &session)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if session.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}
	return &session, nil
}

// ExchangeOAuthCode trades an OAuth authorization code for a provider session.
// PKCE is tried first; some broker configurations only accept the plain
// authorization_code grant, so that is the fallback.
func (c *Client) ExchangeOAuthCode(ctx context.Context, code, codeVerifier string) (*AuthSession, error) {
	var session AuthSession
	pkce := map[string]string{"auth_code": code, "code_verifier": codeVerifier}
	if err := c.postJSON(ctx, "/auth/v1/token?grant_type=pkce", c.anonKey, pkce, &session); err == nil && session.AccessToken != "" {
		return &session, nil
	}

	alt := map[string]string{"code": code}
	if err := c.postJSON(ctx, "/auth/v1/token?grant_type=authorization_code", c.anonKey, alt, &session); err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if session.AccessToken == "" || session.User.ID == "" {
		return nil, errors.New("provider returned no session")
	}
	return &session, nil
}

// AuthorizeURL builds the provider's OAuth authorize URL for a provider name,
// carrying the CSRF state through to the callback.
func (c *Client) AuthorizeURL(provider, redirectTo, state string) string {
	params := url.Values{}
	params.Set("provider", provider)
	params.Set("redirect_to", redirectTo)
	params.Set("state", state)
	return c.baseURL + "/auth/v1/authorize?" + params.Encode()
}

// AdminUpdatePassword sets a new password for a user via the admin API.
func (c *Client) AdminUpdatePassword(ctx context.Context, userID, newPassword string) error {
	body, _ := json.Marshal(map[string]string{"password": newPassword})
	endpoint := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("admin password update: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("admin password update: status %d", resp.StatusCode)
	}
	return nil
}

// AdminCreateUser provisions a confirmed account via the admin API. Used by the
// super-admin console when creating admin accounts.
func (c *Client) AdminCreateUser(ctx context.Context, email, password, name string) (*AuthUser, error) {
	payload := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"name": name},
	}
	body, _ := json.Marshal(payload)
	endpoint := c.baseURL + "/auth/v1/admin/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("admin create user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("admin create user: status %d", resp.StatusCode)
	}
	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadObject stores an object in the storage bucket.
func (c *Client) UploadObject(ctx context.Context, bucket, path, contentType string, data []byte) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage upload: %s", string(body))
	}
	return nil
}

// DeleteObject removes an object from the storage bucket.
func (c *Client) DeleteObject(ctx context.Context, bucket, path string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage delete: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("storage delete: status %d", resp.StatusCode)
	}
	return nil
}

// PublicObjectURL returns the public URL for a stored object.
func (c *Client) PublicObjectURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, path)
}

func (c *Client) postJSON(ctx context.Context, path, apiKey string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
