package services

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"banthub/internal/authz"
	"banthub/internal/config"
	"banthub/internal/models"
	"banthub/internal/repositories"
	"banthub/internal/supabase"
	"banthub/internal/utils"
)

const oauthStateTTL = 10 * time.Minute

// OAuthProvider is the slice of the hosted identity API the OAuth flow needs.
type OAuthProvider interface {
	AuthorizeURL(provider, redirectTo, state string) string
	ExchangeOAuthCode(ctx context.Context, code, codeVerifier string) (*supabase.AuthSession, error)
}

type OAuthResult struct {
	Response  *models.AuthResponse
	IsNewUser bool
	Redirect  string
}

type OAuthService interface {
	Start(ctx context.Context, provider, redirect string) (string, error)
	Complete(ctx context.Context, state, code, codeVerifier, ip, userAgent string) (*OAuthResult, error)
}

type oauthService struct {
	states   repositories.OAuthStateRepository
	users    repositories.UserRepository
	provider OAuthProvider
	auth     AuthService
	cfg      config.OAuthConfig
}

func NewOAuthService(
	states repositories.OAuthStateRepository,
	users repositories.UserRepository,
	provider OAuthProvider,
	auth AuthService,
	cfg config.OAuthConfig,
) OAuthService {
	return &oauthService{
		states:   states,
		users:    users,
		provider: provider,
		auth:     auth,
		cfg:      cfg,
	}
}

// Start stores a single-use state and returns the provider authorize URL.
// The redirect target must be on the allow-list; unlisted targets fall back
// to the configured default.
func (s *oauthService) Start(ctx context.Context, provider, redirect string) (string, error) {
	if provider != models.OAuthProviderGoogle {
		return "", ErrInvalidInput
	}
	if !s.redirectAllowed(redirect) {
		log.Printf("[oauth][start] redirect %q not on allow-list, using default", redirect)
		redirect = s.cfg.RedirectURL
	}

	state, err := utils.NewOpaqueToken(24)
	if err != nil {
		return "", err
	}
	row := &models.OAuthState{
		State:       state,
		Provider:    provider,
		RedirectURL: redirect,
		ExpiresAt:   time.Now().Add(oauthStateTTL),
	}
	if err := s.states.Create(row); err != nil {
		return "", err
	}
	return s.provider.AuthorizeURL(provider, s.cfg.RedirectURL, state), nil
}

// Complete consumes the state, exchanges the code, and provisions a local
// account on first sign-in.
func (s *oauthService) Complete(ctx context.Context, state, code, codeVerifier, ip, userAgent string) (*OAuthResult, error) {
	row, err := s.states.Consume(state)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	session, err := s.provider.ExchangeOAuthCode(ctx, code, codeVerifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(session.User.ID)
	isNew := false
	if err == sql.ErrNoRows {
		isNew = true
		user = &models.User{
			ID:         session.User.ID,
			Name:       oauthDisplayName(&session.User),
			Email:      strings.ToLower(session.User.Email),
			Avatar:     oauthAvatar(&session.User),
			Role:       authz.RoleUser,
			Provider:   row.Provider,
			IsVerified: true,
		}
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if !user.IsActive && !isNew {
		return nil, ErrAccountDisabled
	}
	if !isNew {
		user = s.refreshProfile(user, &session.User)
	}

	resp, err := s.auth.EstablishSession(user, session.AccessToken, ip, userAgent)
	if err != nil {
		return nil, err
	}
	s.auth.RecordEvent(user.ID, "oauth_login", ip, userAgent, true, row.Provider)

	redirect := row.RedirectURL
	if redirect == "" {
		redirect = s.cfg.RedirectURL
	}
	return &OAuthResult{Response: resp, IsNewUser: isNew, Redirect: redirect}, nil
}

// refreshProfile carries provider claim changes (name, avatar, verified
// email) onto the local row on returning sign-ins. Failures keep the stale
// profile rather than blocking the login.
func (s *oauthService) refreshProfile(user *models.User, claims *supabase.AuthUser) *models.User {
	updated, err := s.users.UpdateProfile(user.ID, &models.UpdateProfileRequest{
		Name:   oauthDisplayName(claims),
		Avatar: oauthAvatar(claims),
	})
	if err != nil {
		log.Printf("[oauth][callback] refreshing profile for %s: %v", user.ID, err)
		updated = user
	}
	if claims.EmailConfirmedAt != "" && !updated.IsVerified {
		if err := s.users.SetVerified(updated.ID, true); err != nil {
			log.Printf("[oauth][callback] marking %s verified: %v", updated.ID, err)
		} else {
			updated.IsVerified = true
		}
	}
	return updated
}

func (s *oauthService) redirectAllowed(redirect string) bool {
	if redirect == "" {
		return false
	}
	for _, allowed := range s.cfg.AllowedRedirects {
		if redirect == allowed || strings.HasPrefix(redirect, allowed+"/") {
			return true
		}
	}
	return false
}

func oauthDisplayName(u *supabase.AuthUser) string {
	if u.UserMetadata.Name != "" {
		return u.UserMetadata.Name
	}
	if u.UserMetadata.FullName != "" {
		return u.UserMetadata.FullName
	}
	return strings.SplitN(u.Email, "@", 2)[0]
}

func oauthAvatar(u *supabase.AuthUser) string {
	if u.UserMetadata.AvatarURL != "" {
		return u.UserMetadata.AvatarURL
	}
	return u.UserMetadata.Picture
}
