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

// AuthProvider is the slice of the hosted identity API the auth flows need.
// Passwords are never verified locally.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*supabase.AuthSession, error)
	PasswordGrant(ctx context.Context, email, password string) (*supabase.AuthSession, error)
	AdminUpdatePassword(ctx context.Context, userID, newPassword string) error
}

type AuthService interface {
	SignUp(ctx context.Context, req *models.AuthRequest, ip, userAgent string) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.AuthRequest, ip, userAgent string) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, email, current, next string, ip, userAgent string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string, ip, userAgent string) error
	Sessions(ctx context.Context, userID string) ([]*models.Session, error)

	EstablishSession(user *models.User, tokenID, ip, userAgent string) (*models.AuthResponse, error)
	RecordEvent(userID, eventType, ip, userAgent string, success bool, details string)
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	lockouts repositories.LockoutRepository
	events   repositories.SecurityEventRepository
	otps     OTPService
	provider AuthProvider
	emails   EmailService
	cfg      config.AuthConfig
}

func NewAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	lockouts repositories.LockoutRepository,
	events repositories.SecurityEventRepository,
	otps OTPService,
	provider AuthProvider,
	emails EmailService,
	cfg config.AuthConfig,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		lockouts: lockouts,
		events:   events,
		otps:     otps,
		provider: provider,
		emails:   emails,
		cfg:      cfg,
	}
}

func (s *authService) SignUp(ctx context.Context, req *models.AuthRequest, ip, userAgent string) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	session, err := s.provider.SignUp(ctx, email, req.Password, name)
	if err != nil {
		// a single generic failure keeps registered addresses unguessable
		log.Printf("[auth][signup] provider rejected %q: %v", email, err)
		s.RecordEvent("", "signup", ip, userAgent, false, "provider rejected")
		return nil, ErrEmailTaken
	}

	user := &models.User{
		ID:         session.User.ID,
		Name:       name,
		Email:      email,
		Role:       authz.RoleUser,
		IsVerified: session.User.EmailConfirmedAt != "",
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.RecordEvent(user.ID, "signup", ip, userAgent, true, "")
	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(email, name); err != nil {
			log.Printf("[auth][signup] welcome email to %s: %v", email, err)
		}
	}
	return s.EstablishSession(user, session.AccessToken, ip, userAgent)
}

// Login authenticates against the provider. The lockout check runs before the
// password grant, so a locked account rejects even the correct password.
func (s *authService) Login(ctx context.Context, req *models.AuthRequest, ip, userAgent string) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.users.GetByEmail(email)
	if err == sql.ErrNoRows {
		s.RecordEvent("", "login", ip, userAgent, false, "unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		s.RecordEvent(user.ID, "login", ip, userAgent, false, "account disabled")
		return nil, ErrAccountDisabled
	}

	if lock, err := s.lockouts.Get(user.ID); err == nil {
		if time.Now().Before(lock.LockedUntil) {
			s.RecordEvent(user.ID, "login", ip, userAgent, false, "account locked")
			return nil, ErrAccountLocked
		}
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	session, err := s.provider.PasswordGrant(ctx, email, req.Password)
	if err != nil {
		if ferr := s.registerFailure(user.ID); ferr != nil {
			log.Printf("[auth][login] lockout bookkeeping for %s: %v", user.ID, ferr)
		}
		s.RecordEvent(user.ID, "login", ip, userAgent, false, "wrong password")
		return nil, ErrInvalidCredentials
	}

	enabled, err := s.otps.IsTwoFactorEnabled(user.ID)
	if err != nil {
		return nil, err
	}
	if enabled {
		if req.OTPCode == "" {
			if err := s.otps.Issue(user.ID, email, models.OTPTypeTwoFA); err != nil {
				return nil, err
			}
			return &models.AuthResponse{Requires2FA: true}, nil
		}
		if err := s.otps.Verify(email, models.OTPTypeTwoFA, req.OTPCode); err != nil {
			s.RecordEvent(user.ID, "login_2fa", ip, userAgent, false, "")
			return nil, err
		}
	}

	if err := s.lockouts.Clear(user.ID); err != nil {
		log.Printf("[auth][login] clearing lockout for %s: %v", user.ID, err)
	}
	s.RecordEvent(user.ID, "login", ip, userAgent, true, "")
	return s.EstablishSession(user, session.AccessToken, ip, userAgent)
}

// registerFailure bumps the failure counter and, once the cap is reached,
// stamps locked_until.
func (s *authService) registerFailure(userID string) error {
	lock, err := s.lockouts.Get(userID)
	failed := 0
	if err == nil {
		failed = lock.FailedAttempts
	} else if err != sql.ErrNoRows {
		return err
	}

	var lockedUntil *time.Time
	if failed+1 >= s.cfg.MaxLoginAttempts {
		t := time.Now().Add(s.cfg.LockoutDuration)
		lockedUntil = &t
	}
	_, err = s.lockouts.RecordFailure(userID, lockedUntil)
	return err
}

func (s *authService) Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*models.AuthResponse, error) {
	// bounds before the lookup: anything outside them cannot be a session id
	if n := len(refreshToken); n < 32 || n > 256 {
		return nil, ErrSessionNotFound
	}
	old, err := s.sessions.GetActiveByID(refreshToken)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	user, err := s.users.GetByID(old.UserID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	id, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	next := &models.Session{
		ID:        id,
		UserID:    user.ID,
		TokenID:   old.TokenID,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Rotate(old.ID, next); err != nil {
		return nil, ErrSessionNotFound
	}

	s.RecordEvent(user.ID, "token_refresh", ip, userAgent, true, "")
	return &models.AuthResponse{
		Token:        next.TokenID,
		RefreshToken: next.ID,
		ExpiresIn:    int64(s.cfg.SessionTTL.Seconds()),
		User:         user,
		Roles:        []string{user.Role},
		Permissions:  authz.Permissions(user.Role),
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessions.GetActiveByID(refreshToken)
	if err != nil {
		// already gone counts as logged out
		return nil
	}
	return s.sessions.Deactivate(session.ID)
}

func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions.DeactivateAllForUser(userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID, email, current, next string, ip, userAgent string) error {
	if len(next) < 8 {
		return ErrInvalidInput
	}
	if _, err := s.provider.PasswordGrant(ctx, email, current); err != nil {
		s.RecordEvent(userID, "password_change", ip, userAgent, false, "wrong current password")
		return ErrInvalidCredentials
	}
	if err := s.provider.AdminUpdatePassword(ctx, userID, next); err != nil {
		return err
	}
	// other sessions die with the old password
	if err := s.sessions.DeactivateAllForUser(userID); err != nil {
		log.Printf("[auth][change-password] deactivating sessions for %s: %v", userID, err)
	}
	s.RecordEvent(userID, "password_change", ip, userAgent, true, "")
	return nil
}

// RequestPasswordReset always reports success so the endpoint cannot be used
// to enumerate addresses.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(email)
	if err != nil {
		log.Printf("[auth][reset] request for %q: %v", email, err)
		return nil
	}
	if err := s.otps.Issue(user.ID, email, models.OTPTypePasswordReset); err != nil {
		log.Printf("[auth][reset] issuing code for %s: %v", user.ID, err)
	}
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string, ip, userAgent string) error {
	if len(newPassword) < 8 {
		return ErrInvalidInput
	}
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return ErrOTPInvalid
	}
	if err := s.otps.Verify(email, models.OTPTypePasswordReset, code); err != nil {
		s.RecordEvent(user.ID, "password_reset", ip, userAgent, false, "")
		return err
	}
	if err := s.provider.AdminUpdatePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}
	if err := s.sessions.DeactivateAllForUser(user.ID); err != nil {
		log.Printf("[auth][reset] deactivating sessions for %s: %v", user.ID, err)
	}
	if err := s.lockouts.Clear(user.ID); err != nil {
		log.Printf("[auth][reset] clearing lockout for %s: %v", user.ID, err)
	}
	s.RecordEvent(user.ID, "password_reset", ip, userAgent, true, "")
	return nil
}

func (s *authService) Sessions(ctx context.Context, userID string) ([]*models.Session, error) {
	return s.sessions.ListActiveByUser(userID)
}

// EstablishSession mints the opaque refresh token and stores the session row.
// Shared by the password and OAuth flows.
func (s *authService) EstablishSession(user *models.User, tokenID, ip, userAgent string) (*models.AuthResponse, error) {
	id, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		ID:        id,
		UserID:    user.ID,
		TokenID:   tokenID,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token:        tokenID,
		RefreshToken: session.ID,
		ExpiresIn:    int64(s.cfg.SessionTTL.Seconds()),
		User:         user,
		Roles:        []string{user.Role},
		Permissions:  authz.Permissions(user.Role),
	}, nil
}

// RecordEvent appends to the audit log. Failures are logged, never surfaced;
// audit writes must not break the flow they describe.
func (s *authService) RecordEvent(userID, eventType, ip, userAgent string, success bool, details string) {
	e := &models.SecurityEvent{
		UserID:    userID,
		EventType: eventType,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   success,
		Details:   details,
	}
	if err := s.events.Insert(e); err != nil {
		log.Printf("[auth][audit] recording %s: %v", eventType, err)
	}
}
