package services

import (
	"context"
	"testing"
	"time"

	"banthub/internal/authz"
	"banthub/internal/config"
	"banthub/internal/models"
)

type authFixture struct {
	svc      AuthService
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	lockouts *fakeLockoutRepo
	events   *fakeEventRepo
	provider *fakeProvider
	email    *fakeEmail
	twoFA    *fakeTwoFARepo
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
		lockouts: newFakeLockoutRepo(),
		events:   &fakeEventRepo{},
		provider: newFakeProvider(),
		email:    &fakeEmail{},
		twoFA:    newFakeTwoFARepo(),
	}
	otps := NewOTPService(&fakeOTPRepo{}, f.twoFA, f.email, 10*time.Minute)
	f.svc = NewAuthService(
		f.users, f.sessions, f.lockouts, f.events,
		otps, f.provider, f.email,
		config.AuthConfig{
			MaxLoginAttempts: 5,
			LockoutDuration:  15 * time.Minute,
			SessionTTL:       24 * time.Hour,
			OTPTTL:           10 * time.Minute,
		},
	)
	return f
}

func (f *authFixture) signup(t *testing.T, email, password string) *models.AuthResponse {
	t.Helper()
	resp, err := f.svc.SignUp(context.Background(),
		&models.AuthRequest{Email: email, Password: password, Name: "Test User"},
		"127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return resp
}

func TestSignUpIssuesTokens(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")

	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", resp)
	}
	if resp.User == nil || resp.User.Role != authz.RoleUser {
		t.Fatalf("user = %+v", resp.User)
	}
	// the insert activates the row; the response must reflect that, not the
	// struct's zero value
	if !resp.User.IsActive {
		t.Error("fresh account reported inactive")
	}
	if len(resp.Permissions) == 0 {
		t.Error("expected permissions for the user role")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@example.com", "password123")

	_, err := f.svc.SignUp(context.Background(),
		&models.AuthRequest{Email: "a@example.com", Password: "other-password"},
		"127.0.0.1", "go-test")
	if err != ErrEmailTaken {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@example.com", "password123")

	_, err := f.svc.Login(context.Background(),
		&models.AuthRequest{Email: "a@example.com", Password: "nope"},
		"127.0.0.1", "go-test")
	if err != ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@example.com", "password123")

	bad := &models.AuthRequest{Email: "a@example.com", Password: "nope"}
	for i := 0; i < 5; i++ {
		if _, err := f.svc.Login(context.Background(), bad, "127.0.0.1", "go-test"); err != ErrInvalidCredentials {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}

	// the correct password is refused while the lock holds
	good := &models.AuthRequest{Email: "a@example.com", Password: "password123"}
	if _, err := f.svc.Login(context.Background(), good, "127.0.0.1", "go-test"); err != ErrAccountLocked {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")
	userID := resp.User.ID

	bad := &models.AuthRequest{Email: "a@example.com", Password: "nope"}
	for i := 0; i < 3; i++ {
		f.svc.Login(context.Background(), bad, "127.0.0.1", "go-test")
	}

	good := &models.AuthRequest{Email: "a@example.com", Password: "password123"}
	if _, err := f.svc.Login(context.Background(), good, "127.0.0.1", "go-test"); err != nil {
		t.Fatalf("login after 3 failures should succeed: %v", err)
	}
	if _, err := f.lockouts.Get(userID); err == nil {
		t.Error("lockout row should be gone after a successful login")
	}
}

func TestLoginRequires2FAWhenEnabled(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")
	f.twoFA.SetEnabled(resp.User.ID, true)

	got, err := f.svc.Login(context.Background(),
		&models.AuthRequest{Email: "a@example.com", Password: "password123"},
		"127.0.0.1", "go-test")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Requires2FA || got.Token != "" {
		t.Fatalf("expected a 2FA challenge, got %+v", got)
	}
	if f.email.lastPurpose != models.OTPTypeTwoFA {
		t.Errorf("purpose = %q, want %q", f.email.lastPurpose, models.OTPTypeTwoFA)
	}

	// second call with the emailed code completes the login
	got, err = f.svc.Login(context.Background(),
		&models.AuthRequest{Email: "a@example.com", Password: "password123", OTPCode: f.email.lastCode},
		"127.0.0.1", "go-test")
	if err != nil {
		t.Fatal(err)
	}
	if got.Token == "" {
		t.Fatalf("expected tokens, got %+v", got)
	}
}

func TestRefreshRotatesTheToken(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")
	oldRefresh := resp.RefreshToken

	next, err := f.svc.Refresh(context.Background(), oldRefresh, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatal(err)
	}
	if next.RefreshToken == oldRefresh {
		t.Fatal("refresh token was not rotated")
	}
	if _, err := f.svc.Refresh(context.Background(), oldRefresh, "127.0.0.1", "go-test"); err != ErrSessionNotFound {
		t.Fatalf("replayed token: err = %v, want ErrSessionNotFound", err)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Refresh(context.Background(), "no-such-token", "127.0.0.1", "go-test"); err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")
	f.users.SetActive(resp.User.ID, false)

	_, err := f.svc.Login(context.Background(),
		&models.AuthRequest{Email: "a@example.com", Password: "password123"},
		"127.0.0.1", "go-test")
	if err != ErrAccountDisabled {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestChangePasswordKillsOtherSessions(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")

	err := f.svc.ChangePassword(context.Background(),
		resp.User.ID, "a@example.com", "password123", "new-password-1", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Refresh(context.Background(), resp.RefreshToken, "127.0.0.1", "go-test"); err != ErrSessionNotFound {
		t.Fatalf("old session should be dead, err = %v", err)
	}
	if f.provider.updated[resp.User.ID] != "new-password-1" {
		t.Error("provider password was not updated")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture()
	resp := f.signup(t, "a@example.com", "password123")

	if err := f.svc.RequestPasswordReset(context.Background(), "a@example.com"); err != nil {
		t.Fatal(err)
	}
	if f.email.lastPurpose != models.OTPTypePasswordReset {
		t.Fatalf("purpose = %q", f.email.lastPurpose)
	}

	err := f.svc.ConfirmPasswordReset(context.Background(),
		"a@example.com", f.email.lastCode, "brand-new-pass", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatal(err)
	}
	if f.provider.updated[resp.User.ID] != "brand-new-pass" {
		t.Error("provider password was not updated")
	}

	// the new password works, the old one does not
	if _, err := f.svc.Login(context.Background(),
		&models.AuthRequest{Email: "a@example.com", Password: "brand-new-pass"},
		"127.0.0.1", "go-test"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetRequestForUnknownEmailSucceeds(t *testing.T) {
	f := newAuthFixture()
	if err := f.svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown address must not error: %v", err)
	}
	if f.email.sent != 0 {
		t.Error("no mail should go to unregistered addresses")
	}
}
