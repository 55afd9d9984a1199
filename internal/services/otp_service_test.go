package services

import (
	"testing"
	"time"

	"banthub/internal/models"
)

func newOTPFixture() (OTPService, *fakeOTPRepo, *fakeEmail) {
	repo := &fakeOTPRepo{}
	email := &fakeEmail{}
	svc := NewOTPService(repo, newFakeTwoFARepo(), email, 10*time.Minute)
	return svc, repo, email
}

func TestOTPIssueAndVerify(t *testing.T) {
	svc, _, email := newOTPFixture()

	if err := svc.Issue("u1", "a@example.com", models.OTPTypeTwoFA); err != nil {
		t.Fatal(err)
	}
	if len(email.lastCode) != 6 {
		t.Fatalf("code = %q, want 6 digits", email.lastCode)
	}
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, email.lastCode); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestOTPIsSingleUse(t *testing.T) {
	svc, _, email := newOTPFixture()
	if err := svc.Issue("u1", "a@example.com", models.OTPTypeTwoFA); err != nil {
		t.Fatal(err)
	}
	code := email.lastCode
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, code); err != nil {
		t.Fatal(err)
	}
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, code); err != ErrOTPInvalid {
		t.Fatalf("second use: err = %v, want ErrOTPInvalid", err)
	}
}

func TestOTPNewCodeBurnsOldOne(t *testing.T) {
	svc, _, email := newOTPFixture()
	if err := svc.Issue("u1", "a@example.com", models.OTPTypeTwoFA); err != nil {
		t.Fatal(err)
	}
	oldCode := email.lastCode
	if err := svc.Issue("u1", "a@example.com", models.OTPTypeTwoFA); err != nil {
		t.Fatal(err)
	}
	if email.lastCode != oldCode {
		if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, oldCode); err == nil {
			t.Fatal("old code should not verify after reissue")
		}
	}
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, email.lastCode); err != nil {
		t.Fatalf("new code: %v", err)
	}
}

func TestOTPAttemptCapBurnsCode(t *testing.T) {
	svc, _, email := newOTPFixture()
	if err := svc.Issue("u1", "a@example.com", models.OTPTypeTwoFA); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < otpMaxAttempts-1; i++ {
		if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, "000000"); err != ErrOTPInvalid {
			t.Fatalf("attempt %d: err = %v, want ErrOTPInvalid", i+1, err)
		}
	}
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, "000000"); err != ErrOTPAttempts {
		t.Fatalf("capping attempt: err = %v, want ErrOTPAttempts", err)
	}
	// the correct code is gone too
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, email.lastCode); err != ErrOTPInvalid {
		t.Fatalf("after burn: err = %v, want ErrOTPInvalid", err)
	}
}

func TestOTPExpiry(t *testing.T) {
	repo := &fakeOTPRepo{}
	email := &fakeEmail{}
	svc := NewOTPService(repo, newFakeTwoFARepo(), email, -time.Minute)

	if err := svc.Issue("u1", "a@example.com", models.OTPTypePasswordReset); err != nil {
		t.Fatal(err)
	}
	if err := svc.Verify("a@example.com", models.OTPTypePasswordReset, email.lastCode); err != ErrOTPExpired {
		t.Fatalf("err = %v, want ErrOTPExpired", err)
	}
}

func TestOTPTypesAreIsolated(t *testing.T) {
	svc, _, email := newOTPFixture()
	if err := svc.Issue("u1", "a@example.com", models.OTPTypePasswordReset); err != nil {
		t.Fatal(err)
	}
	if err := svc.Verify("a@example.com", models.OTPTypeTwoFA, email.lastCode); err != ErrOTPInvalid {
		t.Fatalf("cross-type verify: err = %v, want ErrOTPInvalid", err)
	}
}
