package services

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"banthub/internal/models"
	"banthub/internal/repositories"
)

const otpMaxAttempts = 5

type OTPService interface {
	Issue(userID, email, otpType string) error
	Verify(email, otpType, code string) error
	IsTwoFactorEnabled(userID string) (bool, error)
	SetTwoFactorEnabled(userID string, enabled bool) error
}

type otpService struct {
	repo   repositories.OTPRepository
	twoFA  repositories.TwoFactorRepository
	emails EmailService
	ttl    time.Duration
}

func NewOTPService(repo repositories.OTPRepository, twoFA repositories.TwoFactorRepository, emails EmailService, ttl time.Duration) OTPService {
	return &otpService{
		repo:   repo,
		twoFA:  twoFA,
		emails: emails,
		ttl:    ttl,
	}
}

// Issue generates a fresh 6-digit code, burns any outstanding ones for the
// address, and mails the new code. Only the bcrypt hash touches the database.
func (s *otpService) Issue(userID, email, otpType string) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.InvalidateUnused(email, otpType); err != nil {
		return err
	}
	otp := &models.OTP{
		UserID:    userID,
		Email:     email,
		CodeHash:  string(hash),
		Type:      otpType,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(otp); err != nil {
		return err
	}

	if err := s.emails.SendOTPEmail(email, code, otpType); err != nil {
		log.Printf("[otp][issue] failed to send code to %s: %v", email, err)
		return err
	}
	return nil
}

// Verify checks the supplied code against the newest unconsumed one. Five
// wrong guesses burn the code; a correct guess consumes it.
func (s *otpService) Verify(email, otpType, code string) error {
	otp, err := s.repo.LatestUnused(email, otpType)
	if err == sql.ErrNoRows {
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}
	if time.Now().After(otp.ExpiresAt) {
		return ErrOTPExpired
	}

	attempts, err := s.repo.IncrementAttempts(otp.ID)
	if err != nil {
		return err
	}
	if attempts > otpMaxAttempts {
		if err := s.repo.MarkUsed(otp.ID); err != nil {
			log.Printf("[otp][verify] failed to burn code %s: %v", otp.ID, err)
		}
		return ErrOTPAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		if attempts == otpMaxAttempts {
			if err := s.repo.MarkUsed(otp.ID); err != nil {
				log.Printf("[otp][verify] failed to burn code %s: %v", otp.ID, err)
			}
			return ErrOTPAttempts
		}
		return ErrOTPInvalid
	}
	return s.repo.MarkUsed(otp.ID)
}

func (s *otpService) IsTwoFactorEnabled(userID string) (bool, error) {
	return s.twoFA.IsEnabled(userID)
}

func (s *otpService) SetTwoFactorEnabled(userID string, enabled bool) error {
	return s.twoFA.SetEnabled(userID, enabled)
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
