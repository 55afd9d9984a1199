package services

import (
	"fmt"

	"github.com/resend/resend-go/v2"
)

type EmailService interface {
	SendOTPEmail(email, code, purpose string) error
	SendWelcomeEmail(email, name string) error
}

type emailService struct {
	client *resend.Client
	from   string
}

func NewEmailService(apiKey, fromEmail string) EmailService {
	return &emailService{
		client: resend.NewClient(apiKey),
		from:   fromEmail,
	}
}

func (s *emailService) SendOTPEmail(email, code, purpose string) error {
	subject := "Your verification code"
	intro := "Use this code to finish signing in."
	if purpose == "password_reset" {
		subject = "Password reset code"
		intro = "Use this code to reset your password."
	}

	body := fmt.Sprintf(`
		<h2>%s</h2>
		<p>%s</p>
		<p style="font-size:28px;letter-spacing:6px;"><strong>%s</strong></p>
		<p>The code expires in 10 minutes. If you did not request it, you can ignore this email.</p>
	`, subject, intro, code)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account has been created. Jump in and start posting.</p>
	`, name)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: "Welcome to BantHub",
		Html:    body,
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
