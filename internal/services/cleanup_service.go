package services

import (
	"context"
	"log"
	"time"

	"banthub/internal/repositories"
)

// CleanupService sweeps expired rows on a fixed interval. Each sweep is
// independent; one failing table does not stop the others.
type CleanupService struct {
	sessions repositories.SessionRepository
	otps     repositories.OTPRepository
	states   repositories.OAuthStateRepository
	lockouts repositories.LockoutRepository
	interval time.Duration
}

func NewCleanupService(
	sessions repositories.SessionRepository,
	otps repositories.OTPRepository,
	states repositories.OAuthStateRepository,
	lockouts repositories.LockoutRepository,
) *CleanupService {
	return &CleanupService{
		sessions: sessions,
		otps:     otps,
		states:   states,
		lockouts: lockouts,
		interval: time.Hour,
	}
}

// Start runs the sweep loop until the context is cancelled. The first sweep
// happens immediately so restarts do not postpone cleanup by an hour.
func (s *CleanupService) Start(ctx context.Context) {
	go func() {
		s.sweep()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Printf("[cleanup] stopped")
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *CleanupService) sweep() {
	if n, err := s.sessions.DeleteExpired(); err != nil {
		log.Printf("[cleanup] sessions: %v", err)
	} else if n > 0 {
		log.Printf("[cleanup] removed %d expired sessions", n)
	}
	if n, err := s.otps.DeleteExpired(); err != nil {
		log.Printf("[cleanup] otps: %v", err)
	} else if n > 0 {
		log.Printf("[cleanup] removed %d expired otp codes", n)
	}
	if n, err := s.states.DeleteExpired(); err != nil {
		log.Printf("[cleanup] oauth states: %v", err)
	} else if n > 0 {
		log.Printf("[cleanup] removed %d expired oauth states", n)
	}
	if n, err := s.lockouts.DeleteExpired(); err != nil {
		log.Printf("[cleanup] lockouts: %v", err)
	} else if n > 0 {
		log.Printf("[cleanup] removed %d expired lockouts", n)
	}
}
