package repositories

import (
	"database/sql"
	"time"

	"banthub/internal/models"
)

type LockoutRepository interface {
	Get(userID string) (*models.AccountLockout, error)
	RecordFailure(userID string, lockedUntil *time.Time) (*models.AccountLockout, error)
	Clear(userID string) error
	DeleteExpired() (int64, error)
}

type lockoutRepository struct {
	DB *sql.DB
}

func NewLockoutRepository(db *sql.DB) LockoutRepository {
	return &lockoutRepository{DB: db}
}

func (r *lockoutRepository) Get(userID string) (*models.AccountLockout, error) {
	const q = `
		SELECT user_id, failed_attempts, COALESCE(locked_until, 'epoch'::timestamptz), created_at
		FROM account_lockouts
		WHERE user_id = $1
	`
	l := &models.AccountLockout{}
	err := r.DB.QueryRow(q, userID).Scan(&l.UserID, &l.FailedAttempts, &l.LockedUntil, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// RecordFailure bumps the failure counter, setting locked_until when provided.
// Returns the row as it stands after the bump.
func (r *lockoutRepository) RecordFailure(userID string, lockedUntil *time.Time) (*models.AccountLockout, error) {
	const q = `
		INSERT INTO account_lockouts (user_id, failed_attempts, locked_until)
		VALUES ($1, 1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			failed_attempts = account_lockouts.failed_attempts + 1,
			locked_until = COALESCE($2, account_lockouts.locked_until)
		RETURNING user_id, failed_attempts, COALESCE(locked_until, 'epoch'::timestamptz), created_at
	`
	l := &models.AccountLockout{}
	err := r.DB.QueryRow(q, userID, lockedUntil).Scan(&l.UserID, &l.FailedAttempts, &l.LockedUntil, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Clear removes the lockout row entirely. A successful login resets the
// counter to zero, not to some remembered value.
func (r *lockoutRepository) Clear(userID string) error {
	_, err := r.DB.Exec(`DELETE FROM account_lockouts WHERE user_id=$1`, userID)
	return err
}

func (r *lockoutRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM account_lockouts WHERE locked_until IS NOT NULL AND locked_until < NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
