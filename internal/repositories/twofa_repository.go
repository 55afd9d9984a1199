package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type TwoFactorRepository interface {
	Get(userID string) (*models.TwoFactorAuth, error)
	SetEnabled(userID string, enabled bool) error
	IsEnabled(userID string) (bool, error)
}

type twoFactorRepository struct {
	DB *sql.DB
}

func NewTwoFactorRepository(db *sql.DB) TwoFactorRepository {
	return &twoFactorRepository{DB: db}
}

func (r *twoFactorRepository) Get(userID string) (*models.TwoFactorAuth, error) {
	const q = `
		SELECT user_id, enabled, created_at, updated_at
		FROM two_factor_auth
		WHERE user_id = $1
	`
	t := &models.TwoFactorAuth{}
	err := r.DB.QueryRow(q, userID).Scan(&t.UserID, &t.Enabled, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *twoFactorRepository) SetEnabled(userID string, enabled bool) error {
	const q = `
		INSERT INTO two_factor_auth (user_id, enabled)
		VALUES ($1,$2)
		ON CONFLICT (user_id) DO UPDATE SET enabled=$2, updated_at=NOW()
	`
	_, err := r.DB.Exec(q, userID, enabled)
	return err
}

// IsEnabled treats a missing row as disabled.
func (r *twoFactorRepository) IsEnabled(userID string) (bool, error) {
	var enabled bool
	err := r.DB.QueryRow(`SELECT enabled FROM two_factor_auth WHERE user_id=$1`, userID).Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return enabled, err
}
