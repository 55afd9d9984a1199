package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type OTPRepository interface {
	Create(otp *models.OTP) error
	LatestUnused(email, otpType string) (*models.OTP, error)
	IncrementAttempts(id string) (int, error)
	MarkUsed(id string) error
	InvalidateUnused(email, otpType string) error
	DeleteExpired() (int64, error)
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) Create(otp *models.OTP) error {
	const q = `
		INSERT INTO otps (user_id, email, code_hash, type, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, otp.UserID, otp.Email, otp.CodeHash, otp.Type, otp.ExpiresAt).
		Scan(&otp.ID, &otp.CreatedAt)
}

// LatestUnused returns the newest unconsumed code for the address. Older codes
// stay in place but can never win this query.
func (r *otpRepository) LatestUnused(email, otpType string) (*models.OTP, error) {
	const q = `
		SELECT id, user_id, email, code_hash, type, expires_at, used, attempts, created_at
		FROM otps
		WHERE email = $1 AND type = $2 AND NOT used
		ORDER BY created_at DESC
		LIMIT 1
	`
	o := &models.OTP{}
	err := r.DB.QueryRow(q, email, otpType).Scan(
		&o.ID, &o.UserID, &o.Email, &o.CodeHash, &o.Type,
		&o.ExpiresAt, &o.Used, &o.Attempts, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *otpRepository) IncrementAttempts(id string) (int, error) {
	var attempts int
	err := r.DB.QueryRow(
		`UPDATE otps SET attempts = attempts + 1 WHERE id=$1 RETURNING attempts`, id,
	).Scan(&attempts)
	return attempts, err
}

func (r *otpRepository) MarkUsed(id string) error {
	_, err := r.DB.Exec(`UPDATE otps SET used=TRUE WHERE id=$1`, id)
	return err
}

// InvalidateUnused burns any outstanding codes before a new one is issued.
func (r *otpRepository) InvalidateUnused(email, otpType string) error {
	_, err := r.DB.Exec(`UPDATE otps SET used=TRUE WHERE email=$1 AND type=$2 AND NOT used`, email, otpType)
	return err
}

func (r *otpRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM otps WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
