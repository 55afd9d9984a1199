package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	GetActiveByID(id string) (*models.Session, error)
	Rotate(oldID string, next *models.Session) error
	Deactivate(id string) error
	DeactivateAllForUser(userID string) error
	Touch(id string) error
	ListActiveByUser(userID string) ([]*models.Session, error)
	DeleteExpired() (int64, error)
}

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(session *models.Session) error {
	const q = `
		INSERT INTO sessions (id, user_id, token_id, ip_address, user_agent, expires_at, last_activity, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),TRUE)
		RETURNING created_at, last_activity
	`
	return r.DB.QueryRow(q,
		session.ID, session.UserID, session.TokenID,
		session.IPAddress, session.UserAgent, session.ExpiresAt,
	).Scan(&session.CreatedAt, &session.LastActivity)
}

func (r *sessionRepository) GetActiveByID(id string) (*models.Session, error) {
	const q = `
		SELECT id, user_id, token_id, COALESCE(ip_address,''), COALESCE(user_agent,''),
			created_at, expires_at, last_activity, is_active
		FROM sessions
		WHERE id = $1 AND is_active AND expires_at > NOW()
	`
	s := &models.Session{}
	err := r.DB.QueryRow(q, id).Scan(
		&s.ID, &s.UserID, &s.TokenID, &s.IPAddress, &s.UserAgent,
		&s.CreatedAt, &s.ExpiresAt, &s.LastActivity, &s.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Rotate deactivates the old session and inserts its replacement in one
// transaction, so the old refresh token can never be replayed.
func (r *sessionRepository) Rotate(oldID string, next *models.Session) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE sessions SET is_active=FALSE WHERE id=$1 AND is_active`, oldID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	const q = `
		INSERT INTO sessions (id, user_id, token_id, ip_address, user_agent, expires_at, last_activity, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),TRUE)
		RETURNING created_at, last_activity
	`
	if err := tx.QueryRow(q,
		next.ID, next.UserID, next.TokenID,
		next.IPAddress, next.UserAgent, next.ExpiresAt,
	).Scan(&next.CreatedAt, &next.LastActivity); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sessionRepository) Deactivate(id string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET is_active=FALSE WHERE id=$1`, id)
	return err
}

func (r *sessionRepository) DeactivateAllForUser(userID string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET is_active=FALSE WHERE user_id=$1`, userID)
	return err
}

func (r *sessionRepository) Touch(id string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET last_activity=NOW() WHERE id=$1`, id)
	return err
}

func (r *sessionRepository) ListActiveByUser(userID string) ([]*models.Session, error) {
	const q = `
		SELECT id, user_id, token_id, COALESCE(ip_address,''), COALESCE(user_agent,''),
			created_at, expires_at, last_activity, is_active
		FROM sessions
		WHERE user_id = $1 AND is_active AND expires_at > NOW()
		ORDER BY last_activity DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Session
	for rows.Next() {
		s := &models.Session{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.TokenID, &s.IPAddress, &s.UserAgent,
			&s.CreatedAt, &s.ExpiresAt, &s.LastActivity, &s.IsActive,
		); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *sessionRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at < NOW() - INTERVAL '7 days'`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
