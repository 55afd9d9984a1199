package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type SecurityEventRepository interface {
	Insert(event *models.SecurityEvent) error
	ListRecent(limit, offset int) ([]*models.SecurityEvent, error)
	ListByUser(userID string, limit, offset int) ([]*models.SecurityEvent, error)
}

type securityEventRepository struct {
	DB *sql.DB
}

func NewSecurityEventRepository(db *sql.DB) SecurityEventRepository {
	return &securityEventRepository{DB: db}
}

func (r *securityEventRepository) Insert(event *models.SecurityEvent) error {
	const q = `
		INSERT INTO security_events (user_id, event_type, ip_address, user_agent, success, details)
		VALUES (NULLIF($1,''),$2,$3,$4,$5,NULLIF($6,''))
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		event.UserID, event.EventType, event.IPAddress,
		event.UserAgent, event.Success, event.Details,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *securityEventRepository) ListRecent(limit, offset int) ([]*models.SecurityEvent, error) {
	const q = `
		SELECT id, COALESCE(user_id,''), event_type, ip_address, user_agent, success, COALESCE(details,''), created_at
		FROM security_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.query(q, limit, offset)
}

func (r *securityEventRepository) ListByUser(userID string, limit, offset int) ([]*models.SecurityEvent, error) {
	const q = `
		SELECT id, COALESCE(user_id,''), event_type, ip_address, user_agent, success, COALESCE(details,''), created_at
		FROM security_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.query(q, userID, limit, offset)
}

func (r *securityEventRepository) query(q string, args ...interface{}) ([]*models.SecurityEvent, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.SecurityEvent
	for rows.Next() {
		e := &models.SecurityEvent{}
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.EventType, &e.IPAddress,
			&e.UserAgent, &e.Success, &e.Details, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
