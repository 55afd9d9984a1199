package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type OAuthStateRepository interface {
	Create(state *models.OAuthState) error
	Consume(state string) (*models.OAuthState, error)
	DeleteExpired() (int64, error)
}

type oauthStateRepository struct {
	DB *sql.DB
}

func NewOAuthStateRepository(db *sql.DB) OAuthStateRepository {
	return &oauthStateRepository{DB: db}
}

func (r *oauthStateRepository) Create(state *models.OAuthState) error {
	const q = `
		INSERT INTO oauth_states (state, provider, redirect_url, expires_at)
		VALUES ($1,$2,NULLIF($3,''),$4)
		RETURNING created_at
	`
	return r.DB.QueryRow(q, state.State, state.Provider, state.RedirectURL, state.ExpiresAt).
		Scan(&state.CreatedAt)
}

// Consume deletes the row as it reads it, so a state value can only ever be
// redeemed once. Expired states are unredeemable.
func (r *oauthStateRepository) Consume(state string) (*models.OAuthState, error) {
	const q = `
		DELETE FROM oauth_states
		WHERE state = $1 AND expires_at > NOW()
		RETURNING state, provider, COALESCE(redirect_url,''), created_at, expires_at
	`
	s := &models.OAuthState{}
	err := r.DB.QueryRow(q, state).Scan(&s.State, &s.Provider, &s.RedirectURL, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *oauthStateRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM oauth_states WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
