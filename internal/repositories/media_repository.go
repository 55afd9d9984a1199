package repositories

import (
	"database/sql"

	"github.com/lib/pq"

	"banthub/internal/models"
)

type MediaRepository interface {
	Create(media *models.Media) error
	GetByID(id string) (*models.Media, error)
	Delete(id string) error
	AttachToPost(mediaIDs []string, postID, ownerID string) error
	ListByPost(postID string) ([]*models.Media, error)
	ListByUser(userID string, limit, offset int) ([]*models.Media, error)
	GetCount() (int, error)
}

type mediaRepository struct {
	DB *sql.DB
}

func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mediaRepository{DB: db}
}

func (r *mediaRepository) Create(media *models.Media) error {
	const q = `
		INSERT INTO media (user_id, url, type, name, size)
		VALUES ($1,$2,$3,NULLIF($4,''),$5)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, media.UserID, media.URL, media.Type, media.Name, media.Size).
		Scan(&media.ID, &media.CreatedAt)
}

func (r *mediaRepository) GetByID(id string) (*models.Media, error) {
	const q = `
		SELECT id, user_id, COALESCE(post_id::text,''), url, type, COALESCE(name,''), size, created_at
		FROM media
		WHERE id = $1
	`
	m := &models.Media{}
	err := r.DB.QueryRow(q, id).Scan(
		&m.ID, &m.UserID, &m.PostID, &m.URL, &m.Type, &m.Name, &m.Size, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *mediaRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM media WHERE id=$1`, id)
	return err
}

// AttachToPost links uploaded media to a post. Only the uploader's own
// unattached media can be claimed.
func (r *mediaRepository) AttachToPost(mediaIDs []string, postID, ownerID string) error {
	const q = `
		UPDATE media
		SET post_id=$1
		WHERE id = ANY($2) AND user_id=$3 AND post_id IS NULL
	`
	_, err := r.DB.Exec(q, postID, pq.Array(mediaIDs), ownerID)
	return err
}

func (r *mediaRepository) ListByPost(postID string) ([]*models.Media, error) {
	const q = `
		SELECT id, user_id, COALESCE(post_id::text,''), url, type, COALESCE(name,''), size, created_at
		FROM media
		WHERE post_id = $1
		ORDER BY created_at ASC
	`
	return r.query(q, postID)
}

func (r *mediaRepository) ListByUser(userID string, limit, offset int) ([]*models.Media, error) {
	const q = `
		SELECT id, user_id, COALESCE(post_id::text,''), url, type, COALESCE(name,''), size, created_at
		FROM media
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.query(q, userID, limit, offset)
}

func (r *mediaRepository) query(q string, args ...interface{}) ([]*models.Media, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Media
	for rows.Next() {
		m := &models.Media{}
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.PostID, &m.URL, &m.Type, &m.Name, &m.Size, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *mediaRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM media`).Scan(&c)
	return c, err
}
