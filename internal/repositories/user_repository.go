package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"banthub/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error)
	UpdateRole(id, role string) error
	SetActive(id string, active bool) error
	SetVerified(id string, verified bool) error
	Delete(id string) error
	List(limit, offset int) ([]*models.User, error)
	Search(query string, limit, offset int) ([]*models.User, error)
	ListByRoles(roles []string) ([]*models.User, error)

	RoleByID(ctx context.Context, id string) (string, error)
	GetCount() (int, error)
	GetCountByRoles(roles []string) (int, error)
	GetCountCreatedSince(since time.Time) (int, error)
	GetCountActiveSince(since time.Time) (int, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	users.id, users.name, COALESCE(users.email,''), COALESCE(users.avatar,''), COALESCE(users.bio,''),
	COALESCE(users.location,''), COALESCE(users.website,''),
	users.is_verified, users.is_active, users.role, COALESCE(users.provider,''),
	users.posts_count, users.followers_count, users.following_count,
	users.created_at, users.updated_at
`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Avatar, &u.Bio,
		&u.Location, &u.Website,
		&u.IsVerified, &u.IsActive, &u.Role, &u.Provider,
		&u.PostsCount, &u.FollowersCount, &u.FollowingCount,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (id, name, email, avatar, role, provider, is_verified, is_active)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,NULLIF($6,''),$7,TRUE)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		RETURNING is_active, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		user.ID, user.Name, user.Email, user.Avatar,
		user.Role, user.Provider, user.IsVerified,
	).Scan(&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	const q = `
		UPDATE users
		SET
			name = COALESCE(NULLIF($1,''), name),
			bio = COALESCE(NULLIF($2,''), bio),
			location = COALESCE(NULLIF($3,''), location),
			website = COALESCE(NULLIF($4,''), website),
			avatar = COALESCE(NULLIF($5,''), avatar),
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + userColumns + `
	`
	return scanUser(r.DB.QueryRow(q, req.Name, req.Bio, req.Location, req.Website, req.Avatar, id))
}

func (r *userRepository) UpdateRole(id, role string) error {
	_, err := r.DB.Exec(`UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`, role, id)
	return err
}

func (r *userRepository) SetActive(id string, active bool) error {
	_, err := r.DB.Exec(`UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	return err
}

func (r *userRepository) SetVerified(id string, verified bool) error {
	_, err := r.DB.Exec(`UPDATE users SET is_verified=$1, updated_at=NOW() WHERE id=$2`, verified, id)
	return err
}

func (r *userRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryUsers(q, limit, offset)
}

func (r *userRepository) Search(query string, limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active AND (name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		ORDER BY followers_count DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryUsers(q, query, limit, offset)
}

func (r *userRepository) ListByRoles(roles []string) ([]*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = ANY($1)
		ORDER BY created_at DESC
	`
	return r.queryUsers(q, pq.Array(roles))
}

func (r *userRepository) queryUsers(q string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) RoleByID(ctx context.Context, id string) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx, `SELECT role FROM users WHERE id=$1 AND is_active`, id).Scan(&role)
	return role, err
}

func (r *userRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&c)
	return c, err
}

func (r *userRepository) GetCountByRoles(roles []string) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE role = ANY($1)`, pq.Array(roles)).Scan(&c)
	return c, err
}

func (r *userRepository) GetCountCreatedSince(since time.Time) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&c)
	return c, err
}

func (r *userRepository) GetCountActiveSince(since time.Time) (int, error) {
	const q = `
		SELECT COUNT(DISTINCT user_id)
		FROM sessions
		WHERE last_activity >= $1 AND is_active
	`
	var c int
	err := r.DB.QueryRow(q, since).Scan(&c)
	return c, err
}
