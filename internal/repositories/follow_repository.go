package repositories

import (
	"database/sql"

	"banthub/internal/models"
)

type FollowRepository interface {
	Follow(followerID, followedID string) (bool, error)
	Unfollow(followerID, followedID string) (bool, error)
	IsFollowing(followerID, followedID string) (bool, error)
	ListFollowers(userID string, limit, offset int) ([]*models.User, error)
	ListFollowing(userID string, limit, offset int) ([]*models.User, error)
}

type followRepository struct {
	DB *sql.DB
}

func NewFollowRepository(db *sql.DB) FollowRepository {
	return &followRepository{DB: db}
}

// Follow creates the edge and bumps both users' counters in one transaction.
// Returns false when the edge already existed.
func (r *followRepository) Follow(followerID, followedID string) (bool, error) {
	return r.toggle(followerID, followedID, true)
}

func (r *followRepository) Unfollow(followerID, followedID string) (bool, error) {
	return r.toggle(followerID, followedID, false)
}

func (r *followRepository) toggle(followerID, followedID string, add bool) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var res sql.Result
	if add {
		res, err = tx.Exec(
			`INSERT INTO follows (follower_id, followed_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			followerID, followedID,
		)
	} else {
		res, err = tx.Exec(
			`DELETE FROM follows WHERE follower_id=$1 AND followed_id=$2`,
			followerID, followedID,
		)
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, tx.Commit()
	}

	if add {
		if _, err := tx.Exec(
			`UPDATE users SET following_count = following_count + 1 WHERE id=$1`, followerID,
		); err != nil {
			return false, err
		}
		if _, err := tx.Exec(
			`UPDATE users SET followers_count = followers_count + 1 WHERE id=$1`, followedID,
		); err != nil {
			return false, err
		}
	} else {
		if _, err := tx.Exec(
			`UPDATE users SET following_count = GREATEST(following_count - 1, 0) WHERE id=$1`, followerID,
		); err != nil {
			return false, err
		}
		if _, err := tx.Exec(
			`UPDATE users SET followers_count = GREATEST(followers_count - 1, 0) WHERE id=$1`, followedID,
		); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

func (r *followRepository) IsFollowing(followerID, followedID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id=$1 AND followed_id=$2)`,
		followerID, followedID,
	).Scan(&exists)
	return exists, err
}

func (r *followRepository) ListFollowers(userID string, limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM follows f
		JOIN users ON users.id = f.follower_id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryUsers(q, userID, limit, offset)
}

func (r *followRepository) ListFollowing(userID string, limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM follows f
		JOIN users ON users.id = f.followed_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryUsers(q, userID, limit, offset)
}

func (r *followRepository) queryUsers(q string, args ...interface{}) ([]*models.User, error) {
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
