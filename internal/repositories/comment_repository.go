package repositories

import (
	"database/sql"
	"time"

	"banthub/internal/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	ListByPost(postID string, limit, offset int) ([]*models.Comment, error)
	Update(id, content string) (*models.Comment, error)
	Delete(id, postID string) error

	Like(commentID, userID string) (bool, error)
	Unlike(commentID, userID string) (bool, error)

	GetCount() (int, error)
	GetCountCreatedSince(since time.Time) (int, error)
}

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{DB: db}
}

const commentColumns = `
	c.id, c.post_id, c.author_id, c.content, c.likes_count, c.created_at, c.updated_at,
	u.id, u.name, COALESCE(u.avatar,''), u.is_verified, u.role
`

func scanComment(row interface{ Scan(...interface{}) error }) (*models.Comment, error) {
	c := &models.Comment{Author: &models.User{}}
	err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.Likes, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.ID, &c.Author.Name, &c.Author.Avatar, &c.Author.IsVerified, &c.Author.Role,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts the comment and bumps the post's comments_count in one
// transaction.
func (r *commentRepository) Create(comment *models.Comment) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(q, comment.PostID, comment.AuthorID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE posts SET comments_count = comments_count + 1 WHERE id=$1`, comment.PostID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO counters (name, value) VALUES ('total_comments', 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1`,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *commentRepository) GetByID(id string) (*models.Comment, error) {
	const q = `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`
	return scanComment(r.DB.QueryRow(q, id))
}

func (r *commentRepository) ListByPost(postID string, limit, offset int) ([]*models.Comment, error) {
	const q = `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *commentRepository) Update(id, content string) (*models.Comment, error) {
	const q = `
		UPDATE comments
		SET content=$1, updated_at=NOW()
		WHERE id=$2
		RETURNING id, post_id, author_id, content, likes_count, created_at, updated_at
	`
	c := &models.Comment{}
	err := r.DB.QueryRow(q, content, id).Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.Likes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the comment and settles the post's comments_count, floored
// at zero, in the same transaction.
func (r *commentRepository) Delete(id, postID string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM comments WHERE id=$1`, id)
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
	if _, err := tx.Exec(
		`UPDATE posts SET comments_count = GREATEST(comments_count - 1, 0) WHERE id=$1`, postID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE counters SET value = GREATEST(value - 1, 0) WHERE name='total_comments'`,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *commentRepository) Like(commentID, userID string) (bool, error) {
	return r.toggleLike(commentID, userID, true)
}

func (r *commentRepository) Unlike(commentID, userID string) (bool, error) {
	return r.toggleLike(commentID, userID, false)
}

func (r *commentRepository) toggleLike(commentID, userID string, add bool) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var res sql.Result
	if add {
		res, err = tx.Exec(
			`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			commentID, userID,
		)
	} else {
		res, err = tx.Exec(
			`DELETE FROM comment_likes WHERE comment_id=$1 AND user_id=$2`,
			commentID, userID,
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

	var q string
	if add {
		q = `UPDATE comments SET likes_count = likes_count + 1 WHERE id=$1`
	} else {
		q = `UPDATE comments SET likes_count = GREATEST(likes_count - 1, 0) WHERE id=$1`
	}
	if _, err := tx.Exec(q, commentID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *commentRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&c)
	return c, err
}

func (r *commentRepository) GetCountCreatedSince(since time.Time) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM comments WHERE created_at >= $1`, since).Scan(&c)
	return c, err
}
