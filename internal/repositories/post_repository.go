package repositories

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"banthub/internal/models"
)

type PostRepository interface {
	Create(post *models.Post, contentHash string) error
	GetByID(id string) (*models.Post, error)
	List(category, sort string, limit, offset int) ([]*models.Post, error)
	ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error)
	Search(query string, limit, offset int) ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id, authorID string) error
	SetPinned(id string, pinned bool) error
	ExistsByContentHash(hash string) (bool, error)
	IncrementViews(id string) error

	Like(postID, userID string) (bool, error)
	Unlike(postID, userID string) (bool, error)
	IsLiked(postID, userID string) (bool, error)
	Bookmark(postID, userID string) (bool, error)
	Unbookmark(postID, userID string) (bool, error)
	IsBookmarked(postID, userID string) (bool, error)
	ListBookmarked(userID string, limit, offset int) ([]*models.Post, error)

	GetCount() (int, error)
	GetCountCreatedSince(since time.Time) (int, error)
	GetLikesCount() (int, error)
	GetBookmarksCount() (int, error)
}

type postRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{DB: db}
}

const postColumns = `
	p.id, p.title, p.content, p.author_id, COALESCE(p.category,''),
	p.tags, p.likes_count, p.comments_count, p.views_count, p.is_pinned,
	p.published_at, p.created_at, p.updated_at,
	u.id, u.name, COALESCE(u.avatar,''), u.is_verified, u.role
`

func scanPost(row interface{ Scan(...interface{}) error }) (*models.Post, error) {
	p := &models.Post{Author: &models.User{}}
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.Category,
		pq.Array(&p.Tags), &p.Likes, &p.Comments, &p.Views, &p.IsPinned,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Avatar, &p.Author.IsVerified, &p.Author.Role,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts the post and bumps the author's posts_count in one
// transaction. The content hash backs duplicate detection.
func (r *postRepository) Create(post *models.Post, contentHash string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO posts (title, content, author_id, category, tags, content_hash, published_at)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,NOW())
		RETURNING id, published_at, created_at, updated_at
	`
	if err := tx.QueryRow(q,
		post.Title, post.Content, post.AuthorID, post.Category,
		pq.Array(post.Tags), contentHash,
	).Scan(&post.ID, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE users SET posts_count = posts_count + 1 WHERE id=$1`, post.AuthorID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO counters (name, value) VALUES ('total_posts', 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1`,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postRepository) GetByID(id string) (*models.Post, error) {
	const q = `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	return scanPost(r.DB.QueryRow(q, id))
}

func (r *postRepository) List(category, sort string, limit, offset int) ([]*models.Post, error) {
	order := `p.is_pinned DESC, p.published_at DESC`
	switch sort {
	case "popular":
		order = `p.is_pinned DESC, p.likes_count DESC, p.published_at DESC`
	case "discussed":
		order = `p.is_pinned DESC, p.comments_count DESC, p.published_at DESC`
	}
	q := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE ($1 = '' OR p.category = $1)
		ORDER BY ` + order + `
		LIMIT $2 OFFSET $3
	`
	return r.queryPosts(q, category, limit, offset)
}

func (r *postRepository) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	const q = `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.published_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPosts(q, authorID, limit, offset)
}

func (r *postRepository) Search(query string, limit, offset int) ([]*models.Post, error) {
	const q = `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%'
		ORDER BY p.published_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPosts(q, query, limit, offset)
}

func (r *postRepository) queryPosts(q string, args ...interface{}) ([]*models.Post, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *postRepository) Update(post *models.Post) error {
	const q = `
		UPDATE posts
		SET
			title = COALESCE(NULLIF($1,''), title),
			content = COALESCE(NULLIF($2,''), content),
			category = COALESCE(NULLIF($3,''), category),
			tags = COALESCE($4, tags),
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	var tags interface{}
	if post.Tags != nil {
		tags = pq.Array(post.Tags)
	}
	return r.DB.QueryRow(q, post.Title, post.Content, post.Category, tags, post.ID).
		Scan(&post.UpdatedAt)
}

// Delete removes the post and settles every derived counter in the same
// transaction. Counts are floored at zero.
func (r *postRepository) Delete(id, authorID string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM posts WHERE id=$1`, id)
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
		`UPDATE users SET posts_count = GREATEST(posts_count - 1, 0) WHERE id=$1`, authorID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE counters SET value = GREATEST(value - 1, 0) WHERE name='total_posts'`,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postRepository) SetPinned(id string, pinned bool) error {
	_, err := r.DB.Exec(`UPDATE posts SET is_pinned=$1, updated_at=NOW() WHERE id=$2`, pinned, id)
	return err
}

func (r *postRepository) ExistsByContentHash(hash string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE content_hash=$1)`, hash).Scan(&exists)
	return exists, err
}

func (r *postRepository) IncrementViews(id string) error {
	_, err := r.DB.Exec(`UPDATE posts SET views_count = views_count + 1 WHERE id=$1`, id)
	return err
}

// Like inserts the like row and bumps the post's counter atomically. Returns
// false when the user had already liked the post.
func (r *postRepository) Like(postID, userID string) (bool, error) {
	return r.toggleRelation(postID, userID, "likes", "likes_count", "total_likes", true)
}

func (r *postRepository) Unlike(postID, userID string) (bool, error) {
	return r.toggleRelation(postID, userID, "likes", "likes_count", "total_likes", false)
}

func (r *postRepository) Bookmark(postID, userID string) (bool, error) {
	return r.toggleRelation(postID, userID, "bookmarks", "", "total_bookmarks", true)
}

func (r *postRepository) Unbookmark(postID, userID string) (bool, error) {
	return r.toggleRelation(postID, userID, "bookmarks", "", "total_bookmarks", false)
}

func (r *postRepository) toggleRelation(postID, userID, table, postCounter, globalCounter string, add bool) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var res sql.Result
	if add {
		res, err = tx.Exec(
			`INSERT INTO `+table+` (post_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			postID, userID,
		)
	} else {
		res, err = tx.Exec(
			`DELETE FROM `+table+` WHERE post_id=$1 AND user_id=$2`,
			postID, userID,
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
		// already in the target state, nothing to count
		return false, tx.Commit()
	}

	if postCounter != "" {
		var q string
		if add {
			q = `UPDATE posts SET ` + postCounter + ` = ` + postCounter + ` + 1 WHERE id=$1`
		} else {
			q = `UPDATE posts SET ` + postCounter + ` = GREATEST(` + postCounter + ` - 1, 0) WHERE id=$1`
		}
		if _, err := tx.Exec(q, postID); err != nil {
			return false, err
		}
	}

	var q string
	if add {
		q = `INSERT INTO counters (name, value) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET value = counters.value + 1`
	} else {
		q = `INSERT INTO counters (name, value) VALUES ($1, 0)
			ON CONFLICT (name) DO UPDATE SET value = GREATEST(counters.value - 1, 0)`
	}
	if _, err := tx.Exec(q, globalCounter); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *postRepository) IsLiked(postID, userID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM likes WHERE post_id=$1 AND user_id=$2)`, postID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postRepository) IsBookmarked(postID, userID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM bookmarks WHERE post_id=$1 AND user_id=$2)`, postID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postRepository) ListBookmarked(userID string, limit, offset int) ([]*models.Post, error) {
	const q = `
		SELECT ` + postColumns + `
		FROM bookmarks b
		JOIN posts p ON p.id = b.post_id
		JOIN users u ON u.id = p.author_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPosts(q, userID, limit, offset)
}

func (r *postRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&c)
	return c, err
}

func (r *postRepository) GetCountCreatedSince(since time.Time) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM posts WHERE created_at >= $1`, since).Scan(&c)
	return c, err
}

// Like and bookmark totals come from the counters table the toggle
// transactions maintain, so the stats endpoint never scans the join tables.
func (r *postRepository) GetLikesCount() (int, error) {
	var c int
	err := r.DB.QueryRow(
		`SELECT COALESCE((SELECT value FROM counters WHERE name='total_likes'), 0)`,
	).Scan(&c)
	return c, err
}

func (r *postRepository) GetBookmarksCount() (int, error) {
	var c int
	err := r.DB.QueryRow(
		`SELECT COALESCE((SELECT value FROM counters WHERE name='total_bookmarks'), 0)`,
	).Scan(&c)
	return c, err
}
