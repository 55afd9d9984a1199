package services

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"banthub/internal/authz"
	"banthub/internal/models"
	"banthub/internal/repositories"
)

type PostService interface {
	Create(authorID string, req *models.CreatePostRequest) (*models.Post, error)
	Get(id, viewerID string) (*models.Post, error)
	List(category, sort string, limit, offset int) ([]*models.Post, error)
	ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error)
	Search(query string, limit, offset int) ([]*models.Post, error)
	Update(id, userID, role string, req *models.UpdatePostRequest) (*models.Post, error)
	Delete(id, userID, role string) error
	SetPinned(id string, pinned bool) error

	ToggleLike(postID, userID string) (liked bool, err error)
	ToggleBookmark(postID, userID string) (bookmarked bool, err error)
	ListBookmarked(userID string, limit, offset int) ([]*models.Post, error)
}

type postService struct {
	posts repositories.PostRepository
	media repositories.MediaRepository
}

func NewPostService(posts repositories.PostRepository, media repositories.MediaRepository) PostService {
	return &postService{posts: posts, media: media}
}

// contentHash fingerprints a post for duplicate detection. The author is part
// of the hash, so two users may publish identical text.
func contentHash(authorID, title, content string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", authorID, title, content)))
	return hex.EncodeToString(sum[:])
}

func (s *postService) Create(authorID string, req *models.CreatePostRequest) (*models.Post, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	hash := contentHash(authorID, title, content)
	exists, err := s.posts.ExistsByContentHash(hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	post := &models.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		Category: req.Category,
		Tags:     req.Tags,
	}
	if err := s.posts.Create(post, hash); err != nil {
		return nil, err
	}

	if len(req.MediaIDs) > 0 {
		if err := s.media.AttachToPost(req.MediaIDs, post.ID, authorID); err != nil {
			log.Printf("[post][create] attaching media to %s: %v", post.ID, err)
		}
	}
	return s.Get(post.ID, authorID)
}

func (s *postService) Get(id, viewerID string) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if media, err := s.media.ListByPost(id); err == nil {
		post.Media = media
	}
	if viewerID != post.AuthorID {
		if err := s.posts.IncrementViews(id); err != nil {
			log.Printf("[post][get] view count for %s: %v", id, err)
		} else {
			post.Views++
		}
	}
	return post, nil
}

func (s *postService) List(category, sort string, limit, offset int) ([]*models.Post, error) {
	return s.posts.List(category, sort, clampLimit(limit), offset)
}

func (s *postService) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	return s.posts.ListByAuthor(authorID, clampLimit(limit), offset)
}

func (s *postService) Search(query string, limit, offset int) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	return s.posts.Search(query, clampLimit(limit), offset)
}

func (s *postService) Update(id, userID, role string, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d := authz.OwnerOrModerator(userID, role, post.AuthorID); !d.Allowed() {
		return nil, ErrForbidden
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Category = req.Category
	post.Tags = req.Tags
	if err := s.posts.Update(post); err != nil {
		return nil, err
	}
	return s.Get(id, "")
}

func (s *postService) Delete(id, userID, role string) error {
	post, err := s.posts.GetByID(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if d := authz.OwnerOrModerator(userID, role, post.AuthorID); !d.Allowed() {
		return ErrForbidden
	}
	return s.posts.Delete(id, post.AuthorID)
}

func (s *postService) SetPinned(id string, pinned bool) error {
	if _, err := s.posts.GetByID(id); err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.posts.SetPinned(id, pinned)
}

// ToggleLike flips the caller's like on the post and reports the new state.
func (s *postService) ToggleLike(postID, userID string) (bool, error) {
	if _, err := s.posts.GetByID(postID); err == sql.ErrNoRows {
		return false, ErrNotFound
	} else if err != nil {
		return false, err
	}
	liked, err := s.posts.IsLiked(postID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		if _, err := s.posts.Unlike(postID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.posts.Like(postID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *postService) ToggleBookmark(postID, userID string) (bool, error) {
	if _, err := s.posts.GetByID(postID); err == sql.ErrNoRows {
		return false, ErrNotFound
	} else if err != nil {
		return false, err
	}
	marked, err := s.posts.IsBookmarked(postID, userID)
	if err != nil {
		return false, err
	}
	if marked {
		if _, err := s.posts.Unbookmark(postID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.posts.Bookmark(postID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *postService) ListBookmarked(userID string, limit, offset int) ([]*models.Post, error) {
	return s.posts.ListBookmarked(userID, clampLimit(limit), offset)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
