package services

import (
	"database/sql"
	"strings"

	"banthub/internal/authz"
	"banthub/internal/models"
	"banthub/internal/repositories"
)

type CommentService interface {
	Create(postID, authorID string, req *models.CreateCommentRequest) (*models.Comment, error)
	ListByPost(postID string, limit, offset int) ([]*models.Comment, error)
	Update(id, userID, role string, req *models.UpdateCommentRequest) (*models.Comment, error)
	Delete(id, userID, role string) error
	ToggleLike(commentID, userID string) (bool, error)
}

type commentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

func (s *commentService) Create(postID, authorID string, req *models.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.posts.GetByID(postID); err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(comment.ID)
}

func (s *commentService) ListByPost(postID string, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(postID); err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return s.comments.ListByPost(postID, clampLimit(limit), offset)
}

func (s *commentService) Update(id, userID, role string, req *models.UpdateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	comment, err := s.comments.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d := authz.OwnerOrModerator(userID, role, comment.AuthorID); !d.Allowed() {
		return nil, ErrForbidden
	}
	return s.comments.Update(id, content)
}

func (s *commentService) Delete(id, userID, role string) error {
	comment, err := s.comments.GetByID(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if d := authz.OwnerOrModerator(userID, role, comment.AuthorID); !d.Allowed() {
		return ErrForbidden
	}
	return s.comments.Delete(id, comment.PostID)
}

func (s *commentService) ToggleLike(commentID, userID string) (bool, error) {
	if _, err := s.comments.GetByID(commentID); err == sql.ErrNoRows {
		return false, ErrNotFound
	} else if err != nil {
		return false, err
	}
	changed, err := s.comments.Like(commentID, userID)
	if err != nil {
		return false, err
	}
	if changed {
		return true, nil
	}
	// already liked, so this toggle removes it
	if _, err := s.comments.Unlike(commentID, userID); err != nil {
		return false, err
	}
	return false, nil
}
