package services

import (
	"database/sql"
	"strings"

	"banthub/internal/models"
	"banthub/internal/repositories"
)

type UserService interface {
	Profile(id, viewerID string) (*models.User, bool, error)
	UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error)
	Search(query string, limit, offset int) ([]*models.User, error)

	Follow(followerID, followedID string) error
	Unfollow(followerID, followedID string) error
	Followers(userID string, limit, offset int) ([]*models.User, error)
	Following(userID string, limit, offset int) ([]*models.User, error)
}

type userService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
}

func NewUserService(users repositories.UserRepository, follows repositories.FollowRepository) UserService {
	return &userService{users: users, follows: follows}
}

// Profile returns the user plus whether the viewer follows them. The email is
// only exposed to its owner.
func (s *userService) Profile(id, viewerID string) (*models.User, bool, error) {
	user, err := s.users.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}
	if viewerID != id {
		user.Email = ""
	}

	following := false
	if viewerID != "" && viewerID != id {
		following, err = s.follows.IsFollowing(viewerID, id)
		if err != nil {
			return nil, false, err
		}
	}
	return user, following, nil
}

func (s *userService) UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	if w := strings.TrimSpace(req.Website); w != "" &&
		!strings.HasPrefix(w, "http://") && !strings.HasPrefix(w, "https://") {
		return nil, ErrInvalidInput
	}
	user, err := s.users.UpdateProfile(id, req)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *userService) Search(query string, limit, offset int) ([]*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	users, err := s.users.Search(query, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Email = ""
	}
	return users, nil
}

func (s *userService) Follow(followerID, followedID string) error {
	if followerID == followedID {
		return ErrInvalidInput
	}
	if _, err := s.users.GetByID(followedID); err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	_, err := s.follows.Follow(followerID, followedID)
	return err
}

func (s *userService) Unfollow(followerID, followedID string) error {
	if followerID == followedID {
		return ErrInvalidInput
	}
	_, err := s.follows.Unfollow(followerID, followedID)
	return err
}

func (s *userService) Followers(userID string, limit, offset int) ([]*models.User, error) {
	users, err := s.follows.ListFollowers(userID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Email = ""
	}
	return users, nil
}

func (s *userService) Following(userID string, limit, offset int) ([]*models.User, error) {
	users, err := s.follows.ListFollowing(userID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Email = ""
	}
	return users, nil
}
