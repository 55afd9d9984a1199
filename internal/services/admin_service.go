package services

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"banthub/internal/authz"
	"banthub/internal/models"
	"banthub/internal/repositories"
	"banthub/internal/supabase"
)

// AdminProvider is the slice of the hosted identity API the admin console
// needs for provisioning accounts.
type AdminProvider interface {
	AdminCreateUser(ctx context.Context, email, password, name string) (*supabase.AuthUser, error)
}

type AdminService interface {
	Stats() (*models.AdminStats, error)
	ListUsers(limit, offset int) ([]*models.User, error)
	ListAdmins() ([]*models.User, error)
	CreateAdmin(ctx context.Context, actorRole string, req *models.CreateAdminRequest) (*models.User, error)
	UpdateRole(actorID, actorRole, targetID, role string) error
	SetBanned(actorID, targetID string, banned bool) error
	SetVerified(targetID string, verified bool) error

	CreateReport(reporterID, postID, commentID, reason string) (*models.Report, error)
	ListReports(status string, limit, offset int) ([]*models.Report, error)
	ResolveReport(id, status, reviewerID string) (*models.Report, error)

	SecurityEvents(limit, offset int) ([]*models.SecurityEvent, error)
}

type adminService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	media    repositories.MediaRepository
	reports  repositories.ReportRepository
	events   repositories.SecurityEventRepository
	sessions repositories.SessionRepository
	provider AdminProvider
}

func NewAdminService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	media repositories.MediaRepository,
	reports repositories.ReportRepository,
	events repositories.SecurityEventRepository,
	sessions repositories.SessionRepository,
	provider AdminProvider,
) AdminService {
	return &adminService{
		users:    users,
		posts:    posts,
		comments: comments,
		media:    media,
		reports:  reports,
		events:   events,
		sessions: sessions,
		provider: provider,
	}
}

func (s *adminService) Stats() (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	midnight := time.Now().Truncate(24 * time.Hour)

	var err error
	if stats.TotalUsers, err = s.users.GetCount(); err != nil {
		return nil, err
	}
	if stats.TotalPosts, err = s.posts.GetCount(); err != nil {
		return nil, err
	}
	if stats.TotalComments, err = s.comments.GetCount(); err != nil {
		return nil, err
	}
	if stats.TotalAdmins, err = s.users.GetCountByRoles([]string{authz.RoleAdmin, authz.RoleSuperAdmin}); err != nil {
		return nil, err
	}
	if stats.NewUsersToday, err = s.users.GetCountCreatedSince(midnight); err != nil {
		return nil, err
	}
	if stats.NewPostsToday, err = s.posts.GetCountCreatedSince(midnight); err != nil {
		return nil, err
	}
	if stats.NewCommentsToday, err = s.comments.GetCountCreatedSince(midnight); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.users.GetCountActiveSince(time.Now().Add(-24 * time.Hour)); err != nil {
		return nil, err
	}
	if stats.TotalLikes, err = s.posts.GetLikesCount(); err != nil {
		return nil, err
	}
	if stats.TotalBookmarks, err = s.posts.GetBookmarksCount(); err != nil {
		return nil, err
	}
	if stats.TotalMedia, err = s.media.GetCount(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.users.List(clampLimit(limit), offset)
}

func (s *adminService) ListAdmins() ([]*models.User, error) {
	return s.users.ListByRoles([]string{authz.RoleAdmin, authz.RoleSuperAdmin})
}

// CreateAdmin provisions a confirmed account with an elevated role. Only a
// super admin may do this, and the new role must itself be administrative.
func (s *adminService) CreateAdmin(ctx context.Context, actorRole string, req *models.CreateAdminRequest) (*models.User, error) {
	if actorRole != authz.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	if req.Role != authz.RoleAdmin && req.Role != authz.RoleSuperAdmin {
		return nil, ErrInvalidInput
	}
	if len(req.Password) < 8 {
		return nil, ErrInvalidInput
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	created, err := s.provider.AdminCreateUser(ctx, email, req.Password, req.Name)
	if err != nil {
		log.Printf("[admin][create] provider rejected %q: %v", email, err)
		return nil, ErrEmailTaken
	}

	user := &models.User{
		ID:         created.ID,
		Name:       req.Name,
		Email:      email,
		Role:       req.Role,
		IsVerified: true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateRole changes a user's role. Only a super admin may grant or revoke
// the admin roles, and nobody can change their own.
func (s *adminService) UpdateRole(actorID, actorRole, targetID, role string) error {
	if actorID == targetID {
		return ErrForbidden
	}
	switch role {
	case authz.RoleUser, authz.RoleModerator, authz.RoleAdmin, authz.RoleSuperAdmin:
	default:
		return ErrInvalidInput
	}
	target, err := s.users.GetByID(targetID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if actorRole != authz.RoleSuperAdmin && (authz.IsAdmin(role) || authz.IsAdmin(target.Role)) {
		return ErrForbidden
	}
	return s.users.UpdateRole(targetID, role)
}

// SetBanned disables or restores an account. A ban kills every live session.
func (s *adminService) SetBanned(actorID, targetID string, banned bool) error {
	if actorID == targetID {
		return ErrForbidden
	}
	target, err := s.users.GetByID(targetID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if authz.IsAdmin(target.Role) {
		return ErrForbidden
	}
	if err := s.users.SetActive(targetID, !banned); err != nil {
		return err
	}
	if banned {
		if err := s.sessions.DeactivateAllForUser(targetID); err != nil {
			log.Printf("[admin][ban] deactivating sessions for %s: %v", targetID, err)
		}
	}
	return nil
}

func (s *adminService) SetVerified(targetID string, verified bool) error {
	if _, err := s.users.GetByID(targetID); err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.users.SetVerified(targetID, verified)
}

func (s *adminService) CreateReport(reporterID, postID, commentID, reason string) (*models.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || (postID == "" && commentID == "") {
		return nil, ErrInvalidInput
	}
	report := &models.Report{
		ReporterID: reporterID,
		PostID:     postID,
		CommentID:  commentID,
		Reason:     reason,
		Status:     models.ReportStatusPending,
	}
	if err := s.reports.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *adminService) ListReports(status string, limit, offset int) ([]*models.Report, error) {
	switch status {
	case "", models.ReportStatusPending, models.ReportStatusResolved, models.ReportStatusRejected:
	default:
		return nil, ErrInvalidInput
	}
	return s.reports.List(status, clampLimit(limit), offset)
}

func (s *adminService) ResolveReport(id, status, reviewerID string) (*models.Report, error) {
	if status != models.ReportStatusResolved && status != models.ReportStatusRejected {
		return nil, ErrInvalidInput
	}
	report, err := s.reports.Resolve(id, status, reviewerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return report, err
}

func (s *adminService) SecurityEvents(limit, offset int) ([]*models.SecurityEvent, error) {
	return s.events.ListRecent(clampLimit(limit), offset)
}
