package models

type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalPosts       int `json:"total_posts"`
	TotalComments    int `json:"total_comments"`
	TotalAdmins      int `json:"total_admins"`
	ActiveUsers      int `json:"active_users"`
	NewUsersToday    int `json:"new_users_today"`
	NewPostsToday    int `json:"new_posts_today"`
	NewCommentsToday int `json:"new_comments_today"`
	TotalLikes       int `json:"total_likes"`
	TotalBookmarks   int `json:"total_bookmarks"`
	TotalMedia       int `json:"total_media"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"` // admin or super_admin
}

type UpdateAdminRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
