package authz

const (
	RoleUser       = "user"
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

const (
	PermReadPosts     = "posts:read"
	PermWritePosts    = "posts:write"
	PermDeletePosts   = "posts:delete"
	PermModeratePosts = "posts:moderate"

	PermReadUsers   = "users:read"
	PermWriteUsers  = "users:write"
	PermDeleteUsers = "users:delete"

	PermReadComments     = "comments:read"
	PermWriteComments    = "comments:write"
	PermDeleteComments   = "comments:delete"
	PermModerateComments = "comments:moderate"

	PermReadAdmin    = "admin:read"
	PermWriteAdmin   = "admin:write"
	PermDeleteAdmin  = "admin:delete"
	PermManageAdmins = "admins:manage"
)

// Permissions returns the static permission list for a role. Unknown roles get
// read-only access.
func Permissions(role string) []string {
	switch role {
	case RoleSuperAdmin:
		return []string{
			PermReadPosts, PermWritePosts, PermDeletePosts, PermModeratePosts,
			PermReadUsers, PermWriteUsers, PermDeleteUsers,
			PermReadComments, PermWriteComments, PermDeleteComments, PermModerateComments,
			PermReadAdmin, PermWriteAdmin, PermDeleteAdmin,
			PermManageAdmins,
		}
	case RoleAdmin:
		return []string{
			PermReadPosts, PermWritePosts, PermDeletePosts, PermModeratePosts,
			PermReadUsers, PermWriteUsers,
			PermReadComments, PermWriteComments, PermDeleteComments, PermModerateComments,
			PermReadAdmin, PermWriteAdmin,
		}
	case RoleModerator:
		return []string{
			PermReadPosts, PermWritePosts, PermModeratePosts,
			PermReadUsers,
			PermReadComments, PermWriteComments, PermModerateComments,
		}
	case RoleUser:
		return []string{
			PermReadPosts, PermWritePosts,
			PermReadUsers,
			PermReadComments, PermWriteComments,
		}
	default:
		return []string{PermReadPosts, PermReadUsers, PermReadComments}
	}
}

// IsStaff reports whether a role may moderate other users' content.
func IsStaff(role string) bool {
	return role == RoleModerator || role == RoleAdmin || role == RoleSuperAdmin
}

// IsAdmin reports whether a role has access to the admin console.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
