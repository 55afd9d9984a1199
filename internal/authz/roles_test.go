package authz

import (
	"net/http"
	"testing"
)

func TestPermissionsAreNestedByRole(t *testing.T) {
	has := func(perms []string, p string) bool {
		for _, v := range perms {
			if v == p {
				return true
			}
		}
		return false
	}

	user := Permissions(RoleUser)
	if !has(user, PermWritePosts) {
		t.Errorf("user should be able to write posts, got %v", user)
	}
	if has(user, PermModeratePosts) {
		t.Errorf("user must not hold %s", PermModeratePosts)
	}

	mod := Permissions(RoleModerator)
	if !has(mod, PermModeratePosts) {
		t.Errorf("moderator should hold %s", PermModeratePosts)
	}
	if has(mod, PermManageAdmins) {
		t.Errorf("moderator must not hold %s", PermManageAdmins)
	}

	super := Permissions(RoleSuperAdmin)
	if !has(super, PermManageAdmins) {
		t.Errorf("super admin should hold %s", PermManageAdmins)
	}

	ghost := Permissions("ghost")
	if !has(ghost, PermReadPosts) || has(ghost, PermWritePosts) {
		t.Errorf("unknown role should be read-only, got %v", ghost)
	}
}

func TestIsStaffAndIsAdmin(t *testing.T) {
	if IsStaff(RoleUser) {
		t.Error("user is not staff")
	}
	if !IsStaff(RoleModerator) || !IsStaff(RoleAdmin) || !IsStaff(RoleSuperAdmin) {
		t.Error("moderator, admin and super_admin are staff")
	}
	if IsAdmin(RoleModerator) {
		t.Error("moderator is not admin")
	}
	if !IsAdmin(RoleSuperAdmin) {
		t.Error("super_admin is admin")
	}
}

func TestOwnerOrModerator(t *testing.T) {
	if d := OwnerOrModerator("u1", RoleUser, "u1"); !d.Allowed() {
		t.Errorf("owner denied: %+v", d)
	}
	if d := OwnerOrModerator("u2", RoleUser, "u1"); d.Allowed() {
		t.Error("non-owner user allowed")
	} else if d.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", d.Status)
	}
	if d := OwnerOrModerator("u2", RoleModerator, "u1"); !d.Allowed() {
		t.Errorf("moderator denied: %+v", d)
	}
	if d := OwnerOrModerator("", RoleUser, "u1"); d.Status != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", d.Status)
	}
}
