package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/models"
	"banthub/internal/services"
)

type UserHandler struct {
	userService services.UserService
	postService services.PostService
}

func NewUserHandler(userService services.UserService, postService services.PostService) *UserHandler {
	return &UserHandler{userService: userService, postService: postService}
}

// @Summary      Current user's profile
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.User
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	id := currentUserID(c)
	user, _, err := h.userService.Profile(id, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Update the current user's profile
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        profile  body      models.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  models.User
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.UpdateProfile(currentUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      A user's public profile
// @Tags         Users
// @Produce      json
// @Param        id  path      string  true  "User id"
// @Success      200 {object}  models.User
// @Failure      404 {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, following, err := h.userService.Profile(c.Param("id"), currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "is_following": following})
}

// @Summary      A user's posts
// @Tags         Users
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {array}  models.Post
// @Router       /users/{id}/posts [get]
func (h *UserHandler) Posts(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := h.postService.ListByAuthor(c.Param("id"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// @Summary      Search users
// @Tags         Users
// @Produce      json
// @Param        q  query  string  true  "Search text"
// @Success      200  {array}  models.User
// @Router       /users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.userService.Search(c.Query("q"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// @Summary      Follow a user
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {object}  map[string]string
// @Router       /users/{id}/follow [post]
func (h *UserHandler) Follow(c *gin.Context) {
	if err := h.userService.Follow(currentUserID(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "following"})
}

// @Summary      Unfollow a user
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {object}  map[string]string
// @Router       /users/{id}/follow [delete]
func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.userService.Unfollow(currentUserID(c), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// @Summary      A user's followers
// @Tags         Users
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {array}  models.User
// @Router       /users/{id}/followers [get]
func (h *UserHandler) Followers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.userService.Followers(c.Param("id"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// @Summary      Who a user follows
// @Tags         Users
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {array}  models.User
// @Router       /users/{id}/following [get]
func (h *UserHandler) Following(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.userService.Following(c.Param("id"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
