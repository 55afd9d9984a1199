package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/models"
	"banthub/internal/services"
)

type PostHandler struct {
	postService  services.PostService
	adminService services.AdminService
}

func NewPostHandler(postService services.PostService, adminService services.AdminService) *PostHandler {
	return &PostHandler{postService: postService, adminService: adminService}
}

// @Summary      Create a post
// @Tags         Posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        post  body      models.CreatePostRequest  true  "Post payload"
// @Success      201   {object}  models.Post
// @Failure      409   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.postService.Create(currentUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Summary      Get a post
// @Tags         Posts
// @Produce      json
// @Param        id  path      string  true  "Post id"
// @Success      200 {object}  models.Post
// @Failure      404 {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.Get(c.Param("id"), currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      List posts
// @Tags         Posts
// @Produce      json
// @Param        category  query  string  false  "Category filter"
// @Param        sort      query  string  false  "recent, popular or discussed"
// @Param        limit     query  int     false  "Page size"
// @Param        offset    query  int     false  "Page offset"
// @Success      200  {array}  models.Post
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := h.postService.List(c.Query("category"), c.DefaultQuery("sort", "recent"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// @Summary      Search posts
// @Tags         Posts
// @Produce      json
// @Param        q  query  string  true  "Search text"
// @Success      200  {array}  models.Post
// @Router       /posts/search [get]
func (h *PostHandler) Search(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := h.postService.Search(c.Query("q"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// @Summary      Update a post
// @Tags         Posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Post id"
// @Param        post  body      models.UpdatePostRequest  true  "Fields to change"
// @Success      200   {object}  models.Post
// @Failure      403   {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.postService.Update(c.Param("id"), currentUserID(c), currentRole(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      Delete a post
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post id"
// @Success      200 {object}  map[string]string
// @Failure      403 {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Param("id"), currentUserID(c), currentRole(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// @Summary      Toggle a like
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post id"
// @Success      200 {object}  map[string]bool
// @Router       /posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c *gin.Context) {
	liked, err := h.postService.ToggleLike(c.Param("id"), currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// @Summary      Toggle a bookmark
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post id"
// @Success      200 {object}  map[string]bool
// @Router       /posts/{id}/bookmark [post]
func (h *PostHandler) ToggleBookmark(c *gin.Context) {
	bookmarked, err := h.postService.ToggleBookmark(c.Param("id"), currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// @Summary      List bookmarked posts
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.Post
// @Router       /posts/bookmarks [get]
func (h *PostHandler) Bookmarks(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := h.postService.ListBookmarked(currentUserID(c), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// @Summary      Report a post
// @Tags         Posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path      string                     true  "Post id"
// @Param        report  body      models.CreateReportRequest true  "Reason"
// @Success      201     {object}  models.Report
// @Router       /posts/{id}/report [post]
func (h *PostHandler) Report(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.adminService.CreateReport(currentUserID(c), c.Param("id"), "", req.Reason)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// @Summary      Pin or unpin a post
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post id"
// @Success      200 {object}  map[string]string
// @Router       /admin/posts/{id}/pin [post]
func (h *PostHandler) Pin(c *gin.Context) {
	pinned := c.DefaultQuery("pinned", "true") == "true"
	if err := h.postService.SetPinned(c.Param("id"), pinned); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post updated"})
}
