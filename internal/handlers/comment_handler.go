package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/models"
	"banthub/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
	adminService   services.AdminService
}

func NewCommentHandler(commentService services.CommentService, adminService services.AdminService) *CommentHandler {
	return &CommentHandler{commentService: commentService, adminService: adminService}
}

// @Summary      Comment on a post
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Post id"
// @Param        comment  body      models.CreateCommentRequest  true  "Comment payload"
// @Success      201      {object}  models.Comment
// @Failure      404      {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.commentService.Create(c.Param("id"), currentUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// @Summary      List comments on a post
// @Tags         Comments
// @Produce      json
// @Param        id  path  string  true  "Post id"
// @Success      200 {array}  models.Comment
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c *gin.Context) {
	limit, offset := pagination(c)
	comments, err := h.commentService.ListByPost(c.Param("id"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// @Summary      Edit a comment
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Comment id"
// @Param        comment  body      models.UpdateCommentRequest  true  "New content"
// @Success      200      {object}  models.Comment
// @Failure      403      {object}  map[string]string
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.commentService.Update(c.Param("id"), currentUserID(c), currentRole(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// @Summary      Delete a comment
// @Tags         Comments
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Comment id"
// @Success      200 {object}  map[string]string
// @Failure      403 {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentService.Delete(c.Param("id"), currentUserID(c), currentRole(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// @Summary      Toggle a comment like
// @Tags         Comments
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Comment id"
// @Success      200 {object}  map[string]bool
// @Router       /comments/{id}/like [post]
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	liked, err := h.commentService.ToggleLike(c.Param("id"), currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// @Summary      Report a comment
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path      string                     true  "Comment id"
// @Param        report  body      models.CreateReportRequest true  "Reason"
// @Success      201     {object}  models.Report
// @Router       /comments/{id}/report [post]
func (h *CommentHandler) Report(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.adminService.CreateReport(currentUserID(c), "", c.Param("id"), req.Reason)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
