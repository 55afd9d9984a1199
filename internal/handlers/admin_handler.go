package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/models"
	"banthub/internal/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// @Summary      Platform statistics
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.AdminStats
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		log.Printf("[admin][stats] failed: %v", err)
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      List users
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.User
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.adminService.ListUsers(limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// @Summary      List admin accounts
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.User
// @Router       /admin/admins [get]
func (h *AdminHandler) Admins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// @Summary      Create an admin account
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        admin  body      models.CreateAdminRequest  true  "Account payload"
// @Success      201    {object}  models.User
// @Failure      403    {object}  map[string]string
// @Router       /admin/admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.adminService.CreateAdmin(c.Request.Context(), currentRole(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      Change a user's role
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "User id"
// @Param        role  body      models.UpdateAdminRoleRequest true  "New role"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req models.UpdateAdminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.adminService.UpdateRole(currentUserID(c), currentRole(c), c.Param("id"), req.Role)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

// @Summary      Ban a user
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {object}  map[string]string
// @Router       /admin/users/{id}/ban [post]
func (h *AdminHandler) Ban(c *gin.Context) {
	if err := h.adminService.SetBanned(currentUserID(c), c.Param("id"), true); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user banned"})
}

// @Summary      Unban a user
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {object}  map[string]string
// @Router       /admin/users/{id}/ban [delete]
func (h *AdminHandler) Unban(c *gin.Context) {
	if err := h.adminService.SetBanned(currentUserID(c), c.Param("id"), false); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user unbanned"})
}

// @Summary      Mark a user verified
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200 {object}  map[string]string
// @Router       /admin/users/{id}/verify [post]
func (h *AdminHandler) Verify(c *gin.Context) {
	if err := h.adminService.SetVerified(c.Param("id"), true); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user verified"})
}

// @Summary      List content reports
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "pending, resolved or rejected"
// @Success      200  {array}  models.Report
// @Router       /admin/reports [get]
func (h *AdminHandler) Reports(c *gin.Context) {
	limit, offset := pagination(c)
	reports, err := h.adminService.ListReports(c.Query("status"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// @Summary      Resolve a report
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Report id"
// @Param        resolve  body      models.ResolveReportRequest true  "Final status"
// @Success      200      {object}  models.Report
// @Router       /admin/reports/{id}/resolve [post]
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	var req models.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.adminService.ResolveReport(c.Param("id"), req.Status, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Recent security events
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.SecurityEvent
// @Router       /admin/security-events [get]
func (h *AdminHandler) SecurityEvents(c *gin.Context) {
	limit, offset := pagination(c)
	events, err := h.adminService.SecurityEvents(limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
