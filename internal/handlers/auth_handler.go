package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/models"
	"banthub/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// @Summary      Create an account
// @Description  Registers a new user and returns tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.AuthRequest  true  "Signup payload"
// @Success      201     {object}  models.AuthResponse
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}

	resp, err := h.authService.SignUp(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		log.Printf("[auth][signup] failed: %v", err)
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary      Log in
// @Description  Authenticates a user; responds with requires2FA when a code is needed
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.AuthRequest  true  "Login payload"
// @Success      200    {object}  models.AuthResponse
// @Failure      401    {object}  map[string]string
// @Failure      423    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Refresh tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body      models.RefreshTokenRequest  true  "Refresh payload"
// @Success      200      {object}  models.AuthResponse
// @Failure      401      {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Log out
// @Tags         Auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        logout  body      models.RefreshTokenRequest  true  "Refresh token to revoke"
// @Success      200     {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// @Summary      Log out everywhere
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.authService.LogoutAll(c.Request.Context(), currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out everywhere"})
}

// @Summary      Change password
// @Tags         Auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        change  body      models.ChangePasswordRequest  true  "Password change payload"
// @Success      200     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.authService.ChangePassword(
		c.Request.Context(), currentUserID(c), currentEmail(c),
		req.CurrentPassword, req.NewPassword, c.ClientIP(), c.Request.UserAgent(),
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// @Summary      Request a password reset code
// @Description  Always responds 200 so addresses cannot be probed
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Reset request"
// @Success      200    {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.Printf("[auth][reset] request failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the address exists, a code has been sent"})
}

// @Summary      Confirm a password reset
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        confirm  body      models.ConfirmPasswordResetRequest  true  "Reset confirmation"
// @Success      200      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req models.ConfirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.authService.ConfirmPasswordReset(
		c.Request.Context(), req.Email, req.OTPCode, req.NewPassword,
		c.ClientIP(), c.Request.UserAgent(),
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

// @Summary      List active sessions
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.Session
// @Router       /auth/sessions [get]
func (h *AuthHandler) Sessions(c *gin.Context) {
	sessions, err := h.authService.Sessions(c.Request.Context(), currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
