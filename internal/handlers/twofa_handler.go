package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/models"
	"banthub/internal/services"
)

type TwoFAHandler struct {
	otpService services.OTPService
}

func NewTwoFAHandler(otpService services.OTPService) *TwoFAHandler {
	return &TwoFAHandler{otpService: otpService}
}

// @Summary      2FA status
// @Tags         TwoFA
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /auth/2fa/status [get]
func (h *TwoFAHandler) Status(c *gin.Context) {
	enabled, err := h.otpService.IsTwoFactorEnabled(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// @Summary      Send a 2FA code
// @Tags         TwoFA
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/2fa/send-code [post]
func (h *TwoFAHandler) SendCode(c *gin.Context) {
	err := h.otpService.Issue(currentUserID(c), currentEmail(c), models.OTPTypeTwoFA)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code sent"})
}

// @Summary      Enable 2FA
// @Description  Requires a valid emailed code to prove the inbox is reachable
// @Tags         TwoFA
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        verify  body      models.Verify2FARequest  true  "Code"
// @Success      200     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /auth/2fa/enable [post]
func (h *TwoFAHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// @Summary      Disable 2FA
// @Tags         TwoFA
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        verify  body      models.Verify2FARequest  true  "Code"
// @Success      200     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /auth/2fa/disable [post]
func (h *TwoFAHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *TwoFAHandler) setEnabled(c *gin.Context, enabled bool) {
	var req models.Verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.otpService.Verify(currentEmail(c), models.OTPTypeTwoFA, req.Code); err != nil {
		serviceError(c, err)
		return
	}
	if err := h.otpService.SetTwoFactorEnabled(currentUserID(c), enabled); err != nil {
		serviceError(c, err)
		return
	}
	msg := "two-factor authentication enabled"
	if !enabled {
		msg = "two-factor authentication disabled"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
