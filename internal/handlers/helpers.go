package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"banthub/internal/services"
)

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

func currentEmail(c *gin.Context) string {
	return c.GetString("email")
}

func currentRole(c *gin.Context) string {
	return c.GetString("role")
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// serviceError maps service sentinels onto HTTP statuses. Anything unmapped
// is a 500 with a generic body so internals never leak to clients.
func serviceError(c *gin.Context, err error) {
	switch err {
	case services.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case services.ErrInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case services.ErrOTPInvalid, services.ErrOTPExpired, services.ErrOTPConsumed:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case services.ErrOTPAttempts:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case services.ErrSessionNotFound:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case services.ErrForbidden, services.ErrAccountDisabled:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case services.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case services.ErrEmailTaken, services.ErrDuplicate:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.ErrAccountLocked:
		c.JSON(http.StatusLocked, gin.H{"error": "Account temporarily locked. Try again later."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
