package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/services"
)

type OAuthHandler struct {
	oauthService services.OAuthService
}

func NewOAuthHandler(oauthService services.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService}
}

// @Summary      Start an OAuth flow
// @Description  Redirects the browser to the identity provider
// @Tags         OAuth
// @Param        provider  path   string  true   "Provider name"
// @Param        redirect  query  string  false  "Post-login redirect"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Router       /auth/oauth/{provider} [get]
func (h *OAuthHandler) Start(c *gin.Context) {
	url, err := h.oauthService.Start(c.Request.Context(), c.Param("provider"), c.Query("redirect"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// @Summary      OAuth callback
// @Description  Exchanges the code and redirects with the token in the URL fragment
// @Tags         OAuth
// @Param        state  query  string  true   "State issued at start"
// @Param        code   query  string  true   "Authorization code"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Router       /auth/callback [get]
func (h *OAuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state and code are required"})
		return
	}

	result, err := h.oauthService.Complete(
		c.Request.Context(), state, code, c.Query("code_verifier"),
		c.ClientIP(), c.Request.UserAgent(),
	)
	if err != nil {
		log.Printf("[oauth][callback] exchange failed: %v", err)
		serviceError(c, err)
		return
	}

	// the token travels in the fragment so it never reaches server logs
	target := fmt.Sprintf("%s#token=%s&refreshToken=%s&isNewUser=%t",
		result.Redirect, result.Response.Token, result.Response.RefreshToken, result.IsNewUser)
	c.Redirect(http.StatusFound, target)
}
