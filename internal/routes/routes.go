package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"banthub/internal/authz"
	"banthub/internal/handlers"
	"banthub/internal/middleware"
	"banthub/internal/services"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	TwoFA   *handlers.TwoFAHandler
	OAuth   *handlers.OAuthHandler
	Post    *handlers.PostHandler
	Comment *handlers.CommentHandler
	User    *handlers.UserHandler
	Media   *handlers.MediaHandler
	Admin   *handlers.AdminHandler
}

func Setup(
	r *gin.Engine,
	h Handlers,
	jwtSecret string,
	roles middleware.RoleLookup,
	limiter services.RateLimiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// credential endpoints get a tight per-IP limit
	authLimit := middleware.RateLimit(limiter, "auth", 10, time.Minute)
	otpLimit := middleware.RateLimit(limiter, "otp", 3, 15*time.Minute)
	apiLimit := middleware.RateLimit(limiter, "api", 300, time.Minute)
	api.Use(apiLimit)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authLimit, h.Auth.Signup)
		auth.POST("/login", authLimit, h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/reset-password", authLimit, h.Auth.RequestPasswordReset)
		auth.POST("/reset-password/confirm", authLimit, h.Auth.ConfirmPasswordReset)
		auth.GET("/oauth/:provider", h.OAuth.Start)
		auth.GET("/callback", h.OAuth.Callback)
	}

	// public reads
	api.GET("/posts", h.Post.List)
	api.GET("/posts/search", h.Post.Search)
	api.GET("/posts/:id", h.Post.Get)
	api.GET("/posts/:id/comments", h.Comment.ListByPost)
	api.GET("/users/search", h.User.Search)
	api.GET("/users/:id", h.User.Profile)
	api.GET("/users/:id/posts", h.User.Posts)
	api.GET("/users/:id/followers", h.User.Followers)
	api.GET("/users/:id/following", h.User.Following)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret), middleware.LoadRole(roles))
	{
		protected.POST("/auth/logout", h.Auth.Logout)
		protected.POST("/auth/logout-all", h.Auth.LogoutAll)
		protected.POST("/auth/change-password", h.Auth.ChangePassword)
		protected.GET("/auth/sessions", h.Auth.Sessions)

		protected.GET("/auth/2fa/status", h.TwoFA.Status)
		protected.POST("/auth/2fa/send-code", otpLimit, h.TwoFA.SendCode)
		protected.POST("/auth/2fa/enable", h.TwoFA.Enable)
		protected.POST("/auth/2fa/disable", h.TwoFA.Disable)

		protected.GET("/users/me", h.User.Me)
		protected.PUT("/users/me", h.User.UpdateProfile)
		protected.POST("/users/:id/follow", h.User.Follow)
		protected.DELETE("/users/:id/follow", h.User.Unfollow)

		protected.POST("/posts", h.Post.Create)
		protected.PUT("/posts/:id", h.Post.Update)
		protected.DELETE("/posts/:id", h.Post.Delete)
		protected.POST("/posts/:id/like", h.Post.ToggleLike)
		protected.POST("/posts/:id/bookmark", h.Post.ToggleBookmark)
		protected.GET("/posts/bookmarks", h.Post.Bookmarks)
		protected.POST("/posts/:id/report", h.Post.Report)
		protected.POST("/posts/:id/comments", h.Comment.Create)

		protected.PUT("/comments/:id", h.Comment.Update)
		protected.DELETE("/comments/:id", h.Comment.Delete)
		protected.POST("/comments/:id/like", h.Comment.ToggleLike)
		protected.POST("/comments/:id/report", h.Comment.Report)

		protected.GET("/media", h.Media.ListMine)
		protected.POST("/media", h.Media.Upload)
		protected.DELETE("/media/:id", h.Media.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(jwtSecret),
		middleware.RequireRoles(roles, authz.RoleAdmin, authz.RoleSuperAdmin),
	)
	{
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/users", h.Admin.Users)
		admin.POST("/users/:id/ban", h.Admin.Ban)
		admin.DELETE("/users/:id/ban", h.Admin.Unban)
		admin.POST("/users/:id/verify", h.Admin.Verify)
		admin.PUT("/users/:id/role", h.Admin.UpdateRole)
		admin.GET("/reports", h.Admin.Reports)
		admin.POST("/reports/:id/resolve", h.Admin.ResolveReport)
		admin.GET("/security-events", h.Admin.SecurityEvents)
		admin.POST("/posts/:id/pin", h.Post.Pin)
	}

	super := api.Group("/admin")
	super.Use(
		middleware.AuthMiddleware(jwtSecret),
		middleware.RequireRoles(roles, authz.RoleSuperAdmin),
	)
	{
		super.GET("/admins", h.Admin.Admins)
		super.POST("/admins", h.Admin.CreateAdmin)
	}
}
