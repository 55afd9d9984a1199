package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"banthub/internal/config"
	"banthub/internal/handlers"
	"banthub/internal/middleware"
	"banthub/internal/repositories"
	"banthub/internal/routes"
	"banthub/internal/services"
	"banthub/internal/supabase"

	_ "banthub/docs"
)

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("config: ", err)
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("opening database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatal("pinging database: ", err)
	}

	// === Redis ===
	limiter := services.NewNoopRateLimiter()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("closing redis: %v", err)
			}
		}()
		limiter = services.NewRateLimiter(rdb)
	} else {
		log.Printf("[ratelimit] REDIS_ADDR not set, rate limiting disabled")
	}

	// === External collaborators ===
	provider := supabase.NewClient(cfg.Supabase)
	emailService := services.NewEmailService(cfg.Email.APIKey, cfg.Email.From)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	lockoutRepo := repositories.NewLockoutRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	twoFARepo := repositories.NewTwoFactorRepository(db)
	eventRepo := repositories.NewSecurityEventRepository(db)
	stateRepo := repositories.NewOAuthStateRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	mediaRepo := repositories.NewMediaRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// === Services ===
	otpService := services.NewOTPService(otpRepo, twoFARepo, emailService, cfg.Auth.OTPTTL)
	authService := services.NewAuthService(
		userRepo, sessionRepo, lockoutRepo, eventRepo,
		otpService, provider, emailService, cfg.Auth,
	)
	oauthService := services.NewOAuthService(stateRepo, userRepo, provider, authService, cfg.OAuth)
	postService := services.NewPostService(postRepo, mediaRepo)
	commentService := services.NewCommentService(commentRepo, postRepo)
	userService := services.NewUserService(userRepo, followRepo)
	mediaService := services.NewMediaService(mediaRepo, provider, cfg.StorageBucket)
	adminService := services.NewAdminService(
		userRepo, postRepo, commentRepo, mediaRepo,
		reportRepo, eventRepo, sessionRepo, provider,
	)
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	services.NewCleanupService(sessionRepo, otpRepo, stateRepo, lockoutRepo).Start(cleanupCtx)

	// === Handlers ===
	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		TwoFA:   handlers.NewTwoFAHandler(otpService),
		OAuth:   handlers.NewOAuthHandler(oauthService),
		Post:    handlers.NewPostHandler(postService, adminService),
		Comment: handlers.NewCommentHandler(commentService, adminService),
		User:    handlers.NewUserHandler(userService, postService),
		Media:   handlers.NewMediaHandler(mediaService),
		Admin:   handlers.NewAdminHandler(adminService),
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	routes.Setup(router, h, cfg.Supabase.JWTSecret, userRepo, limiter)

	// === Run ===
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down")
	cancelCleanup()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
