package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SupabaseConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EmailConfig struct {
	APIKey string
	From   string
}

type OAuthConfig struct {
	RedirectURL      string
	AllowedRedirects []string
}

type AuthConfig struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	SessionTTL       time.Duration
	OTPTTL           time.Duration
}

type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		DSN string
	}
	Supabase       SupabaseConfig
	StorageBucket  string
	Redis          RedisConfig
	Email          EmailConfig
	OAuth          OAuthConfig
	Auth           AuthConfig
	AllowedOrigins []string
}

// LoadConfig reads configuration from the process environment. A .env file in
// the working directory is applied first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{}
	cfg.Server.Port = port
	cfg.Database.DSN = getEnv("SUPABASE_DB_URL", "")
	cfg.Supabase = SupabaseConfig{
		URL:        getEnv("SUPABASE_URL", ""),
		AnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		ServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		JWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),
	}
	cfg.StorageBucket = getEnv("STORAGE_BUCKET", "banthub-media")
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}
	cfg.Email = EmailConfig{
		APIKey: getEnv("RESEND_API_KEY", ""),
		From:   getEnv("RESEND_FROM", "noreply@banthub.dev"),
	}
	cfg.OAuth = OAuthConfig{
		RedirectURL:      getEnv("OAUTH_REDIRECT_URL", fmt.Sprintf("http://localhost:%d/api/v1/auth/callback", port)),
		AllowedRedirects: splitList(getEnv("ALLOWED_OAUTH_REDIRECTS", "http://localhost:5173,http://localhost:3000")),
	}
	cfg.Auth = AuthConfig{
		MaxLoginAttempts: 5,
		LockoutDuration:  15 * time.Minute,
		SessionTTL:       24 * time.Hour,
		OTPTTL:           10 * time.Minute,
	}
	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"))

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("SUPABASE_DB_URL is required")
	}
	if cfg.Supabase.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	// local setups often only have the service key
	if cfg.Supabase.JWTSecret == "" {
		cfg.Supabase.JWTSecret = cfg.Supabase.ServiceKey
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
