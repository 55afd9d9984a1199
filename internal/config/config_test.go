package config

import "testing"

func TestLoadConfigRequiresDatabase(t *testing.T) {
	t.Setenv("SUPABASE_DB_URL", "")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error without SUPABASE_DB_URL")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SUPABASE_DB_URL", "postgres://local/test")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("SUPABASE_JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Supabase.JWTSecret != "service-key" {
		t.Errorf("jwt secret should fall back to the service key, got %q", cfg.Supabase.JWTSecret)
	}
	if cfg.Auth.MaxLoginAttempts != 5 {
		t.Errorf("max login attempts = %d, want 5", cfg.Auth.MaxLoginAttempts)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://staging.example.com" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("SUPABASE_DB_URL", "postgres://local/test")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("PORT", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a bad PORT")
	}
}
