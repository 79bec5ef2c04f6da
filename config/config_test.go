package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// requiredEnv sets the two mandatory variables and clears every optional one.
func requiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://league@localhost/league?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	for _, key := range []string{
		"SERVER_PORT", "ADMIN_EMAIL", "ADMIN_PASSWORD_HASH", "OPEN_MARKET_BAND_ID", "AUCTION_INTERVAL",
		"MAX_TIEBREAK_ROUNDS", "CHAMPIONSHIP_FREEZE_DAYS", "RANDOM_SEED", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
		"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	requiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.MaxTiebreakRounds != 10 {
		t.Errorf("MaxTiebreakRounds = %d, want 10", cfg.MaxTiebreakRounds)
	}
	if cfg.ChampionshipFreezeDays != 7 {
		t.Errorf("ChampionshipFreezeDays = %d, want 7", cfg.ChampionshipFreezeDays)
	}
	if cfg.OpenMarketBandID != 0 || cfg.AuctionInterval != 0 {
		t.Errorf("auctions should be disabled by default, got band %d interval %s", cfg.OpenMarketBandID, cfg.AuctionInterval)
	}
	if cfg.RateLimitRequests != 120 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%s, want 120/1m", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.UploadsEnabled() {
		t.Error("uploads must be disabled without R2 settings")
	}
}

func TestLoadOverrides(t *testing.T) {
	requiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPEN_MARKET_BAND_ID", "3")
	t.Setenv("AUCTION_INTERVAL", "15m")
	t.Setenv("MAX_TIEBREAK_ROUNDS", "4")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.OpenMarketBandID != 3 || cfg.AuctionInterval != 15*time.Minute {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MaxTiebreakRounds != 4 || cfg.RandomSeed != 42 {
		t.Errorf("MaxTiebreakRounds=%d RandomSeed=%d", cfg.MaxTiebreakRounds, cfg.RandomSeed)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL"},
		{"missing jwt", map[string]string{"JWT_SECRET_KEY": ""}, "JWT_SECRET_KEY"},
		{"bad port", map[string]string{"SERVER_PORT": "abc"}, "SERVER_PORT"},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, "SERVER_PORT"},
		{"scheduler without band", map[string]string{"AUCTION_INTERVAL": "1m"}, "OPEN_MARKET_BAND_ID"},
		{"zero tiebreak rounds", map[string]string{"MAX_TIEBREAK_ROUNDS": "0"}, "MAX_TIEBREAK_ROUNDS"},
		{"bad duration", map[string]string{"RATE_LIMIT_WINDOW": "soon"}, "RATE_LIMIT_WINDOW"},
		{"admin email without hash", map[string]string{"ADMIN_EMAIL": "boss@league.test"}, "ADMIN_PASSWORD_HASH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}
