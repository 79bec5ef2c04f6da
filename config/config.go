package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	AdminEmail        string
	AdminPasswordHash string

	// Лига
	OpenMarketBandID       int           // 0 - аукционы отключены
	AuctionInterval        time.Duration // 0 - планировщик не запускается
	MaxTiebreakRounds      int
	ChampionshipFreezeDays int
	RandomSeed             int64 // 0 - зерно от текущего времени

	RedisAddr     string // пусто - лидерборд читается из postgres
	RedisPassword string
	RedisDB       int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecretKey:      os.Getenv("JWT_SECRET_KEY"),
		AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPasswordHash == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together")
	}

	var err error
	if cfg.ServerPort, err = intEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	if cfg.OpenMarketBandID, err = intEnv("OPEN_MARKET_BAND_ID", 0); err != nil {
		return nil, err
	}
	if cfg.OpenMarketBandID < 0 {
		return nil, fmt.Errorf("OPEN_MARKET_BAND_ID must not be negative, got %d", cfg.OpenMarketBandID)
	}
	if cfg.AuctionInterval, err = durationEnv("AUCTION_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.AuctionInterval > 0 && cfg.OpenMarketBandID == 0 {
		return nil, fmt.Errorf("AUCTION_INTERVAL requires OPEN_MARKET_BAND_ID")
	}
	if cfg.MaxTiebreakRounds, err = intEnv("MAX_TIEBREAK_ROUNDS", 10); err != nil {
		return nil, err
	}
	if cfg.MaxTiebreakRounds < 1 {
		return nil, fmt.Errorf("MAX_TIEBREAK_ROUNDS must be at least 1, got %d", cfg.MaxTiebreakRounds)
	}
	if cfg.ChampionshipFreezeDays, err = intEnv("CHAMPIONSHIP_FREEZE_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.ChampionshipFreezeDays < 0 {
		return nil, fmt.Errorf("CHAMPIONSHIP_FREEZE_DAYS must not be negative, got %d", cfg.ChampionshipFreezeDays)
	}
	seed, err := intEnv("RANDOM_SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.RandomSeed = int64(seed)

	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = listEnv("CORS_ALLOWED_ORIGINS", []string{"*"})
	if cfg.RateLimitRequests, err = intEnv("RATE_LIMIT_REQUESTS", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive when RATE_LIMIT_REQUESTS is set")
	}

	return cfg, nil
}

// UploadsEnabled reports whether all R2 settings are present.
func (c *Config) UploadsEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, v)
	}
	return v, nil
}

func listEnv(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
