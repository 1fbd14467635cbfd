package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	PublicBaseURL  string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	TwitterBearerToken string
	TwitterTargets     []string
	RedditSubreddits   []string
	RedditUserAgent    string

	JWTSecret        string
	JWTTTL           time.Duration
	ShareTokenSecret string

	DailyLoginCredits int
	ContentCacheTTL   time.Duration
	FetchTimeout      time.Duration
	FetchLimit        int
	RateLimitRefresh  time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "creator_dashboard"),

		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		TwitterTargets:     splitList(getEnv("TWITTER_TARGETS", "")),
		RedditSubreddits:   splitList(getEnv("REDDIT_SUBREDDITS", "technology,programming")),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "creator-dashboard/1.0"),

		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		ShareTokenSecret: getEnv("SHARE_TOKEN_SECRET", "change-me"),
	}

	var err error
	cfg.DailyLoginCredits, err = parseInt(getEnv("DAILY_LOGIN_CREDITS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_LOGIN_CREDITS: %w", err)
	}
	cfg.FetchLimit, err = parseInt(getEnv("INGEST_FETCH_LIMIT", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_FETCH_LIMIT: %w", err)
	}
	cfg.ContentCacheTTL, err = parseDuration(getEnv("CONTENT_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTENT_CACHE_TTL: %w", err)
	}
	cfg.FetchTimeout, err = parseDuration(getEnv("INGEST_FETCH_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_FETCH_TIMEOUT: %w", err)
	}
	cfg.RateLimitRefresh, err = parseDuration(getEnv("RATE_LIMIT_REFRESH", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFRESH: %w", err)
	}
	cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
