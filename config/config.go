package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bnema/vidshelf/internal/domain"
)

const (
	RatingStoreSQLite = "sqlite"
	RatingStoreMongo  = "mongo"
	RatingStoreRedis  = "redis"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

// Enabled reports whether every credential needed to list the bucket is set.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type CompressConfig struct {
	TargetSizeMB     float64
	MaxHeight        int
	MinVideoKbps     int
	AudioReserveKbps int
	Schedule         string
}

// Plan converts the settings into the planner's configuration.
func (c CompressConfig) Plan() domain.PlanConfig {
	plan := domain.DefaultPlanConfig()
	plan.TargetSizeMB = c.TargetSizeMB
	plan.MaxHeight = c.MaxHeight
	plan.MinVideoBitrateKbps = c.MinVideoKbps
	plan.AudioReserveKbps = c.AudioReserveKbps
	return plan
}

type Config struct {
	Port               int
	LogLevel           string
	DataDir            string
	VideosDir          string
	BehindProxy        bool
	RateLimitPerMinute int
	// CSRFSecret enables CSRF tokens on the rating API when set.
	CSRFSecret         string

	RatingStore   string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string

	R2       R2Config
	Compress CompressConfig
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "7890"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	behindProxy, err := strconv.ParseBool(getEnv("BEHIND_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid BEHIND_PROXY: %w", err)
	}

	targetMB, err := strconv.ParseFloat(getEnv("COMPRESS_TARGET_MB", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPRESS_TARGET_MB: %w", err)
	}

	maxHeight, err := strconv.Atoi(getEnv("COMPRESS_MAX_HEIGHT", "480"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMPRESS_MAX_HEIGHT: %w", err)
	}

	minVideoKbps, err := strconv.Atoi(getEnv("COMPRESS_MIN_VIDEO_KBPS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMPRESS_MIN_VIDEO_KBPS: %w", err)
	}

	audioReserveKbps, err := strconv.Atoi(getEnv("COMPRESS_AUDIO_RESERVE_KBPS", "128"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMPRESS_AUDIO_RESERVE_KBPS: %w", err)
	}

	cfg := &Config{
		Port:               port,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DataDir:            getEnv("DATA_DIR", "./data"),
		VideosDir:          getEnv("VIDEOS_DIR", "./public/videos"),
		BehindProxy:        behindProxy,
		RateLimitPerMinute: rateLimit,
		CSRFSecret:         os.Getenv("CSRF_SECRET"),
		RatingStore:        strings.ToLower(getEnv("RATING_STORE", RatingStoreSQLite)),
		MongoURI:           os.Getenv("MONGODB_URI"),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "video_app"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          getEnv("R2_BUCKET_NAME", "videos"),
			PublicURL:       os.Getenv("R2_PUBLIC_URL"),
		},
		Compress: CompressConfig{
			TargetSizeMB:     targetMB,
			MaxHeight:        maxHeight,
			MinVideoKbps:     minVideoKbps,
			AudioReserveKbps: audioReserveKbps,
			Schedule:         os.Getenv("COMPRESS_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}

	if c.CSRFSecret != "" && len(c.CSRFSecret) < 16 {
		return fmt.Errorf("CSRF_SECRET must be at least 16 characters")
	}

	switch c.RatingStore {
	case RatingStoreSQLite, RatingStoreRedis:
	case RatingStoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when RATING_STORE=mongo")
		}
	default:
		return fmt.Errorf("unknown RATING_STORE %q (want sqlite, mongo or redis)", c.RatingStore)
	}

	if c.R2.Enabled() && c.R2.PublicURL == "" {
		return fmt.Errorf("R2_PUBLIC_URL is required when R2 credentials are set")
	}

	return c.Compress.Validate()
}

func (c CompressConfig) Validate() error {
	if c.TargetSizeMB <= 0 {
		return fmt.Errorf("COMPRESS_TARGET_MB must be positive, got %g", c.TargetSizeMB)
	}
	if c.MaxHeight <= 0 {
		return fmt.Errorf("COMPRESS_MAX_HEIGHT must be positive, got %d", c.MaxHeight)
	}
	if c.MinVideoKbps <= 0 {
		return fmt.Errorf("COMPRESS_MIN_VIDEO_KBPS must be positive, got %d", c.MinVideoKbps)
	}
	if c.AudioReserveKbps < 0 {
		return fmt.Errorf("COMPRESS_AUDIO_RESERVE_KBPS must not be negative, got %d", c.AudioReserveKbps)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
