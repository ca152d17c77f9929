package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedVars = []string{
	"PORT", "LOG_LEVEL", "DATA_DIR", "VIDEOS_DIR", "BEHIND_PROXY", "RATE_LIMIT_PER_MINUTE", "CSRF_SECRET",
	"RATING_STORE", "MONGODB_URI", "MONGODB_DATABASE", "REDIS_ADDR",
	"CLOUDFLARE_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_URL",
	"COMPRESS_TARGET_MB", "COMPRESS_MAX_HEIGHT", "COMPRESS_MIN_VIDEO_KBPS", "COMPRESS_AUDIO_RESERVE_KBPS", "COMPRESS_SCHEDULE",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them after
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedVars {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7890, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "./public/videos", cfg.VideosDir)
	assert.False(t, cfg.BehindProxy)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, RatingStoreSQLite, cfg.RatingStore)
	assert.Equal(t, "video_app", cfg.MongoDatabase)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "videos", cfg.R2.Bucket)
	assert.False(t, cfg.R2.Enabled())
	assert.Equal(t, 50.0, cfg.Compress.TargetSizeMB)
	assert.Equal(t, 480, cfg.Compress.MaxHeight)
	assert.Equal(t, 300, cfg.Compress.MinVideoKbps)
	assert.Equal(t, 128, cfg.Compress.AudioReserveKbps)
	assert.Empty(t, cfg.Compress.Schedule)
	assert.Empty(t, cfg.CSRFSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("RATING_STORE", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("COMPRESS_TARGET_MB", "25.5")
	t.Setenv("COMPRESS_MAX_HEIGHT", "720")
	t.Setenv("COMPRESS_SCHEDULE", "@every 1h")
	t.Setenv("BEHIND_PROXY", "true")
	t.Setenv("CSRF_SECRET", "0123456789abcdef0123")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "id")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_PUBLIC_URL", "https://pub.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, RatingStoreRedis, cfg.RatingStore)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 25.5, cfg.Compress.TargetSizeMB)
	assert.Equal(t, "@every 1h", cfg.Compress.Schedule)
	assert.True(t, cfg.BehindProxy)
	assert.Equal(t, "0123456789abcdef0123", cfg.CSRFSecret)
	assert.True(t, cfg.R2.Enabled())

	plan := cfg.Compress.Plan()
	assert.Equal(t, 25.5, plan.TargetSizeMB)
	assert.Equal(t, 720, plan.MaxHeight)
	assert.Equal(t, 300, plan.MinVideoBitrateKbps)
	assert.Equal(t, 128, plan.AudioReserveKbps)
	assert.Equal(t, 96, plan.AudioBitrateKbps)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}, "invalid PORT"},
		{"port out of range", map[string]string{"PORT": "70000"}, "PORT must be between"},
		{"unknown store", map[string]string{"RATING_STORE": "postgres"}, "unknown RATING_STORE"},
		{"mongo without uri", map[string]string{"RATING_STORE": "mongo"}, "MONGODB_URI is required"},
		{"zero target", map[string]string{"COMPRESS_TARGET_MB": "0"}, "COMPRESS_TARGET_MB must be positive"},
		{"bad target", map[string]string{"COMPRESS_TARGET_MB": "big"}, "invalid COMPRESS_TARGET_MB"},
		{"negative height", map[string]string{"COMPRESS_MAX_HEIGHT": "-1"}, "COMPRESS_MAX_HEIGHT must be positive"},
		{"zero min bitrate", map[string]string{"COMPRESS_MIN_VIDEO_KBPS": "0"}, "COMPRESS_MIN_VIDEO_KBPS must be positive"},
		{"negative reserve", map[string]string{"COMPRESS_AUDIO_RESERVE_KBPS": "-5"}, "must not be negative"},
		{"zero rate limit", map[string]string{"RATE_LIMIT_PER_MINUTE": "0"}, "RATE_LIMIT_PER_MINUTE must be positive"},
		{"bad proxy flag", map[string]string{"BEHIND_PROXY": "maybe"}, "invalid BEHIND_PROXY"},
		{"short csrf secret", map[string]string{"CSRF_SECRET": "short"}, "CSRF_SECRET must be at least"},
		{
			"r2 without public url",
			map[string]string{"CLOUDFLARE_ACCOUNT_ID": "a", "R2_ACCESS_KEY_ID": "b", "R2_SECRET_ACCESS_KEY": "c"},
			"R2_PUBLIC_URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nVIDEOS_DIR=/srv/videos\n"), 0o600))
	t.Setenv("VIDEOS_DIR", "/from/env")
	t.Chdir(dir)

	// godotenv does not override variables that are already set, even empty
	// ones, so drop PORT from the environment first.
	require.NoError(t, os.Unsetenv("PORT"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "/from/env", cfg.VideosDir)
}

func TestLoad_MissingDotEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 7890, cfg.Port)
}
