package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	ChunkSize            int
	TZOffsetHours        int
	AnswerTimeout        time.Duration
	ProgressTick         time.Duration
	RemoteURL            string
	RemoteAPIKey         string
	RemoteTimeout        time.Duration
	SyncWorkerCount      int
	SyncQueueSize        int
	RolloverCheckSeconds int
	ContentFile          string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:senseflash.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		ChunkSize:            envIntOr("CHUNK_SIZE", 100),
		TZOffsetHours:        envIntOr("TZ_OFFSET_HOURS", 9),
		AnswerTimeout:        time.Duration(envIntOr("ANSWER_TIMEOUT_MS", 3000)) * time.Millisecond,
		ProgressTick:         time.Duration(envIntOr("PROGRESS_TICK_MS", 30)) * time.Millisecond,
		RemoteURL:            strings.TrimRight(envOr("REMOTE_URL", ""), "/"),
		RemoteAPIKey:         envOr("REMOTE_API_KEY", ""),
		RemoteTimeout:        time.Duration(envIntOr("REMOTE_TIMEOUT_SECONDS", 15)) * time.Second,
		SyncWorkerCount:      envIntOr("SYNC_WORKER_COUNT", 1),
		SyncQueueSize:        envIntOr("SYNC_QUEUE_SIZE", 32),
		RolloverCheckSeconds: envIntOr("ROLLOVER_CHECK_SECONDS", 60),
		ContentFile:          envOr("CONTENT_FILE", ""),
	}
}

// RemoteEnabled reports whether a remote backend is configured.
func (c Config) RemoteEnabled() bool {
	return c.RemoteURL != ""
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.TZOffsetHours < -12 || c.TZOffsetHours > 14 {
		return fmt.Errorf("TZ_OFFSET_HOURS must be between -12 and 14, got %d", c.TZOffsetHours)
	}
	if c.AnswerTimeout <= 0 {
		return fmt.Errorf("ANSWER_TIMEOUT_MS must be positive")
	}
	if c.ProgressTick <= 0 || c.ProgressTick >= c.AnswerTimeout {
		return fmt.Errorf("PROGRESS_TICK_MS must be positive and shorter than ANSWER_TIMEOUT_MS")
	}
	if c.RemoteURL != "" && !strings.HasPrefix(c.RemoteURL, "http://") && !strings.HasPrefix(c.RemoteURL, "https://") {
		return fmt.Errorf("REMOTE_URL must be an http(s) URL, got %q", c.RemoteURL)
	}
	if c.SyncWorkerCount <= 0 {
		return fmt.Errorf("SYNC_WORKER_COUNT must be positive, got %d", c.SyncWorkerCount)
	}
	if c.SyncQueueSize <= 0 {
		return fmt.Errorf("SYNC_QUEUE_SIZE must be positive, got %d", c.SyncQueueSize)
	}
	if c.RolloverCheckSeconds <= 0 {
		return fmt.Errorf("ROLLOVER_CHECK_SECONDS must be positive, got %d", c.RolloverCheckSeconds)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
