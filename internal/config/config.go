package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	commoncfg "pagecraft/common/config"
)

// Config pagecraft-api (HTTP API) settings
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  commoncfg.DatabaseConfig
	Redis     commoncfg.RedisConfig
	MQTT      commoncfg.MQTTConfig
	Log       struct {
		Level  string
		Format string
		File   string
	}
	Email   EmailConfig
	Uploads UploadConfig

	SessionTTL        time.Duration
	SaveStatusReset   time.Duration
	PublishedCacheTTL time.Duration
	ChangeStream      string
}

// EmailConfig outbound task email API
type EmailConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
	Retries int
}

// UploadConfig local image storage
type UploadConfig struct {
	Dir           string
	PublicBaseURL string
	MaxBytes      int64
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	// a missing .env is fine; real env vars always win
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// DB disabled means in-memory repositories (local dev without Postgres).
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "pagecraft",
		SSLMode:  "disable",
		MaxConns: 20,
		MaxIdle:  5,

		ApplicationName: "pagecraft-api",
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379", PoolSize: 20}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTT = commoncfg.MQTTConfig{
		Broker:      "tcp://localhost:1883",
		ClientID:    "pagecraft-api",
		QoS:         1,
		TopicPrefix: "pagecraft",
	}
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Log.File = getEnv("LOG_FILE", "")

	cfg.Email.APIURL = getEnv("EMAIL_API_URL", "http://localhost:9000")
	cfg.Email.APIKey = getEnv("EMAIL_API_KEY", "")
	cfg.Email.Timeout = parseDuration(getEnv("EMAIL_TIMEOUT", "10s"), 10*time.Second)
	cfg.Email.Retries = parseInt(getEnv("EMAIL_RETRIES", "2"), 2)

	cfg.Uploads.Dir = getEnv("UPLOAD_DIR", "./uploads")
	cfg.Uploads.PublicBaseURL = getEnv("UPLOAD_PUBLIC_BASE_URL", "http://localhost:8080/uploads")
	cfg.Uploads.MaxBytes = int64(parseInt(getEnv("UPLOAD_MAX_BYTES", "5242880"), 5<<20))

	cfg.SessionTTL = parseDuration(getEnv("SESSION_TTL", "168h"), 7*24*time.Hour)
	cfg.SaveStatusReset = parseDuration(getEnv("SAVE_STATUS_RESET", "2s"), 2*time.Second)
	cfg.PublishedCacheTTL = parseDuration(getEnv("PUBLISHED_CACHE_TTL", "5m"), 5*time.Minute)
	cfg.ChangeStream = getEnv("CHANGE_STREAM", "pagecraft:changes")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
