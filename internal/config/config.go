package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Worker   WorkerConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// BookingConfig は予約エンジンまわりの設定
type BookingConfig struct {
	MaxTheaters      int
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
	LockTTL          time.Duration
	AvailabilityTTL  time.Duration
	RateLimitPerSec  float64
	RateLimitBurst   int
}

// WorkerConfig はバックグラウンドワーカーの設定
type WorkerConfig struct {
	RefreshInterval time.Duration
}

// Load は環境変数から設定を読み込む
// カレントディレクトリに .env があれば先に読み込む
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "cinema_booking"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Booking: BookingConfig{
			MaxTheaters:      getIntEnv("MAX_THEATERS", 10),
			RetryMaxAttempts: getIntEnv("RESERVE_RETRY_MAX_ATTEMPTS", 3),
			RetryBaseDelay:   getDurationEnv("RESERVE_RETRY_BASE_DELAY", 100*time.Millisecond),
			RetryMaxDelay:    getDurationEnv("RESERVE_RETRY_MAX_DELAY", time.Second),
			LockTTL:          getDurationEnv("SEAT_LOCK_TTL", 10*time.Second),
			AvailabilityTTL:  getDurationEnv("AVAILABILITY_CACHE_TTL", 30*time.Second),
			RateLimitPerSec:  getFloatEnv("BOOKING_RATE_LIMIT_PER_SEC", 50),
			RateLimitBurst:   getIntEnv("BOOKING_RATE_LIMIT_BURST", 100),
		},
		Worker: WorkerConfig{
			RefreshInterval: getDurationEnv("AVAILABILITY_REFRESH_INTERVAL", time.Minute),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
