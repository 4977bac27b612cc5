package config

import (
	"fmt"
	"sync"

	"blink-scheduler/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	BaseURL  string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	// InternalAPIKeyHash is the bcrypt hash of the key internal trigger
	// endpoints and operators present. Never store the plain key.
	InternalAPIKeyHash string
}

type WorkerConfig struct {
	Enabled     bool
	Concurrency int
	// SyncSpec / AnalyticsSpec are asynq scheduler cron specs.
	SyncSpec      string
	AnalyticsSpec string
}

type StorageConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Init loads .env (if present) and environment variables into the singleton.
func Init() error {
	if err := godotenv.Load(); err != nil {
		logger.Info("Config:Init:NoDotEnv", "detail", "using process environment only")
	}

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 7070)
	viper.SetDefault("SERVER_BASE_URL", "http://localhost:7070")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "blink_scheduler")
	viper.SetDefault("DB_SSL_MODE", "disable")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("INTERNAL_API_KEY_HASH", "")

	viper.SetDefault("WORKER_ENABLED", false)
	viper.SetDefault("WORKER_CONCURRENCY", 5)
	viper.SetDefault("WORKER_SYNC_SPEC", "@every 6h")
	viper.SetDefault("WORKER_ANALYTICS_SPEC", "@weekly")

	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_BUCKET", "")
	viper.SetDefault("STORAGE_REGION", "ap-southeast-1")
	viper.SetDefault("STORAGE_ENDPOINT", "")
	viper.SetDefault("STORAGE_ACCESS_KEY_ID", "")
	viper.SetDefault("STORAGE_SECRET_ACCESS_KEY", "")

	cfg := &Config{
		Server: ServerConfig{
			Host:     viper.GetString("SERVER_HOST"),
			Port:     viper.GetInt("SERVER_PORT"),
			BaseURL:  viper.GetString("SERVER_BASE_URL"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:          viper.GetString("JWT_SECRET"),
			InternalAPIKeyHash: viper.GetString("INTERNAL_API_KEY_HASH"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			Concurrency:   viper.GetInt("WORKER_CONCURRENCY"),
			SyncSpec:      viper.GetString("WORKER_SYNC_SPEC"),
			AnalyticsSpec: viper.GetString("WORKER_ANALYTICS_SPEC"),
		},
		Storage: StorageConfig{
			Enabled:         viper.GetBool("STORAGE_ENABLED"),
			Bucket:          viper.GetString("STORAGE_BUCKET"),
			Region:          viper.GetString("STORAGE_REGION"),
			Endpoint:        viper.GetString("STORAGE_ENDPOINT"),
			AccessKeyID:     viper.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("STORAGE_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	logger.SetLevel(cfg.Server.LogLevel)
	return nil
}

// Get returns the loaded config. Init must have been called first.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// GetSafe returns the config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
