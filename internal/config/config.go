package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Cache     CacheConfig     `json:"cache"`
	Analysis  AnalysisConfig  `json:"analysis"`
	Scheduler SchedulerConfig `json:"scheduler"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Logger    LoggerConfig    `json:"logger"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int           `json:"port"`
	Host            string        `json:"host"`
	Environment     string        `json:"environment"`
	ReadTimeout     int           `json:"read_timeout"`
	WriteTimeout    int           `json:"write_timeout"`
	MaxHeaderBytes  int           `json:"max_header_bytes"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// CacheConfig represents Redis cache configuration
type CacheConfig struct {
	Enabled            bool          `json:"enabled"`
	Host               string        `json:"host"`
	Port               int           `json:"port"`
	Password           string        `json:"password"`
	DB                 int           `json:"db"`
	MaxRetries         int           `json:"max_retries"`
	PoolSize           int           `json:"pool_size"`
	MinIdleConnections int           `json:"min_idle_connections"`
	DialTimeout        time.Duration `json:"dial_timeout"`
	ReadTimeout        time.Duration `json:"read_timeout"`
	WriteTimeout       time.Duration `json:"write_timeout"`
	PoolTimeout        time.Duration `json:"pool_timeout"`

	// TTL settings
	AnalysisTTL    time.Duration `json:"analysis_ttl"`
	RebalancingTTL time.Duration `json:"rebalancing_ttl"`
}

// AnalysisConfig represents analysis defaults and limits
type AnalysisConfig struct {
	MaxHoldings           int     `json:"max_holdings"`
	DefaultDriftThreshold float64 `json:"default_drift_threshold"`
	DefaultMinTradeAmount float64 `json:"default_min_trade_amount"`
	DefaultAge            int     `json:"default_age"`
}

// SchedulerConfig represents background job scheduling configuration
type SchedulerConfig struct {
	Enabled         bool   `json:"enabled"`
	WarmupInterval  string `json:"warmup_interval"`  // Cron expression
	CleanupInterval string `json:"cleanup_interval"` // Cron expression
	TimeZone        string `json:"timezone"`
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	RequestsPerMin  int           `json:"requests_per_minute"`
	BurstSize       int           `json:"burst_size"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// LoggerConfig represents logging configuration
type LoggerConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	Output     string `json:"output"`
	Filename   string `json:"filename"`
	MaxSize    int    `json:"max_size"`
	MaxAge     int    `json:"max_age"`
	MaxBackups int    `json:"max_backups"`
	Compress   bool   `json:"compress"`
}

// Load loads configuration from environment variables
func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8084),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ReadTimeout:     getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:    getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			MaxHeaderBytes:  getEnvInt("SERVER_MAX_HEADER_BYTES", 1048576),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},

		Cache: CacheConfig{
			Enabled:            getEnvBool("CACHE_ENABLED", true),
			Host:               getEnv("REDIS_HOST", "localhost"),
			Port:               getEnvInt("REDIS_PORT", 6379),
			Password:           getEnv("REDIS_PASSWORD", ""),
			DB:                 getEnvInt("REDIS_DB", 0),
			MaxRetries:         getEnvInt("REDIS_MAX_RETRIES", 3),
			PoolSize:           getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConnections: getEnvInt("REDIS_MIN_IDLE_CONNECTIONS", 5),
			DialTimeout:        getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:        getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:       getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:        getEnvDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			AnalysisTTL:        getEnvDuration("CACHE_ANALYSIS_TTL", 10*time.Minute),
			RebalancingTTL:     getEnvDuration("CACHE_REBALANCING_TTL", 5*time.Minute),
		},

		Analysis: AnalysisConfig{
			MaxHoldings:           getEnvInt("ANALYSIS_MAX_HOLDINGS", 500),
			DefaultDriftThreshold: getEnvFloat("ANALYSIS_DEFAULT_DRIFT_THRESHOLD", 5.0),
			DefaultMinTradeAmount: getEnvFloat("ANALYSIS_DEFAULT_MIN_TRADE_AMOUNT", 100.0),
			DefaultAge:            getEnvInt("ANALYSIS_DEFAULT_AGE", 35),
		},

		Scheduler: SchedulerConfig{
			Enabled:         getEnvBool("SCHEDULER_ENABLED", true),
			WarmupInterval:  getEnv("SCHEDULER_WARMUP_INTERVAL", "0 * * * *"),  // Hourly
			CleanupInterval: getEnv("SCHEDULER_CLEANUP_INTERVAL", "0 2 * * *"), // Daily at 2 AM
			TimeZone:        getEnv("SCHEDULER_TIMEZONE", "UTC"),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin:  getEnvInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
			BurstSize:       getEnvInt("RATE_LIMIT_BURST_SIZE", 10),
			CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 10*time.Minute),
		},

		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			Filename:   getEnv("LOG_FILENAME", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
	}

	return config
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}

	if c.Analysis.MaxHoldings <= 0 {
		return fmt.Errorf("analysis max holdings must be positive")
	}

	if c.Analysis.DefaultDriftThreshold < 0 || c.Analysis.DefaultDriftThreshold > 100 {
		return fmt.Errorf("default drift threshold must be between 0 and 100")
	}

	if c.Cache.Enabled && c.Cache.Host == "" {
		logrus.Warn("Cache enabled without a Redis host, falling back to direct computation")
	}

	return nil
}
