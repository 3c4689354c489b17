package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"user-directory/internal/ordering"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Journal   JournalConfig
	Sort      SortConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	GRPCPort               string `mapstructure:"GRPC_PORT"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// RedisConfig holds configuration for the Redis view cache and rate limiter
type RedisConfig struct {
	Enabled             bool   `mapstructure:"REDIS_ENABLED"`
	Host                string `mapstructure:"REDIS_HOST"`
	Port                string `mapstructure:"REDIS_PORT"`
	Password            string `mapstructure:"REDIS_PASSWORD"`
	DB                  int    `mapstructure:"REDIS_DB"`
	MaxRetries          int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize            int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn         int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	ViewCacheTTLSeconds int    `mapstructure:"VIEW_CACHE_TTL_SECONDS"`
}

// RateLimitConfig holds configuration for request rate limiting
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS"`
	WindowSeconds     int     `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
}

// JournalConfig holds configuration for the change journal
type JournalConfig struct {
	Enabled   bool   `mapstructure:"JOURNAL_ENABLED"`
	Driver    string `mapstructure:"JOURNAL_DRIVER"`
	DSN       string `mapstructure:"JOURNAL_DSN"`
	QueueSize int    `mapstructure:"JOURNAL_QUEUE_SIZE"`
}

// SortConfig holds the sort applied to listings that name none
type SortConfig struct {
	Field     string `mapstructure:"DEFAULT_SORT_FIELD"`
	Direction string `mapstructure:"DEFAULT_SORT_DIRECTION"`
}

// Journal drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	// Manually populate config from viper
	config.App.Env = v.GetString("APP_ENV")
	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.ViewCacheTTLSeconds = v.GetInt("VIEW_CACHE_TTL_SECONDS")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.WindowSeconds = v.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	config.Journal.Enabled = v.GetBool("JOURNAL_ENABLED")
	config.Journal.Driver = strings.ToLower(v.GetString("JOURNAL_DRIVER"))
	config.Journal.DSN = v.GetString("JOURNAL_DSN")
	config.Journal.QueueSize = v.GetInt("JOURNAL_QUEUE_SIZE")

	config.Sort.Field = v.GetString("DEFAULT_SORT_FIELD")
	config.Sort.Direction = v.GetString("DEFAULT_SORT_DIRECTION")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// Logger defaults
	v.AutomaticEnv()
	env := v.GetString("APP_ENV")
	if env == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-directory")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	// Redis is optional; without it views are sorted per request and rate limiting is off
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("VIEW_CACHE_TTL_SECONDS", 300)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	v.SetDefault("JOURNAL_ENABLED", false)
	v.SetDefault("JOURNAL_DRIVER", DriverSQLite)
	v.SetDefault("JOURNAL_DSN", "journal.db")
	v.SetDefault("JOURNAL_QUEUE_SIZE", 256)

	v.SetDefault("DEFAULT_SORT_FIELD", ordering.DefaultKey.Field.String())
	v.SetDefault("DEFAULT_SORT_DIRECTION", ordering.DefaultKey.Direction.String())
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validatePort("GRPC_PORT", c.App.GRPCPort); err != nil {
		return err
	}
	if err := validatePort("HTTP_PORT", c.App.HTTPPort); err != nil {
		return err
	}
	if c.App.GRPCPort == c.App.HTTPPort {
		return fmt.Errorf("GRPC_PORT and HTTP_PORT must differ: both are %s", c.App.GRPCPort)
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.App.ShutdownTimeoutSeconds)
	}

	if c.Redis.Enabled && c.Redis.ViewCacheTTLSeconds <= 0 {
		return fmt.Errorf("VIEW_CACHE_TTL_SECONDS must be positive, got %d", c.Redis.ViewCacheTTLSeconds)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RequestsPerSecond)
		}
		if c.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", c.RateLimit.WindowSeconds)
		}
	}

	if c.Journal.Enabled {
		switch c.Journal.Driver {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("JOURNAL_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Journal.Driver)
		}
		if c.Journal.DSN == "" {
			return fmt.Errorf("JOURNAL_DSN is required when the journal is enabled")
		}
		if c.Journal.QueueSize <= 0 {
			return fmt.Errorf("JOURNAL_QUEUE_SIZE must be positive, got %d", c.Journal.QueueSize)
		}
	}

	if _, err := c.Sort.Key(); err != nil {
		return err
	}

	return nil
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// ViewCacheTTL returns how long ordered views stay cached.
func (c *RedisConfig) ViewCacheTTL() time.Duration {
	return time.Duration(c.ViewCacheTTLSeconds) * time.Second
}

// Addr returns the host:port address of the Redis server.
func (c *RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Key resolves the configured default sort.
func (c *SortConfig) Key() (ordering.Key, error) {
	field, err := ordering.ParseField(c.Field)
	if err != nil {
		return ordering.Key{}, fmt.Errorf("DEFAULT_SORT_FIELD: %w", err)
	}
	dir, err := ordering.ParseDirection(c.Direction)
	if err != nil {
		return ordering.Key{}, fmt.Errorf("DEFAULT_SORT_DIRECTION: %w", err)
	}
	return ordering.Key{Field: field, Direction: dir}, nil
}

func validatePort(name, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s must be a port number between 1 and 65535, got %q", name, port)
	}
	return nil
}
