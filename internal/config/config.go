package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"user-directory/pkg/logger"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Logger    LoggerConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Web       WebConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Driver          string `mapstructure:"DB_DRIVER"`
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME_SECONDS"`
}

// AppConfig holds configuration for the API server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	CORSOrigin             string `mapstructure:"CORS_ORIGIN"`
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
	MaxSizeMB        int     `mapstructure:"LOG_MAX_SIZE_MB"`
	MaxBackups       int     `mapstructure:"LOG_MAX_BACKUPS"`
	MaxAgeDays       int     `mapstructure:"LOG_MAX_AGE_DAYS"`
}

// CacheConfig selects the read-through cache in front of the store
type CacheConfig struct {
	Backend    string `mapstructure:"CACHE_BACKEND"` // none, memory or redis
	TTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// RateLimitConfig holds configuration for the Redis backed rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	WindowSeconds     int     `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
}

// WebConfig holds configuration for the HTML frontend
type WebConfig struct {
	Port              string `mapstructure:"WEB_PORT"`
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv() // Read from environment variables

	// Defaults depend on APP_ENV, so the environment is wired first
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	// PORT is what most hosting platforms inject
	if err := v.BindEnv("HTTP_PORT", "HTTP_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind HTTP_PORT: %w", err)
	}

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	config.DB.URL = v.GetString("DATABASE_URL")
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME_SECONDS")

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	config.App.CORSOrigin = v.GetString("CORS_ORIGIN")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")
	config.Logger.MaxSizeMB = v.GetInt("LOG_MAX_SIZE_MB")
	config.Logger.MaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	config.Logger.MaxAgeDays = v.GetInt("LOG_MAX_AGE_DAYS")

	config.Cache.Backend = strings.ToLower(v.GetString("CACHE_BACKEND"))
	config.Cache.TTLSeconds = v.GetInt("CACHE_TTL_SECONDS")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.WindowSeconds = v.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	config.Web.Port = v.GetString("WEB_PORT")
	config.Web.APIBaseURL = v.GetString("API_BASE_URL")
	config.Web.APITimeoutSeconds = v.GetInt("API_TIMEOUT_SECONDS")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "user_directory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)

	v.SetDefault("HTTP_PORT", "5000")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("CORS_ORIGIN", "*")

	// Logger defaults
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
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("SERVICE_NAME", "user-directory")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("CACHE_BACKEND", "none")
	v.SetDefault("CACHE_TTL_SECONDS", 300)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 10.0)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	v.SetDefault("WEB_PORT", "3000")
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("API_TIMEOUT_SECONDS", 10)
}

// Validate checks the configuration before any dependency is created.
func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case "postgres":
	case "sqlite":
		if c.DB.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}

	if c.App.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}

	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend))
	}
	if c.Cache.Backend != "none" && c.Cache.TTLSeconds <= 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must be positive"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.WindowSeconds <= 0 {
			errs = append(errs, errors.New("rate limit requires positive RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_WINDOW_SECONDS"))
		}
	}

	return errors.Join(errs...)
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Cache.Backend == "redis" || c.RateLimit.Enabled
}

// LoggerOptions maps the LOG_* settings onto a logger config for one binary.
func (c *Config) LoggerOptions(component string) logger.Config {
	return logger.Config{
		Level:          c.Logger.Level,
		Format:         c.Logger.Format,
		OutputPath:     c.Logger.OutputPath,
		EnableSampling: c.Logger.EnableSampling,
		ServiceName:    c.Logger.ServiceName,
		ServiceVersion: c.Logger.ServiceVersion,
		Environment:    c.App.Env,
		Component:      component,
		Rotation: logger.Rotation{
			MaxSizeMB:  c.Logger.MaxSizeMB,
			MaxBackups: c.Logger.MaxBackups,
			MaxAgeDays: c.Logger.MaxAgeDays,
		},
	}
}

// ValidateWeb checks the settings the HTML frontend needs.
func (c *Config) ValidateWeb() error {
	if c.Web.Port == "" {
		return errors.New("WEB_PORT is required")
	}
	u, err := url.Parse(c.Web.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.Web.APIBaseURL)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
// DATABASE_URL wins over the discrete DB_* settings.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
