package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Driver          string `mapstructure:"DB_DRIVER"`
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	SQLitePath      string `mapstructure:"DB_SQLITE_PATH"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME_SECONDS"`
	MigrationsDir   string `mapstructure:"MIGRATIONS_DIR"`
	AutoMigrate     bool   `mapstructure:"DB_AUTO_MIGRATE"` // goose on postgres; GORM schema plus demo rows on sqlite
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	GRPCPort               string `mapstructure:"GRPC_PORT"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// RedisConfig holds configuration for the Redis cache
type RedisConfig struct {
	Enabled     bool   `mapstructure:"REDIS_ENABLED"`
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL_SECONDS"`
}

// RateLimitConfig holds configuration for the Redis-backed rate limiter
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond int  `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	BurstCapacity     int  `mapstructure:"RATE_LIMIT_BURST_CAPACITY"`
	WindowSeconds     int  `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
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

// LoadConfig reads configuration from app.env in path and from environment
// variables, the latter taking precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Driver = v.GetString("DB_DRIVER")
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.SQLitePath = v.GetString("DB_SQLITE_PATH")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME_SECONDS")
	config.DB.MigrationsDir = v.GetString("MIGRATIONS_DIR")
	config.DB.AutoMigrate = v.GetBool("DB_AUTO_MIGRATE")

	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL_SECONDS")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetInt("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST_CAPACITY")
	config.RateLimit.WindowSeconds = v.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "employees")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "employees.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_TTL_SECONDS", 300)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 100)
	v.SetDefault("RATE_LIMIT_BURST_CAPACITY", 200)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Logger defaults
	_ = v.BindEnv("APP_ENV")
	if env := v.GetString("APP_ENV"); env == "production" {
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
	v.SetDefault("SERVICE_NAME", "employee-qbe-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// Validate rejects configurations the application cannot start with.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the postgres driver"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for the postgres driver"))
		}
		if err := validatePort("DB_PORT", c.DB.Port); err != nil {
			errs = append(errs, err)
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			errs = append(errs, errors.New("DB_SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DB.Driver))
	}

	if c.DB.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS"))
	}

	if err := validatePort("HTTP_PORT", c.App.HTTPPort); err != nil {
		errs = append(errs, err)
	}
	if err := validatePort("GRPC_PORT", c.App.GRPCPort); err != nil {
		errs = append(errs, err)
	}
	if c.App.HTTPPort == c.App.GRPCPort {
		errs = append(errs, errors.New("HTTP_PORT and GRPC_PORT must differ"))
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}

	if c.Redis.Enabled {
		if err := validatePort("REDIS_PORT", c.Redis.Port); err != nil {
			errs = append(errs, err)
		}
		if c.Redis.CacheTTL <= 0 {
			errs = append(errs, errors.New("REDIS_CACHE_TTL_SECONDS must be positive"))
		}
		if c.Redis.PoolSize <= 0 {
			errs = append(errs, errors.New("REDIS_POOL_SIZE must be positive"))
		}
	}

	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			errs = append(errs, errors.New("RATE_LIMIT_ENABLED requires REDIS_ENABLED"))
		}
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_REQUESTS_PER_SECOND must be positive"))
		}
		if c.RateLimit.BurstCapacity < 0 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST_CAPACITY must not be negative"))
		}
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logger.Format))
	}

	return errors.Join(errs...)
}

func validatePort(name, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s must be a port number between 1 and 65535, got %q", name, port)
	}
	return nil
}
