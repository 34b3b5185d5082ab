package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultAdminPassword = "BARBERSTATUSADM"

const (
	StorageDriverFile   = "file"
	StorageDriverMySQL  = "mysql"
	StorageDriverMemory = "memory"

	SessionDriverMemory = "memory"
	SessionDriverRedis  = "redis"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Log      LogConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name string
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Driver     string
	DataDir    string
	SeedOnBoot bool
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AdminPassword string
	SessionDriver string
	SessionTTL    time.Duration
	CookieName    string
	CookieSecure  bool
	LandingPath   string
	LoginPath     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is loaded first and never overrides variables that
// are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "barber-status-2026")
	v.SetDefault("PORT", 10000)
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORAGE_DRIVER", StorageDriverFile)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("SEED_ON_BOOT", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "barbershop")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "barbershop")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("ADMIN_PASSWORD", DefaultAdminPassword)
	v.SetDefault("SESSION_DRIVER", SessionDriverMemory)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE_NAME", "session_id")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("ADMIN_LANDING_PATH", "/admin/admin.html")
	v.SetDefault("ADMIN_LOGIN_PATH", "/admin")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT",
		"SHUTDOWN_TIMEOUT",
		"DB_CONN_MAX_LIFETIME",
		"SESSION_TTL",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("PORT"),
			ReadTimeout:     durations["SERVER_READ_TIMEOUT"],
			WriteTimeout:    durations["SERVER_WRITE_TIMEOUT"],
			IdleTimeout:     durations["SERVER_IDLE_TIMEOUT"],
			ShutdownTimeout: durations["SHUTDOWN_TIMEOUT"],
		},
		Storage: StorageConfig{
			Driver:     v.GetString("STORAGE_DRIVER"),
			DataDir:    v.GetString("DATA_DIR"),
			SeedOnBoot: v.GetBool("SEED_ON_BOOT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Auth: AuthConfig{
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
			SessionDriver: v.GetString("SESSION_DRIVER"),
			SessionTTL:    durations["SESSION_TTL"],
			CookieName:    v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure:  v.GetBool("SESSION_COOKIE_SECURE"),
			LandingPath:   v.GetString("ADMIN_LANDING_PATH"),
			LoginPath:     v.GetString("ADMIN_LOGIN_PATH"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Tracing: TracingConfig{
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("APP_NAME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Server.Port)
	}

	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverMySQL, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Auth.SessionDriver {
	case SessionDriverMemory, SessionDriverRedis:
	default:
		return fmt.Errorf("unknown session driver %q", c.Auth.SessionDriver)
	}

	if c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD must not be empty")
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// UsesDefaultAdminPassword reports whether the shared secret was left at its
// built-in value.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Auth.AdminPassword == DefaultAdminPassword
}
