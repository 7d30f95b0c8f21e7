package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	AppEnv      string
	AppName     string
	Port        string
	CORSOrigins string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver          string // postgres | mysql
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	LogLevel        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

type JWTConfig struct {
	SecretKey string
	TTLHours  int
	Issuer    string

	// IdleMinutes ends a session that sent no heartbeat for this long.
	IdleMinutes int
}

// SeedConfig holds the credentials of the bootstrap MASTER_ADMIN account.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "development"),
			AppName:     getEnv("APP_NAME", "Stock POS v1.0"),
			Port:        getEnv("PORT", "3000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "stock_pos"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 3600),
		},
		JWT: JWTConfig{
			SecretKey:   getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			TTLHours:    getEnvInt("JWT_TTL_HOURS", 24),
			Issuer:      getEnv("JWT_ISSUER", "go-stock-pos"),
			IdleMinutes: getEnvInt("SESSION_IDLE_MINUTES", 5),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
