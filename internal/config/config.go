// Package config provides configuration for the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/starquake/quizroster/internal/logging"
)

// ErrUnknownBackend is returned when ROSTER_BACKEND names a backend we do not have.
var ErrUnknownBackend = errors.New("unknown roster backend")

const (
	// BackendMemory keeps the roster in a mutex-guarded map.
	BackendMemory = "memory"
	// BackendSQLite keeps the roster in a SQLite database, in memory by default.
	BackendSQLite = "sqlite"
)

const (
	// AppEnvironmentDefault is the default application environment.
	AppEnvironmentDefault = "development"
	// HostDefault is the default host to listen on. Can be an IP address or hostname.
	HostDefault = "localhost"
	// PortDefault is the default port to listen on.
	PortDefault = "5000"

	// BackendDefault is the default roster backend.
	BackendDefault = BackendMemory

	// DBDriverDefault is the default database driver. Currently, only sqlite is supported.
	DBDriverDefault = "sqlite"
	// DBURIDefault is the default database URI: a private in-memory database, gone when the process exits.
	DBURIDefault = ":memory:"
	// DBMaxOpenConnsDefault is the default maximum number of open database connections. Every connection to
	// ":memory:" opens a separate database, so the default is a single connection.
	DBMaxOpenConnsDefault = 1
	// DBMaxIdleConnsDefault is the default maximum number of idle database connections.
	DBMaxIdleConnsDefault = 1
	// DBConnMaxLifetimeDefault is the default maximum lifetime of a database connection. Zero means forever, which
	// keeps an in-memory database alive.
	DBConnMaxLifetimeDefault = time.Duration(0)

	// CORSAllowedOriginsDefault allows any origin.
	CORSAllowedOriginsDefault = "*"

	// LogLevelDefault is the default log level.
	LogLevelDefault = slog.LevelDebug
)

// Config represents the application configuration.
type Config struct {
	AppEnvironment string

	Host string
	Port string

	Backend string

	DBDriver string
	DBURI    string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	CORSAllowedOrigins []string

	LogLevel  slog.Level
	LogFormat string

	ClientDir string
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c.AppEnvironment == "production"
}

// Parse parses environment variables into the config.
func Parse(getenv func(string) string) (*Config, error) {
	c := Config{
		AppEnvironment:     AppEnvironmentDefault,
		Host:               HostDefault,
		Port:               PortDefault,
		Backend:            BackendDefault,
		DBDriver:           DBDriverDefault,
		DBURI:              DBURIDefault,
		DBMaxOpenConns:     DBMaxOpenConnsDefault,
		DBMaxIdleConns:     DBMaxIdleConnsDefault,
		DBConnMaxLifetime:  DBConnMaxLifetimeDefault,
		CORSAllowedOrigins: []string{CORSAllowedOriginsDefault},
		LogLevel:           LogLevelDefault,
		LogFormat:          logging.FormatText,
	}
	// Overwrite defaults with environment variables.
	if val := getenv("APP_ENV"); val != "" {
		c.AppEnvironment = val
	}
	if val := getenv("HOST"); val != "" {
		c.Host = val
	}
	if val := getenv("PORT"); val != "" {
		c.Port = val
	}
	if val := getenv("DB_DRIVER"); val != "" {
		c.DBDriver = val
	}
	if val := getenv("DB_URI"); val != "" {
		c.DBURI = val
	}
	if val := getenv("CLIENT_DIR"); val != "" {
		c.ClientDir = val
	}
	if val := getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitList(val)
	}

	// Strict validation for types
	if val := getenv("ROSTER_BACKEND"); val != "" {
		switch val {
		case BackendMemory, BackendSQLite:
			c.Backend = val
		default:
			return nil, fmt.Errorf("invalid ROSTER_BACKEND: %w: %q", ErrUnknownBackend, val)
		}
	}

	if val := getenv("DB_MAX_OPEN_CONNS"); val != "" {
		var err error
		c.DBMaxOpenConns, err = strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %q, err: %w", val, err)
		}
	}

	if val := getenv("DB_MAX_IDLE_CONNS"); val != "" {
		var err error
		c.DBMaxIdleConns, err = strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %q, err: %w", val, err)
		}
	}

	if val := getenv("DB_CONN_MAX_LIFETIME"); val != "" {
		var err error
		c.DBConnMaxLifetime, err = time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %q, err: %w", val, err)
		}
	}

	if val := getenv("LOG_LEVEL"); val != "" {
		var err error
		c.LogLevel, err = logging.ParseLevel(val)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	// Production logs are JSON, and the dashboard is always served from the embedded files.
	if c.IsProduction() {
		c.LogFormat = logging.FormatJSON
		c.ClientDir = ""
		if getenv("LOG_LEVEL") == "" {
			c.LogLevel = slog.LevelInfo
		}
	}

	return &c, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
