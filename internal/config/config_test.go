package config_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	. "github.com/starquake/quizroster/internal/config"
	"github.com/starquake/quizroster/internal/logging"
)

func getenvFailure(failureKey, value string) func(string) string {
	envs := map[string]string{
		"APP_ENV":              "test",
		"HOST":                 "127.0.0.1",
		"PORT":                 "5432",
		"ROSTER_BACKEND":       "sqlite",
		"DB_URI":               "file:roster.sqlite",
		"DB_MAX_OPEN_CONNS":    "100",
		"DB_MAX_IDLE_CONNS":    "200",
		"DB_CONN_MAX_LIFETIME": "10m",
		"LOG_LEVEL":            "warn",
	}

	return func(key string) string {
		if key == failureKey {
			return value
		}

		return envs[key]
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parse config", func(t *testing.T) {
		t.Parallel()

		envs := map[string]string{
			"APP_ENV":              "test",
			"HOST":                 "127.0.0.1",
			"PORT":                 "5432",
			"ROSTER_BACKEND":       "sqlite",
			"DB_DRIVER":            "sqlite3",
			"DB_URI":               "file:roster.sqlite",
			"DB_MAX_OPEN_CONNS":    "100",
			"DB_MAX_IDLE_CONNS":    "200",
			"DB_CONN_MAX_LIFETIME": "10m",
			"CORS_ALLOWED_ORIGINS": "http://localhost:5173, https://quiz.example.com,",
			"LOG_LEVEL":            "warn",
			"CLIENT_DIR":           "web/static",
		}

		getenv := func(key string) string {
			return envs[key]
		}
		c, err := Parse(getenv)
		if err != nil {
			t.Fatalf("error parsing config: %v", err)
		}

		want := &Config{
			AppEnvironment:     "test",
			Host:               "127.0.0.1",
			Port:               "5432",
			Backend:            BackendSQLite,
			DBDriver:           "sqlite3",
			DBURI:              "file:roster.sqlite",
			DBMaxOpenConns:     100,
			DBMaxIdleConns:     200,
			DBConnMaxLifetime:  10 * time.Minute,
			CORSAllowedOrigins: []string{"http://localhost:5173", "https://quiz.example.com"},
			LogLevel:           slog.LevelWarn,
			LogFormat:          logging.FormatText,
			ClientDir:          "web/static",
		}
		if diff := cmp.Diff(want, c); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fallback values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			key    string
			wantFn func(c Config) bool
		}{
			{
				name:   "fallback App Environment",
				key:    "APP_ENV",
				wantFn: func(c Config) bool { return c.AppEnvironment == AppEnvironmentDefault },
			},
			{
				name:   "fallback Host",
				key:    "HOST",
				wantFn: func(c Config) bool { return c.Host == HostDefault },
			},
			{
				name:   "fallback Port",
				key:    "PORT",
				wantFn: func(c Config) bool { return c.Port == PortDefault },
			},
			{
				name:   "fallback Backend",
				key:    "ROSTER_BACKEND",
				wantFn: func(c Config) bool { return c.Backend == BackendDefault },
			},
			{
				name:   "fallback DB URI",
				key:    "DB_URI",
				wantFn: func(c Config) bool { return c.DBURI == DBURIDefault },
			},
			{
				name:   "fallback Max Open Connections",
				key:    "DB_MAX_OPEN_CONNS",
				wantFn: func(c Config) bool { return c.DBMaxOpenConns == DBMaxOpenConnsDefault },
			},
			{
				name:   "fallback Max Idle Connections",
				key:    "DB_MAX_IDLE_CONNS",
				wantFn: func(c Config) bool { return c.DBMaxIdleConns == DBMaxIdleConnsDefault },
			},
			{
				name:   "fallback Connection Max Connection Lifetime",
				key:    "DB_CONN_MAX_LIFETIME",
				wantFn: func(c Config) bool { return c.DBConnMaxLifetime == DBConnMaxLifetimeDefault },
			},
			{
				name:   "fallback Log Level",
				key:    "LOG_LEVEL",
				wantFn: func(c Config) bool { return c.LogLevel == LogLevelDefault },
			},
			{
				name: "fallback CORS origins",
				key:  "CORS_ALLOWED_ORIGINS",
				wantFn: func(c Config) bool {
					return len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == CORSAllowedOriginsDefault
				},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				getenv := getenvFailure(tt.key, "")
				c, err := Parse(getenv)
				if err != nil {
					t.Fatalf("error parsing config: %v", err)
				}
				if want := tt.wantFn(*c); !want {
					t.Errorf("got %+v, want fallback for %s", c, tt.key)
				}
			})
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			getenv func(string) string
		}{
			{"DB_MAX_OPEN_CONNS is not an int", getenvFailure("DB_MAX_OPEN_CONNS", "One")},
			{"DB_MAX_IDLE_CONNS is not an int", getenvFailure("DB_MAX_IDLE_CONNS", "Two")},
			{"DB_CONN_MAX_LIFETIME is not a duration", getenvFailure("DB_CONN_MAX_LIFETIME", "Three")},
			{"LOG_LEVEL is unknown", getenvFailure("LOG_LEVEL", "shouty")},
			{"ROSTER_BACKEND is unknown", getenvFailure("ROSTER_BACKEND", "redis")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := Parse(tt.getenv)
				if err == nil {
					t.Fatal("expected error parsing config")
				}
			})
		}
	})

	t.Run("unknown backend error", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(getenvFailure("ROSTER_BACKEND", "redis"))
		if got, want := err, ErrUnknownBackend; !errors.Is(got, want) {
			t.Fatalf("got error %v, want %v", got, want)
		}
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()

		getenv := func(key string) string {
			envs := map[string]string{
				"APP_ENV":    "production",
				"CLIENT_DIR": "should/be/overridden",
			}

			return envs[key]
		}

		c, err := Parse(getenv)
		if err != nil {
			t.Fatalf("error parsing config: %v", err)
		}
		if !c.IsProduction() {
			t.Error("IsProduction() = false, want true")
		}
		if c.ClientDir != "" {
			t.Errorf("got %q, want empty string for production default", c.ClientDir)
		}
		if got, want := c.LogFormat, logging.FormatJSON; got != want {
			t.Errorf("got log format %q, want %q", got, want)
		}
		if got, want := c.LogLevel, slog.LevelInfo; got != want {
			t.Errorf("got log level %v, want %v", got, want)
		}
	})
}
