package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starquake/quizroster/internal/logging"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.NewLogger(&buf, slog.LevelDebug, logging.FormatText)
		logger.Debug("debug message", logging.ErrAttr(errors.New("debug error")))

		got := buf.String()
		if want := "msg=\"debug message\""; !strings.Contains(got, want) {
			t.Errorf("got %q, want substring %q", got, want)
		}
		if want := "err=\"debug error\""; !strings.Contains(got, want) {
			t.Errorf("got %q, want substring %q", got, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.NewLogger(&buf, slog.LevelInfo, logging.FormatJSON)
		logger.Info("info message", logging.Participant("alice"), logging.Quiz("q1"))

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("error decoding log line %q: %v", buf.String(), err)
		}
		if got, want := line["msg"], "info message"; got != want {
			t.Errorf("got msg %v, want %v", got, want)
		}
		if got, want := line["participant"], "alice"; got != want {
			t.Errorf("got participant %v, want %v", got, want)
		}
		if got, want := line["quiz"], "q1"; got != want {
			t.Errorf("got quiz %v, want %v", got, want)
		}
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.NewLogger(&buf, slog.LevelWarn, logging.FormatText)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("got %q, want no output", buf.String())
		}
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseLevel(tt.in)
			if tt.wantErr {
				if !errors.Is(err, logging.ErrUnknownLevel) {
					t.Errorf("got error %v, want %v", err, logging.ErrUnknownLevel)
				}

				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrAttr(t *testing.T) {
	t.Parallel()

	err := errors.New("jedi error")
	attr := logging.ErrAttr(err)
	if got, want := attr.Key, "err"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := attr.Value.String(), err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates request id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.NewLogger(&buf, slog.LevelDebug, logging.FormatText)

		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logging.RequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		})

		rec := httptest.NewRecorder()
		logging.Middleware(logger, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

		if seen == "" {
			t.Fatal("request id not set in context")
		}
		if got := rec.Header().Get(logging.RequestIDHeader); got != seen {
			t.Errorf("got header %q, want %q", got, seen)
		}
		logs := buf.String()
		for _, want := range []string{"request_id=" + seen, "path=/api/scores", "status=418", "method=GET"} {
			if !strings.Contains(logs, want) {
				t.Errorf("got logs %q, want substring %q", logs, want)
			}
		}
	})

	t.Run("reuses incoming request id", func(t *testing.T) {
		t.Parallel()

		logger := logging.NewLogger(&bytes.Buffer{}, slog.LevelDebug, logging.FormatText)
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(logging.RequestIDHeader, "abc123")
		rec := httptest.NewRecorder()
		logging.Middleware(logger, next).ServeHTTP(rec, req)

		if got, want := rec.Header().Get(logging.RequestIDHeader), "abc123"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
