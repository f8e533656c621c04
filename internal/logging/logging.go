// Package logging provides logging functionality.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"
)

// ErrUnknownLevel is returned when a log level name is not recognized.
var ErrUnknownLevel = errors.New("unknown log level")

const (
	// FormatText writes logfmt-style lines.
	FormatText = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON = "json"

	// RequestIDHeader is the header used to pass the request ID to and from clients.
	RequestIDHeader = "X-Request-ID"
)

type ctxKey struct{}

// NewLogger creates a new slog.Logger writing to w.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel parses a level name like "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// ErrAttr creates a new attribute with the key "err" and the given error value.
func ErrAttr(err error) slog.Attr { return slog.Any("err", err) }

// Participant creates an attribute for a participant name.
func Participant(name string) slog.Attr { return slog.String("participant", name) }

// Quiz creates an attribute for a quiz identifier.
func Quiz(id string) slog.Attr { return slog.String("quiz", id) }

// RequestID returns the request ID stored in ctx, or an empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)

	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware assigns every request an ID and logs it once the handler returns.
// An incoming X-Request-ID header is reused.
func Middleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), ctxKey{}, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
