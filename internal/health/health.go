// Package health provides health check endpoints.
package health

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starquake/quizroster/internal/httputil"
	"github.com/starquake/quizroster/internal/logging"
	"github.com/starquake/quizroster/internal/store"
)

// Status is the body of a health check response.
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleHealthz returns a handler that serves health check responses.
// It responds 503 when the roster backend does not answer a ping.
func HandleHealthz(logger *slog.Logger, stores *store.Stores) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		httpStatus := http.StatusOK
		health := Status{
			Status: "ok",
			Checks: make(map[string]string),
		}

		if err := stores.Roster.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Checks["roster"] = fmt.Sprintf("unhealthy: %v", err)
			httpStatus = http.StatusServiceUnavailable
			logger.ErrorContext(ctx, "roster backend unhealthy", logging.ErrAttr(err))
		} else {
			health.Checks["roster"] = "healthy"
		}

		logger.DebugContext(ctx, "health check performed", slog.String("status", health.Status))
		if err := httputil.EncodeJSON(w, httpStatus, health); err != nil {
			logger.ErrorContext(ctx, "error encoding health status", logging.ErrAttr(err))
		}
	})
}
