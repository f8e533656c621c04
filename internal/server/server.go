// Package server contains everything related to the Server
package server

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizroster/internal/config"
	"github.com/starquake/quizroster/internal/logging"
	"github.com/starquake/quizroster/internal/store"
)

// NewServer creates a new server.
func NewServer(logger *slog.Logger, cfg *config.Config, stores *store.Stores) http.Handler {
	mux := http.NewServeMux()
	AddRoutes(mux, logger, cfg, stores)
	var handler http.Handler = mux
	handler = CORS(cfg.CORSAllowedOrigins, handler)
	handler = logging.Middleware(logger, handler)

	return handler
}
