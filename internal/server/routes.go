package server

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizroster/internal/client"
	"github.com/starquake/quizroster/internal/config"
	"github.com/starquake/quizroster/internal/health"
	"github.com/starquake/quizroster/internal/rosterapi"
	"github.com/starquake/quizroster/internal/store"
)

// AddRoutes registers every route of the application on mux.
// Unmatched paths get the mux's own 404, and known paths with the wrong method its 405.
func AddRoutes(
	mux *http.ServeMux,
	logger *slog.Logger,
	cfg *config.Config,
	stores *store.Stores,
) {
	mux.Handle("GET /healthz", health.HandleHealthz(logger, stores))

	mux.Handle("POST /api/participants", rosterapi.HandleEnroll(logger, stores.Roster))
	mux.Handle("POST /api/scores/{participant}/{quizID}", rosterapi.HandleRecordScore(logger, stores.Roster))
	mux.Handle("GET /api/scores", rosterapi.HandleListScores(logger, stores.Roster))
	mux.Handle("GET /api/standings", rosterapi.HandleStandings(logger, stores.Roster))

	mux.Handle("GET "+client.Prefix+"/", client.Handler(cfg))
	mux.Handle("GET "+client.Prefix, http.RedirectHandler(client.Prefix+"/", http.StatusMovedPermanently))
}
