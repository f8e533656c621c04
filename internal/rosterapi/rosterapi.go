// Package rosterapi provides HTTP handlers for the roster API used by the quiz front end.
package rosterapi

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizroster/internal/httputil"
	"github.com/starquake/quizroster/internal/logging"
	"github.com/starquake/quizroster/internal/must"
	"github.com/starquake/quizroster/internal/roster"
)

const (
	// MessageEnrolled is returned after a successful enrollment.
	MessageEnrolled = "Participants added successfully"
	// MessageScoreUpdated is returned after a score was recorded, including for unknown participants.
	MessageScoreUpdated = "Score updated successfully"
)

// EnrollRequest is the body of an enrollment.
type EnrollRequest struct {
	Participants string   `json:"participants"`
	QuizIDs      []string `json:"quizIds"`
}

// EnrollResponse is returned by HandleEnroll.
type EnrollResponse struct {
	Participants roster.Roster `json:"participants"`
	Message      string        `json:"message"`
}

// ScoreRequest is the body of a score update.
type ScoreRequest struct {
	Score float64 `json:"score"`
}

// ScoreResponse is returned by HandleRecordScore.
type ScoreResponse struct {
	Message      string        `json:"message"`
	Participants roster.Roster `json:"participants"`
}

// HandleEnroll enrolls a comma-separated list of participants in the given quizzes.
// Participants that are already enrolled are left untouched.
// Returns 200 with the whole roster.
// Returns 400 if the request body is invalid.
// Returns 500 if the store fails.
func HandleEnroll(logger *slog.Logger, store roster.Store) http.Handler {
	schema := must.Any(compileSchema("enroll"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		req, err := httputil.DecodeValidJSON[EnrollRequest](r, schema)
		if err != nil {
			badRequest(w, r, logger, err)

			return
		}

		names := roster.ParseNames(req.Participants)
		participants, err := store.Enroll(ctx, names, req.QuizIDs)
		if err != nil {
			internalError(w, r, logger, "error enrolling participants", err)

			return
		}

		logger.InfoContext(ctx, "participants enrolled",
			slog.Any("participants", names),
			slog.Any("quizzes", req.QuizIDs),
		)

		err = httputil.EncodeJSON(w, http.StatusOK, EnrollResponse{Participants: participants, Message: MessageEnrolled})
		if err != nil {
			logger.ErrorContext(ctx, "error encoding enrollResponse", logging.ErrAttr(err))

			return
		}
	})
}

// HandleRecordScore records the score of the participant and quiz named in the path.
// Unknown participants are not an error: the roster is returned unchanged.
// Returns 200 with the whole roster.
// Returns 400 if the request body is invalid.
// Returns 500 if the store fails.
func HandleRecordScore(logger *slog.Logger, store roster.Store) http.Handler {
	schema := must.Any(compileSchema("score"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := r.PathValue("participant")
		quizID := r.PathValue("quizID")

		req, err := httputil.DecodeValidJSON[ScoreRequest](r, schema)
		if err != nil {
			badRequest(w, r, logger, err)

			return
		}

		participants, err := store.RecordScore(ctx, name, quizID, req.Score)
		if err != nil {
			internalError(w, r, logger, "error recording score", err)

			return
		}

		logger.InfoContext(ctx, "score recorded",
			logging.Participant(name),
			logging.Quiz(quizID),
			slog.Float64("score", req.Score),
		)

		err = httputil.EncodeJSON(w, http.StatusOK, ScoreResponse{Message: MessageScoreUpdated, Participants: participants})
		if err != nil {
			logger.ErrorContext(ctx, "error encoding scoreResponse", logging.ErrAttr(err))

			return
		}
	})
}

// HandleListScores returns the whole roster.
func HandleListScores(logger *slog.Logger, store roster.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		participants, err := store.List(r.Context())
		if err != nil {
			internalError(w, r, logger, "error listing scores", err)

			return
		}

		err = httputil.EncodeJSON(w, http.StatusOK, participants)
		if err != nil {
			logger.ErrorContext(r.Context(), "error encoding roster", logging.ErrAttr(err))

			return
		}
	})
}

// HandleStandings returns every participant's completed quiz count and average score, best first.
func HandleStandings(logger *slog.Logger, store roster.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		participants, err := store.List(r.Context())
		if err != nil {
			internalError(w, r, logger, "error listing scores", err)

			return
		}

		err = httputil.EncodeJSON(w, http.StatusOK, roster.Standings(participants))
		if err != nil {
			logger.ErrorContext(r.Context(), "error encoding standings", logging.ErrAttr(err))

			return
		}
	})
}

func badRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.InfoContext(r.Context(), "rejected request body", logging.ErrAttr(err))
	if encErr := httputil.EncodeError(w, http.StatusBadRequest, err.Error(), err); encErr != nil {
		logger.ErrorContext(r.Context(), "error encoding error response", logging.ErrAttr(encErr))
	}
}

func internalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(r.Context(), msg, logging.ErrAttr(err))
	if encErr := httputil.EncodeError(w, http.StatusInternalServerError, msg, err); encErr != nil {
		logger.ErrorContext(r.Context(), "error encoding error response", logging.ErrAttr(encErr))
	}
}
