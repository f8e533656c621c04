package rosterclient_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starquake/quizroster/internal/config"
	"github.com/starquake/quizroster/internal/roster"
	"github.com/starquake/quizroster/internal/rosterclient"
	"github.com/starquake/quizroster/internal/server"
	"github.com/starquake/quizroster/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	cfg := &config.Config{CORSAllowedOrigins: []string{"*"}}
	srv := httptest.NewServer(server.NewServer(logger, cfg, store.NewMemory(logger)))
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	c := rosterclient.New(srv.URL+"/", nil)
	ctx := t.Context()

	r, err := c.Enroll(ctx, "alice, mary ann", []string{"q1", "q/2"})
	require.NoError(t, err)
	assert.Len(t, r, 2)
	assert.Equal(t, []string{"q1", "q/2"}, r["mary ann"].Quizzes)

	r, err = c.RecordScore(ctx, "mary ann", "q/2", 75)
	require.NoError(t, err)
	require.NotNil(t, r["mary ann"].Scores["q/2"])
	assert.InDelta(t, 75.0, *r["mary ann"].Scores["q/2"], 0)

	r, err = c.RecordScore(ctx, "nobody", "q1", 10)
	require.NoError(t, err)
	assert.NotContains(t, r, "nobody")

	listed, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, r, listed)

	standings, err := c.Standings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []roster.Standing{
		{Name: "mary ann", Completed: 1, Average: 75},
		{Name: "alice", Completed: 0, Average: 0},
	}, standings)
}

func TestClient_EnrollWithoutQuizzes(t *testing.T) {
	t.Parallel()

	c := rosterclient.New(newTestServer(t).URL, nil)

	r, err := c.Enroll(t.Context(), "zoe", nil)
	require.NoError(t, err)
	assert.Empty(t, r["zoe"].Quizzes)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid request body","details":["/: missing property 'score'"]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := rosterclient.New(srv.URL, nil).RecordScore(t.Context(), "alice", "q1", 1)

	var apiErr *rosterclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid request body", apiErr.Message)
	assert.Equal(t, []string{"/: missing property 'score'"}, apiErr.Details)
	assert.Contains(t, apiErr.Error(), "missing property")
}

func TestClient_PlainTextError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := rosterclient.New(srv.URL, nil).List(t.Context())

	var apiErr *rosterclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Message)
}
