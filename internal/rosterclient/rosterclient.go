// Package rosterclient is a Go client for the roster HTTP API.
package rosterclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starquake/quizroster/internal/httputil"
	"github.com/starquake/quizroster/internal/roster"
	"github.com/starquake/quizroster/internal/rosterapi"
)

const defaultTimeout = 10 * time.Second

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("roster api: %d %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("roster api: %d %s (%s)", e.StatusCode, e.Message, strings.Join(e.Details, "; "))
}

// Client talks to a roster server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for the server at baseURL, e.g. "http://localhost:5000".
// If httpClient is nil, a client with a 10 second timeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Enroll enrolls a comma-separated list of participants in quizIDs and returns the roster.
func (c *Client) Enroll(ctx context.Context, participants string, quizIDs []string) (roster.Roster, error) {
	if quizIDs == nil {
		quizIDs = []string{}
	}
	var res rosterapi.EnrollResponse
	err := c.do(ctx, http.MethodPost, "/api/participants",
		rosterapi.EnrollRequest{Participants: participants, QuizIDs: quizIDs}, &res)
	if err != nil {
		return nil, err
	}

	return res.Participants, nil
}

// RecordScore records score for participant in quizID and returns the roster.
func (c *Client) RecordScore(ctx context.Context, participant, quizID string, score float64) (roster.Roster, error) {
	path := "/api/scores/" + url.PathEscape(participant) + "/" + url.PathEscape(quizID)
	var res rosterapi.ScoreResponse
	if err := c.do(ctx, http.MethodPost, path, rosterapi.ScoreRequest{Score: score}, &res); err != nil {
		return nil, err
	}

	return res.Participants, nil
}

// List returns the whole roster.
func (c *Client) List(ctx context.Context) (roster.Roster, error) {
	var res roster.Roster
	if err := c.do(ctx, http.MethodGet, "/api/scores", nil, &res); err != nil {
		return nil, err
	}

	return res, nil
}

// Standings returns the standings, best average first.
func (c *Client) Standings(ctx context.Context) ([]roster.Standing, error) {
	var res []roster.Standing
	if err := c.do(ctx, http.MethodGet, "/api/standings", nil, &res); err != nil {
		return nil, err
	}

	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errRes httputil.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errRes) == nil && errRes.Error != "" {
			apiErr.Message = errRes.Error
			apiErr.Details = errRes.Details
		}

		return apiErr
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
