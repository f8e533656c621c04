// Package testutil contains utilities for testing.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"testing"
	"time"
)

const (
	clientTimeout             = 5 * time.Second
	waitForReadyRetryInterval = 100 * time.Millisecond
)

// SignalCtx returns a context that is canceled when the test is interrupted
// (e.g., via the Stop button in an IDE) or when stop is called.
func SignalCtx(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, stop := signal.NotifyContext(t.Context(), os.Interrupt)
	t.Cleanup(stop)

	return ctx, stop
}

// TestWriter is an io.Writer that forwards writes to tb.Log.
// It is safe for concurrent use.
type TestWriter struct {
	tb testing.TB
	mu sync.Mutex
}

// NewTestWriter creates a new TestWriter that forwards writes to tb.Log.
func NewTestWriter(tb testing.TB) *TestWriter {
	tb.Helper()

	return &TestWriter{tb: tb}
}

// Write forwards writes to tb.Log.
func (w *TestWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tb.Logf("%s", bytes.TrimRight(p, "\n"))

	return len(p), nil
}

// WaitForReady polls endpoint until it answers 200, the context is canceled or the timeout is reached.
func WaitForReady(ctx context.Context, t *testing.T, timeout time.Duration, endpoint string) error {
	t.Helper()

	client := http.Client{Timeout: clientTimeout}
	ticker := time.NewTicker(waitForReadyRetryInterval)
	defer ticker.Stop()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil {
			closeErr := resp.Body.Close()
			if closeErr != nil {
				return fmt.Errorf("failed to close response body: %w", closeErr)
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-timeoutCtx.Done():
			return fmt.Errorf("timeout waiting for endpoint: %w", timeoutCtx.Err())
		case <-ticker.C:
		}
	}
}

// DoJSON sends body (if not nil) as JSON to url and decodes the JSON response into out (if not nil).
// It returns the response status code.
func DoJSON(ctx context.Context, t *testing.T, method, url string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := http.Client{Timeout: clientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("failed to %s %s: %v", method, url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response of %s %s: %v", method, url, err)
		}
	}

	return resp.StatusCode
}
